package dto

type AvatarResponse struct {
	URL          string `json:"url"`
	ExpiresInSec int64  `json:"expires_in_sec"`
}

type AvatarEnvelope struct {
	Success bool           `json:"success"`
	Data    AvatarResponse `json:"data"`
}
