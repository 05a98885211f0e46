package dto

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthMeResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role"`
}

type AuthResponse struct {
	Success      bool           `json:"success"`
	ExpiresInSec int64          `json:"expires_in_sec"`
	Data         AuthMeResponse `json:"data"`
}

type OKResponse struct {
	Success bool `json:"success"`
}
