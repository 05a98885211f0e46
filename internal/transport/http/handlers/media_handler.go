package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	mediasvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/media"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/dto"
	httperrors "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/errors"
)

const maxAvatarUploadSize = 5 << 20 // 5 MiB

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) AvatarUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_UNAVAILABLE", "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadSize)
	if err := r.ParseMultipartForm(maxAvatarUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	avatar, err := h.service.UploadAvatar(r.Context(), identity.UserID, header.Filename, contentType, file, header.Size)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AvatarEnvelope{Success: true, Data: avatarResponse(avatar)})
}

func (h *MediaHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_UNAVAILABLE", "media service is unavailable")
		return
	}

	userID := identity.UserID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		userID = parseInt64(raw)
		if userID <= 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid userId")
			return
		}
	}

	avatar, err := h.service.AvatarURL(r.Context(), userID)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AvatarEnvelope{Success: true, Data: avatarResponse(avatar)})
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrValidation), errors.Is(err, mediasvc.ErrUnsupportedExt):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid media request")
	case errors.Is(err, mediasvc.ErrNoAvatar):
		writeNotFound(w, "NOT_FOUND", "no avatar set")
	default:
		writeInternal(w, "INTERNAL_ERROR", "media operation failed")
	}
}

func avatarResponse(avatar mediasvc.Avatar) dto.AvatarResponse {
	return dto.AvatarResponse{
		URL:          avatar.URL,
		ExpiresInSec: int64(avatar.ExpiresIn.Seconds()),
	}
}
