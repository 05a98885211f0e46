package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	reviewsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/reviews"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/dto"
	httperrors "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/errors"
)

type ReviewsHandler struct {
	service *reviewsvc.Service
}

func NewReviewsHandler(service *reviewsvc.Service) *ReviewsHandler {
	return &ReviewsHandler{service: service}
}

func (h *ReviewsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "REVIEWS_UNAVAILABLE", "reviews service is unavailable")
		return
	}

	var req dto.SubmitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.Submit(r.Context(), identity.UserID, req.ToUserID, req.Rating, req.Comment); err != nil {
		switch {
		case errors.Is(err, reviewsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid review payload")
		case errors.Is(err, reviewsvc.ErrNotConnected):
			writeForbidden(w, "NOT_CONNECTED", "reviews require an accepted connection")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save review")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.OKResponse{Success: true})
}

func (h *ReviewsHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "REVIEWS_UNAVAILABLE", "reviews service is unavailable")
		return
	}

	userID := parseInt64(chi.URLParam(r, "id"))
	if userID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user id is required")
		return
	}

	items, err := h.service.ListFor(r.Context(), userID, parseIntOrDefault(r.URL.Query().Get("limit"), 50))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list reviews")
		return
	}

	data := make([]dto.ReviewResponse, 0, len(items))
	for _, item := range items {
		data = append(data, dto.ReviewResponse{
			ID:         item.ID,
			FromUserID: item.FromUserID,
			ToUserID:   item.ToUserID,
			Rating:     item.Rating,
			Comment:    item.Comment,
			CreatedAt:  item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.ReviewsEnvelope{Success: true, Data: data})
}
