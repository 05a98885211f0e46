package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	adminsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/admin"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/dto"
	httperrors "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/errors"
)

// AdminHandler serves both the admin console endpoints and the
// user-facing report submission. Role checks for the admin endpoints
// happen in the router middleware.
type AdminHandler struct {
	service *adminsvc.Service
}

func NewAdminHandler(service *adminsvc.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_UNAVAILABLE", "admin service is unavailable")
		return
	}

	q := r.URL.Query()
	items, err := h.service.ListUsers(r.Context(), parseIntOrDefault(q.Get("limit"), 50), parseIntOrDefault(q.Get("offset"), 0))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list users")
		return
	}

	data := make([]dto.AdminUserResponse, 0, len(items))
	for _, item := range items {
		data = append(data, dto.AdminUserResponse{
			ID:          item.ID,
			Email:       item.Email,
			DisplayName: item.DisplayName,
			Role:        item.Role,
			Banned:      item.Banned,
			CreatedAt:   item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.AdminUsersEnvelope{Success: true, Data: data})
}

func (h *AdminHandler) Ban(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true)
}

func (h *AdminHandler) Unban(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false)
}

func (h *AdminHandler) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	if h.service == nil {
		writeInternal(w, "ADMIN_UNAVAILABLE", "admin service is unavailable")
		return
	}

	userID := parseInt64(chi.URLParam(r, "id"))
	if userID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user id is required")
		return
	}

	if err := h.service.SetBanned(r.Context(), userID, banned); err != nil {
		switch {
		case errors.Is(err, adminsvc.ErrUserNotFound):
			writeNotFound(w, "NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{Success: true})
}

func (h *AdminHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "ADMIN_UNAVAILABLE", "reports are unavailable")
		return
	}

	var req dto.SubmitReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	record, err := h.service.SubmitReport(r.Context(), identity.UserID, req.ReportedUserID, req.Reason, req.Details)
	if err != nil {
		switch {
		case errors.Is(err, adminsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid report payload")
		case errors.Is(err, adminsvc.ErrUserNotFound):
			writeNotFound(w, "NOT_FOUND", "reported user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save report")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.ReportEnvelope{Success: true, Data: reportResponse(record)})
}

func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_UNAVAILABLE", "admin service is unavailable")
		return
	}

	q := r.URL.Query()
	onlyOpen := q.Get("status") != "all"

	items, err := h.service.ListReports(r.Context(), onlyOpen, parseIntOrDefault(q.Get("limit"), 100))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list reports")
		return
	}

	data := make([]dto.ReportResponse, 0, len(items))
	for _, item := range items {
		data = append(data, reportResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.ReportsEnvelope{Success: true, Data: data})
}

func (h *AdminHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_UNAVAILABLE", "admin service is unavailable")
		return
	}

	reportID := parseInt64(chi.URLParam(r, "id"))
	if reportID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "report id is required")
		return
	}

	record, err := h.service.ResolveReport(r.Context(), reportID)
	if err != nil {
		switch {
		case errors.Is(err, adminsvc.ErrReportNotFound):
			writeNotFound(w, "NOT_FOUND", "report not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to resolve report")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportEnvelope{Success: true, Data: reportResponse(record)})
}

func reportResponse(record pgrepo.ReportRecord) dto.ReportResponse {
	return dto.ReportResponse{
		ID:             record.ID,
		ReporterID:     record.ReporterID,
		ReportedUserID: record.ReportedUserID,
		Reason:         record.Reason,
		Details:        record.Details,
		Resolved:       record.Resolved,
		CreatedAt:      record.CreatedAt,
		ResolvedAt:     record.ResolvedAt,
	}
}
