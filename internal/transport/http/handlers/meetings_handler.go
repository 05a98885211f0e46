package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	meetingsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/meetings"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/dto"
	httperrors "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/errors"
)

type MeetingsHandler struct {
	service *meetingsvc.Service
}

func NewMeetingsHandler(service *meetingsvc.Service) *MeetingsHandler {
	return &MeetingsHandler{service: service}
}

func (h *MeetingsHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEETINGS_UNAVAILABLE", "meetings service is unavailable")
		return
	}

	var req dto.ScheduleMeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	record, err := h.service.Schedule(r.Context(), identity.UserID, meetingsvc.ScheduleInput{
		ConnectionID: req.ConnectionID,
		StartsAt:     req.StartsAt,
		DurationMin:  req.DurationMin,
		WithZoom:     req.WithZoom,
		WithCalendar: req.WithCalendar,
	})
	if err != nil {
		handleMeetingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.MeetingEnvelope{Success: true, Data: meetingResponse(record)})
}

func (h *MeetingsHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEETINGS_UNAVAILABLE", "meetings service is unavailable")
		return
	}

	items, err := h.service.ListUpcoming(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 50))
	if err != nil {
		handleMeetingError(w, err)
		return
	}

	data := make([]dto.MeetingResponse, 0, len(items))
	for _, item := range items {
		data = append(data, meetingResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.MeetingsEnvelope{Success: true, Data: data})
}

func (h *MeetingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.serviceCancel)
}

func (h *MeetingsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.serviceComplete)
}

func (h *MeetingsHandler) serviceCancel(r *http.Request, actorID, meetingID int64) error {
	return h.service.Cancel(r.Context(), actorID, meetingID)
}

func (h *MeetingsHandler) serviceComplete(r *http.Request, actorID, meetingID int64) error {
	return h.service.Complete(r.Context(), actorID, meetingID)
}

func (h *MeetingsHandler) transition(w http.ResponseWriter, r *http.Request, apply func(*http.Request, int64, int64) error) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEETINGS_UNAVAILABLE", "meetings service is unavailable")
		return
	}

	meetingID := parseInt64(r.URL.Query().Get("id"))
	if meetingID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "meeting id is required")
		return
	}

	if err := apply(r, identity.UserID, meetingID); err != nil {
		handleMeetingError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{Success: true})
}

func handleMeetingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, meetingsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid meeting payload")
	case errors.Is(err, meetingsvc.ErrMeetingNotFound), errors.Is(err, meetingsvc.ErrConnectionNotFound):
		writeNotFound(w, "NOT_FOUND", "meeting or connection not found")
	case errors.Is(err, meetingsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a participant of this meeting")
	case errors.Is(err, meetingsvc.ErrConnectionNotActive), errors.Is(err, meetingsvc.ErrNotCancellable):
		writeConflict(w, "CONFLICT", "meeting state does not allow this operation")
	default:
		writeInternal(w, "INTERNAL_ERROR", "meeting operation failed")
	}
}

func meetingResponse(record pgrepo.MeetingRecord) dto.MeetingResponse {
	return dto.MeetingResponse{
		ID:           record.ID,
		ConnectionID: record.ConnectionID,
		OrganizerID:  record.OrganizerID,
		StartsAt:     record.StartsAt,
		DurationMin:  record.DurationMin,
		Status:       record.Status,
		ZoomJoinURL:  record.ZoomJoinURL,
	}
}
