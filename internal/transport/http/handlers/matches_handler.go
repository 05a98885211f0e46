package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	connsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/connections"
	matchsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/matching"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/rate"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/dto"
	httperrors "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/errors"
)

type MatchesHandler struct {
	matcher     *matchsvc.Service
	connections *connsvc.Service
	limiter     *rate.Limiter
}

func NewMatchesHandler(matcher *matchsvc.Service, connections *connsvc.Service, limiter *rate.Limiter) *MatchesHandler {
	return &MatchesHandler{
		matcher:     matcher,
		connections: connections,
		limiter:     limiter,
	}
}

func (h *MatchesHandler) FindMatches(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.matcher == nil {
		writeInternal(w, "MATCHER_UNAVAILABLE", "matching service is unavailable")
		return
	}

	var req dto.FindMatchesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	items, err := h.matcher.FindMatches(r.Context(), identity.UserID, req.Interest)
	if err != nil {
		switch {
		case errors.Is(err, matchsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "interest is required")
		case errors.Is(err, matchsvc.ErrRequesterNotFound):
			writeNotFound(w, "NOT_FOUND", "requester profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to find matches")
		}
		return
	}

	data := make([]dto.CandidateMatchResponse, 0, len(items))
	for _, item := range items {
		data = append(data, dto.CandidateMatchResponse{
			UserID:         item.UserID,
			Name:           item.DisplayName,
			SkillsTheyWant: item.SkillsTheyWant,
			AvgRating:      item.AvgRating,
			ReviewCount:    item.ReviewCount,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Success: true, Data: data})
}

func (h *MatchesHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_UNAVAILABLE", "connections service is unavailable")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.AllowRequest(r.Context(), identity.UserID)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to check rate limit")
			return
		}
		if !allowed {
			writeTooManyRequests(w, "RATE_LIMITED", "too many connection requests", retryAfter)
			return
		}
	}

	var req dto.SendRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	record, err := h.connections.SendRequest(r.Context(), identity.UserID, req.RecipientID, req.TeachSkill, req.LearnSkill)
	if err != nil {
		handleConnectionError(w, err, "failed to send request")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.ConnectionEnvelope{Success: true, Data: connectionResponse(record)})
}

func (h *MatchesHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_UNAVAILABLE", "connections service is unavailable")
		return
	}

	items, err := h.connections.ListPending(r.Context(), identity.UserID)
	if err != nil {
		handleConnectionError(w, err, "failed to load pending requests")
		return
	}

	data := make([]dto.PendingRequestResponse, 0, len(items))
	for _, item := range items {
		data = append(data, dto.PendingRequestResponse{
			ConnectionResponse: connectionResponse(item.ConnectionRecord),
			Sender: dto.SenderProfileResponse{
				UserID:    item.User1ID,
				Name:      item.SenderName,
				Skills:    item.SenderSkills,
				Interests: item.SenderInterests,
				Timezone:  item.SenderTimezone,
			},
		})
	}

	httperrors.Write(w, http.StatusOK, dto.PendingRequestsEnvelope{Success: true, Data: data})
}

func (h *MatchesHandler) RespondRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_UNAVAILABLE", "connections service is unavailable")
		return
	}

	var req dto.RespondRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	record, err := h.connections.Respond(r.Context(), identity.UserID, req.RequestID, req.Status)
	if err != nil {
		handleConnectionError(w, err, "failed to respond to request")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ConnectionEnvelope{Success: true, Data: connectionResponse(record)})
}

func (h *MatchesHandler) Connections(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_UNAVAILABLE", "connections service is unavailable")
		return
	}

	items, err := h.connections.ListAccepted(r.Context(), identity.UserID)
	if err != nil {
		handleConnectionError(w, err, "failed to load connections")
		return
	}

	data := make([]dto.ConnectionResponse, 0, len(items))
	for _, item := range items {
		data = append(data, connectionResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.ConnectionsEnvelope{Success: true, Data: data})
}

func (h *MatchesHandler) EndConnection(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_UNAVAILABLE", "connections service is unavailable")
		return
	}

	connectionID := parseInt64(r.URL.Query().Get("id"))
	h.endConnection(w, r, identity, connectionID)
}

// Unmatch is the user-facing variant of EndConnection with the id in the body.
func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_UNAVAILABLE", "connections service is unavailable")
		return
	}

	var req dto.UnmatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	h.endConnection(w, r, identity, req.ConnectionID)
}

func (h *MatchesHandler) endConnection(w http.ResponseWriter, r *http.Request, identity authsvc.Identity, connectionID int64) {
	if connectionID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "connection id is required")
		return
	}

	removed, err := h.connections.End(r.Context(), identity.UserID, connectionID, identity.IsAdmin())
	if err != nil {
		handleConnectionError(w, err, "failed to end connection")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.EndConnectionResponse{Success: true, RemovedMeetings: removed})
}

func handleConnectionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, connsvc.ErrValidation), errors.Is(err, connsvc.ErrSelfRequest):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid connection request")
	case errors.Is(err, connsvc.ErrRecipientNotFound), errors.Is(err, connsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "connection or user not found")
	case errors.Is(err, connsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not allowed for this connection")
	case errors.Is(err, connsvc.ErrAlreadyPending):
		writeConflict(w, "ALREADY_PENDING", "a pending request already exists for this pair")
	case errors.Is(err, connsvc.ErrAlreadyMatched):
		writeConflict(w, "ALREADY_MATCHED", "these users are already connected")
	case errors.Is(err, connsvc.ErrAlreadyDecided):
		writeConflict(w, "ALREADY_DECIDED", "a previous request for this pair was already processed")
	case errors.Is(err, connsvc.ErrNotPending):
		writeConflict(w, "NOT_PENDING", "request is no longer pending")
	default:
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}

func connectionResponse(record pgrepo.ConnectionRecord) dto.ConnectionResponse {
	return dto.ConnectionResponse{
		ID:        record.ID,
		User1ID:   record.User1ID,
		User2ID:   record.User2ID,
		Skill1:    record.Skill1,
		Skill2:    record.Skill2,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
