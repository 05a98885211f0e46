package handlers

import (
	"errors"
	"net/http"
	"strings"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	msgsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/messages"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/rate"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/dto"
	httperrors "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *msgsvc.Service
	limiter *rate.Limiter
}

func NewMessagesHandler(service *msgsvc.Service, limiter *rate.Limiter) *MessagesHandler {
	return &MessagesHandler{service: service, limiter: limiter}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGES_UNAVAILABLE", "messages service is unavailable")
		return
	}

	if h.limiter != nil {
		retryAfter, allowed, err := h.limiter.AllowMessage(r.Context(), identity.UserID)
		if err != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to check rate limit")
			return
		}
		if !allowed {
			writeTooManyRequests(w, "RATE_LIMITED", "too many messages", retryAfter)
			return
		}
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	record, err := h.service.Send(r.Context(), identity.UserID, req.ConnectionID, req.Body)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.MessageEnvelope{Success: true, Data: messageResponse(record)})
}

func (h *MessagesHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MESSAGES_UNAVAILABLE", "messages service is unavailable")
		return
	}

	q := r.URL.Query()
	connectionID := parseInt64(strings.TrimSpace(q.Get("connectionId")))
	if connectionID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "connectionId is required")
		return
	}
	beforeID := parseInt64(q.Get("before"))
	limit := parseIntOrDefault(q.Get("limit"), 50)

	items, err := h.service.ListConversation(r.Context(), identity.UserID, connectionID, beforeID, limit)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	data := make([]dto.MessageResponse, 0, len(items))
	for _, item := range items {
		data = append(data, messageResponse(item))
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesEnvelope{Success: true, Data: data})
}

func handleMessageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, msgsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid message payload")
	case errors.Is(err, msgsvc.ErrConnectionNotFound):
		writeNotFound(w, "NOT_FOUND", "connection not found")
	case errors.Is(err, msgsvc.ErrNotParticipant):
		writeForbidden(w, "FORBIDDEN", "not a participant of this connection")
	case errors.Is(err, msgsvc.ErrConnectionInactive):
		writeConflict(w, "CONNECTION_INACTIVE", "connection is not accepted")
	default:
		writeInternal(w, "INTERNAL_ERROR", "message operation failed")
	}
}

func messageResponse(record pgrepo.MessageRecord) dto.MessageResponse {
	return dto.MessageResponse{
		ID:           record.ID,
		ConnectionID: record.ConnectionID,
		SenderID:     record.SenderID,
		Body:         record.Body,
		CreatedAt:    record.CreatedAt,
	}
}
