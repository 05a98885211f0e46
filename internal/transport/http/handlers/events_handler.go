package handlers

import (
	"fmt"
	"net/http"
	"time"

	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/notify"
)

const sseKeepAliveInterval = 25 * time.Second

// EventsHandler streams per-user events over server-sent events.
type EventsHandler struct {
	notifier *notify.Service
}

func NewEventsHandler(notifier *notify.Service) *EventsHandler {
	return &EventsHandler{notifier: notifier}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.notifier == nil {
		writeInternal(w, "EVENTS_UNAVAILABLE", "event stream is unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeInternal(w, "EVENTS_UNAVAILABLE", "streaming is not supported")
		return
	}

	events, cancel, err := h.notifier.Subscribe(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "EVENTS_UNAVAILABLE", "failed to subscribe to events")
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case payload, open := <-events:
			if !open {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
