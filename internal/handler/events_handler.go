package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cintyy73/template-todo-list/internal/model"
	"github.com/cintyy73/template-todo-list/internal/service"
)

// EventsHandler pushes a new render-model to the client after every change.
type EventsHandler struct {
	contactService service.ContactService
	keepAlive      time.Duration
}

// NewEventsHandler creates an EventsHandler with the given service.
func NewEventsHandler(contactService service.ContactService) *EventsHandler {
	return &EventsHandler{contactService: contactService, keepAlive: 25 * time.Second}
}

// Stream handles GET /api/events as text/event-stream. The current view is
// sent first; slow clients only ever receive the latest view.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming_unsupported"})
		return
	}

	updates := make(chan model.View, 1)
	unsubscribe := h.contactService.Subscribe(keepLatest(updates))
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	current := h.contactService.View()
	if err := writeEvent(w, current); err != nil {
		return
	}
	flusher.Flush()
	last := current.Version

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case v := <-updates:
			if v.Version <= last {
				continue
			}
			if err := writeEvent(w, v); err != nil {
				slog.Debug("event stream closed", "error", err)
				return
			}
			flusher.Flush()
			last = v.Version
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// keepLatest returns a subscriber that leaves the highest-Version view
// buffered in updates. A view older than the pending one is dropped.
func keepLatest(updates chan model.View) func(model.View) {
	return func(v model.View) {
		for {
			select {
			case updates <- v:
				return
			default:
			}
			select {
			case pending := <-updates:
				if pending.Version > v.Version {
					v = pending
				}
			default:
			}
		}
	}
}

func writeEvent(w io.Writer, v model.View) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: view\nid: %d\ndata: %s\n\n", v.Version, data)
	return err
}
