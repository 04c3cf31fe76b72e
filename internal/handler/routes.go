package handler

import "net/http"

// Register mounts every route on mux.
func Register(mux *http.ServeMux, h *Handler, contacts *ContactHandler, events *EventsHandler) {
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /metrics", h.Metrics)

	mux.HandleFunc("GET /api/contacts", contacts.List)
	mux.HandleFunc("POST /api/contacts", contacts.Submit)
	mux.HandleFunc("DELETE /api/contacts/{id}", contacts.Delete)
	mux.HandleFunc("PATCH /api/contacts/{id}/toggle", contacts.Toggle)
	mux.HandleFunc("GET /api/view", contacts.View)
	mux.HandleFunc("PUT /api/search", contacts.Search)

	mux.HandleFunc("GET /api/events", events.Stream)
}

// Chain wraps mux with the middleware stack in the order requests see it.
func (h *Handler) Chain(mux http.Handler) http.Handler {
	return h.CORS(SecurityHeaders(RequestID(RequestLogger(mux))))
}
