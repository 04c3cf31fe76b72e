package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cintyy73/template-todo-list/internal/model"
	"github.com/cintyy73/template-todo-list/internal/service"
	"github.com/cintyy73/template-todo-list/internal/validation"
)

// maxBodyBytes bounds request bodies; drafts and search terms are tiny.
const maxBodyBytes = 64 << 10

// ContactHandler exposes the contact service as a JSON API.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// submitRequest is the expected JSON body for POST /api/contacts.
type submitRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// validationResponse is returned with 400 when a draft fails validation.
type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// deleteResponse acknowledges a removal.
type deleteResponse struct {
	Deleted model.Contact `json:"deleted"`
}

// searchRequest is the expected JSON body for PUT /api/search.
type searchRequest struct {
	Term string `json:"term"`
}

// List handles GET /api/contacts. The optional q parameter filters the view
// without changing the shared search term.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q, ok := r.URL.Query()["q"]
	if !ok {
		writeJSON(w, http.StatusOK, h.contactService.View())
		return
	}
	writeJSON(w, http.StatusOK, h.contactService.ViewFor(q[0]))
}

// View handles GET /api/view and returns the render-model for the shared term.
func (h *ContactHandler) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.contactService.View())
}

// Submit handles POST /api/contacts.
// 201 with the new contact, 400 on invalid fields, 409 on a duplicate name.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	contact, err := h.contactService.Add(r.Context(), model.Draft{Name: req.Name, Phone: req.Phone})
	var verr *validation.Error
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, contact)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationResponse{Error: "validation_failed", Fields: verr.Fields})
	case errors.Is(err, service.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "duplicate_name"})
	default:
		slog.Error("add contact failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}

// Delete handles DELETE /api/contacts/{id}. Confirmation happens client side.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	removed, err := h.contactService.Remove(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, deleteResponse{Deleted: removed})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	default:
		slog.Error("remove contact failed", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}

// Toggle handles PATCH /api/contacts/{id}/toggle.
func (h *ContactHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	contact, err := h.contactService.ToggleComplete(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, contact)
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	default:
		slog.Error("toggle contact failed", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
	}
}

// Search handles PUT /api/search and stores the shared search term.
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}
	writeJSON(w, http.StatusOK, h.contactService.SetSearchTerm(req.Term))
}

func parseID(w http.ResponseWriter, r *http.Request) (model.ContactID, bool) {
	n, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
		return 0, false
	}
	return model.ContactID(n), true
}
