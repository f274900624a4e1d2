package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fernwell/contact-api/internal/api/shared"
	"github.com/fernwell/contact-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MessageListResponse is the admin listing payload. Total is the count of
// all stored messages, not the page size.
type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
	Total    int64             `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// AdminHandler serves the read-only admin listing of persisted messages.
// There are deliberately no update or delete endpoints.
type AdminHandler struct {
	contactService service.ContactService
	logger         *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
// If logger is nil, a default logger will be used.
func NewAdminHandler(contactService service.ContactService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AdminHandler{
		contactService: contactService,
		logger:         logger.With(slog.String("component", "admin_handler")),
	}
}

// ListMessages handles GET /api/admin/messages requests.
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	messages, err := h.contactService.ListMessages(r.Context(), limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	total, err := h.contactService.CountMessages(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	response := MessageListResponse{
		Messages: make([]MessageResponse, 0, len(messages)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for _, message := range messages {
		response.Messages = append(response.Messages, messageToResponse(message))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetMessage handles GET /api/admin/messages/{id} requests.
func (h *AdminHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid message ID")
		return
	}

	message, err := h.contactService.GetMessage(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, messageToResponse(message))
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
