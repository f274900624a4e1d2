package api

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/fernwell/contact-api/internal/api/shared"
	"github.com/fernwell/contact-api/internal/domain"
	"github.com/fernwell/contact-api/internal/service"
	"github.com/go-playground/validator/v10"
)

//go:embed templates/*.html
var templateFS embed.FS

// SubmitMessageRequest represents the payload for a contact form submission,
// accepted both as JSON and as form-encoded fields.
type SubmitMessageRequest struct {
	Name    string `json:"name"    validate:"required,max=64"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=64"`
	Message string `json:"message" validate:"required"`
}

// MessageResponse represents the response data for a stored message.
type MessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// formPage is the data passed to the contact form template.
type formPage struct {
	Values SubmitMessageRequest
	Errors map[string]string
}

// ContactHandler handles the contact form page and submission endpoints.
type ContactHandler struct {
	contactService service.ContactService
	validator      *validator.Validate
	templates      *template.Template
	logger         *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
// If logger is nil, a default logger will be used.
func NewContactHandler(contactService service.ContactService, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ContactHandler{
		contactService: contactService,
		validator:      validator.New(),
		templates:      template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger:         logger.With(slog.String("component", "contact_handler")),
	}
}

// ShowForm handles GET / requests, rendering the empty contact form.
func (h *ContactHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, formPage{})
}

// SubmitForm handles POST / requests carrying form-encoded fields.
// Validation failures re-render the form with field errors and no side
// effects; a successful submission persists the message, enqueues the
// notification job, and renders the success page.
func (h *ContactHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	req := SubmitMessageRequest{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Subject: r.PostFormValue("subject"),
		Message: r.PostFormValue("message"),
	}

	if fieldErrors := h.validateRequest(req); len(fieldErrors) > 0 {
		h.renderForm(w, r, http.StatusUnprocessableEntity, formPage{Values: req, Errors: fieldErrors})
		return
	}

	if _, err := h.submit(r, req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, formPage{
				Values: req,
				Errors: map[string]string{"form": "submission failed validation"},
			})
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to submit message", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.templates.ExecuteTemplate(w, "success.html", nil); err != nil {
		h.logger.Error("failed to render success page", "error", err)
	}
}

// SubmitJSON handles POST /api/messages requests.
// Returns 202 Accepted: the message is stored and the notification email is
// dispatched asynchronously, so acceptance says nothing about delivery.
func (h *ContactHandler) SubmitJSON(w http.ResponseWriter, r *http.Request) {
	var req SubmitMessageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if fieldErrors := h.validateRequest(req); len(fieldErrors) > 0 {
		shared.RespondWithJSON(w, r, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": fieldErrors,
		})
		return
	}

	message, err := h.submit(r, req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Validation error")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to submit message", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, messageToResponse(message))
}

// submit runs the submission through the contact service.
func (h *ContactHandler) submit(r *http.Request, req SubmitMessageRequest) (*domain.Message, error) {
	return h.contactService.SubmitMessage(r.Context(), service.SubmitMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
}

// validateRequest returns a map of field name to human-readable problem,
// empty when the request is valid.
func (h *ContactHandler) validateRequest(req SubmitMessageRequest) map[string]string {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}

	fieldErrors := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			switch fe.Tag() {
			case "required":
				fieldErrors[fe.Field()] = "this field is required"
			case "email":
				fieldErrors[fe.Field()] = "must be a valid email address"
			case "max":
				fieldErrors[fe.Field()] = "value is too long"
			default:
				fieldErrors[fe.Field()] = "invalid value"
			}
		}
		return fieldErrors
	}

	fieldErrors["form"] = "invalid submission"
	return fieldErrors
}

// renderForm renders the contact form template with the given status.
func (h *ContactHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "form.html", page); err != nil {
		h.logger.Error("failed to render contact form", "error", err)
	}
}

// messageToResponse converts a domain.Message to a MessageResponse.
func messageToResponse(message *domain.Message) MessageResponse {
	return MessageResponse{
		ID:        message.ID.String(),
		Name:      message.Name,
		Email:     message.Email,
		Subject:   message.Subject,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}
}
