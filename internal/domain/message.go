package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Field length limits for contact messages. Name and subject are bounded;
// the body is free-form text.
const (
	MaxNameLength    = 64
	MaxSubjectLength = 64
)

// Common validation errors for Message
var (
	ErrEmptyMessageID      = errors.New("message ID cannot be empty")
	ErrEmptyMessageName    = errors.New("message name cannot be empty")
	ErrEmptyMessageEmail   = errors.New("message email cannot be empty")
	ErrEmptyMessageSubject = errors.New("message subject cannot be empty")
	ErrEmptyMessageBody    = errors.New("message body cannot be empty")
	ErrInvalidMessageEmail = errors.New("message email is not a valid address")
	ErrNameTooLong         = errors.New("message name exceeds maximum length")
	ErrSubjectTooLong      = errors.New("message subject exceeds maximum length")
)

// Message represents a single contact form submission. Messages are created
// once on submission and never mutated or deleted by the application.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a new Message from submitted form fields.
// It generates a new UUID for the message ID and assigns the creation
// timestamp server-side. Returns an error if validation fails.
func NewMessage(name, email, subject, body string) (*Message, error) {
	msg := &Message{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the Message has valid data.
// Returns an error if any field fails validation.
func (m *Message) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMessageID
	}

	if m.Name == "" {
		return ErrEmptyMessageName
	}

	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	if m.Email == "" {
		return ErrEmptyMessageEmail
	}

	if !isValidEmailAddress(m.Email) {
		return ErrInvalidMessageEmail
	}

	if m.Subject == "" {
		return ErrEmptyMessageSubject
	}

	if len(m.Subject) > MaxSubjectLength {
		return ErrSubjectTooLong
	}

	if m.Body == "" {
		return ErrEmptyMessageBody
	}

	return nil
}

// isValidEmailAddress checks that the address parses as a bare RFC 5322
// address (no display name).
func isValidEmailAddress(address string) bool {
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return false
	}
	return parsed.Address == address
}
