// Package email provides email sending functionality for contact form
// notifications.
package email

import (
	"context"
	"fmt"

	"github.com/fernwell/contact-api/internal/domain"
)

// ContactNotificationSubject is the subject line used for every contact
// form notification email.
const ContactNotificationSubject = "Contact form sent from website"

// Message represents an email message to be sent.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender abstracts email sending for dependency injection and testing.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ComposeContactNotification builds the subject and body of the
// notification email for a submitted contact message. The body carries all
// four submitted fields so the recipient can reply without consulting the
// admin listing.
func ComposeContactNotification(msg *domain.Message) (subject, body string) {
	subject = ContactNotificationSubject
	body = fmt.Sprintf(
		"New contact form submission\n\nName: %s\nEmail: %s\nSubject: %s\nMessage:\n%s\n",
		msg.Name,
		msg.Email,
		msg.Subject,
		msg.Body,
	)
	return subject, body
}
