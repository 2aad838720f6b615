package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when no mail account has been set up.
var ErrNotConfigured = errors.New("mail account not configured")

// Message is one plain-text email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// DeliveryError reports a message that could not be handed to the relay.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery failed during %s: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ContactMessage is what a visitor submits through the contact form.
type ContactMessage struct {
	Name  string
	Email string
	Phone string
	Body  string
}

// Compose renders the contact submission as a message for the site operator.
func (c ContactMessage) Compose(siteName, to string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s want to hear from you\n", c.Name)
	fmt.Fprintf(&b, "%s Phone Number: %s\n", c.Name, c.Phone)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	fmt.Fprintf(&b, "message: %s", c.Body)

	return Message{
		To:      to,
		ReplyTo: c.Email,
		Subject: siteName + " Website Contact",
		Body:    b.String(),
	}
}
