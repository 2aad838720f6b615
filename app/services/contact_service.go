package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"soriblog/app/notify"
)

// ContactService forwards contact form submissions to the site operator.
type ContactService struct {
	sender    notify.Sender
	siteName  string
	recipient string
	log       *logrus.Logger
}

func NewContactService(sender notify.Sender, siteName, recipient string, log *logrus.Logger) *ContactService {
	if log == nil {
		log = logrus.New()
	}
	return &ContactService{sender: sender, siteName: siteName, recipient: recipient, log: log}
}

// Submit sends the message and reports whether it was delivered. Delivery
// failures are logged here and never returned; the visitor is always told the
// message went out.
func (s *ContactService) Submit(ctx context.Context, msg notify.ContactMessage) bool {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)

	fields := logrus.Fields{"from": msg.Email, "to": s.recipient}
	if s.sender == nil {
		s.log.WithFields(fields).Error("Contact message dropped: no mail sender configured")
		return false
	}

	if err := s.sender.Send(ctx, msg.Compose(s.siteName, s.recipient)); err != nil {
		s.log.WithFields(fields).WithError(err).Error("Contact message not delivered")
		return false
	}

	s.log.WithFields(fields).Info("Contact message delivered")
	return true
}
