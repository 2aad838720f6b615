package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// MailerConfig holds the relay address and the process-wide account.
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// Mailer sends each message over its own authenticated STARTTLS session.
type Mailer struct {
	cfg MailerConfig
	log *logrus.Logger
}

func NewMailer(cfg MailerConfig, log *logrus.Logger) *Mailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = logrus.New()
	}
	return &Mailer{cfg: cfg, log: log}
}

// Configured reports whether an account is available to send from.
func (m *Mailer) Configured() bool {
	return m.cfg.Username != "" && m.cfg.Password != ""
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return &DeliveryError{Op: "configure", Err: ErrNotConfigured}
	}

	mm, err := m.build(msg)
	if err != nil {
		return &DeliveryError{Op: "compose", Err: err}
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(m.cfg.Timeout),
	)
	if err != nil {
		return &DeliveryError{Op: "connect", Err: err}
	}

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return &DeliveryError{Op: "send", Err: err}
	}

	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Mail sent")
	return nil
}

func (m *Mailer) build(msg Message) (*mail.Msg, error) {
	mm := mail.NewMsg()
	if err := mm.From(m.cfg.Username); err != nil {
		return nil, err
	}
	to := msg.To
	if to == "" {
		to = m.cfg.Username
	}
	if err := mm.To(to); err != nil {
		return nil, err
	}
	if msg.ReplyTo != "" {
		// A malformed reply address should not cost the operator the message.
		if err := mm.ReplyTo(msg.ReplyTo); err != nil {
			m.log.WithField("reply_to", msg.ReplyTo).Debug("Ignoring invalid reply-to address")
		}
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)
	return mm, nil
}

var _ Sender = (*Mailer)(nil)
