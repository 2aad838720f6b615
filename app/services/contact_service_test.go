package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soriblog/app/notify"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return &notify.DeliveryError{Op: "send", Err: r.err}
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestContactSubmit(t *testing.T) {
	msg := notify.ContactMessage{Name: " Jane ", Email: "jane@example.com", Phone: "555", Body: "Hi"}

	t.Run("delivered to the operator", func(t *testing.T) {
		sender := &recordingSender{}
		svc := NewContactService(sender, "Test Blog", "owner@example.com", quietLogger())

		assert.True(t, svc.Submit(context.Background(), msg))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "owner@example.com", sender.sent[0].To)
		assert.Equal(t, "Test Blog Website Contact", sender.sent[0].Subject)
		assert.Contains(t, sender.sent[0].Body, "Jane want to hear from you")
	})

	t.Run("transport failure is swallowed", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("relay down")}
		svc := NewContactService(sender, "Test Blog", "owner@example.com", quietLogger())

		assert.NotPanics(t, func() {
			assert.False(t, svc.Submit(context.Background(), msg))
		})
	})

	t.Run("no sender", func(t *testing.T) {
		svc := NewContactService(nil, "Test Blog", "owner@example.com", quietLogger())
		assert.False(t, svc.Submit(context.Background(), msg))
	})
}
