package notify

import (
	"errors"
	"sync"
	"testing"

	"civiclens-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeSender) Send(m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return f.err
}

func (f *fakeSender) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.sent...)
}

func TestDispatcherDelivers(t *testing.T) {
	fs := &fakeSender{}
	d := NewDispatcher(fs)

	d.Enqueue("a@x.com", "status changed", "your issue moved")
	d.Enqueue("b@x.com", "claimed", "an NGO claimed your issue")
	d.Close()

	msgs := fs.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a@x.com", msgs[0].To)
	assert.Equal(t, "status changed", msgs[0].Subject)
	assert.Equal(t, "b@x.com", msgs[1].To)
}

func TestDispatcherSwallowsSendErrors(t *testing.T) {
	fs := &fakeSender{err: errors.New("smtp down")}
	d := NewDispatcher(fs)

	d.Enqueue("a@x.com", "subject", "body")
	d.Close()

	// delivery was attempted, the error stayed inside the dispatcher
	assert.Len(t, fs.messages(), 1)
}

func TestDispatcherNoTransportIsNoOp(t *testing.T) {
	d := NewDispatcher(nil)
	d.Enqueue("a@x.com", "subject", "body")
	d.Close()
}

func TestShouldNotify(t *testing.T) {
	assert.True(t, ShouldNotify(nil), "missing profile defaults to notify")

	assert.True(t, ShouldNotify(&models.Profile{Email: "a@x.com"}), "unset flag defaults to notify")

	on := true
	assert.True(t, ShouldNotify(&models.Profile{Email: "a@x.com", NotifyByEmail: &on}))

	off := false
	assert.False(t, ShouldNotify(&models.Profile{Email: "a@x.com", NotifyByEmail: &off}))
}

func TestSMTPConfigEnabled(t *testing.T) {
	assert.False(t, SMTPConfig{}.Enabled())
	assert.False(t, SMTPConfig{Host: "smtp.example.com"}.Enabled())
	assert.True(t, SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}.Enabled())

	assert.Nil(t, NewSMTPSender(SMTPConfig{}))
	assert.NotNil(t, NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}))
}
