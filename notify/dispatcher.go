package notify

import (
	"log"

	"civiclens-be/models"
)

// Message is one outgoing notification email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message.
type Sender interface {
	Send(m Message) error
}

const queueSize = 64

// Dispatcher delivers notifications best-effort off the request path. A
// bounded queue feeds a single worker; when the queue is full the message is
// dropped with a log line. Delivery failures are logged and never reach the
// caller. With a nil sender every message is a logged no-op.
type Dispatcher struct {
	sender Sender
	queue  chan Message
	done   chan struct{}
}

func NewDispatcher(sender Sender) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, queueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for m := range d.queue {
		if d.sender == nil {
			log.Printf("email transport not configured, skipping notification to %s (%q)", m.To, m.Subject)
			continue
		}
		if err := d.sender.Send(m); err != nil {
			log.Printf("failed to send notification to %s: %v", m.To, err)
		}
	}
}

// Enqueue hands a message to the worker without blocking. No retry, no
// delivery confirmation.
func (d *Dispatcher) Enqueue(to, subject, body string) {
	select {
	case d.queue <- Message{To: to, Subject: subject, Body: body}:
	default:
		log.Printf("notification queue full, dropping message to %s", to)
	}
}

// Close drains the queue and stops the worker. Enqueue must not be called
// after Close.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

// ShouldNotify applies the recipient's opt-out preference. A missing profile
// or an unset flag means notify.
func ShouldNotify(p *models.Profile) bool {
	if p == nil || p.NotifyByEmail == nil {
		return true
	}
	return *p.NotifyByEmail
}
