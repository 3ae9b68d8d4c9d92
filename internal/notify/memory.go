package notify

import (
	"context"
	"errors"
	"sync"
)

// SentMessage records one delivered message.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// InMemoryMailer records messages instead of sending them. Used by tests and
// by development mode when no SMTP relay is configured.
type InMemoryMailer struct {
	mu       sync.Mutex
	messages []SentMessage
	failNext bool
}

func NewInMemoryMailer() *InMemoryMailer {
	return &InMemoryMailer{}
}

func (m *InMemoryMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("smtp relay unavailable")
	}
	m.messages = append(m.messages, SentMessage{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *InMemoryMailer) Messages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.messages...)
}

// FailNext makes the next Send return an error.
func (m *InMemoryMailer) FailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}
