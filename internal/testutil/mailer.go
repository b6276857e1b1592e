package testutil

import (
	"context"
	"sync"
)

// SentMail is one message captured by RecordingMailer.
type SentMail struct {
	Kind string
	To   string
	Name string
	Code string
}

// RecordingMailer captures messages instead of sending them. Err, when set,
// is returned from every send.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []SentMail
	Err  error
}

func (m *RecordingMailer) SendVerification(_ context.Context, to, name, code string) error {
	return m.record(SentMail{Kind: "verification", To: to, Name: name, Code: code})
}

func (m *RecordingMailer) SendWelcome(_ context.Context, to, name string) error {
	return m.record(SentMail{Kind: "welcome", To: to, Name: name})
}

func (m *RecordingMailer) record(s SentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, s)
	return nil
}

// Sent returns a copy of the captured messages.
func (m *RecordingMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}

// Last returns the most recent message of kind sent to addr.
func (m *RecordingMailer) Last(kind, addr string) (SentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind && m.sent[i].To == addr {
			return m.sent[i], true
		}
	}
	return SentMail{}, false
}
