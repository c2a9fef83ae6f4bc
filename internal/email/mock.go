package email

import "sync"

// MockProvider records outbound mail instead of sending it. Used in tests
// and in environments without SMTP credentials.
type MockProvider struct {
	mu   sync.Mutex
	Sent []Message
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Send(msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Sent = append(p.Sent, *msg)
	return nil
}

func (p *MockProvider) SendAccountVerification(to, username, token string) error {
	return p.Send(&Message{To: to, Subject: "account_verification", Body: token})
}

func (p *MockProvider) SendModerationNotice(to, username, action, reason string) error {
	return p.Send(&Message{To: to, Subject: "moderation_notice", Body: action + ": " + reason})
}

func (p *MockProvider) SendVerificationDecision(to, username, verificationType string, approved bool, reason string) error {
	subject := "verification_approved"
	if !approved {
		subject = "verification_rejected"
	}
	return p.Send(&Message{To: to, Subject: subject, Body: verificationType + ": " + reason})
}

// SentCount is safe to call while other goroutines send.
func (p *MockProvider) SentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sent)
}
