// Package email delivers the transactional mail FavorX sends: account
// verification links, moderation notices and trust-verification decisions.
package email

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

type Provider interface {
	Send(msg *Message) error
	SendAccountVerification(to, username, token string) error
	SendModerationNotice(to, username, action, reason string) error
	SendVerificationDecision(to, username, verificationType string, approved bool, reason string) error
}
