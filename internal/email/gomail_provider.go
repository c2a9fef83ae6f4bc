package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type smtpProvider struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPProvider(cfg SMTPConfig) Provider {
	return &smtpProvider{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (p *smtpProvider) Send(msg *Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.FromEmail, p.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}
	return nil
}

func (p *smtpProvider) SendAccountVerification(to, username, token string) error {
	return p.Send(&Message{
		To:      to,
		Subject: "Verify your FavorX account",
		Body: fmt.Sprintf(
			"Hi %s,\n\nWelcome to FavorX! Confirm your email with this code:\n\n%s\n\nIf you did not create this account, ignore this message.\n",
			username, token),
	})
}

func (p *smtpProvider) SendModerationNotice(to, username, action, reason string) error {
	return p.Send(&Message{
		To:      to,
		Subject: "FavorX moderation notice",
		Body: fmt.Sprintf(
			"Hi %s,\n\nA moderator reviewed a report about your account.\nAction taken: %s\nReason: %s\n\nReply to this message if you believe this is a mistake.\n",
			username, action, reason),
	})
}

func (p *smtpProvider) SendVerificationDecision(to, username, verificationType string, approved bool, reason string) error {
	if approved {
		return p.Send(&Message{
			To:      to,
			Subject: "Your FavorX verification was approved",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYour %s verification was approved. A trust badge now shows on your profile.\n",
				username, verificationType),
		})
	}
	return p.Send(&Message{
		To:      to,
		Subject: "Your FavorX verification was declined",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s verification was declined.\nReason: %s\n\nYou can submit a new request with updated documents.\n",
			username, verificationType, reason),
	})
}
