// Package email renders and delivers the portal's transactional mails over
// SMTP. When email is disabled the NoopSender keeps the rest of the system
// oblivious.
package email

import (
	"context"

	"groenportaal_backend/platform/config"
)

// Sender delivers the portal's transactional mails.
type Sender interface {
	SendOfferteGeaccepteerdEmail(ctx context.Context, toEmail, klantNaam, offertenr string) error
	SendFactuurVerzondenEmail(ctx context.Context, toEmail, klantNaam, factuurnr string, totaalCents int64, vervaldatum string) error
}

// NoopSender drops every mail. Used when email is not configured.
type NoopSender struct{}

func (NoopSender) SendOfferteGeaccepteerdEmail(ctx context.Context, toEmail, klantNaam, offertenr string) error {
	return nil
}

func (NoopSender) SendFactuurVerzondenEmail(ctx context.Context, toEmail, klantNaam, factuurnr string, totaalCents int64, vervaldatum string) error {
	return nil
}

// NewSender returns the SMTP sender, or a noop when email is disabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}
