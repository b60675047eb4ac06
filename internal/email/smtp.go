package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers mails via a direct SMTP connection using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendOfferteGeaccepteerdEmail thanks the klant for accepting the offerte.
func (s *SMTPSender) SendOfferteGeaccepteerdEmail(ctx context.Context, toEmail, klantNaam, offertenr string) error {
	content, err := renderEmailTemplate("offerte_geaccepteerd.html", offerteGeaccepteerdEmailData{
		baseEmailData: baseEmailData{
			Title:   "Bevestiging van uw akkoord",
			Heading: "Bedankt voor uw akkoord",
		},
		KlantNaam: klantNaam,
		Offertenr: offertenr,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectOfferteGeaccepteerdFmt, offertenr), content)
}

// SendFactuurVerzondenEmail notifies the klant of a new invoice.
func (s *SMTPSender) SendFactuurVerzondenEmail(ctx context.Context, toEmail, klantNaam, factuurnr string, totaalCents int64, vervaldatum string) error {
	content, err := renderEmailTemplate("factuur_verzonden.html", factuurVerzondenEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nieuwe factuur",
			Heading: "Uw factuur staat klaar",
		},
		KlantNaam:       klantNaam,
		Factuurnr:       factuurnr,
		TotaalFormatted: formatCurrencyEUR(totaalCents),
		Vervaldatum:     vervaldatum,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectFactuurVerzondenFmt, factuurnr), content)
}
