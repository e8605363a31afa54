package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"omnia-tickets/internal/config"
	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
)

const confirmationSubject = "Omnia Tickets - Payment Confirmed"

// The HTML body the buyer receives once the admin verifies their bank
// transfer. The confirmation code is the token they present at the door.
const confirmationHTML = `
<div style="font-family: Arial, sans-serif; background-color: #1a0033; color: white; padding: 40px; border-radius: 20px;">
  <h1 style="color: #c77dff;">Payment Confirmed!</h1>
  <p>Hello <strong>{{.FullName}}</strong>,</p>
  <p>Your payment for {{.TicketQuantity}} ticket(s) has been verified.</p>
  <div style="background: #2d1b4e; padding: 20px; border-radius: 10px; margin: 20px 0; border: 1px solid #9d4edd;">
    <p style="margin: 0; color: #c77dff; font-size: 12px; text-transform: uppercase;">Your Confirmation Code:</p>
    <p style="margin: 5px 0 0 0; font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #ffd700;">{{.ConfirmationCode}}</p>
  </div>
  <p>Please present this code at the entrance for verification.</p>
  <p style="color: #c77dff; font-size: 14px;">&copy; OmniaTickets</p>
</div>
`

type Mailer struct {
	cfg    config.EmailConfig
	tmpl   *template.Template
	logger *logger.Logger
}

func New(cfg config.EmailConfig, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		tmpl:   template.Must(template.New("confirmation").Parse(confirmationHTML)),
		logger: log,
	}
}

// SendConfirmation emails the buyer their confirmation code. Callers treat
// a failure as non-fatal: the confirmation itself already happened.
func (m *Mailer) SendConfirmation(p models.Purchase) error {
	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, p); err != nil {
		return fmt.Errorf("render confirmation email: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %q <%s>\r\n", m.cfg.FromName, m.cfg.SMTPUsername)
	fmt.Fprintf(&msg, "To: %s\r\n", p.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", confirmationSubject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort
	if err := smtp.SendMail(addr, auth, m.cfg.SMTPUsername, []string{p.Email}, msg.Bytes()); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}

	m.logger.LogEmail(p.Email, fmt.Sprintf("confirmation sent for purchase %s", p.ID))
	return nil
}
