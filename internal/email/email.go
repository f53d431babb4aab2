// Package email delivers appointment reminder mails over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"time"

	"ausmass_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// ReminderData carries everything the reminder mail mentions.
type ReminderData struct {
	CustomerName string
	Title        string
	Date         string
	Time         string
	Address      string
}

// Sender delivers appointment reminder mails.
type Sender interface {
	SendAppointmentReminder(ctx context.Context, toEmail string, data ReminderData) error
}

const reminderSubjectFmt = "Terminerinnerung: %s"

var reminderTemplate = template.Must(template.New("reminder").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Guten Tag{{if .CustomerName}} {{.CustomerName}}{{end}}</p>
  <p>Dies ist eine Erinnerung an Ihren Termin:</p>
  <p>
    <strong>{{.Title}}</strong><br/>
    Datum: {{.Date}}{{if .Time}}<br/>Uhrzeit: {{.Time}}{{end}}{{if .Address}}<br/>Adresse: {{.Address}}{{end}}
  </p>
  <p>Freundliche Grüsse</p>
</body>
</html>`))

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

// SendAppointmentReminder renders and delivers one reminder mail.
func (s *SMTPSender) SendAppointmentReminder(ctx context.Context, toEmail string, data ReminderData) error {
	var body bytes.Buffer
	if err := reminderTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("reminder template: %w", err)
	}
	return s.send(ctx, toEmail, fmt.Sprintf(reminderSubjectFmt, data.Title), body.String())
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
