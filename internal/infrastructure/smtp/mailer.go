package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"

	"habitlog-service/internal/config"

	"gopkg.in/gomail.v2"
)

// MilestoneMail is the data rendered into a streak milestone email
type MilestoneMail struct {
	Username  string
	HabitName string
	Streak    int
}

// Mailer sends HTML notification emails over SMTP
type Mailer struct {
	cfg       config.SMTPConfig
	milestone *template.Template
	send      func(*gomail.Message) error
}

// NewMailer creates a new SMTP mailer
func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	milestone, err := template.New("milestone").Parse(milestoneTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse milestone template: %w", err)
	}

	m := &Mailer{
		cfg:       cfg,
		milestone: milestone,
	}
	m.send = m.dialAndSend

	return m, nil
}

// SendMilestone sends a streak milestone congratulation
func (m *Mailer) SendMilestone(_ context.Context, to string, mail MilestoneMail) error {
	var buf bytes.Buffer
	if err := m.milestone.Execute(&buf, mail); err != nil {
		return fmt.Errorf("failed to render milestone email: %w", err)
	}

	subject := fmt.Sprintf("%d day streak: %s - HabitLog", mail.Streak, mail.HabitName)

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.cfg.From, m.cfg.FromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", buf.String())

	return m.send(msg)
}

func (m *Mailer) dialAndSend(msg *gomail.Message) error {
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	// STARTTLS when UseTLS (587), implicit TLS otherwise (465)
	d.SSL = !m.cfg.UseTLS
	d.TLSConfig = &tls.Config{
		ServerName: m.cfg.Host,
	}

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const milestoneTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Streak milestone</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4CAF50;">{{.Streak}} days in a row!</h2>
        <p>Hi {{.Username}},</p>
        <p>You have logged <strong>{{.HabitName}}</strong> for {{.Streak}} consecutive days. Keep it going!</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email, please do not reply.</p>
    </div>
</body>
</html>
`
