package notify

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gopherairtime/gopherairtime/internal/pkg/env"
)

var thresholdEmailTmpl = template.Must(template.New("threshold").Parse(
	`<html><body>
<p>The Hotsocket account balance is running low.</p>
<p>Current balance: <strong>{{.Balance}}</strong></p>
<p>Top up the account to keep recharges flowing.</p>
</body></html>`))

// SendMail sends an HTML email via SMTP using SMTP_* environment settings.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Warnf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Errorf("SMTP send error: %v", err)
	} else {
		log.Infof("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendThresholdEmail mails the low-balance warning to the operator address.
func SendThresholdEmail(balance int64) error {
	to := env.GetEnv("ADMIN_EMAIL_THRESHOLD", "")
	if to == "" {
		return fmt.Errorf("ADMIN_EMAIL_THRESHOLD not set")
	}

	var body bytes.Buffer
	if err := thresholdEmailTmpl.Execute(&body, struct{ Balance int64 }{balance}); err != nil {
		return err
	}

	return SendMail(to, "Balance Running Low", body.String())
}
