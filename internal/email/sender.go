package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/resend/resend-go/v2"
)

type SMTPSender struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

func (s *SMTPSender) Deliver(ctx context.Context, job Job) error {
	var auth smtp.Auth
	if s.User != "" && s.Pass != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	addr := s.Host + ":" + s.Port
	return smtp.SendMail(addr, auth, s.From, []string{job.To}, buildMessage(s.From, s.FromName, job))
}

func buildMessage(from, fromName string, job Job) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, from)
	fmt.Fprintf(&b, "To: %s\r\n", job.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", job.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(job.Body)
	return []byte(b.String())
}

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from, fromName string) *ResendSender {
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, from)
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Deliver(ctx context.Context, job Job) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{job.To},
		Subject: job.Subject,
		Text:    job.Body,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}
