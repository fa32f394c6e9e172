package notification

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// Attachment is an optional file sent along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments ...Attachment) error
}

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	From     string
	UseTLS   bool
}

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to, subject, body string, attachments ...Attachment) error {
	return nil
}

type smtpMailer struct {
	cfg Config
}

// New returns an SMTP-backed mailer, or a no-op when mail is unconfigured so
// callers never need to branch on it.
func New(cfg Config) Mailer {
	if !cfg.Enabled || cfg.Host == "" {
		return noopMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, body string, attachments ...Attachment) error {
	if strings.TrimSpace(to) == "" {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	msg, err := buildMessage(s.cfg.From, to, subject, body, attachments)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.UseTLS {
		tlsConfig := &tls.Config{ServerName: s.cfg.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}

	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string, attachments []Attachment) ([]byte, error) {
	if len(attachments) == 0 {
		headers := []string{
			fmt.Sprintf("From: %s", from),
			fmt.Sprintf("To: %s", to),
			fmt.Sprintf("Subject: %s", subject),
			"MIME-Version: 1.0",
			"Content-Type: text/plain; charset=\"UTF-8\"",
			"",
		}
		return []byte(strings.Join(headers, "\r\n") + "\r\n" + body), nil
	}

	var sb strings.Builder
	mw := multipart.NewWriter(&sb)

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q", mw.Boundary()),
		"",
		"",
	}

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=\"UTF-8\"")
	part, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, err
	}

	for _, a := range attachments {
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", a.ContentType)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		part, err := mw.CreatePart(attHeader)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(a.Data)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return []byte(strings.Join(headers, "\r\n") + sb.String()), nil
}
