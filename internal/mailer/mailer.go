package mailer

import (
	"bytes"
	"context"
	"embed"
	htmltemplate "html/template"
	"io"
	"text/template"
	"time"

	"github.com/emzola/bookmarket/internal/retry"
	"gopkg.in/mail.v2"
)

//go:embed "templates"
var templateFS embed.FS

// Mailer contains a mail.Dialer instance (used to connect to a SMTP server)
// and the sender information for emails, such as "Alice Smith <alice@example.com>".
type Mailer struct {
	dialer *mail.Dialer
	sender string
	policy retry.Policy
}

// New initializes a new mail.Dialer instance with the given SMTP server settings.
// Sending uses a 5-second timeout and up to three attempts.
func New(host string, port int, username, password, sender string) Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second
	policy, _ := retry.New(
		retry.WithMaxAttempts(3),
		retry.WithBaseDelay(time.Second),
		retry.WithMaxDelay(4*time.Second),
		retry.WithRetryable(func(error) bool { return true }),
	)
	return Mailer{
		dialer: dialer,
		sender: sender,
		policy: policy,
	}
}

// Message is a rendered email.
type Message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Render executes the subject, plainBody and htmlBody templates of templateFile.
// Only htmlBody is HTML-escaped.
func Render(templateFile string, data any) (Message, error) {
	pattern := "templates/" + templateFile
	text, err := template.New("email").ParseFS(templateFS, pattern)
	if err != nil {
		return Message{}, err
	}
	html, err := htmltemplate.New("email").ParseFS(templateFS, pattern)
	if err != nil {
		return Message{}, err
	}
	var msg Message
	parts := []struct {
		tmpl executor
		name string
		dst  *string
	}{
		{text, "subject", &msg.Subject},
		{text, "plainBody", &msg.PlainBody},
		{html, "htmlBody", &msg.HTMLBody},
	}
	for _, part := range parts {
		buf := new(bytes.Buffer)
		if err := part.tmpl.ExecuteTemplate(buf, part.name, data); err != nil {
			return Message{}, err
		}
		*part.dst = buf.String()
	}
	return msg, nil
}

// Send renders templateFile with data and mails it to recipient.
func (m Mailer) Send(recipient, templateFile string, data any) error {
	rendered, err := Render(templateFile, data)
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", rendered.Subject)
	msg.SetBody("text/plain", rendered.PlainBody)
	msg.AddAlternative("text/html", rendered.HTMLBody)
	_, err = retry.Do(context.Background(), m.policy, func(ctx context.Context) error {
		return m.dialer.DialAndSend(msg)
	})
	return err
}
