// Package email sends account mails to forum members.
package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/mail"
	"time"

	"github.com/charmbracelet/log"
	"github.com/meditalk/meditalk/internal/config"
	simplemail "github.com/xhit/go-simple-mail/v2"
)

const defaultFromName = "MediTalk Admin"

// Mailer sends emails through the configured SMTP server.
type Mailer struct {
	config *config.EmailConfig
}

// Welcome holds the data of the welcome mail sent after registration.
type Welcome struct {
	Email    string
	FullName string
	Username string
	ForumURL string
}

// New creates a new mailer. A nil config disables sending.
func New(cfg *config.EmailConfig) *Mailer {
	if cfg == nil {
		cfg = &config.EmailConfig{}
	}
	return &Mailer{
		config: cfg,
	}
}

// Enabled reports whether mails are sent at all.
func (m *Mailer) Enabled() bool {
	return m.config.Enabled
}

// SendWelcome greets a newly registered member.
func (m *Mailer) SendWelcome(w Welcome) error {
	if !m.config.Enabled {
		log.Debug("Email is disabled, skipping welcome mail", "user", w.Username)
		return nil
	}
	if w.Email == "" {
		log.Warn("User email is empty, skipping welcome mail", "user", w.Username)
		return nil
	}

	body, err := renderTemplate("welcome.html", w)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}
	return m.send(recipient(w.FullName, w.Email), "Welcome to MediTalk", body)
}

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// recipient formats the To header, falling back to the bare address without a name.
func recipient(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

func (m *Mailer) send(to, subject, body string) error {
	server := simplemail.NewSMTPClient()
	server.Host = m.config.SMTPHost
	server.Port = m.config.SMTPPort
	server.Username = m.config.Username
	server.Password = m.config.Password

	switch {
	case m.config.UseSSL:
		server.Encryption = simplemail.EncryptionSSLTLS
	case m.config.UseTLS:
		server.Encryption = simplemail.EncryptionSTARTTLS
	default:
		server.Encryption = simplemail.EncryptionNone
	}
	if m.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			log.Warn("Failed to close SMTP client", "error", closeErr)
		}
	}()

	fromName := m.config.FromName
	if fromName == "" {
		fromName = defaultFromName
	}

	msg := simplemail.NewMSG()
	msg.SetFrom(fmt.Sprintf("%s <%s>", fromName, m.config.FromEmail))
	msg.AddTo(to)
	msg.SetSubject(subject)
	msg.SetBody(simplemail.TextHTML, body)

	if err := msg.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Email sent", "to", to, "subject", subject)
	return nil
}
