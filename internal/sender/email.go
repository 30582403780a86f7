package sender

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/wajeehjabribrahim/manajel-store/config"
	"github.com/wajeehjabribrahim/manajel-store/internal/notification"

	gopkgmail "gopkg.in/gomail.v2"
)

//go:embed templates/*.html templates/*.txt
var embedded embed.FS

type dialer interface {
	DialAndSend(m ...*gopkgmail.Message) error
}

// EmailSender renders notification templates and delivers them over SMTP.
// Templates are read from TMPLDir when it is set, otherwise from the
// copies built into the binary.
type EmailSender struct {
	from      string
	templates fs.FS
	iconDir   string // empty when templates are embedded
	dialer    dialer
}

func NewEmailSender(cfg config.SMTP) *EmailSender {
	d := gopkgmail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.SSL

	s := &EmailSender{from: cfg.From, dialer: d}
	if st, err := os.Stat(cfg.TMPLDir); cfg.TMPLDir != "" && err == nil && st.IsDir() {
		s.templates = os.DirFS(cfg.TMPLDir)
		s.iconDir = cfg.TMPLDir
	} else {
		s.templates, _ = fs.Sub(embedded, "templates")
	}
	return s
}

// Publish satisfies the outbox publisher contract by sending directly.
func (s *EmailSender) Publish(ctx context.Context, key string, msg notification.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.SendEmail(msg)
}

func (s *EmailSender) SendEmail(n notification.EmailMessage) error {
	m, err := s.buildMessage(n)
	if err != nil {
		return err
	}
	return s.dialer.DialAndSend(m)
}

func (s *EmailSender) buildMessage(n notification.EmailMessage) (*gopkgmail.Message, error) {
	if !n.Valid() {
		return nil, errors.New("email message needs recipients and a template")
	}

	htmlBody, err := s.renderHTML(n.Template, n.Data)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	plainBody, err := s.renderPlain(n.Template, n.Data)
	if err != nil {
		return nil, fmt.Errorf("render plain: %w", err)
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", n.To...)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if s.iconDir != "" && strings.Contains(htmlBody, "cid:logo") {
		iconPath := filepath.Join(s.iconDir, "icon.png")
		if _, errStat := os.Stat(iconPath); errStat == nil {
			m.Embed(iconPath, gopkgmail.SetHeader(map[string][]string{"Content-ID": {"<logo>"}}))
		}
	}
	return m, nil
}

func (s *EmailSender) renderHTML(name string, data map[string]any) (string, error) {
	content, err := fs.ReadFile(s.templates, name+".html")
	if err != nil {
		return "", err
	}
	tmpl, err := htmltemplate.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *EmailSender) renderPlain(name string, data map[string]any) (string, error) {
	content, err := fs.ReadFile(s.templates, name+".txt")
	if err != nil {
		return "", err
	}
	tmpl, err := texttemplate.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
