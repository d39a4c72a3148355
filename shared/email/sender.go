// Package email sends the HTML report of a grader run.
package email

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"gradi-client/internal/models"
	"gradi-client/shared/config"
	"gradi-client/shared/presenter"

	log "github.com/sirupsen/logrus"
)

//go:embed digest.html
var digestTemplate string

var tmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"stars": presenter.Stars,
}).Parse(digestTemplate))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Sender struct {
	config config.EmailConfig
	send   sendFunc
}

func NewSender(cfg config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
		send:   smtp.SendMail,
	}
}

type digestItem struct {
	URL      string
	Title    string
	Channel  string
	Duration string
	View     *presenter.View
	Error    string
}

type digestData struct {
	Date    time.Time
	Total   int
	Failed  int
	Skipped int
	Items   []digestItem
}

// SendDigest mails digest. A digest without entries is not sent.
func (s *Sender) SendDigest(digest *models.Digest) error {
	if digest == nil {
		return errors.New("digest cannot be nil")
	}
	if len(digest.Entries) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Gradi Video Report - %d Analyzed (%s)",
		digest.Total, digest.Date.Format("Jan 2, 2006"))

	body, err := generateBody(digest)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an HTML message to the configured recipient.
func (s *Sender) SendHTML(subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.ToEmail, s.config.FromEmail, subject, htmlBody))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	if err := s.send(addr, auth, s.config.FromEmail, to, msg); err != nil {
		return fmt.Errorf("failed to send email via %s: %w", addr, err)
	}
	log.WithField("to", s.config.ToEmail).Infof("Sent %q", subject)
	return nil
}

func generateBody(digest *models.Digest) (string, error) {
	data := digestData{
		Date:    digest.Date,
		Total:   digest.Total,
		Failed:  digest.Failed,
		Skipped: digest.Skipped,
	}

	for _, entry := range digest.Entries {
		item := digestItem{URL: entry.URL, Error: entry.Error}
		if entry.Video != nil {
			item.Title = entry.Video.Title
			item.Channel = entry.Video.ChannelTitle
			item.Duration = entry.Video.Duration
		}
		if entry.Result != nil {
			view, err := presenter.Build(entry.Result)
			if err != nil {
				item.Error = err.Error()
			} else {
				item.View = view
			}
		}
		data.Items = append(data.Items, item)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
