package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/EpicMandM/snapshot-report/internal/config"
	"github.com/google/uuid"
)

// ErrDispatch is wrapped by every failure to hand the report to the relay.
var ErrDispatch = errors.New("report dispatch error")

// ReportMessage is a rendered report ready to be mailed. At least one of
// Text and HTML must be set; when both are, the mail is multipart/alternative.
type ReportMessage struct {
	Subject string
	RunID   string
	Text    string
	HTML    string
}

type EmailService struct {
	from       string
	to         []string
	host       string
	port       string
	username   string
	password   string
	sendMailFn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now        func() time.Time
}

// NewEmailService creates an email service that delivers through the SMTP
// relay in cfg. Authentication is only used when a username is configured.
func NewEmailService(cfg *config.Config) (*EmailService, error) {
	if cfg.SMTPHost == "" || cfg.From == "" || len(cfg.To) == 0 {
		return nil, fmt.Errorf("SMTP configuration incomplete")
	}

	return &EmailService{
		from:       cfg.From,
		to:         cfg.To,
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUsername,
		password:   cfg.SMTPPassword,
		sendMailFn: smtp.SendMail,
		now:        time.Now,
	}, nil
}

// SendReport mails msg to every configured recipient.
func (s *EmailService) SendReport(msg ReportMessage) error {
	if msg.Text == "" && msg.HTML == "" {
		return fmt.Errorf("%w: empty report body", ErrDispatch)
	}
	if msg.RunID == "" {
		msg.RunID = uuid.NewString()
	}

	body, err := s.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	addr := s.host + ":" + s.port

	if err := s.sendMailFn(addr, auth, s.from, s.to, body); err != nil {
		return fmt.Errorf("%w: failed to send email to %s: %v", ErrDispatch, strings.Join(s.to, ", "), err)
	}
	return nil
}

func (s *EmailService) buildMessage(msg ReportMessage) ([]byte, error) {
	var buf bytes.Buffer

	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }
	header("From", s.from)
	header("To", strings.Join(s.to, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", msg.RunID, s.host))
	header("X-Report-ID", msg.RunID)
	header("MIME-Version", "1.0")

	switch {
	case msg.Text != "" && msg.HTML != "":
		mw := multipart.NewWriter(&buf)
		header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", mw.Boundary()))
		buf.WriteString("\r\n")
		if err := writePart(mw, "text/plain; charset=UTF-8", msg.Text); err != nil {
			return nil, err
		}
		if err := writePart(mw, "text/html; charset=UTF-8", msg.HTML); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
	case msg.HTML != "":
		if err := writeSinglePart(&buf, "text/html; charset=UTF-8", msg.HTML); err != nil {
			return nil, err
		}
	default:
		if err := writeSinglePart(&buf, "text/plain; charset=UTF-8", msg.Text); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, content string) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	return writeQuotedPrintable(w, content)
}

func writeSinglePart(buf *bytes.Buffer, contentType, content string) error {
	fmt.Fprintf(buf, "Content-Type: %s\r\nContent-Transfer-Encoding: quoted-printable\r\n\r\n", contentType)
	return writeQuotedPrintable(buf, content)
}

func writeQuotedPrintable(w io.Writer, content string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(content)); err != nil {
		return err
	}
	return qp.Close()
}
