package mailing

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"html/template"

	"github.com/go-mail/mail"
	"github.com/jaytaylor/html2text"
	"github.com/kinfolkhq/kinfolk/config"
	"github.com/kinfolkhq/kinfolk/i18n"
	"go.uber.org/zap"
)

// Mailer renders and sends the transactional emails, when SMTP is
// disabled it degrades to a noop that only logs the token
type Mailer struct {
	noop          bool
	client        *mail.Dialer
	log           *zap.Logger
	cfg           *config.Configuration
	registry      *i18n.TranslationRegistry
	emailTemplate *template.Template
}

func (m *Mailer) baseModel(title string, message string) map[string]interface{} {
	b := make(map[string]interface{})
	b["service_name"] = m.cfg.Behaviour.Name
	b["date"] = time.Now().Format("2006-01-02 15:04")
	b["site"] = m.cfg.Behaviour.Site
	b["title"] = title
	b["message"] = message
	return b
}

// InviteMailData is the view data of the invitation and reminder mails
type InviteMailData struct {
	Email       string
	Token       string
	FamilyName  string
	InviterName string
	Message     *string
	ExpiresAt   time.Time
	Language    string
}

func (m *Mailer) SendInviteMail(data InviteMailData) error {
	if m.noop {
		m.log.Info(
			"skipping email `Invite` because noop is configured",
			zap.String("token", data.Token),
		)
		return nil
	}
	t, err := m.registry.TranslatorFor(data.Language, "email.invite")
	if err != nil {
		t = m.registry.CreateVoidTranslator(data.Language, "email.invite")
	}
	vars := map[string]string{
		"Family":  data.FamilyName,
		"Inviter": data.InviterName,
	}
	base := m.baseModel(t.TData(vars, "title"), t.TData(vars, "message"))
	if data.Message != nil && *data.Message != "" {
		base["personal_message"] = *data.Message
	}
	base["link_text"] = t.T("link_text")
	base["link"] = fmt.Sprintf(
		"%s/account/signup?invite_code=%s",
		m.cfg.Behaviour.ServiceDomain,
		data.Token,
	)
	base["token_text"] = t.T("token_text")
	base["token"] = data.Token
	base["subject"] = t.TData(vars, "subject")
	return m.send(data.Email, t.TData(vars, "subject"), base)
}

func (m *Mailer) SendReminderMail(data InviteMailData) error {
	if m.noop {
		m.log.Info(
			"skipping email `Reminder` because noop is configured",
			zap.String("token", data.Token),
		)
		return nil
	}
	t, err := m.registry.TranslatorFor(data.Language, "email.reminder")
	if err != nil {
		t = m.registry.CreateVoidTranslator(data.Language, "email.reminder")
	}
	vars := map[string]string{
		"Family":  data.FamilyName,
		"Inviter": data.InviterName,
		"Expires": data.ExpiresAt.Format("2006-01-02 15:04"),
	}
	base := m.baseModel(t.TData(vars, "title"), t.TData(vars, "message"))
	base["link_text"] = t.T("link_text")
	base["link"] = fmt.Sprintf(
		"%s/account/signup?invite_code=%s",
		m.cfg.Behaviour.ServiceDomain,
		data.Token,
	)
	base["token_text"] = t.T("token_text")
	base["token"] = data.Token
	base["subject"] = t.TData(vars, "subject")
	return m.send(data.Email, t.TData(vars, "subject"), base)
}

func (m *Mailer) SendTestEmail(email string) error {
	base := m.baseModel("This is a test", "hey your email confirugation seems to be fine.")
	base["subject"] = "Your test email is here!"
	base["token"] = "test"
	base["token_text"] = "test"
	base["link"] = "w"
	base["link_text"] = "test"
	return m.send(email, "Your test email is here!", base)
}

func (m *Mailer) send(email string, subject string, viewModel map[string]interface{}) error {
	buffer := new(strings.Builder)
	err := m.emailTemplate.Execute(buffer, viewModel)
	if err != nil {
		return err
	}
	html := buffer.String()
	text, err := html2text.FromString(html, html2text.Options{PrettyTables: true})
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.SMTP.Address, m.cfg.SMTP.DisplayName)
	msg.SetAddressHeader("To", email, "")
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)
	return m.client.DialAndSend(msg)
}

func NewMailer(
	log *zap.Logger,
	cfg *config.Configuration,
	registry *i18n.TranslationRegistry,
	files fs.FS,
) (*Mailer, error) {

	t, err := template.ParseFS(files, "templates/email/template.html")
	if err != nil {
		return nil, err
	}
	s := &Mailer{
		noop:          !cfg.SMTP.Enabled,
		log:           log,
		registry:      registry,
		emailTemplate: t,
		cfg:           cfg,
	}
	if !s.noop {
		s.client = mail.NewDialer(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
		)
	}
	return s, nil
}

func NewNoOpMailer(log *zap.Logger) *Mailer {
	s := &Mailer{
		noop: true,
		log:  log,
	}
	return s
}
