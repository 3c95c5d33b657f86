package email

import (
	"fmt"
	"github.com/spf13/viper"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

type EmailOutbound struct {
	Cfg *viper.Viper

	TimeNow func() time.Time

	auth     smtp.Auth
	addr     string
	email    string
	fromName string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (out *EmailOutbound) Init() {
	out.email = out.Cfg.GetString("email.user")
	out.fromName = out.Cfg.GetString("email.from_name")
	out.addr = fmt.Sprintf("%s:%d", out.Cfg.GetString("email.host"), out.Cfg.GetInt("email.port"))

	switch out.Cfg.GetString("email.auth") {
	case "plain":
		out.auth = smtp.PlainAuth("", out.Cfg.GetString("email.user"), out.Cfg.GetString("email.password"), out.Cfg.GetString("email.host"))
	default:
		out.auth = smtp.CRAMMD5Auth(out.Cfg.GetString("email.user"), out.Cfg.GetString("email.password"))
	}

	if out.send == nil {
		out.send = smtp.SendMail
	}
	if out.TimeNow == nil {
		out.TimeNow = time.Now
	}
}

func (out *EmailOutbound) Send(to []string, subject string, body string) error {
	message := out.buildMessage(to, subject, body)

	err := out.send(out.addr, out.auth, out.email, to, message)
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", strings.Join(to, ","), err)
	}

	return nil
}

func (out *EmailOutbound) buildMessage(to []string, subject string, body string) []byte {
	from := out.email
	if out.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", out.fromName), out.email)
	}

	return []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		from,
		strings.Join(to, ","),
		mime.QEncoding.Encode("utf-8", subject),
		out.TimeNow().Format(time.RFC1123Z),
		body,
	))
}
