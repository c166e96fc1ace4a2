package notifications

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/enums"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

// SMSSink records text messages in the log. No SMS gateway is wired.
type SMSSink struct {
	logg *logger.Logger
}

func NewSMSSink(logg *logger.Logger) *SMSSink {
	return &SMSSink{logg: logg}
}

func (s *SMSSink) Deliver(ctx context.Context, msg Message) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"channel":   msg.Channel,
		"recipient": msg.Recipient,
		"body":      msg.Body,
	})
	s.logg.Info(ctx, "notifications.sms.sent")
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSink sends mail over SMTP when a host is configured and logs the
// message otherwise.
type EmailSink struct {
	cfg      config.SMTPConfig
	logg     *logger.Logger
	sendMail sendMailFunc
}

func NewEmailSink(cfg config.SMTPConfig, logg *logger.Logger) *EmailSink {
	return &EmailSink{cfg: cfg, logg: logg, sendMail: smtp.SendMail}
}

func (s *EmailSink) Deliver(ctx context.Context, msg Message) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"channel":   msg.Channel,
		"recipient": msg.Recipient,
		"subject":   msg.Subject,
	})
	if !s.cfg.Enabled() {
		s.logg.Info(ctx, "notifications.email.logged")
		return nil
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	if err := s.sendMail(addr, auth, s.cfg.From, []string{msg.Recipient}, buildMIME(s.cfg.From, msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.Recipient, err)
	}
	s.logg.Info(ctx, "notifications.email.sent")
	return nil
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.Recipient + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// Router sends each message to the sink registered for its channel.
type Router struct {
	sinks map[enums.NotificationChannel]Sink
}

func NewRouter(sms, email Sink) *Router {
	return &Router{sinks: map[enums.NotificationChannel]Sink{
		enums.NotificationChannelSMS:   sms,
		enums.NotificationChannelEmail: email,
	}}
}

func (r *Router) Deliver(ctx context.Context, msg Message) error {
	sink, ok := r.sinks[msg.Channel]
	if !ok || sink == nil {
		return fmt.Errorf("no sink for channel %q", msg.Channel)
	}
	return sink.Deliver(ctx, msg)
}
