package notifications

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grambazaar/storefront-backend/pkg/config"
	"github.com/grambazaar/storefront-backend/pkg/enums"
	"github.com/grambazaar/storefront-backend/pkg/logger"
)

func TestSMSSinkLogsMessage(t *testing.T) {
	out := &syncBuffer{}
	sink := NewSMSSink(newTestLogger(out))

	require.NoError(t, sink.Deliver(context.Background(), SMS("+919800000001", "Order 42 status: Ready")))
	assert.Contains(t, out.String(), "notifications.sms.sent")
	assert.Contains(t, out.String(), "+919800000001")
}

func TestEmailSinkWithoutHostOnlyLogs(t *testing.T) {
	out := &syncBuffer{}
	sink := NewEmailSink(config.SMTPConfig{}, newTestLogger(out))
	sink.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sendMail must not be called without a host")
		return nil
	}

	require.NoError(t, sink.Deliver(context.Background(), Email("a@example.com", "Order Created", "body")))
	assert.Contains(t, out.String(), "notifications.email.logged")
}

func TestEmailSinkSendsOverSMTP(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 2525, From: "orders@grambazaar.in"}
	sink := NewEmailSink(cfg, logger.Nop())
	sink.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}

	require.NoError(t, sink.Deliver(context.Background(), Email("a@example.com", "Order Created", "Order 42 created")))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, "orders@grambazaar.in", gotFrom)
	assert.Equal(t, []string{"a@example.com"}, gotTo)
	assert.Contains(t, string(gotBody), "Subject: Order Created\r\n")
	assert.Contains(t, string(gotBody), "Order 42 created")
}

func TestEmailSinkWrapsSendError(t *testing.T) {
	sink := NewEmailSink(config.SMTPConfig{Host: "smtp.example.com", Port: 25}, logger.Nop())
	sink.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	err := sink.Deliver(context.Background(), Email("a@example.com", "s", "b"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a@example.com")
}

func TestRouterDispatchesByChannel(t *testing.T) {
	sms, email := &recordingSink{}, &recordingSink{}
	router := NewRouter(sms, email)

	require.NoError(t, router.Deliver(context.Background(), SMS("+91", "x")))
	require.NoError(t, router.Deliver(context.Background(), Email("a@example.com", "s", "b")))
	assert.Len(t, sms.delivered(), 1)
	assert.Len(t, email.delivered(), 1)

	err := router.Deliver(context.Background(), Message{Channel: enums.NotificationChannel("fax"), Recipient: "x"})
	assert.Error(t, err)
}
