// Package notifications delivers best-effort SMS and email messages outside
// the request path. Delivery failures are logged and counted, never returned
// to the caller that enqueued the message.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grambazaar/storefront-backend/pkg/enums"
)

// Message is one outbound notification.
type Message struct {
	Channel   enums.NotificationChannel `json:"channel"`
	Recipient string                    `json:"recipient"`
	Subject   string                    `json:"subject,omitempty"`
	Body      string                    `json:"body"`
}

// SMS builds a text message.
func SMS(recipient, body string) Message {
	return Message{Channel: enums.NotificationChannelSMS, Recipient: recipient, Body: body}
}

// Email builds an email message.
func Email(recipient, subject, body string) Message {
	return Message{Channel: enums.NotificationChannelEmail, Recipient: recipient, Subject: subject, Body: body}
}

// Dispatcher accepts messages for asynchronous delivery. Enqueue only
// reports whether the message was accepted, never whether it was delivered.
type Dispatcher interface {
	Enqueue(ctx context.Context, msg Message) error
}

// Sink performs the actual delivery of a message.
type Sink interface {
	Deliver(ctx context.Context, msg Message) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, msg Message) error

func (f SinkFunc) Deliver(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

func (m Message) validate() error {
	if !m.Channel.IsValid() {
		return fmt.Errorf("unknown notification channel %q", m.Channel)
	}
	if m.Recipient == "" {
		return fmt.Errorf("notification recipient required")
	}
	return nil
}

func encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func decode(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, fmt.Errorf("decode notification: %w", err)
	}
	return msg, msg.validate()
}
