package redis

import "strings"

// DefaultNamespace prefixes every key when the config leaves it blank.
const DefaultNamespace = "gb"

// Keyspace builds colon-separated keys under a single namespace so several
// environments can share one redis instance.
type Keyspace struct {
	namespace string
}

func NewKeyspace(namespace string) Keyspace {
	return Keyspace{namespace: strings.Trim(strings.TrimSpace(namespace), ":")}
}

// Key joins parts under the namespace, skipping blank parts.
func (k Keyspace) Key(parts ...string) string {
	ns := k.namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	var b strings.Builder
	b.WriteString(ns)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}

func (k Keyspace) IdempotencyKey(scope, id string) string {
	return k.Key("idempotency", scope, id)
}

func (k Keyspace) RateLimitKey(scope string) string {
	return k.Key("rate_limit", scope)
}

func (k Keyspace) PasswordResetKey(token string) string {
	return k.Key("pwreset", token)
}

func (k Keyspace) QueueKey(name string) string {
	return k.Key("queue", name)
}
