package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithOrderID(ctx, "order-9")

	log.Error(ctx, "boom", errors.New("boom"))

	for _, want := range []string{`"request_id":"req-123"`, `"order_id":"order-9"`, `"stack"`, `"error":"boom"`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("expected %s in entry=%s", want, buf.String())
		}
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack when warn stack enabled; entry=%s", buf.String())
	}

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Output: buf})
	quiet.Warn(context.Background(), "warny")
	if bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("did not expect stack without warn stack; entry=%s", buf.String())
	}
}

func TestLoggerLevelFiltersDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("info"), Output: buf})
	log.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered, got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %v", lvl)
	}
}

func TestLoggerStampsEnvAndKeepsScopesIsolated(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Env: "dev", Output: buf})

	parent := log.WithShopID(context.Background(), "shop-1")
	_ = log.WithUserID(parent, "user-7")
	log.Info(parent, "shop.loaded")

	line := buf.String()
	for _, want := range []string{`"env":"dev"`, `"service":"api"`, `"shop_id":"shop-1"`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Fatalf("expected %s in entry=%s", want, line)
		}
	}
	if bytes.Contains(buf.Bytes(), []byte(`"user_id"`)) {
		t.Fatalf("child fields leaked into parent context: %s", line)
	}
}

func TestNopLoggerAcceptsNilContext(t *testing.T) {
	log := Nop()
	ctx := log.WithField(nil, "k", "v")
	if ctx == nil {
		t.Fatal("expected a context to be created")
	}
	log.Error(ctx, "ignored", errors.New("x"))
}
