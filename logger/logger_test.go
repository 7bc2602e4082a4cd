package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := &Config{Level: level, Format: "json"}
	return NewWithWriter(cfg, "discovery", buf), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newJSONLogger(t, "invalid-level")
	l.Info("still logs")
	if !strings.Contains(buf.String(), "still logs") {
		t.Fatalf("expected info output with fallback level, got %q", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &Config{Level: "info", Format: "console", NoColor: true}
	NewWithWriter(cfg, "discovery", buf).Info("listening", Fields("port", 8080))

	line := buf.String()
	for _, want := range []string{"[DIS][INF]", "listening", "port:8080"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	l, buf := newJSONLogger(t, "info")
	SetGlobalLogger(l)
	Info("from package level")
	if !strings.Contains(buf.String(), "from package level") {
		t.Fatalf("expected global logger output, got %q", buf.String())
	}
}

func TestInfoWithFields(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.Info("service registered", Fields(FieldServiceID, "login", FieldNetwork, "external"))

	out := decodeLine(t, buf)
	if out["message"] != "service registered" {
		t.Errorf("unexpected message %v", out["message"])
	}
	if out[FieldServiceID] != "login" || out[FieldNetwork] != "external" {
		t.Errorf("missing fields: %v", out)
	}
	if out["service"] != "discovery" {
		t.Errorf("expected service tag, got %v", out["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithComponent("registry").Info("hello")

	out := decodeLine(t, buf)
	if out[FieldComponent] != "registry" {
		t.Errorf("expected component=registry, got %v", out[FieldComponent])
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithError(errors.New("boom")).Error("failed")

	out := decodeLine(t, buf)
	if out["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", out["error"])
	}
}

func TestWithContextRequestID(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("handled")

	out := decodeLine(t, buf)
	if out[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id=req-1, got %v", out[FieldRequestID])
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request id, got %q", got)
	}
}

func TestNop(t *testing.T) {
	Nop().Info("nothing")
}

func TestFieldHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields %v", f)
	}

	ef := ErrorFields("get", errors.New("x"))
	if ef[FieldOperation] != "get" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields %v", ef)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	bad := Config{Level: "loud", Format: "json"}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected invalid level error")
	}
	bad = Config{Level: "info", Format: "xml"}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected invalid format error")
	}
}
