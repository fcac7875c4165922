package logger

import (
	"errors"
	"testing"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "my-service")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "my-service" {
		t.Errorf("expected service 'my-service', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("stream")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithFields(t *testing.T) {
	l := NewDefault("test")
	fl := l.WithFields(map[string]interface{}{"key": "value"})
	if fl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithError(t *testing.T) {
	l := NewDefault("test")
	el := l.WithError(errors.New("boom"))
	if el == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestGetGlobalLogger(t *testing.T) {
	globalLogger = nil
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected global logger to be created on demand")
	}
	if GetGlobalLogger() != l {
		t.Error("expected the same global logger instance")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected default output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json", Output: "stdout"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg.Level = "info"
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "stream", "frames", 10)
	if m["op"] != "stream" {
		t.Errorf("expected op 'stream', got %v", m["op"])
	}
	if m["frames"] != 10 {
		t.Errorf("expected frames 10, got %v", m["frames"])
	}

	// Odd trailing value without a key is ignored.
	m = Fields("a", 1, "dangling")
	if len(m) != 1 {
		t.Errorf("expected 1 field, got %d", len(m))
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("broadcast", errors.New("boom"))
	if m[FieldOperation] != "broadcast" {
		t.Errorf("expected operation 'broadcast', got %v", m[FieldOperation])
	}
	if m[FieldError] != "boom" {
		t.Errorf("expected error 'boom', got %v", m[FieldError])
	}
}
