package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger resets the logger to default state for test isolation
func resetLogger() {
	Init(Options{})
}

func TestInit_DefaultLevel_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("test info")
	if !strings.Contains(buf.String(), "test info") {
		t.Error("Info message should be logged at default level")
	}

	buf.Reset()

	Debug("test debug")
	if strings.Contains(buf.String(), "test debug") {
		t.Error("Debug message should not be logged at default level")
	}
}

func TestInit_DebugLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	Debug("test debug message")
	if !strings.Contains(buf.String(), "test debug message") {
		t.Error("Debug message should be logged when Debug=true")
	}
}

func TestInit_QuietOverridesDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Quiet: true, Output: buf})
	defer resetLogger()

	Debug("debug message")
	Warn("warn message")
	Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("Debug should not be logged when Quiet=true")
	}
	if strings.Contains(output, "warn message") {
		t.Error("Warn should not be logged when Quiet=true")
	}
	if !strings.Contains(output, "error message") {
		t.Error("Error should be logged when Quiet=true")
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("test message")

	output := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("expected JSON output, got %q", output)
	}
	if !strings.Contains(output, `"msg":"test message"`) {
		t.Errorf("expected msg field, got %q", output)
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewTextHandler(buf, nil))
	Init(Options{Logger: custom, Debug: true})
	defer resetLogger()

	if Logger() != custom {
		t.Fatal("expected custom logger to be installed")
	}
}

func TestSetLogger_IgnoresNil(t *testing.T) {
	before := Logger()
	SetLogger(nil)
	if Logger() != before {
		t.Error("SetLogger(nil) should keep the current logger")
	}
}

func TestComponent_TagsRecords(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Component("stylesheet").Info("pruned")

	output := buf.String()
	if !strings.Contains(output, "component=stylesheet") {
		t.Errorf("expected component attribute, got %q", output)
	}
}

func TestOr(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	own := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if Or(own, "x") != own {
		t.Error("Or should return the supplied logger")
	}

	Or(nil, "collector").Info("fallback")
	if !strings.Contains(buf.String(), "component=collector") {
		t.Errorf("expected fallback component logger, got %q", buf.String())
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("key", "value").Info("test with attrs")

	output := buf.String()
	if !strings.Contains(output, "test with attrs") || !strings.Contains(output, "key=value") {
		t.Errorf("expected message with attributes, got %q", output)
	}
}
