package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestInitStdoutAndShutdown(t *testing.T) {
	shutdown, err := Init("tally-test", "0.0.1")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestInitWithConfigRejectsUnknownExporter(t *testing.T) {
	_, err := InitWithConfig("tally-test", "0.0.1", Config{Exporter: "jaeger"})
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
}

func TestInitOTLPRequiresEndpoint(t *testing.T) {
	_, err := InitWithConfig("tally-test", "0.0.1", Config{Exporter: "otlp"})
	if err == nil {
		t.Fatal("expected error for missing otlp endpoint")
	}
}

func TestConfigureSlogFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "debug", "json")
	logger.Debug("hello", slog.String("k", "v"))
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("json log missing message: %s", buf.String())
	}

	buf.Reset()
	logger = ConfigureSlog(&buf, "warn", "text")
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record should be filtered at warn level: %s", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn record missing: %s", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	} {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTurnAttributes(t *testing.T) {
	attrs := TurnAttributes("sess-1", "turn-1", "manager", 25)
	if !hasAttr(attrs, AttrSessionID, "sess-1") || !hasAttr(attrs, AttrRole, "manager") {
		t.Fatalf("unexpected attrs: %v", attrs)
	}
	// Role and max steps are omitted when zero-valued.
	attrs = TurnAttributes("sess-1", "turn-1", "", 0)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %v", attrs)
	}
}

func TestToolCallAttributes(t *testing.T) {
	attrs := ToolCallAttributes("search_employees", "call-1", 12.5, true)
	if !hasAttr(attrs, AttrToolName, "search_employees") || !hasAttr(attrs, AttrToolCallID, "call-1") {
		t.Fatalf("unexpected attrs: %v", attrs)
	}
}

func hasAttr(attrs []attribute.KeyValue, key, value string) bool {
	for _, kv := range attrs {
		if string(kv.Key) == key && kv.Value.AsString() == value {
			return true
		}
	}
	return false
}
