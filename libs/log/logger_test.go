package log_test

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/mojave-chain/mojave-rpc/libs/log"
)

func TestLoggerLogsItsErrors(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewLogger(&buf)
	logger.Info("foo", "baz baz", "bar")
	msg := strings.TrimSpace(buf.String())
	if !strings.Contains(msg, "foo") {
		t.Errorf("expected logger msg to contain foo, got %s", msg)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewJSONLoggerNoTS(&buf).With("module", "rpc")
	logger.Info("served request", "method", "moj_echo")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["module"] != "rpc" {
		t.Errorf("expected module=rpc, got %v", entry["module"])
	}
	if entry["method"] != "moj_echo" {
		t.Errorf("expected method=moj_echo, got %v", entry["method"])
	}
}

func TestDebugGate(t *testing.T) {
	var buf bytes.Buffer

	old := log.LogDebug
	defer func() { log.LogDebug = old }()

	log.LogDebug = false
	logger := log.NewJSONLoggerNoTS(&buf)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no debug output, got %s", buf.String())
	}

	log.LogDebug = true
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug output, got %s", buf.String())
	}
}

func BenchmarkLoggerSimple(b *testing.B) {
	benchmarkRunner(b, log.NewLogger(io.Discard), baseInfoMessage)
}

func BenchmarkLoggerContextual(b *testing.B) {
	benchmarkRunner(b, log.NewLogger(io.Discard), withInfoMessage)
}

func benchmarkRunner(b *testing.B, logger log.Logger, f func(log.Logger)) {
	b.Helper()
	lc := logger.With("common_key", "common_value")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f(lc)
	}
}

var (
	baseInfoMessage = func(logger log.Logger) { logger.Info("foo_message", "foo_key", "foo_value") }
	withInfoMessage = func(logger log.Logger) { logger.With("a", "b").Info("c", "d", "f") }
)
