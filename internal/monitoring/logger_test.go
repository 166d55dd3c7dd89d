package monitoring

import (
	"fmt"
	"strings"
	"testing"
)

func TestSetLoggerRedirects(t *testing.T) {
	var captured []string
	SetLogger(func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	})
	defer SetLogger(nil)

	Logf("trace has %d rows", 42)
	Warnf("fraction %d has no right boundary", 7)

	if len(captured) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(captured))
	}
	if captured[0] != "trace has 42 rows" {
		t.Errorf("unexpected first line: %q", captured[0])
	}
	if !strings.HasPrefix(captured[1], "WARNING: ") {
		t.Errorf("Warnf output missing prefix: %q", captured[1])
	}
}

func TestSetLoggerNilIsNoOp(t *testing.T) {
	SetLogger(nil)
	defer SetLogger(nil)

	// Must not panic.
	Logf("dropped %s", "message")
	Warnf("dropped %s", "warning")
}
