package testutil

import (
	"log"
	"os"
	"strings"
	"testing"
)

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// TestLogger returns a logger whose output shows up in the test log.
// Output falls back to stderr once the test has finished.
func TestLogger(t *testing.T) *log.Logger {
	logger := log.New(testWriter{t: t}, "[test] ", log.Lmsgprefix)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
	})
	return logger
}
