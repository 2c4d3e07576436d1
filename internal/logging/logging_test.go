package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWithoutDebugIsNop(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "x.log")

	log, err := New(p, false)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.Info("hidden")
	_ = log.Sync()

	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("log file created without debug: %v", err)
	}
}

func TestNewDebugWritesJSON(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "sub", "edge.log")

	log, err := New(p, true)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.Debug("group saved", zap.Int("id", 7))
	_ = log.Sync()

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, `"msg":"group saved"`) || !strings.Contains(out, `"id":7`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
