package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSink_FileAndVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "scenenav.log")
	var stderr bytes.Buffer

	sink := NewSink(Options{File: path, MaxSizeMB: 1, MaxBackups: 1, Verbose: true, Stderr: &stderr})
	sink.Logger("reconcile").Printf("Added scene %s", "Lobby")
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	for _, out := range []string{string(data), stderr.String()} {
		if !strings.Contains(out, "[reconcile] ") || !strings.Contains(out, "Added scene Lobby") {
			t.Errorf("unexpected log output %q", out)
		}
	}
}

func TestSink_Quiet(t *testing.T) {
	sink := NewSink(Options{})
	sink.Logger("x").Println("dropped")
	if err := sink.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
