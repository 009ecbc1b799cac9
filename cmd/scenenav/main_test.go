package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"

	"github.com/pencils57/scenenav/internal/ui"
)

func TestScripts(t *testing.T) {
	ui.Init(&bytes.Buffer{})

	engine := script.NewEngine()
	engine.Cmds["scenenav"] = scenenavCmd()

	scripttest.Test(t, context.Background(), engine, os.Environ(), "testdata/script/*.txt")
}

// scenenavCmd runs a fresh command tree in the script's working directory.
func scenenavCmd() script.Cmd {
	return script.Command(
		script.CmdUsage{
			Summary: "run scenenav in-process",
			Args:    "[args...]",
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			var stdout, stderr bytes.Buffer
			root := newRootCmd(&env{
				cwd:    s.Getwd(),
				stdin:  strings.NewReader(""),
				stdout: &stdout,
				stderr: &stderr,
			})
			root.SetArgs(args)

			err := root.ExecuteContext(s.Context())
			if err != nil {
				fmt.Fprintf(&stderr, "Error: %v\n", err)
			}
			return func(*script.State) (string, string, error) {
				return stdout.String(), stderr.String(), err
			}, nil
		},
	)
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"12", 11, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"two", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseIndex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIndex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseIndex(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
