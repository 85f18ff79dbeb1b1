// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"testing"
)

// fakeExecutor records invocations and controls which binaries resolve.
type fakeExecutor struct {
	available map[string]bool
	name      string
	args      []string
	runErr    error
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", fmt.Errorf("%s: executable file not found", file)
}

func (f *fakeExecutor) Run(_ context.Context, name string, args ...string) error {
	f.name = name
	f.args = args
	return f.runErr
}

func TestDetectScraper(t *testing.T) {
	tests := []struct {
		name      string
		available map[string]bool
		want      string
		wantErr   bool
	}{
		{"prefers python3", map[string]bool{"python3": true, "python": true}, "python3", false},
		{"falls back to python", map[string]bool{"python": true}, "python", false},
		{"neither on path", map[string]bool{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, err := detectScraper(&fakeExecutor{available: tt.available})
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("detectScraper: %v", err)
			}
			if got := tool.(*paperBot).python; got != tt.want {
				t.Errorf("python = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaperBotRunArgs(t *testing.T) {
	exec := &fakeExecutor{available: map[string]bool{"python3": true}}
	bot := &paperBot{python: "python3", exec: exec}

	if err := bot.Run(context.Background(), "secure aggregation", 2, 20, "downloads"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exec.name != "python3" {
		t.Errorf("binary = %q", exec.name)
	}

	want := []string{
		"-m", "PyPaperBot",
		"--query=secure aggregation",
		"--scholar-pages=2",
		"--scholar-results=20",
		"--restrict=0",
		"--dwn-dir=downloads",
	}
	if len(exec.args) != len(want) {
		t.Fatalf("args = %v", exec.args)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, exec.args[i], want[i])
		}
	}
}

func TestPaperBotRunError(t *testing.T) {
	exec := &fakeExecutor{runErr: fmt.Errorf("exit status 2")}
	bot := &paperBot{python: "python3", exec: exec}

	if err := bot.Run(context.Background(), "q", 1, 10, "downloads"); err == nil {
		t.Error("want wrapped subprocess error")
	}
}
