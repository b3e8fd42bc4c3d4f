package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHandleMimeCommand(t *testing.T) {
	chdir(t, t.TempDir())

	var out bytes.Buffer
	code := handleMimeCommand([]string{"index.mjs", "build/pdf.worker.js", "paper.pdf", "LICENSE"}, &out)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	want := []string{
		"index.mjs\tapplication/javascript",
		"build/pdf.worker.js\tapplication/javascript",
		"paper.pdf\tapplication/pdf",
		"LICENSE\tapplication/octet-stream (fallback)",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleMimeCommandConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devserve.yaml")
	if err := os.WriteFile(path, []byte("mimeTypes:\n  bcmap: application/x-bcmap\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if code := handleMimeCommand([]string{"-config", path, "cmaps/UniJIS.bcmap"}, &out); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got := strings.TrimSpace(out.String()); got != "cmaps/UniJIS.bcmap\tapplication/x-bcmap" {
		t.Errorf("output = %q", got)
	}
}

func TestHandleMimeCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no paths", args: nil, want: 1},
		{name: "bad flag", args: []string{"-nope"}, want: 2},
		{name: "missing config", args: []string{"-config", filepath.Join(t.TempDir(), "x.yaml"), "a.js"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if code := handleMimeCommand(tt.args, &out); code != tt.want {
				t.Errorf("exit code = %d, want %d (output %q)", code, tt.want, out.String())
			}
		})
	}
}
