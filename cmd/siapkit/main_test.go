package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCommandPrintsMergedConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "siapkit.yaml")
	if err := os.WriteFile(cfgPath, []byte("wait: 3s\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "--config", cfgPath, "--env-file", filepath.Join(dir, "missing.env")})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "wait: 3s") || !strings.Contains(text, "portal_url:") {
		t.Fatalf("unexpected config output:\n%s", text)
	}
}

func TestConfigCommandRejectsMissingExplicitFile(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "--config", filepath.Join(t.TempDir(), "nope.yaml")})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
