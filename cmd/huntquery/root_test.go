package main

import (
	"strings"
	"testing"

	"mercator-hq/huntquery/pkg/config"
)

func TestRootCommand_DefaultConfigOptional(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := executeCommand(t, "patterns"); err != nil {
		t.Fatalf("patterns without config file error = %v", err)
	}

	cfg := config.GetConfig()
	if cfg == nil {
		t.Fatal("config was not initialized")
	}
	if cfg.Pack.Concurrency != config.DefaultPackConcurrency {
		t.Errorf("Pack.Concurrency = %d, want %d", cfg.Pack.Concurrency, config.DefaultPackConcurrency)
	}
}

func TestRootCommand_ExplicitConfigMustExist(t *testing.T) {
	_, err := executeCommand(t, "patterns", "--config", "/nonexistent/huntquery.yaml")
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "config error") {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "huntquery.yaml", "pack:\n  concurrency: -1\n")

	if _, err := executeCommand(t, "patterns", "--config", path); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"completion", "examples", "history", "lint", "pack", "patterns", "render", "version"}

	var got []string
	for _, cmd := range rootCmd.Commands() {
		got = append(got, cmd.Name())
	}

	for _, name := range want {
		found := false
		for _, g := range got {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q (have %v)", name, got)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "huntquery "+Version) {
		t.Errorf("version output = %q", out)
	}
	if !strings.Contains(out, "Go Version:") {
		t.Errorf("version output missing Go version: %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := executeCommand(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error = %v", shell, err)
			}
			if !strings.Contains(out, "huntquery") {
				t.Errorf("completion %s output does not mention huntquery", shell)
			}
		})
	}

	if _, err := executeCommand(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
