package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSetupPrintsSnippet(t *testing.T) {
	orig := parentShellDetector
	parentShellDetector = func() string { return "fish" }
	t.Cleanup(func() { parentShellDetector = orig })
	t.Setenv("SHELL", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"explicit value", []string{"--setup=fish"}, "function rnav"},
		{"separate argument", []string{"--setup", "zsh"}, "rnav() {"},
		{"detected", []string{"--setup"}, "function rnav"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "--print-dir")
		})
	}
}

func TestRefusesWithoutTerminal(t *testing.T) {
	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	_, err := execute(t, t.TempDir())
	assert.ErrorIs(t, err, errNoTerminal)
}

func TestTooManyArguments(t *testing.T) {
	_, err := execute(t, "a", "b")
	assert.Error(t, err)
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("show_hidden: true\nlog:\n  level: warn\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--hidden=false", "--log-level", "debug"}))
	cfg, err := loadConfig(cmd, options{configPath: path, hidden: false, logLevel: "debug"})
	require.NoError(t, err)
	assert.False(t, cfg.ShowHidden)
	assert.Equal(t, "debug", cfg.Log.Level)

	untouched := newRootCmd()
	cfg, err = loadConfig(untouched, options{configPath: path})
	require.NoError(t, err)
	assert.True(t, cfg.ShowHidden)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfigRejectsBadLevel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "loud"}))
	_, err := loadConfig(cmd, options{configPath: "", logLevel: "loud"})
	assert.Error(t, err)
}
