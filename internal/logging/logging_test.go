package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rnav.log")
	require.NoError(t, Init(Options{Level: "debug", File: path}))
	t.Cleanup(func() { _ = Close() })

	For("dircache").Debug("watching directory")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "watching directory")
	assert.Contains(t, string(data), "subsystem=dircache")
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(Options{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	assert.Error(t, err)
}

func TestInitFallsBackToDiscard(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Init(Options{File: filepath.Join(blocker, "rnav.log")})
	require.Error(t, err)
	assert.NotPanics(t, func() { For("test").Info("dropped") })
	_ = Close()
}

func TestLevelFiltering(t *testing.T) {
	require.NoError(t, Init(Options{Level: "warn", File: filepath.Join(t.TempDir(), "l.log")}))
	t.Cleanup(func() { _ = Close() })

	var buf bytes.Buffer
	SetOutput(&buf)
	For("proc").Info("hidden")
	For("proc").Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, logrus.WarnLevel, Logger().GetLevel())
}

func TestDefaultFileHonoursXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	assert.Equal(t, filepath.Join("/var/state", "rnav", "rnav.log"), DefaultFile())
}
