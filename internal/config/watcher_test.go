package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "accounts:\n  Acme: {apiKey: a}\n")

	reloads := make(chan Config, 4)
	w := NewWatcher(path, testDefaults, 20*time.Millisecond, func(c Config) { reloads <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// An invalid intermediate state is skipped.
	require.NoError(t, os.WriteFile(path, []byte("accounts: {}\n"), 0o600))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  Acme: {apiKey: a}\n  Beta: {apiKey: b}\n"), 0o600))

	select {
	case cfg := <-reloads:
		assert.Equal(t, []string{"Acme", "Beta"}, cfg.Names())
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "accounts:\n  Acme: {apiKey: a}\n")

	w := NewWatcher(path, testDefaults, 0, func(Config) {})
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
