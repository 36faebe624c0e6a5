package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(body), 0600))
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `backend: vikunja
api_url: https://tasks.example.com/api/v1/
api_key: secret
poll_interval: 90s
log_level: debug
`)

	cfg, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Load())

	require.Equal(t, BackendVikunja, cfg.Backend)
	require.Equal(t, "https://tasks.example.com/api/v1/", cfg.APIURL)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, 90*time.Second, cfg.PollInterval.Duration())
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, DefaultEntryID(BackendVikunja, "https://tasks.example.com/api/v1/"), cfg.EntryID)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.Load())

	require.Equal(t, BackendVikunja, cfg.Backend)
	require.Equal(t, DefaultPollInterval, cfg.PollInterval.Duration())
	require.Equal(t, "info", cfg.LogLevel)
	require.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "api_url: https://file.example.com\napi_key: from-file\n")
	t.Setenv("VTODO_API_KEY", "from-env")
	t.Setenv("VTODO_POLL_INTERVAL", "120")
	t.Setenv("VTODO_ENTRY_ID", "home")

	cfg, _ := New(dir)
	require.NoError(t, cfg.Load())

	require.Equal(t, "https://file.example.com", cfg.APIURL)
	require.Equal(t, "from-env", cfg.APIKey)
	require.Equal(t, 2*time.Minute, cfg.PollInterval.Duration())
	require.Equal(t, "home", cfg.EntryID)
}

func TestLoad_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "api_token: nope\n")

	cfg, _ := New(dir)
	require.Error(t, cfg.Load())
}

func TestValidate_GoogleTasks(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Dir: dir, Backend: BackendGoogleTasks}
	require.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)

	require.NoError(t, os.WriteFile(cfg.OAuthClientPath(), []byte("{}"), 0600))
	require.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)

	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("{}"), 0600))
	require.NoError(t, cfg.Validate())

	require.NoError(t, cfg.RemoveToken())
	require.False(t, cfg.HasToken())
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := &Config{Dir: t.TempDir(), Backend: "trello"}
	err := cfg.Validate()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMissingCredentials)
}

func TestDefaultEntryID_Stable(t *testing.T) {
	a := DefaultEntryID(BackendVikunja, "https://x.example.com/api/v1")
	b := DefaultEntryID(BackendVikunja, "https://x.example.com/api/v1/")
	c := DefaultEntryID(BackendVikunja, "https://y.example.com/api/v1")
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10", 10 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{`"30s"`, 30 * time.Second, false},
		{"", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestWatch_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SettingsFile)
	writeSettings(t, dir, "api_key: one\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 10)
	require.NoError(t, Watch(ctx, path, 20*time.Millisecond, func() { changed <- struct{}{} }))

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(path, []byte("api_key: two\n"), 0600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change notification")
	}
}
