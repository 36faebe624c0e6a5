// Package config handles the configuration directory and the bridge settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AppName is the application directory name.
	AppName = "vtodo"

	// SettingsFile holds the backend connection settings.
	SettingsFile = "config.yaml"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored Google OAuth token filename.
	TokenFile = "token.json"
)

// Supported backends.
const (
	BackendVikunja     = "vikunja"
	BackendGoogleTasks = "googletasks"
)

// DefaultPollInterval is how often each project is refreshed.
const DefaultPollInterval = 5 * time.Minute

// ErrMissingCredentials is returned by Validate when the selected backend
// has no usable credential.
var ErrMissingCredentials = errors.New("missing credentials")

// Config holds the configuration directory, command-line switches and the
// settings read from config.yaml and the environment.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	Backend      string   `yaml:"backend" env:"VTODO_BACKEND" env-default:"vikunja"`
	APIURL       string   `yaml:"api_url" env:"VTODO_API_URL"`
	APIKey       string   `yaml:"api_key" env:"VTODO_API_KEY"`
	EntryID      string   `yaml:"entry_id" env:"VTODO_ENTRY_ID"`
	PollInterval Duration `yaml:"poll_interval" env:"VTODO_POLL_INTERVAL" env-default:"5m"`
	LogLevel     string   `yaml:"log_level" env:"VTODO_LOG_LEVEL" env-default:"info"`
	ListenAddr   string   `yaml:"listen_addr" env:"VTODO_LISTEN_ADDR"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/vtodo or $HOME/.config/vtodo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load reads config.yaml from Dir if present, then applies environment
// overrides and defaults. A missing file is not an error.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.SettingsPath())
	switch {
	case err == nil:
		if err := yaml.UnmarshalWithOptions(data, c, yaml.Strict()); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	if err := cleanenv.ReadEnv(c); err != nil {
		return fmt.Errorf("read env: %w", err)
	}

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.PollInterval <= 0 {
		c.PollInterval = Duration(DefaultPollInterval)
	}
	if c.EntryID == "" {
		c.EntryID = DefaultEntryID(c.Backend, c.APIURL)
	}
	return nil
}

// Validate checks that the selected backend can be constructed.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendVikunja:
		if c.APIURL == "" || c.APIKey == "" {
			return fmt.Errorf("%w: api_url and api_key are required (set them in %s)", ErrMissingCredentials, c.SettingsPath())
		}
	case BackendGoogleTasks:
		if !c.HasOAuthClient() {
			return fmt.Errorf("%w: %s not found in %s", ErrMissingCredentials, OAuthClientFile, c.Dir)
		}
		if !c.HasToken() {
			return fmt.Errorf("%w: not logged in (run: vtodo login)", ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	return nil
}

// DefaultEntryID derives a stable integration instance id from the remote
// endpoint, so the same server keeps the same list ids across restarts.
func DefaultEntryID(backend, apiURL string) string {
	name := backend + "|" + strings.TrimRight(apiURL, "/")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory with mode 0700 if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
