package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"github.com/zhubert/relaydesk/internal/errors"
	"github.com/zhubert/relaydesk/internal/logger"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvServerAddress = "CHAT_RELAY_SERVER_ADDRESS"
	EnvAuthToken     = "AGENT_AUTH_TOKEN"
	EnvNotifications = "RELAYDESK_NOTIFICATIONS"
	EnvLogFile       = "LOG_FILE"
	EnvLogLevel      = "LOG_LEVEL"
)

// DefaultServerAddress matches the relay's stock listen address.
const DefaultServerAddress = "http://localhost:5000"

// defaultSocketPath is appended when the relay address has no path.
const defaultSocketPath = "/ws"

// Config holds the persisted settings plus values resolved from the
// environment. The auth token is never written to disk.
type Config struct {
	ServerAddress        string `json:"server_address,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"`
	LogFile              string `json:"log_file,omitempty"`
	LogLevel             string `json:"log_level,omitempty"`

	authToken string

	mu       sync.RWMutex
	filePath string
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".relaydesk"), nil
}

func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Default returns a config that has not been loaded from anywhere.
func Default() *Config {
	return &Config{
		ServerAddress: DefaultServerAddress,
		LogFile:       logger.DefaultLogPath,
		LogLevel:      "info",
	}
}

// Load reads ~/.relaydesk/config.json, falling back to defaults when the
// file does not exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, errors.ConfigLoadFailed("~/.relaydesk/config.json", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields defaults bound
// to that path so a later Save creates it.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores defaults for fields an older file left empty.
// Only called before the config is shared.
func (c *Config) fillDefaults() {
	if c.ServerAddress == "" {
		c.ServerAddress = DefaultServerAddress
	}
	if c.LogFile == "" {
		c.LogFile = logger.DefaultLogPath
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadEnv loads KEY=VALUE pairs from dotenv files into the process
// environment. Variables already set are not overridden, and missing files
// are skipped. With no arguments ".env" in the working directory is read.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.ConfigLoadFailed(f, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment variables on the loaded config. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := getenv(EnvServerAddress); v != "" {
		c.ServerAddress = v
	}
	if v := getenv(EnvAuthToken); v != "" {
		c.authToken = v
	}
	if v := getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvNotifications); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("%s: %q is not a boolean", EnvNotifications, v))
		}
		c.NotificationsEnabled = enabled
	}
	return nil
}

// Validate checks the relay address and log level.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, err := RelayURL(c.ServerAddress); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}

// Save writes the persisted fields to disk.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		path, err := configPath()
		if err != nil {
			return errors.ConfigSaveFailed("~/.relaydesk/config.json", err)
		}
		c.filePath = path
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0o755); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	if err := os.WriteFile(c.filePath, data, 0o644); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// RelayURL turns a relay address into a WebSocket URL. http and https are
// rewritten to ws and wss, a bare host:port is treated as ws, and an empty
// path becomes /ws.
func RelayURL(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", errors.ConfigInvalid("relay address is empty")
	}
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", errors.ConfigInvalid(fmt.Sprintf("relay address %q: %v", addr, err))
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", errors.ConfigInvalid(fmt.Sprintf("relay address %q: unsupported scheme %q", addr, u.Scheme))
	}
	if u.Host == "" {
		return "", errors.ConfigInvalid(fmt.Sprintf("relay address %q has no host", addr))
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultSocketPath
	}
	return u.String(), nil
}

func (c *Config) GetServerAddress() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerAddress
}

func (c *Config) SetServerAddress(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerAddress = addr
}

// GetAuthToken returns the agent token resolved from the environment or a flag.
func (c *Config) GetAuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

func (c *Config) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

func (c *Config) GetLogFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogFile
}

func (c *Config) SetLogFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LogFile = path
}

// GetLogLevel parses the configured level, defaulting to info.
func (c *Config) GetLogLevel() logger.LogLevel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lvl, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return lvl
}
