// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for a single model request.
	defaultRequestTimeout = 120 * time.Second
	// defaultDataDir is where conversation records are stored when the config omits a path.
	defaultDataDir = "data/conversations"
	// defaultListenAddr is the default bind address for the web API server.
	defaultListenAddr = "127.0.0.1:8001"
	// apiKeyEnvVar names the environment variable consulted when the config omits a key.
	apiKeyEnvVar = "OPENROUTER_API_KEY"
)

// defaultAllowedOrigins lists the browser origins the web API accepts by default.
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// Config represents the top-level application configuration.
type Config struct {
	CouncilModels  []string `json:"councilModels"`
	ChairmanModel  string   `json:"chairmanModel"`
	OpenRouterKey  string   `json:"openrouterApiKey,omitempty"`
	TimeoutSeconds int      `json:"timeout,omitempty"`
	DataDir        string   `json:"dataDir,omitempty"`
	ListenAddr     string   `json:"listenAddr,omitempty"`
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
	LogFile        string   `json:"logFile,omitempty"`
	Debug          bool     `json:"debug"`
	ConfigPath     string   `json:"-"`
}

// RequestTimeout returns the timeout duration for model requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "synod.log"
}

// DataDirPath returns the conversation storage directory, applying a default if not set.
func (c Config) DataDirPath() string {
	if dir := strings.TrimSpace(c.DataDir); dir != "" {
		return dir
	}
	return defaultDataDir
}

// ListenAddress returns the bind address for the web API server.
func (c Config) ListenAddress() string {
	if addr := strings.TrimSpace(c.ListenAddr); addr != "" {
		return addr
	}
	return defaultListenAddr
}

// Origins returns the allowed CORS origins for the web API.
func (c Config) Origins() []string {
	if len(c.AllowedOrigins) > 0 {
		return c.AllowedOrigins
	}
	return defaultAllowedOrigins
}

// APIKey resolves the OpenRouter API key, preferring the config file over the environment.
func (c Config) APIKey() string {
	if key := strings.TrimSpace(c.OpenRouterKey); key != "" {
		return key
	}
	return os.Getenv(apiKeyEnvVar)
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := validateSchema(raw); err != nil {
		return Config{}, err
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}

// validateSchema checks the raw config document against the embedded JSON schema.
func validateSchema(raw []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(configSchema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("config failed validation: %s", strings.Join(details, "; "))
}
