package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL        = "http://127.0.0.1:7433"
	DefaultDBFileName    = ".lnr.db"
	DefaultLogLevel      = "debug"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAITimeout = 30 * time.Second

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	configFileName           = ".lnr.toml"
	configDirEnvKey          = "LNR_CONFIG_DIR"
	trustProjectConfigEnvKey = "LNR_TRUST_PROJECT_CONFIG"

	snapCommonConfigRelativePath = "snap/lnr/common/.lnr.toml"
)

// OpenAIConfig configures the command bar's language model. The API key is
// read from the environment only.
type OpenAIConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"`
	APIKey  string `toml:"-"`
}

// Config defines runtime configuration for lnr.
type Config struct {
	APIURL                   string       `toml:"api_url"`
	DBDriver                 string       `toml:"db_driver"`
	DBPath                   string       `toml:"db_path"`
	DatabaseURL              string       `toml:"database_url"`
	LogLevel                 string       `toml:"log_level"`
	RosterPath               string       `toml:"roster_path"`
	OpenAI                   OpenAIConfig `toml:"openai"`
	TrustedProjectConfigPath string       `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		DBDriver: DriverSQLite,
		LogLevel: DefaultLogLevel,
		OpenAI: OpenAIConfig{
			Model:   DefaultOpenAIModel,
			Timeout: DefaultOpenAITimeout.String(),
		},
	}
}

// OpenAITimeout returns the parsed model call timeout, falling back to the
// default for empty or invalid values.
func (c *Config) OpenAITimeout() time.Duration {
	d, err := parseDuration(c.OpenAI.Timeout)
	if err != nil || d <= 0 {
		return DefaultOpenAITimeout
	}
	return d
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"api_url",
	"db_driver",
	"db_path",
	"database_url",
	"log_level",
	"roster_path",
	"openai.base_url",
	"openai.model",
	"openai.timeout",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_driver":
		return c.DBDriver, nil
	case "db_path":
		return c.DBPath, nil
	case "database_url":
		return c.DatabaseURL, nil
	case "log_level":
		return c.LogLevel, nil
	case "roster_path":
		return c.RosterPath, nil
	case "openai.base_url":
		return c.OpenAI.BaseURL, nil
	case "openai.model":
		return c.OpenAI.Model, nil
	case "openai.timeout":
		return c.OpenAI.Timeout, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	homePath := filepath.Join(home, configFileName)
	if info, statErr := os.Stat(homePath); statErr == nil && !info.IsDir() {
		return homePath, nil
	} else if statErr != nil && !os.IsNotExist(statErr) {
		return "", statErr
	}

	snapPath := filepath.Join(home, snapCommonConfigRelativePath)
	if info, statErr := os.Stat(snapPath); statErr == nil && !info.IsDir() {
		return snapPath, nil
	} else if statErr != nil && !os.IsNotExist(statErr) {
		return "", statErr
	}

	return homePath, nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			homePath := filepath.Join(home, configFileName)
			homeLoaded, loadErr := loadFileIfExists(homePath, &cfg)
			if loadErr != nil {
				return nil, loadErr
			}
			if !homeLoaded {
				snapPath := filepath.Join(home, snapCommonConfigRelativePath)
				if err := loadFile(snapPath, &cfg); err != nil {
					return nil, err
				}
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}

	applyEnv(&cfg)
	cfg.normalize()

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"LNR_API_URL", &cfg.APIURL},
		{"LNR_DB", &cfg.DBPath},
		{"LNR_DB_DRIVER", &cfg.DBDriver},
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"LNR_LOG_LEVEL", &cfg.LogLevel},
		{"OPENAI_BASE_URL", &cfg.OpenAI.BaseURL},
		{"LNR_OPENAI_MODEL", &cfg.OpenAI.Model},
		{"OPENAI_API_KEY", &cfg.OpenAI.APIKey},
	}
	for _, o := range overrides {
		if value := strings.TrimSpace(os.Getenv(o.env)); value != "" {
			*o.target = value
		}
	}
}

func (c *Config) normalize() {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver == "" {
		c.DBDriver = DriverSQLite
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if strings.TrimSpace(c.OpenAI.Model) == "" {
		c.OpenAI.Model = DefaultOpenAIModel
	}
	if strings.TrimSpace(c.OpenAI.Timeout) == "" {
		c.OpenAI.Timeout = DefaultOpenAITimeout.String()
	}
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "db_driver":
		value = strings.ToLower(value)
		if value != DriverSQLite && value != DriverPostgres {
			return nil, fmt.Errorf("db_driver must be %s or %s", DriverSQLite, DriverPostgres)
		}
		return value, nil
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "warning", "error":
			return strings.ToLower(value), nil
		}
		return nil, fmt.Errorf("log_level must be one of debug, info, warn, error")
	case "openai.timeout":
		d, err := parseDuration(value)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("openai.timeout must be a positive duration (e.g. 30s)")
		}
		return d.String(), nil
	default:
		return value, nil
	}
}

// parseDuration accepts Go durations or bare seconds.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}
