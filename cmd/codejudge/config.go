package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/NitinReddy01/codejudge-cli/internal/logger"
)

const (
	defaultBaseURL      = "http://localhost:4000/api"
	defaultLoggingLevel = logger.LevelInfo
	defaultTimeout      = 30 * time.Second
)

type Config struct {
	// Base URL of the platform API
	BaseURL string

	// Path of the state file holding the durable session mirror.
	// Empty means <user config dir>/codejudge/state.json
	StateFile string

	// Default logging level
	LogLevel string

	// Per-request timeout; applies to auth and API round trips alike
	Timeout time.Duration
}

func NewConfig() *Config {
	return &Config{
		BaseURL:  defaultBaseURL,
		LogLevel: defaultLoggingLevel,
		Timeout:  defaultTimeout,
	}
}

// Load variables from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setDuration := func(o *time.Duration) func(value string) {
		return func(value string) {
			if value == "" {
				return
			}
			if d, err := time.ParseDuration(value); err == nil {
				*o = d
			}
		}
	}

	envMap := map[string]func(string){
		"CODEJUDGE_API_URL":    setString(&c.BaseURL),
		"CODEJUDGE_STATE_FILE": setString(&c.StateFile),
		"CODEJUDGE_LOG_LEVEL":  setString(&c.LogLevel),
		"CODEJUDGE_TIMEOUT":    setDuration(&c.Timeout),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

// RegisterFlags binds the config to a flag set. With cobra, pass the
// root command's persistent flags.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.BaseURL, "api-url", "u", c.BaseURL, "Platform API base URL")
	fs.StringVar(&c.StateFile, "state-file", c.StateFile, "Path of the session state file")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Per-request timeout")
}

// ResolveStateFile returns the state file path, defaulting under the
// user config dir
func (c *Config) ResolveStateFile() (string, error) {
	if c.StateFile != "" {
		return c.StateFile, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "codejudge", "state.json"), nil
}
