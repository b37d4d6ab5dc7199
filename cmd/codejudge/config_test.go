package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("set default option", func(t *testing.T) {
		c := NewConfig()

		require.Equal(t, "http://localhost:4000/api", c.BaseURL, "default base URL not set")
		require.Equal(t, "info", c.LogLevel, "default log level not set")
		require.Equal(t, "", c.StateFile, "state file should be empty by default")
		require.Equal(t, 30*time.Second, c.Timeout, "default timeout not set")
	})

	t.Run("load env", func(t *testing.T) {
		c := NewConfig()
		getenv := func(key string) string {
			switch key {
			case "CODEJUDGE_API_URL":
				return "https://judge.example.com/api"
			case "CODEJUDGE_STATE_FILE":
				return "/tmp/state.json"
			case "CODEJUDGE_LOG_LEVEL":
				return "debug"
			case "CODEJUDGE_TIMEOUT":
				return "5s"
			default:
				return ""
			}
		}

		c.LoadEnv(getenv)

		require.Equal(t, "https://judge.example.com/api", c.BaseURL)
		require.Equal(t, "/tmp/state.json", c.StateFile)
		require.Equal(t, "debug", c.LogLevel)
		require.Equal(t, 5*time.Second, c.Timeout)
	})

	t.Run("empty env keeps defaults", func(t *testing.T) {
		c := NewConfig()

		c.LoadEnv(func(string) string { return "" })

		require.Equal(t, "http://localhost:4000/api", c.BaseURL)
		require.Equal(t, "info", c.LogLevel)
		require.Equal(t, 30*time.Second, c.Timeout)
	})

	t.Run("invalid timeout env ignored", func(t *testing.T) {
		c := NewConfig()

		c.LoadEnv(func(key string) string {
			if key == "CODEJUDGE_TIMEOUT" {
				return "not-a-duration"
			}
			return ""
		})

		require.Equal(t, 30*time.Second, c.Timeout)
	})

	t.Run("parse flags", func(t *testing.T) {
		tests := []struct {
			name  string
			flags []string
		}{
			{
				name: "short",
				flags: []string{
					"-u", "https://judge.example.com/api",
					"-l", "debug",
				},
			},
			{
				name: "long",
				flags: []string{
					"--api-url", "https://judge.example.com/api",
					"--log-level", "debug",
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c := NewConfig()
				fs := pflag.NewFlagSet("codejudge", pflag.ContinueOnError)
				c.RegisterFlags(fs)

				err := fs.Parse(tt.flags)

				require.NoError(t, err, "correct flags must parse without error")
				require.Equal(t, "https://judge.example.com/api", c.BaseURL)
				require.Equal(t, "debug", c.LogLevel)
			})
		}

		t.Run("invalid flags", func(t *testing.T) {
			c := NewConfig()
			fs := pflag.NewFlagSet("codejudge", pflag.ContinueOnError)
			c.RegisterFlags(fs)

			err := fs.Parse([]string{"--invalid-flag", "value"})

			require.Error(t, err, "invalid flag should return an error")
		})
	})

	t.Run("resolve state file", func(t *testing.T) {
		t.Run("explicit path wins", func(t *testing.T) {
			c := NewConfig()
			c.StateFile = "/tmp/custom-state.json"

			path, err := c.ResolveStateFile()

			require.NoError(t, err)
			require.Equal(t, "/tmp/custom-state.json", path)
		})

		t.Run("defaults under user config dir", func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			c := NewConfig()

			path, err := c.ResolveStateFile()

			require.NoError(t, err)
			require.True(t, strings.HasSuffix(path, filepath.Join("codejudge", "state.json")), "unexpected state file path %q", path)
		})
	})
}
