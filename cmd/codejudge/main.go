package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cmd, err := newRootCommand(os.Getwd, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand layers the config before cobra parses anything:
// defaults, then .env, then the environment, flags last
func newRootCommand(getwd func() (string, error), getenv func(string) string) (*cobra.Command, error) {
	cfg := NewConfig()
	if err := cfg.LoadDotEnv(getwd); err != nil {
		return nil, fmt.Errorf("read .env file: %w", err)
	}
	cfg.LoadEnv(getenv)

	app := &App{}

	cmd := &cobra.Command{
		Use:           "codejudge",
		Short:         "Command-line client for the codejudge platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := NewApp(cfg)
			if err != nil {
				return err
			}
			*app = *built

			app.Start(cmd.Context())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	cfg.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newLoginCommand(app))
	cmd.AddCommand(newRegisterCommand(app))
	cmd.AddCommand(newLogoutCommand(app))
	cmd.AddCommand(newWhoamiCommand(app))
	cmd.AddCommand(newRefreshCommand(app))
	cmd.AddCommand(newProblemsCommand(app))
	cmd.AddCommand(newLanguagesCommand(app))
	cmd.AddCommand(newRunCommand(app))
	cmd.AddCommand(newSubmitCommand(app))
	cmd.AddCommand(newSubmissionsCommand(app))

	return cmd, nil
}
