package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(app *App) *cobra.Command {
	var (
		email    string
		password string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Auth.SetPersist(remember)
			if err := app.Auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			state := app.Store.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", state.User.Name, state.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&remember, "remember", false, "Keep the session across restarts")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand(app *App) *cobra.Command {
	var (
		name     string
		email    string
		password string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Auth.SetPersist(remember)
			if err := app.Auth.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}

			state := app.Store.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s <%s>\n", state.User.Name, state.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (8 characters minimum)")
	cmd.Flags().BoolVar(&remember, "remember", false, "Keep the session across restarts")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the refresh token and forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Auth.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.State()
			if !state.IsAuthenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", state.User.Name, state.User.Email)
			return nil
		},
	}
}

func newRefreshCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force a token refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Refresher.Token(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Session refreshed")
			return nil
		},
	}
}
