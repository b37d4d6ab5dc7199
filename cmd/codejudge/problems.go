package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NitinReddy01/codejudge-cli/internal/models"
	"github.com/NitinReddy01/codejudge-cli/internal/service"
)

func newProblemsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problems",
		Short: "Browse the problem catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newProblemsListCommand(app))
	cmd.AddCommand(newProblemsShowCommand(app))
	return cmd
}

func newProblemsListCommand(app *App) *cobra.Command {
	var (
		difficulty string
		tags       []string
		search     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List problems, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := app.Problems.List(cmd.Context(), service.ProblemFilters{
				Difficulty: difficulty,
				Tags:       tags,
				Search:     search,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tDIFFICULTY\tTAGS")
			for _, p := range problems {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Difficulty, joinTags(p.Tags))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "Filter by difficulty (easy, medium, hard)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Filter by tag, repeatable")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by title substring")
	return cmd
}

func newProblemsShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one problem in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Problems.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", p.Title, p.Difficulty)
			fmt.Fprintln(out, p.Description)
			if p.Constraints != "" {
				fmt.Fprintf(out, "\nConstraints:\n%s\n", p.Constraints)
			}
			fmt.Fprintf(out, "\nLimits: %d ms, %d MB\n", p.TimeLimit, p.MemoryLimit)
			if len(p.Tags) > 0 {
				fmt.Fprintf(out, "Tags: %s\n", joinTags(p.Tags))
			}
			for i, tc := range p.SampleTestCases {
				fmt.Fprintf(out, "\nExample %d:\n  Input: %s\n  Output: %s\n", i+1, tc.Input, tc.ExpectedOutput)
			}
			return nil
		},
	}
}

func newLanguagesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported submission languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Store.State().IsAuthenticated {
				return errors.New("not logged in")
			}

			// the catalogue is loaded once per session on startup
			languages, err := app.Bootstrap.Languages()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tLANGUAGE")
			for _, l := range languages {
				fmt.Fprintf(w, "%s\t%s\n", l.Code, l.Language)
			}
			return w.Flush()
		},
	}
}

func joinTags(tags []models.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
