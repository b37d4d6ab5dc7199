package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/NitinReddy01/codejudge-cli/internal/models"
)

func newRunCommand(app *App) *cobra.Command {
	var (
		problemID string
		language  string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a solution against the sample test cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := buildSubmission(cmd, app, problemID, language, file)
			if err != nil {
				return err
			}

			resp, err := app.Submissions.Run(cmd.Context(), sub)
			if err != nil {
				return err
			}

			printResults(cmd, resp)
			return nil
		},
	}

	registerSubmissionFlags(cmd, &problemID, &language, &file)
	return cmd
}

func newSubmitCommand(app *App) *cobra.Command {
	var (
		problemID string
		language  string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a solution for judging",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := buildSubmission(cmd, app, problemID, language, file)
			if err != nil {
				return err
			}

			resp, err := app.Submissions.Submit(cmd.Context(), sub)
			if err != nil {
				return err
			}

			printResults(cmd, resp)
			if resp.FailedTests > 0 {
				return fmt.Errorf("%d of %d tests failed", resp.FailedTests, resp.TotalTests)
			}
			return nil
		},
	}

	registerSubmissionFlags(cmd, &problemID, &language, &file)
	return cmd
}

func newSubmissionsCommand(app *App) *cobra.Command {
	var problemID string

	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List past submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Submissions.History(cmd.Context(), problemID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tPROBLEM\tLANGUAGE\tSTATUS\tTESTS")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\n",
					rec.CreatedAt.Format(time.DateTime), rec.ProblemID, rec.Language,
					rec.Status, rec.PassedTests, rec.TotalTests)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&problemID, "problem", "", "Only submissions for this problem")
	return cmd
}

func registerSubmissionFlags(cmd *cobra.Command, problemID *string, language *string, file *string) {
	cmd.Flags().StringVar(problemID, "problem", "", "Problem ID")
	cmd.Flags().StringVar(language, "language", "", "Language code (see 'codejudge languages')")
	cmd.Flags().StringVarP(file, "file", "f", "", "Path of the solution source file")
	_ = cmd.MarkFlagRequired("problem")
	_ = cmd.MarkFlagRequired("language")
	_ = cmd.MarkFlagRequired("file")
}

// buildSubmission pairs the local source file with the problem's test
// cases and limits fetched from the backend
func buildSubmission(cmd *cobra.Command, app *App, problemID string, language string, file string) (models.Submission, error) {
	code, err := os.ReadFile(file)
	if err != nil {
		return models.Submission{}, fmt.Errorf("read solution file: %w", err)
	}

	problem, err := app.Problems.Get(cmd.Context(), problemID)
	if err != nil {
		return models.Submission{}, err
	}

	return models.Submission{
		ProblemID:   problem.ID,
		Code:        string(code),
		Language:    language,
		TestCases:   problem.SampleTestCases,
		TimeLimit:   problem.TimeLimit,
		MemoryLimit: problem.MemoryLimit,
	}, nil
}

func printResults(cmd *cobra.Command, resp models.SubmissionResponse) {
	out := cmd.OutOrStdout()
	for _, r := range resp.Results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		if r.IsTimeout {
			status = "TIMEOUT"
		}

		fmt.Fprintf(out, "Test %d: %s\n", r.TestCaseIndex+1, status)
		if !r.Passed {
			fmt.Fprintf(out, "  Input:    %s\n  Expected: %s\n  Got:      %s\n", r.Input, r.ExpectedOutput, r.Output)
			if r.Error != "" {
				fmt.Fprintf(out, "  Error:    %s\n", r.Error)
			}
		}
	}
	fmt.Fprintf(out, "%d/%d tests passed in %d ms\n", resp.PassedTests, resp.TotalTests, resp.TotalTime)
}
