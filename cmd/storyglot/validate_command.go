package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyglot/internal/services"
	"storyglot/internal/validate"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <schema> <data>",
		Short:       "Validate a JSON file against a schema",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			failures, err := validate.Pair(args[0], args[1])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(failures) == 0 {
				printStatus(w, true, "%s is valid", args[1])
				return nil
			}
			printStatus(w, false, "%s is invalid", args[1])
			for _, line := range failures {
				fmt.Fprintf(w, "  %s\n", line)
			}
			return services.Wrap(services.ErrValidation, "validate", "pair", fmt.Sprintf("%d failure(s)", len(failures)), nil)
		},
	}
}

func newValidateAllCommand(ctx *commandContext) *cobra.Command {
	var jobsDir string

	cmd := &cobra.Command{
		Use:   "validate-all",
		Short: "Validate every job's artifacts against the embedded schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := jobsDir
			if strings.TrimSpace(dir) == "" {
				dir = cfg.Paths.JobsDir
			}

			summary, err := validate.All(cmd.Context(), dir, ctx.componentLogger("validate"))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, result := range summary.Results {
				printStatus(w, result.Passed(), "%s (%s)", result.Data, result.Schema)
				if result.Err != nil {
					fmt.Fprintf(w, "  %v\n", result.Err)
				}
				for _, line := range result.Failures {
					fmt.Fprintf(w, "  %s\n", line)
				}
			}
			fmt.Fprintf(w, "\nValidation complete: %d/%d passed\n", summary.Passed, summary.Total)

			if summary.Passed != summary.Total {
				return services.Wrap(services.ErrValidation, "validate", "all",
					fmt.Sprintf("%d of %d artifacts failed", summary.Total-summary.Passed, summary.Total), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobsDir, "jobs", "", "Jobs directory (defaults to configuration)")
	return cmd
}
