package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storyglot/internal/ingest"
	"storyglot/internal/jobs"
	"storyglot/internal/schemas"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		input   string
		schema  string
		outDir  string
		title   string
		lenient bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Validate and normalize a story into a job directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := outDir
			if strings.TrimSpace(out) == "" {
				out = cfg.Paths.JobsDir
			}

			result, runErr := ingest.Run(ingest.Options{
				Input:   input,
				Schema:  schema,
				OutDir:  out,
				Title:   title,
				Lenient: lenient,
			}, ctx.componentLogger("ingest"))

			// Index whatever was written, even when the run failed
			// validation, so the failure is visible in `jobs list`.
			if result != nil {
				if err := indexJob(cmd.Context(), cfg.Paths.LogDir, result); err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, line := range result.Errors {
					fmt.Fprintf(w, "  %s\n", line)
				}
				printStatus(w, result.Status == ingest.StatusDraft, "job %s (%s)", result.JobID, result.Status)
				fmt.Fprintf(w, "Job directory: %s\n", result.Dir)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Path to the input JSON file")
	cmd.Flags().StringVar(&schema, "schema", schemas.Story, "Schema to validate against (story or timeline)")
	cmd.Flags().StringVar(&outDir, "out", "", "Job output directory (defaults to the configured jobs dir)")
	cmd.Flags().StringVar(&title, "title", "", "Override the story title for job id generation")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Record validation failures instead of failing the run")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func indexJob(ctx context.Context, logDir string, result *ingest.Result) error {
	store, err := jobs.Open(logDir)
	if err != nil {
		return err
	}
	defer store.Close()
	_, err = store.Record(ctx, result.JobID, result.Title, result.Slug, result.Dir, result.Status)
	return err
}
