package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"storyglot/internal/jobs"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect the jobs index",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))

	return jobsCmd
}

func withJobsStore(ctx *commandContext, fn func(*jobs.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := jobs.Open(cfg.Paths.LogDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobsStore(ctx, func(store *jobs.Store) error {
				entries, err := store.List(cmd.Context(), status)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.JobID,
						entry.Title,
						entry.Status,
						strconv.Itoa(entry.LineCount),
						entry.UpdatedAt.Format(time.RFC3339),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(),
					renderTable([]string{"Job", "Title", "Status", "Lines", "Updated"}, rows, 3))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show jobs with this status")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one indexed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJobsStore(ctx, func(store *jobs.Store) error {
				entry, err := store.GetByJobID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{
						"run_id":     entry.RunID,
						"job_id":     entry.JobID,
						"title":      entry.Title,
						"slug":       entry.Slug,
						"dir":        entry.Dir,
						"status":     entry.Status,
						"line_count": entry.LineCount,
						"created_at": entry.CreatedAt.Format(time.RFC3339),
						"updated_at": entry.UpdatedAt.Format(time.RFC3339),
					})
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Job:     %s\n", entry.JobID)
				fmt.Fprintf(w, "Title:   %s\n", entry.Title)
				fmt.Fprintf(w, "Slug:    %s\n", entry.Slug)
				fmt.Fprintf(w, "Dir:     %s\n", entry.Dir)
				fmt.Fprintf(w, "Status:  %s\n", entry.Status)
				fmt.Fprintf(w, "Lines:   %d\n", entry.LineCount)
				fmt.Fprintf(w, "Created: %s\n", entry.CreatedAt.Format(time.RFC3339))
				fmt.Fprintf(w, "Updated: %s\n", entry.UpdatedAt.Format(time.RFC3339))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the job as JSON")
	return cmd
}
