package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"storyglot/internal/jobs"
	"storyglot/internal/speaker"
	"storyglot/internal/story"
	"storyglot/internal/tts"
)

func newTTSCommand(ctx *commandContext) *cobra.Command {
	var (
		input        string
		output       string
		assetsDir    string
		maxChars     int
		enforceKnown bool
		jobID        string
	)

	cmd := &cobra.Command{
		Use:   "tts",
		Short: "Generate synthesizable lines from a normalized story",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.componentLogger("tts")

			assets := assetsDir
			if strings.TrimSpace(assets) == "" {
				assets = cfg.Paths.AssetsDir
			}
			if maxChars <= 0 {
				maxChars = cfg.TTS.MaxChars
			}
			if !cmd.Flags().Changed("enforce-known") {
				enforceKnown = cfg.TTS.EnforceKnown
			}

			doc, err := story.Load(input)
			if err != nil {
				return err
			}
			reg, err := speaker.LoadRegistry(assets, logger)
			if err != nil {
				return err
			}

			cues := tts.DefaultCues()
			if len(cfg.TTS.AttributionCues) > 0 {
				cues.Verbs = cfg.TTS.AttributionCues
			}
			if cfg.TTS.QuoteOpen != "" {
				cues.Open = cfg.TTS.QuoteOpen
			}
			if cfg.TTS.QuoteClose != "" {
				cues.Close = cfg.TTS.QuoteClose
			}

			generator := tts.NewGenerator(reg, tts.Options{
				MaxChars:     maxChars,
				EnforceKnown: enforceKnown,
				Cues:         cues,
			}, logger)

			result, err := generator.Generate(doc)
			if err != nil {
				var resErr *tts.ResolutionError
				if errors.As(err, &resErr) {
					w := cmd.OutOrStdout()
					fmt.Fprintln(w, warnText("Unresolved speakers:", shouldColorize(w)))
					fmt.Fprintln(w, unresolvedTable(resErr.Names))
				}
				return err
			}

			if err := writeLinesFile(output, result.Lines); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(result.Unresolved) > 0 {
				fmt.Fprintln(w, warnText("Unresolved speakers (fallback used):", shouldColorize(w)))
				fmt.Fprintln(w, unresolvedTable(result.Unresolved))
			}
			printStatus(w, true, "generated %d lines → %s", len(result.Lines), output)

			if strings.TrimSpace(jobID) != "" {
				store, err := jobs.Open(cfg.Paths.LogDir)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.UpdateStatus(cmd.Context(), jobID, jobs.StatusTTS, len(result.Lines)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Path to the normalized story JSON")
	cmd.Flags().StringVar(&output, "output", "", "Output path for the line list JSON")
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory holding the speaker registries")
	cmd.Flags().IntVar(&maxChars, "max-chars", 0, "Maximum characters per line (defaults to configuration)")
	cmd.Flags().BoolVar(&enforceKnown, "enforce-known", false, "Fail when any speaker reference is unresolved")
	cmd.Flags().StringVar(&jobID, "job", "", "Job id to mark as processed in the jobs index")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func unresolvedTable(names []string) string {
	rows := make([][]string, 0, len(names))
	for i, name := range names {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), name})
	}
	return renderTable([]string{"#", "Name"}, rows, 0)
}

func writeLinesFile(path string, lines []tts.Line) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lines); err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
