package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"storyglot/internal/speaker"
	"storyglot/internal/story"
)

func newSpeakersCommand(ctx *commandContext) *cobra.Command {
	speakersCmd := &cobra.Command{
		Use:   "speakers",
		Short: "Maintain the speaker registries",
	}

	speakersCmd.AddCommand(newSpeakersInitCommand(ctx))
	speakersCmd.AddCommand(newSpeakersAddCommand(ctx))
	speakersCmd.AddCommand(newSpeakersLinkVoiceCommand(ctx))
	speakersCmd.AddCommand(newSpeakersAddMapPatternCommand(ctx))
	speakersCmd.AddCommand(newSpeakersSuggestMissingCommand(ctx))
	speakersCmd.AddCommand(newSpeakersListCommand(ctx))

	return speakersCmd
}

func speakersAssetsDir(ctx *commandContext, flag string) (string, error) {
	if strings.TrimSpace(flag) != "" {
		return flag, nil
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.AssetsDir, nil
}

func newSpeakersInitCommand(ctx *commandContext) *cobra.Command {
	var assetsDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create empty registries with the narrator seeded",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := speakersAssetsDir(ctx, assetsDir)
			if err != nil {
				return err
			}
			if err := speaker.Init(dir); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), true, "registries ready under %s", speaker.RegistriesDir(dir))
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	return cmd
}

func newSpeakersAddCommand(ctx *commandContext) *cobra.Command {
	var (
		assetsDir string
		rec       speaker.Record
	)
	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add or update a speaker record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := speakersAssetsDir(ctx, assetsDir)
			if err != nil {
				return err
			}
			if err := speaker.Add(dir, args[0], rec); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), true, "speaker %s saved", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	cmd.Flags().StringVar(&rec.DisplayName, "display-name", "", "Human-readable name")
	cmd.Flags().StringVar(&rec.DefaultVoice, "voice", "", "Default synthesis voice id")
	cmd.Flags().StringVar(&rec.Lang, "lang", "uk", "Speaker language")
	cmd.Flags().IntVar(&rec.Pitch, "pitch", 0, "Pitch adjustment")
	cmd.Flags().Float64Var(&rec.Rate, "rate", 1.0, "Speech rate multiplier")
	cmd.Flags().StringVar(&rec.Style, "style", "", "Delivery style hint")
	return cmd
}

func newSpeakersLinkVoiceCommand(ctx *commandContext) *cobra.Command {
	var assetsDir string
	cmd := &cobra.Command{
		Use:   "link-voice <id> <voice>",
		Short: "Point an existing speaker at a synthesis voice",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := speakersAssetsDir(ctx, assetsDir)
			if err != nil {
				return err
			}
			if err := speaker.LinkVoice(dir, args[0], args[1]); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), true, "%s → %s", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	return cmd
}

func newSpeakersAddMapPatternCommand(ctx *commandContext) *cobra.Command {
	var assetsDir string
	cmd := &cobra.Command{
		Use:   "add-map-pattern <pattern> <speaker>",
		Short: "Map a name-matching regular expression to a speaker",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := speakersAssetsDir(ctx, assetsDir)
			if err != nil {
				return err
			}
			if err := speaker.AddMapPattern(dir, args[0], args[1]); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), true, "pattern %q → %s", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	return cmd
}

func newSpeakersSuggestMissingCommand(ctx *commandContext) *cobra.Command {
	var (
		assetsDir string
		input     string
	)
	cmd := &cobra.Command{
		Use:   "suggest-missing",
		Short: "Scan a story for names the registries do not cover",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := speakersAssetsDir(ctx, assetsDir)
			if err != nil {
				return err
			}

			doc, err := story.Load(input)
			if err != nil {
				return err
			}
			reg, err := speaker.LoadRegistry(dir, ctx.componentLogger("speakers"))
			if err != nil {
				return err
			}

			suggestions := speaker.SuggestMissing(reg, doc, cfg.TTS.AttributionCues)
			w := cmd.OutOrStdout()
			if suggestions.Covered() {
				printStatus(w, true, "registries cover every name in %s", input)
				return nil
			}
			if len(suggestions.MissingSpeakers) > 0 {
				fmt.Fprintln(w, "Speakers referenced but not registered:")
				for _, name := range suggestions.MissingSpeakers {
					fmt.Fprintf(w, "  storyglot speakers add %s --display-name %q\n", speakerIDHint(name), name)
				}
			}
			if len(suggestions.MissingPatterns) > 0 {
				fmt.Fprintln(w, "Names in narration with no map pattern:")
				for _, name := range suggestions.MissingPatterns {
					fmt.Fprintf(w, "  storyglot speakers add-map-pattern %q <speaker>\n", "^"+name+"$")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	cmd.Flags().StringVar(&input, "input", "", "Path to the story JSON to scan")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// speakerIDHint proposes a registry id for a display name.
func speakerIDHint(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.ReplaceAll(id, " ", "_")
	if id == "" {
		return "speaker"
	}
	return id
}

func newSpeakersListCommand(ctx *commandContext) *cobra.Command {
	var assetsDir string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show registered speakers and name map patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := speakersAssetsDir(ctx, assetsDir)
			if err != nil {
				return err
			}
			reg, err := speaker.LoadRegistry(dir, ctx.componentLogger("speakers"))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			ids := make([]string, 0, len(reg.Speakers.Items))
			for id := range reg.Speakers.Items {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rec := reg.Speakers.Items[id]
				rows = append(rows, []string{id, rec.DisplayName, rec.DefaultVoice, rec.Lang, rec.Style})
			}
			fmt.Fprintln(w, renderTable([]string{"ID", "Display Name", "Voice", "Lang", "Style"}, rows))

			patternRows := make([][]string, 0, len(reg.NameMap.Patterns))
			for _, p := range reg.NameMap.Patterns {
				patternRows = append(patternRows, []string{p.Pattern, p.Speaker})
			}
			fmt.Fprintln(w, renderTable([]string{"Pattern", "Speaker"}, patternRows))
			fmt.Fprintf(w, "Fallback: %s\n", reg.NameMap.Fallback)
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	return cmd
}
