package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"storyglot/internal/assets"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage the content-addressed asset cache",
	}

	assetsCmd.AddCommand(newAssetsInitCommand(ctx))
	assetsCmd.AddCommand(newAssetsAddConstantCommand(ctx))
	assetsCmd.AddCommand(newAssetsListCommand(ctx))
	assetsCmd.AddCommand(newAssetsStubCommand(ctx, "add-image", "Add an image asset", (*assets.Cache).AddImage))
	assetsCmd.AddCommand(newAssetsStubCommand(ctx, "add-animation", "Add an animation asset", (*assets.Cache).AddAnimation))
	assetsCmd.AddCommand(newAssetsStubCommand(ctx, "add-audio", "Add an audio asset", (*assets.Cache).AddAudio))

	return assetsCmd
}

func assetsCache(ctx *commandContext, flag string) (*assets.Cache, error) {
	root := flag
	if strings.TrimSpace(root) == "" {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, err
		}
		root = cfg.Paths.AssetsDir
	}
	return assets.NewCache(root, ctx.componentLogger("assets")), nil
}

func newAssetsInitCommand(ctx *commandContext) *cobra.Command {
	var assetsDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the asset cache layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := assetsCache(ctx, assetsDir)
			if err != nil {
				return err
			}
			if err := cache.Init(); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), true, "asset cache ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	return cmd
}

func newAssetsAddConstantCommand(ctx *commandContext) *cobra.Command {
	var (
		assetsDir string
		name      string
	)
	cmd := &cobra.Command{
		Use:   "add-constant <file>",
		Short: "Cache a JSON constants file by content hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := assetsCache(ctx, assetsDir)
			if err != nil {
				return err
			}
			rel, err := cache.AddConstant(args[0], name)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), true, "cached as %s", rel)
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	cmd.Flags().StringVar(&name, "name", "", "Registry name for the constant (defaults to the file stem)")
	return cmd
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	var assetsDir string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show cached assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := assetsCache(ctx, assetsDir)
			if err != nil {
				return err
			}
			items, err := cache.List()
			if err != nil {
				return err
			}
			sums := make([]string, 0, len(items))
			for sum := range items {
				sums = append(sums, sum)
			}
			sort.Strings(sums)
			rows := make([][]string, 0, len(sums))
			for _, sum := range sums {
				entry := items[sum]
				rows = append(rows, []string{sum[:12], entry.Kind, entry.Name, entry.Path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Hash", "Kind", "Name", "Path"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	return cmd
}

func newAssetsStubCommand(ctx *commandContext, use, short string, fn func(*assets.Cache, string) (string, error)) *cobra.Command {
	var assetsDir string
	cmd := &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := assetsCache(ctx, assetsDir)
			if err != nil {
				return err
			}
			_, err = fn(cache, args[0])
			return err
		},
	}
	cmd.Flags().StringVar(&assetsDir, "assets", "", "Assets directory (defaults to configuration)")
	return cmd
}
