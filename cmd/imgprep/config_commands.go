package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"imgprep/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init [PATH]",
		Short:       "Create a sample configuration file",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				expanded, err := config.ExpandPath(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			} else {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved breakpoints and quality settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if ctx.configExists {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config: defaults (no config file)")
			}
			fmt.Fprintf(out, "Inputs: %s\n", strings.Join(cfg.Paths.Inputs, ", "))
			fmt.Fprintf(out, "Output: %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "HTML:   %s (patch: %s)\n\n", cfg.Paths.HTMLFile, yesNo(cfg.PatchHTML()))

			fmt.Fprintln(out, breakpointTable(cfg))
			fmt.Fprintln(out, qualityTable(cfg))
			if table := overrideTable(cfg); table != "" {
				fmt.Fprintln(out, table)
			}
			return nil
		},
	}
}

func breakpointTable(cfg *config.Config) string {
	rows := make([][]string, 0, len(cfg.Breakpoints))
	for _, bp := range cfg.Breakpoints {
		retina := "-"
		if cfg.Variants.Retina {
			retina = strconv.Itoa(bp.Width * 2)
		}
		rows = append(rows, []string{bp.Label, strconv.Itoa(bp.Width), retina})
	}
	return renderTable([]string{"Breakpoint", "Width", "@2x"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight}, nil)
}

func qualityTable(cfg *config.Config) string {
	rows := [][]string{
		{"jpeg", strconv.Itoa(cfg.Quality.JPEG)},
		{"png", "lossless"},
		{"webp", strconv.Itoa(cfg.Quality.WebP)},
		{"avif", strconv.Itoa(cfg.Quality.AVIF)},
	}
	footer := []string{"extra formats", strings.Join(cfg.Variants.Formats, ", ")}
	return renderTable([]string{"Format", "Quality"}, rows, []columnAlignment{alignLeft, alignRight}, footer)
}

func overrideTable(cfg *config.Config) string {
	if len(cfg.Quality.Overrides) == 0 {
		return ""
	}
	names := make([]string, 0, len(cfg.Quality.Overrides))
	for name := range cfg.Quality.Overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		o := cfg.Quality.Overrides[name]
		rows = append(rows, []string{name, qualityCell(o.JPEG), qualityCell(o.WebP), qualityCell(o.AVIF)})
	}
	return renderTable([]string{"Override", "JPEG", "WebP", "AVIF"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight}, nil)
}

func qualityCell(value int) string {
	if value <= 0 {
		return "-"
	}
	return strconv.Itoa(value)
}
