package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgprep/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run filesystem preflight checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			source := ctx.configPath
			if !ctx.configExists {
				source = "defaults (no config file)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, source, colorize))
			fmt.Fprintln(out, renderStatusLine("Output", statusInfo, cfg.Paths.OutputDir, colorize))
			fmt.Fprintln(out, renderStatusLine("HTML patching", statusInfo, yesNo(cfg.PatchHTML()), colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cfg)
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, checkKind(r), r.Detail, colorize))
			}
			return preflight.Err(results)
		},
	}
}

func checkKind(r preflight.Result) statusKind {
	switch {
	case r.Passed:
		return statusOK
	case r.Fatal:
		return statusError
	default:
		return statusWarn
	}
}
