package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"imgprep/internal/config"
	"imgprep/internal/logging"
	"imgprep/internal/pipeline"
	"imgprep/internal/watch"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var watchFlag bool
	overrides := &config.Overrides{}

	ctx := newCommandContext(&configFlag, overrides)

	rootCmd := &cobra.Command{
		Use:           "imgprep [PATH ...]",
		Short:         "Generate responsive image variants and inline blurred placeholders",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if cmd.Parent() == nil && len(args) > 0 {
				overrides.Inputs = args
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, ctx, watchFlag)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.StringVarP(&overrides.OutputDir, "output", "o", "", "Output directory (wiped on every run)")
	flags.StringVar(&overrides.HTMLFile, "html", "", "HTML document to patch with placeholders")
	rootCmd.Flags().IntVarP(&overrides.Jobs, "jobs", "j", 0, "Number of images processed concurrently")
	rootCmd.Flags().BoolVar(&overrides.NoRetina, "no-retina", false, "Skip @2x variants")
	rootCmd.Flags().BoolVar(&overrides.NoHTML, "no-html", false, "Do not patch the HTML document")
	rootCmd.Flags().BoolVar(&watchFlag, "watch", false, "Rebuild whenever source images change")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func runBuild(cmd *cobra.Command, ctx *commandContext, watchMode bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(commandContextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(cfg, logger)
	out := cmd.OutOrStdout()
	summary, err := runner.Run(runCtx)
	if err != nil {
		return err
	}
	printSummary(out, summary)

	if !watchMode {
		return nil
	}

	watcher, err := watch.New(cfg.Paths.Inputs, cfg.Paths.OutputDir,
		time.Duration(cfg.Workflow.WatchDebounceMillis)*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger.Info("watching for changes; press Ctrl+C to stop", logging.Int("inputs", len(cfg.Paths.Inputs)))
	return watcher.Run(runCtx, func(ctx context.Context) error {
		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printSummary(out, summary)
		return nil
	})
}

func commandContextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
