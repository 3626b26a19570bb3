package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"caregrid-listings/config"
	"caregrid-listings/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLeveledLogger(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "caregrid",
		Short:         "CareGrid listings manager",
		Long:          `Cleans, deduplicates, enriches and publishes UK private healthcare clinic listings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	run := createRunCmd(cfg, logger)
	rootCmd.AddCommand(run)
	rootCmd.AddCommand(createPublishCmd(cfg, logger))
	rootCmd.AddCommand(createCheckEnvCmd(cfg))
	rootCmd.RunE = run.RunE
	rootCmd.Flags().AddFlagSet(run.Flags())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
