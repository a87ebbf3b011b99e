package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goalpulse/goalpulse/cmd/do/cmd"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Operator tools for GoalPulse",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.RunCmd())
	rootCmd.AddCommand(cmd.PlanCmd())
	rootCmd.AddCommand(cmd.ScheduleCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
