package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goalpulse/goalpulse/internal/app"
	"github.com/goalpulse/goalpulse/internal/config"
	"github.com/goalpulse/goalpulse/internal/logger"
	"github.com/goalpulse/goalpulse/internal/reminder"
	"github.com/spf13/cobra"
)

func triggerNames() string {
	names := make([]string, 0, len(reminder.Triggers))
	for _, t := range reminder.Triggers {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func openApp() (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), logger.Options{AppName: cfg.AppName, Env: cfg.AppEnv, SentryDSN: cfg.SentryDSN})
	return app.New(cfg)
}

// RunCmd fires one trigger immediately, the same way the scheduler would.
func RunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <trigger>",
		Short: "Run one reminder trigger now (" + triggerNames() + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trigger, err := reminder.ParseTrigger(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			defer logger.Flush(2 * time.Second)

			return a.Runner.Run(cmd.Context(), trigger)
		},
	}
}

// PlanCmd prints who a send trigger would message right now, without sending.
func PlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <trigger>",
		Short: "Show the messages a trigger would send now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trigger, err := reminder.ParseTrigger(args[0])
			if err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			deliveries, err := a.Runner.Plan(cmd.Context(), trigger)
			if err != nil {
				return err
			}

			printPlan(cmd.OutOrStdout(), trigger, deliveries)
			return nil
		},
	}
}

// ScheduleCmd lists the configured specs and their next firing.
func ScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show reminder specs and next run times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Scheduler == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "reminders are disabled (REMINDER_ENABLED=false)")
				return nil
			}

			printSchedule(cmd.OutOrStdout(), a.Scheduler.Entries(time.Now().In(a.Location)))
			return nil
		},
	}
}

func printPlan(w io.Writer, trigger reminder.Trigger, deliveries []reminder.Delivery) {
	if len(deliveries) == 0 {
		fmt.Fprintf(w, "%s: nobody to message\n", trigger)
		return
	}

	fmt.Fprintf(w, "%s: %d message(s)\n", trigger, len(deliveries))
	for _, d := range deliveries {
		fmt.Fprintf(w, "\n==> %s <%s> (%d goal(s))\n", d.User.Name, d.User.Phone, len(d.Goals))
		fmt.Fprintln(w, d.Body)
	}
}

func printSchedule(w io.Writer, entries []reminder.EntryInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRIGGER\tSPEC\tNEXT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Trigger, e.Spec, e.Next.Format(time.RFC1123))
	}
	_ = tw.Flush()
}
