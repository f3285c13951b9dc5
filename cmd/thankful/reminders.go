package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/unowned-ai/thankful/pkg/reminders"
)

var (
	atFlag        string
	daysFlag      string
	dryRunFlag    bool
	cancelAllFlag bool
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Schedule weekly reminders to write down what you are thankful for",
}

var scheduleRemindersCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule a weekly reminder at one time of day on the chosen weekdays",
	Long: `Schedule a reminder that repeats every week at --at on each of --days.
Scheduling the same time and day again replaces the earlier reminder.

Example:
  thankful reminders schedule --at 19:30 --days Monday,Wednesday
  thankful reminders schedule --at "8:00 AM" --days Sunday --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeOfDay, err := reminders.ParseTimeOfDay(atFlag, time.Local)
		if err != nil {
			return err
		}
		days := splitDays(daysFlag)
		if err := reminders.ValidateDays(days); err != nil {
			return err
		}

		fmt.Println(reminders.Summary(timeOfDay, days))
		if dryRunFlag {
			triggers, _ := reminders.ComputeTriggers(timeOfDay, days)
			for _, t := range triggers {
				fmt.Println(t.Identifier)
			}
			return nil
		}
		if len(days) == 0 {
			return errors.New("--days must name at least one weekday")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.scheduler.Schedule(cmd.Context(), timeOfDay, days)
		if result.State == reminders.StateDenied {
			fmt.Println("Notification permission is denied; nothing was scheduled.")
			fmt.Println("Run 'thankful reminders permission grant' to allow reminders.")
			return nil
		}
		for _, id := range result.Submitted {
			fmt.Printf("Scheduled %s\n", id)
		}
		if err != nil {
			failed := multierr.Errors(err)
			return fmt.Errorf("%d of %d reminders could not be scheduled: %w", len(failed), len(result.Triggers), err)
		}
		return nil
	},
}

var listRemindersCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		pending, err := a.scheduler.ListPending(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list reminders: %w", err)
		}
		if len(pending) == 0 {
			color.New(color.Faint, color.Italic).Println("No reminders scheduled.")
			return nil
		}

		dispatcher := reminders.NewDispatcher(a.notifier, nil, time.Local, a.logger)
		if _, err := dispatcher.Reload(cmd.Context()); err != nil {
			return err
		}

		now := time.Now()
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("IDENTIFIER", "REPEATS", "NEXT", "TITLE")
		for _, p := range pending {
			next := "-"
			if t, ok := dispatcher.Next(p.Identifier, now); ok {
				next = t.Format("Mon Jan 2 15:04")
			}
			tbl.AddRow(p.Identifier, p.Describe(), next, p.Content.Title)
		}
		fmt.Fprintln(color.Output, tbl)
		return nil
	},
}

var cancelRemindersCmd = &cobra.Command{
	Use:   "cancel [identifier]...",
	Short: "Cancel scheduled reminders",
	Long:  `Cancel reminders by identifier (as shown by 'thankful reminders list'), or all of them with --all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !cancelAllFlag {
			return errors.New("give at least one identifier or --all")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		identifiers := args
		if cancelAllFlag {
			pending, err := a.scheduler.ListPending(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list reminders: %w", err)
			}
			identifiers = lo.Map(pending, func(p reminders.Pending, _ int) string {
				return p.Identifier
			})
		}

		if err := a.scheduler.Cancel(cmd.Context(), identifiers...); err != nil {
			return fmt.Errorf("failed to cancel reminders: %w", err)
		}
		fmt.Printf("Cancelled %d reminder(s).\n", len(identifiers))
		return nil
	},
}

var permissionCmd = &cobra.Command{
	Use:       "permission grant|revoke|status",
	Short:     "Show or change whether reminders may be delivered",
	ValidArgs: []string{"grant", "revoke", "status"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		switch args[0] {
		case "grant", "revoke":
			granted := args[0] == "grant"
			if err := a.notifier.SetPermission(ctx, granted); err != nil {
				return fmt.Errorf("failed to record permission: %w", err)
			}
			a.logger.Info("notification permission changed", zap.Bool("granted", granted))
		}

		granted, decided, err := a.notifier.Permission(ctx)
		if err != nil {
			return fmt.Errorf("failed to read permission: %w", err)
		}
		switch {
		case !decided:
			fmt.Printf("Permission has not been requested yet (first use will record %t).\n", a.cfg.Reminders.AutoGrant)
		case granted:
			fmt.Println("Reminders are allowed.")
		default:
			fmt.Println("Reminders are denied.")
		}
		return nil
	},
}

var runRemindersCmd = &cobra.Command{
	Use:   "run",
	Short: "Deliver scheduled reminders until interrupted",
	Long: `Run in the foreground and print each reminder when it is due. Scheduled
reminders are re-read every reminders.reload_interval, so changes made by
other thankful commands are picked up without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		dispatcher := reminders.NewDispatcher(a.notifier, deliverReminder, time.Local, a.logger)
		a.logger.Info("delivering reminders", zap.Duration("reload_interval", a.cfg.Reminders.ReloadInterval))
		fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for reminders ... (Ctrl+C to quit)")
		return dispatcher.Run(cmd.Context(), a.cfg.Reminders.ReloadInterval)
	},
}

func deliverReminder(_ context.Context, p reminders.Pending) {
	title := color.New(color.Bold, color.FgHiMagenta)
	title.Printf("%s  %s\n", time.Now().Format("Mon 15:04"), p.Content.Title)
	fmt.Println(p.Content.Body)
}

// splitDays turns "Monday, Wednesday" into ["Monday", "Wednesday"].
func splitDays(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(day string, _ int) string {
		return strings.TrimSpace(day)
	}))
}

func initRemindersCmd() {
	scheduleRemindersCmd.Flags().StringVar(&atFlag, "at", "", "Time of day, e.g. 19:30 or \"7:30 PM\" (required)")
	scheduleRemindersCmd.Flags().StringVar(&daysFlag, "days", "", "Comma-separated weekday names, e.g. Monday,Wednesday")
	scheduleRemindersCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print the summary and identifiers without scheduling anything")
	scheduleRemindersCmd.MarkFlagRequired("at")

	cancelRemindersCmd.Flags().BoolVar(&cancelAllFlag, "all", false, "Cancel every scheduled reminder")

	remindersCmd.AddCommand(scheduleRemindersCmd, listRemindersCmd, cancelRemindersCmd, permissionCmd, runRemindersCmd)
}
