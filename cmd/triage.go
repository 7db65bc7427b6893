package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/entity"
	"github.com/triahq/tria/internal/ui"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Resolve an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setState(args[0], entity.TriageResolved, "Resolved")
	},
}

var ackCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Acknowledge an item without resolving it",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setState(args[0], entity.TriageAcknowledged, "Acknowledged")
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>",
	Short: "Move an item back to unassigned",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return setState(args[0], entity.TriageUnassigned, "Reopened")
	},
}

var snoozeDays int

var snoozeCmd = &cobra.Command{
	Use:   "snooze <id>",
	Short: "Snooze an item for a few days",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnooze,
}

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an email as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, _, items, err := openStores()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := items.MarkRead(args[0], true); err != nil {
			return err
		}
		ui.Ok("Marked read " + ui.Accent.Render(shortID(args[0])))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		db, _, items, err := openStores()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := items.Delete(args[0]); err != nil {
			return err
		}
		ui.Ok("Deleted " + ui.Accent.Render(shortID(args[0])))
		return nil
	},
}

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize <id> <0-100|clear>",
	Short: "Set or clear an item's manual priority",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrioritize,
}

func init() {
	snoozeCmd.Flags().IntVarP(&snoozeDays, "days", "d", 1, "Days to snooze")
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(snoozeCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(prioritizeCmd)
}

func setState(id string, state entity.TriageState, verb string) error {
	db, _, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := items.SetTriageState(id, state); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s %s", verb, ui.Accent.Render(shortID(id))))
	return nil
}

func runSnooze(_ *cobra.Command, args []string) error {
	db, _, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	until := time.Now().AddDate(0, 0, snoozeDays)
	if err := items.Snooze(args[0], until); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Snoozed %s until %s", ui.Accent.Render(shortID(args[0])), until.Format("Jan 2")))
	return nil
}

func runPrioritize(_ *cobra.Command, args []string) error {
	db, _, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	if args[1] == "clear" {
		if err := items.SetManualPriority(args[0], nil); err != nil {
			return err
		}
		ui.Ok("Cleared manual priority on " + ui.Accent.Render(shortID(args[0])))
		return nil
	}

	var v float64
	if _, err := fmt.Sscanf(args[1], "%f", &v); err != nil {
		return fmt.Errorf("invalid priority %q (use 0-100 or clear)", args[1])
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("priority %v out of range 0-100", v)
	}
	if err := items.SetManualPriority(args[0], &v); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Set priority %.0f on %s", v, ui.Accent.Render(shortID(args[0]))))
	return nil
}
