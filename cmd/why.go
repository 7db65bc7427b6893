package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/config"
	"github.com/triahq/tria/internal/priority"
	"github.com/triahq/tria/internal/ui"
)

var whyCmd = &cobra.Command{
	Use:   "why <id>",
	Short: "Explain an item's priority score",
	Long:  `Show the per-step score breakdown for one item: every configured signal that contributed, in evaluation order.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWhy,
}

func runWhy(_ *cobra.Command, args []string) error {
	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, configs, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := items.Get(args[0])
	if err != nil {
		return err
	}
	cfg, _, err := configs.Load()
	if err != nil {
		return err
	}

	scorer := newScorer(appCfg)
	score := scorer.Compute(*snap, cfg, time.Now())

	ui.Header(fmt.Sprintf("%s %s", ui.KindIcon(string(snap.Kind)), snap.Subject))
	if snap.Category != "" {
		ui.Kv("Category", snap.Category)
	}
	if snap.FromName != "" || snap.FromEmail != "" {
		ui.Kv("From", fmt.Sprintf("%s <%s>", snap.FromName, snap.FromEmail))
	}
	ui.Kv("State", string(snap.TriageState))
	ui.Kv("Zone", string(priority.ZoneFor(snap.TriageState, score.Total)))
	fmt.Println()
	fmt.Print(ui.Breakdown(score))
	fmt.Println()
	return nil
}
