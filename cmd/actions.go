package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/config"
	"github.com/triahq/tria/internal/ui"
)

var actionsCmd = &cobra.Command{
	Use:   "actions <id>",
	Short: "Show quick actions available for an item",
	Long:  `Evaluate the configured action rules against one item and list every action that currently applies, in configuration order.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runActions,
}

func runActions(_ *cobra.Command, args []string) error {
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
	rules := scorer.SelectActions(*snap, score.Total, cfg)

	if len(rules) == 0 {
		ui.Inf("No actions apply to this item right now.")
		return nil
	}

	ui.Header(ui.IconAction + " Actions")
	for _, r := range rules {
		line := fmt.Sprintf("  %s %s", ui.Accent.Render(r.Label), ui.Muted.Render("("+string(r.ActionType)+")"))
		if r.Payload != nil && *r.Payload != "" {
			line += ui.Muted.Render(" " + ui.IconArrow + " " + *r.Payload)
		}
		ui.Puts(line)
	}
	fmt.Println()
	return nil
}
