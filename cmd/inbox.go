package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/config"
	"github.com/triahq/tria/internal/entity"
	"github.com/triahq/tria/internal/item"
	"github.com/triahq/tria/internal/priority"
	"github.com/triahq/tria/internal/tui"
	"github.com/triahq/tria/internal/ui"
)

var inboxFlags struct {
	kind        string
	all         bool
	interactive bool
}

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Show the ranked triage inbox",
	RunE:  runInbox,
}

func init() {
	f := inboxCmd.Flags()
	f.StringVarP(&inboxFlags.kind, "kind", "k", "", "Filter to one kind: email, timeline, task")
	f.BoolVarP(&inboxFlags.all, "all", "a", false, "Include resolved items")
	f.BoolVarP(&inboxFlags.interactive, "tui", "i", false, "Open the interactive triage view")
}

func runInbox(_ *cobra.Command, _ []string) error {
	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, configs, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := item.ListOptions{}
	if inboxFlags.kind != "" {
		kind, err := entity.ParseKind(inboxFlags.kind)
		if err != nil {
			return err
		}
		opts.Kind = kind
	}
	if !inboxFlags.all {
		opts.States = []entity.TriageState{
			entity.TriageUnassigned, entity.TriageAcknowledged, entity.TriageSnoozed,
		}
	}

	snaps, err := items.List(opts)
	if err != nil {
		return err
	}
	cfg, _, err := configs.Load()
	if err != nil {
		return err
	}

	scorer := newScorer(appCfg)
	ranked := scorer.Rank(snaps, cfg, time.Now())

	if inboxFlags.interactive {
		if !ui.IsStdoutTTY() {
			return fmt.Errorf("--tui needs a terminal")
		}
		return runInboxTUI(items, ranked)
	}

	if len(ranked) == 0 {
		ui.Inf("Inbox zero. Nothing to triage.")
		return nil
	}

	ui.Header(ui.IconInbox + " Inbox")
	for _, rk := range ranked {
		line := fmt.Sprintf("  %s %s %s %s",
			ui.ZoneBadge(rk.Zone),
			ui.Muted.Render(fmt.Sprintf("%6.1f", rk.Score.Total)),
			ui.KindIcon(string(rk.Entity.Kind)),
			rk.Entity.Subject,
		)
		if rk.Entity.FromName != "" {
			line += ui.Muted.Render(" · " + rk.Entity.FromName)
		}
		line += ui.Muted.Render("  " + shortID(rk.Entity.ID))
		ui.Puts(line)
	}
	fmt.Println()
	ui.Tip(fmt.Sprintf("%s for the full score breakdown.", ui.Accent.Render("tria why <id>")))
	return nil
}

func runInboxTUI(items *item.Store, ranked []priority.Ranked) error {
	actions, err := tui.RunInbox(ranked)
	if err != nil {
		return err
	}
	for _, a := range actions {
		switch a.Type {
		case "ack":
			err = items.SetTriageState(a.ID, entity.TriageAcknowledged)
		case "resolve":
			err = items.SetTriageState(a.ID, entity.TriageResolved)
		case "snooze":
			err = items.Snooze(a.ID, time.Now().AddDate(0, 0, 1))
		case "reopen":
			err = items.SetTriageState(a.ID, entity.TriageUnassigned)
		case "delete":
			err = items.Delete(a.ID)
		}
		if err != nil {
			return fmt.Errorf("applying %s to %s: %w", a.Type, a.ID, err)
		}
	}
	if len(actions) > 0 {
		ui.Ok(fmt.Sprintf("Applied %d change(s)", len(actions)))
	}
	return nil
}
