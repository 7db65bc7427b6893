package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/config"
	"github.com/triahq/tria/internal/item"
	"github.com/triahq/tria/internal/priority"
	"github.com/triahq/tria/internal/store"
	"github.com/triahq/tria/internal/ui"
	"github.com/triahq/tria/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tria",
	Short: "Priority triage for your inbox, calendar, and tasks",
	Long:  `tria — one ranked list across email, timeline, and tasks, tuned by you.`,
	RunE:  runDashboard,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(inboxCmd)
	rootCmd.AddCommand(whyCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(presetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStores opens the database and wraps it in the domain stores. Callers
// must Close the returned DB.
func openStores() (*store.DB, *priority.ConfigStore, *item.Store, error) {
	db, err := store.Open()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return db, priority.NewConfigStore(db.Conn(), nil), item.NewStore(db.Conn()), nil
}

// newScorer builds a scorer honoring the workspace's disabled capabilities.
func newScorer(cfg *config.Config) *priority.Scorer {
	if len(cfg.Engine.DisabledCapabilities) == 0 {
		return priority.NewScorer(nil)
	}
	caps := priority.AllCapabilities()
	for _, name := range cfg.Engine.DisabledCapabilities {
		caps = caps.Without(priority.Capability(name))
	}
	return priority.NewScorer(caps)
}

// runDashboard shows the at-a-glance status when you just type `tria`.
func runDashboard(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !config.Initialized() {
		fmt.Println(ui.Title.Render(ui.IconTria + "tria"))
		fmt.Println()
		fmt.Println("  Looks like this is your first time here.")
		fmt.Println()
		fmt.Printf("  Run %s to get started.\n", ui.Accent.Render("tria init"))
		fmt.Println()
		return nil
	}

	db, configs, items, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	open, total, err := items.Count()
	if err != nil {
		return fmt.Errorf("counting items: %w", err)
	}

	title := ui.Title.Render(ui.IconTria + "tria")
	if cfg.Workspace.Name != "" {
		title += ui.Muted.Render("  " + ui.IconDot + " " + cfg.Workspace.Name)
	}
	fmt.Println(title)
	fmt.Println()

	summary := fmt.Sprintf("%d open", open)
	if total > 0 {
		summary += fmt.Sprintf(" / %d total", total)
	}
	ui.Kv(ui.IconInbox+" Inbox", summary)

	pcfg, source, err := configs.Load()
	if err != nil {
		return err
	}
	ui.Kv("  "+ui.IconPreset+" Config", source)

	now := time.Now()
	if entry, ok := priority.ActiveScheduledPreset(pcfg, now); ok {
		ui.Kv("  "+ui.IconEvent+" Scheduled", entry.PresetSlug)
	}
	ui.Kv("  📅 Today", now.Format("Monday, January 2"))
	ui.Kv("  ⚙️  Tria", version.Short())

	if open > 0 {
		ui.Tip("`tria inbox` to see what needs you first.")
	} else {
		ui.Tip("`tria add --kind email ...` to capture something.")
	}

	fmt.Println()
	return nil
}
