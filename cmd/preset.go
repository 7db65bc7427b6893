package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/priority"
	"github.com/triahq/tria/internal/ui"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Apply a scoring preset for your current mode of work",
	Long: `Presets swap the whole priority configuration in one step. Applying a
preset replaces every section — it never merges with your current
customizations. Use ` + "`tria config export`" + ` first if you want a way back.`,
	RunE: runPresetList,
}

func init() {
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetApplyCmd)
	presetCmd.AddCommand(presetActiveCmd)
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in presets",
	RunE:  runPresetList,
}

var presetShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Describe a preset and its adjustments",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetShow,
}

var presetApplyCmd = &cobra.Command{
	Use:   "apply <slug>",
	Short: "Replace the priority configuration with a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetApply,
}

var presetActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show which scheduled preset window is active right now",
	RunE:  runPresetActive,
}

func runPresetList(_ *cobra.Command, _ []string) error {
	ui.Header("Presets")
	fmt.Println()
	for _, p := range priority.Presets() {
		fmt.Printf("  %s %s  %s\n", ui.IconPreset, ui.Accent.Render(p.Slug), ui.ValueStyle.Render(p.Name))
		fmt.Printf("    %s\n", ui.Muted.Render(p.Description))
	}
	fmt.Println()
	ui.Tip(fmt.Sprintf("Apply one with %s", ui.Accent.Render("tria preset apply <slug>")))
	fmt.Println()
	return nil
}

func runPresetShow(_ *cobra.Command, args []string) error {
	p, err := priority.FindPreset(args[0])
	if err != nil {
		return err
	}

	ui.Header(p.Name)
	fmt.Println()
	ui.Puts(p.Description)
	fmt.Println()
	ui.Kv("Slug", p.Slug)
	ui.Kv("Good for", strings.Join(p.RecommendedScenarios, ", "))
	fmt.Println()
	ui.Puts(ui.Muted.Render("Adjustments:"))
	for _, a := range p.Adjustments {
		fmt.Printf("  %s %s\n", ui.IconDot, a)
	}
	fmt.Println()
	return nil
}

func runPresetApply(_ *cobra.Command, args []string) error {
	cfg, p, err := priority.ApplyPreset(args[0])
	if err != nil {
		return err
	}

	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := configs.Save(cfg, priority.SourcePreset); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Applied preset %s (%s)", ui.Accent.Render(p.Slug), p.Name))
	ui.Tip(fmt.Sprintf("Back to defaults anytime: %s", ui.Accent.Render("tria config reset")))
	return nil
}

func runPresetActive(_ *cobra.Command, _ []string) error {
	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	pcfg, _, err := configs.Load()
	if err != nil {
		return err
	}

	entry, ok := priority.ActiveScheduledPreset(pcfg, time.Now())
	if !ok {
		ui.Inf("No scheduled preset window is active right now.")
		return nil
	}

	ui.Kv("Preset", entry.PresetSlug)
	ui.Kv("Window", scheduleWindow(entry))
	return nil
}

func scheduleWindow(e priority.ScheduleEntry) string {
	end := "end of day"
	if e.EndTime != nil {
		end = *e.EndTime
	}
	return fmt.Sprintf("%s – %s", e.StartTime, end)
}
