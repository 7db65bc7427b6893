package cmd

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/triahq/tria/internal/config"
	"github.com/triahq/tria/internal/export"
	"github.com/triahq/tria/internal/priority"
	"github.com/triahq/tria/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and tune the priority configuration",
	Long: `View and tune how tria scores your inbox.

Keys use dot-notation. Scoring keys (email.*, time.*, timeline.*, tasks.*,
scheduling.*) edit the priority profile stored in the database;
category.<NAME> sets one category weight; workspace keys (user.*,
workspace.*, server.*) edit the TOML config file.`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configExportCmd)
	configCmd.AddCommand(configImportCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	Run: func(_ *cobra.Command, _ []string) {
		paths := config.GetPaths()
		fmt.Println(paths.ConfigFile)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settable keys with current values",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a workspace key to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [category ...]",
	Short: "Reset the priority configuration to defaults",
	Long: `Reset the priority configuration. With no arguments the whole profile
returns to the built-in defaults. With category names only those category
weights are restored; every other customization survives.`,
	RunE: runConfigReset,
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Re-persist the active priority configuration",
	Long: `Write the currently loaded priority configuration back to the database.

Loads fail open: a missing or corrupt stored row yields the built-in defaults
in memory without touching disk. Save makes whatever is loaded durable.`,
	RunE: runConfigSave,
}

var configExportFlags struct {
	out     string
	encrypt bool
}

var configExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the priority configuration to a file",
	RunE:  runConfigExport,
}

var configImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a previously exported priority configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigImport,
}

func init() {
	configExportCmd.Flags().StringVarP(&configExportFlags.out, "out", "o", ".", "Output directory")
	configExportCmd.Flags().BoolVarP(&configExportFlags.encrypt, "encrypt", "e", false, "Encrypt the export with a passphrase")
}

// categoryKey extracts the category name from a category.<NAME> key.
func categoryKey(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, "category.")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func runConfigList(_ *cobra.Command, _ []string) error {
	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	pcfg, _, err := configs.Load()
	if err != nil {
		return err
	}

	ui.Header("Scoring keys")
	for _, key := range priority.SortedKeys() {
		entry := priority.SchemaKeys[key]
		fmt.Printf("  %-42s %-10s %s\n",
			ui.KeyStyle.Render(key), entry.Get(pcfg), ui.Muted.Render(entry.Desc))
	}

	ui.Header("Category weights")
	for _, cat := range priority.DefaultCategories() {
		w, ok := pcfg.Email.CategoryWeights[cat]
		if !ok {
			w = pcfg.Email.DefaultCategoryWeight
		}
		fmt.Printf("  %-42s %g\n", ui.KeyStyle.Render("category."+cat), w)
	}

	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	ui.Header("Workspace keys")
	for _, key := range config.ValidKeyNames() {
		entry, _ := config.LookupKey(key)
		fmt.Printf("  %-42s %-10s %s\n",
			ui.KeyStyle.Render(key), entry.Get(appCfg), ui.Muted.Render(entry.Desc))
	}
	fmt.Println()
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	key := args[0]

	if entry, ok := priority.SchemaKeys[key]; ok {
		db, configs, _, err := openStores()
		if err != nil {
			return err
		}
		defer db.Close()
		pcfg, _, err := configs.Load()
		if err != nil {
			return err
		}
		fmt.Println(entry.Get(pcfg))
		return nil
	}

	if cat, ok := categoryKey(key); ok {
		db, configs, _, err := openStores()
		if err != nil {
			return err
		}
		defer db.Close()
		pcfg, _, err := configs.Load()
		if err != nil {
			return err
		}
		if w, ok := pcfg.Email.CategoryWeights[cat]; ok {
			fmt.Println(w)
		} else {
			fmt.Println(pcfg.Email.DefaultCategoryWeight)
		}
		return nil
	}

	if entry, ok := config.LookupKey(key); ok {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Println(entry.Get(cfg))
		return nil
	}

	return fmt.Errorf("unknown config key %q (run %s to see available keys)",
		key, ui.Accent.Render("tria config list"))
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if entry, ok := priority.SchemaKeys[key]; ok {
		db, configs, _, err := openStores()
		if err != nil {
			return err
		}
		defer db.Close()
		pcfg, _, err := configs.Load()
		if err != nil {
			return err
		}
		next, err := entry.Set(pcfg, value)
		if err != nil {
			return err
		}
		if err := configs.Save(next, priority.SourceManual); err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("%s = %s", key, entry.Get(next)))
		return nil
	}

	if cat, ok := categoryKey(key); ok {
		var w float64
		if _, err := fmt.Sscanf(value, "%f", &w); err != nil {
			return fmt.Errorf("invalid weight %q", value)
		}
		db, configs, _, err := openStores()
		if err != nil {
			return err
		}
		defer db.Close()
		pcfg, _, err := configs.Load()
		if err != nil {
			return err
		}
		next := pcfg.SetCategoryWeight(cat, w)
		if err := configs.Save(next, priority.SourceManual); err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("%s = %g", key, next.Email.CategoryWeights[cat]))
		return nil
	}

	if entry, ok := config.LookupKey(key); ok {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := entry.Set(cfg, value); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		ui.Ok(fmt.Sprintf("%s = %s", key, value))
		return nil
	}

	return fmt.Errorf("unknown config key %q (run %s to see available keys)",
		key, ui.Accent.Render("tria config list"))
}

func runConfigUnset(_ *cobra.Command, args []string) error {
	key := args[0]
	entry, ok := config.LookupKey(key)
	if !ok {
		return fmt.Errorf("unknown workspace key %q (scoring keys reset via %s)",
			key, ui.Accent.Render("tria config reset"))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	entry.Unset(cfg)
	if err := config.Save(cfg); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s = %s", key, entry.Get(cfg)))
	return nil
}

func runConfigReset(_ *cobra.Command, args []string) error {
	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 0 {
		if err := configs.Reset(); err != nil {
			return err
		}
		ui.Ok("Priority configuration reset to defaults")
		return nil
	}

	pcfg, _, err := configs.Load()
	if err != nil {
		return err
	}
	next, changed := priority.ResetCategories(pcfg, args)
	if len(changed) == 0 {
		ui.Inf("Nothing to reset — those categories already match the defaults.")
		return nil
	}
	if err := configs.Save(next, priority.SourceManual); err != nil {
		return err
	}
	ui.Ok("Reset " + strings.Join(changed, ", "))
	return nil
}

func runConfigSave(_ *cobra.Command, _ []string) error {
	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	pcfg, source, err := configs.Load()
	if err != nil {
		return err
	}
	if source == priority.SourceDefault {
		source = priority.SourceManual
	}
	if err := configs.Save(pcfg, source); err != nil {
		return err
	}
	ui.Ok("Priority configuration saved")
	return nil
}

func runConfigExport(_ *cobra.Command, _ []string) error {
	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	pcfg, _, err := configs.Load()
	if err != nil {
		return err
	}

	passphrase := ""
	if configExportFlags.encrypt {
		passphrase, err = readPassphrase("Export passphrase: ")
		if err != nil {
			return err
		}
	}

	path, err := export.WriteFile(pcfg, configExportFlags.out, passphrase, time.Now())
	if err != nil {
		return err
	}
	ui.Ok("Exported to " + ui.Accent.Render(path))
	return nil
}

func runConfigImport(_ *cobra.Command, args []string) error {
	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	passphrase := ""
	if strings.Contains(string(data), "BEGIN AGE ENCRYPTED FILE") {
		passphrase, err = readPassphrase("Import passphrase: ")
		if err != nil {
			return err
		}
	}

	validator := priority.NewValidator(nil)
	pcfg, err := export.Decode(data, passphrase, validator)
	if err != nil {
		return err
	}
	if err := configs.Save(pcfg, priority.SourceImport); err != nil {
		return err
	}
	ui.Ok("Imported priority configuration from " + ui.Accent.Render(args[0]))
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	db, configs, _, err := openStores()
	if err != nil {
		return err
	}
	defer db.Close()

	pcfg, source, err := configs.Load()
	if err != nil {
		return err
	}
	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	paths := config.GetPaths()

	ui.Header("Configuration")
	fmt.Println()
	ui.Kv("Workspace", appCfg.Workspace.Name)
	ui.Kv("Timezone", appCfg.Workspace.Timezone)
	ui.Kv("Source", source)
	ui.Kv("Unread", fmt.Sprintf("%g", pcfg.Email.UnreadBonus))
	ui.Kv("Decay", fmt.Sprintf("%g/day up, %g/day over", pcfg.Time.UpcomingDecayPerDay, pcfg.Time.OverduePenaltyPerDay))
	ui.Kv("Boosts", fmt.Sprintf("%d rule(s)", len(pcfg.Email.AdvancedBoosts)))
	ui.Kv("Actions", fmt.Sprintf("%d rule(s)", len(pcfg.Email.ActionRules)))
	fmt.Println()
	ui.Kv("Config", paths.ConfigFile)
	ui.Kv("Data", paths.DBFile)
	fmt.Println()
	ui.Tip(fmt.Sprintf("See every key: %s", ui.Accent.Render("tria config list")))
	fmt.Println()
	return nil
}

// readPassphrase prompts on stderr and reads without echo when stdin is a
// terminal, falling back to a plain line read otherwise (tests, pipes).
func readPassphrase(promptText string) (string, error) {
	fmt.Fprint(os.Stderr, promptText)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(raw), nil
	}
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return line, nil
}
