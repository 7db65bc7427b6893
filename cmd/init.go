package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triahq/tria/internal/config"
	"github.com/triahq/tria/internal/priority"
	"github.com/triahq/tria/internal/store"
	"github.com/triahq/tria/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up tria for the first time",
	Long:  `Initialize tria with your preferences. Creates config and data directories.`,
	RunE:  runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithReader(bufio.NewReader(os.Stdin))
}

func runInitWithReader(reader *bufio.Reader) error {
	fmt.Println(ui.Title.Render(ui.IconTria + "Welcome to tria!"))
	fmt.Println()
	ui.Inf("Let's get you set up. This takes a few seconds.")
	fmt.Println()

	name := prompt(reader, "  What should I call you?", guessName())
	workspace := prompt(reader, "  Name this workspace", "studio")
	fmt.Println()

	cfg := &config.Config{}
	cfg.User.Name = name
	cfg.Workspace.Name = workspace
	cfg.Workspace.Timezone = guessTimezone()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	// Open once so migrations run and the default profile is persisted.
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	configs := priority.NewConfigStore(db.Conn(), nil)
	if err := configs.Save(priority.DefaultConfig(), priority.SourceDefault); err != nil {
		return fmt.Errorf("seeding priority config: %w", err)
	}
	installID, err := db.InstallID()
	if err != nil {
		return fmt.Errorf("minting install id: %w", err)
	}

	paths := config.GetPaths()
	ui.Ok("All set!")
	fmt.Println()
	ui.Kv("Config", paths.ConfigFile)
	ui.Kv("Data", paths.DBFile)
	ui.Kv("Timezone", cfg.Workspace.Timezone)
	ui.Kv("Workspace id", shortID(installID))
	fmt.Println()
	ui.Tip(fmt.Sprintf("Try %s to capture your first item.", ui.Accent.Render(`tria add -k email -c BOOKING/Offer "Festival offer"`)))
	fmt.Println()
	return nil
}

func prompt(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, ui.Muted.Render(def))
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func guessName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return ""
}

func guessTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	return "UTC"
}
