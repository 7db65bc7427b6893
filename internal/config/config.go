package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the top-level tria configuration. The priority scoring
// profile itself lives in the database; this file carries workspace-level
// settings that rarely change.
type Config struct {
	User      UserConfig      `toml:"user"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Engine    EngineConfig    `toml:"engine"`
	Server    ServerConfig    `toml:"server"`
}

type UserConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// WorkspaceConfig names the workspace and its display timezone.
type WorkspaceConfig struct {
	Name     string `toml:"name"`
	Timezone string `toml:"timezone"`
}

// EngineConfig tunes the scoring engine at the deployment level.
type EngineConfig struct {
	// DisabledCapabilities lists scoring steps to skip, e.g. "advanced_boosts".
	DisabledCapabilities []string `toml:"disabled_capabilities"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	// Addr is the listen address for `tria serve`.
	Addr string `toml:"addr"`
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	triaConfig := filepath.Join(configDir, "tria")
	triaData := filepath.Join(dataDir, "tria")

	return Paths{
		ConfigDir:  triaConfig,
		DataDir:    triaData,
		CacheDir:   filepath.Join(cacheDir, "tria"),
		StateDir:   filepath.Join(stateDir, "tria"),
		ConfigFile: filepath.Join(triaConfig, "config.toml"),
		DBFile:     filepath.Join(triaData, "tria.db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := &Config{}

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if tria has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Workspace.Timezone == "" {
		cfg.Workspace.Timezone = "UTC"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:7337"
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
