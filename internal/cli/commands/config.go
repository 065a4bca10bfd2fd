package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/config"
)

// cliSettings is the CLI-side config, separate from the server's settings
// file so the two can evolve independently.
type cliSettings struct {
	Addr      string `toml:"addr"`
	Format    string `toml:"format"`
	TimeoutMs int    `toml:"timeout_ms"`
}

func defaultCLISettings() cliSettings {
	return cliSettings{
		Addr:      "http://localhost:3100",
		Format:    "text",
		TimeoutMs: 60000,
	}
}

func settingsPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(config.Dir(), "cli.toml")
}

// loadSettings never fails: a missing or unreadable file yields defaults,
// and fields absent from the file keep their default values.
func loadSettings() cliSettings {
	settings := defaultCLISettings()
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		return settings
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return defaultCLISettings()
	}
	if settings.Addr == "" {
		settings.Addr = defaultCLISettings().Addr
	}
	if settings.TimeoutMs <= 0 {
		settings.TimeoutMs = defaultCLISettings().TimeoutMs
	}
	return settings
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Run: func(cmd *cobra.Command, args []string) {
		path := settingsPath()
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Config already exists at %s\n", path)
			return
		}
		data, err := toml.Marshal(defaultCLISettings())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settingsPath())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
