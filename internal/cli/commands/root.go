package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/client"
	"github.com/mcp-toolhub/toolhub/internal/cli/output"
)

var (
	cfgFile    string
	addr       string
	jsonOutput bool
	rawOutput  bool
	noColor    bool
	timeoutMs  int
)

var rootCmd = &cobra.Command{
	Use:   "toolhub-cli",
	Short: "Toolhub CLI - query and invoke tools on a running toolhub server",
	Long: `Toolhub exposes SaaS APIs and CLI tools behind one uniform interface.
This CLI talks to the local toolhub server over its HTTP API: browse the
registry, search for tools, invoke them, and inspect execution history.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <config-dir>/cli.toml)")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "toolhub server address (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "raw output (no formatting)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVar(&timeoutMs, "timeout", 0, "request timeout in milliseconds (overrides config)")
}

// newClient resolves flags over the TOML config file over built-in defaults.
func newClient() *client.HubClient {
	settings := loadSettings()
	target := settings.Addr
	if addr != "" {
		target = addr
	}
	timeout := time.Duration(settings.TimeoutMs) * time.Millisecond
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return client.NewHubClient(target, timeout)
}

func newFormatter() *output.Formatter {
	settings := loadSettings()
	var fmtMode output.OutputFormat
	switch {
	case jsonOutput:
		fmtMode = output.FormatJSON
	case rawOutput:
		fmtMode = output.FormatRaw
	case settings.Format != "":
		fmtMode = output.OutputFormat(settings.Format)
	default:
		fmtMode = output.FormatText
	}
	return output.NewFormatter(fmtMode, !noColor)
}
