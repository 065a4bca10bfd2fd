package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show toolhub server status",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		health, err := c.GetHealth()
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}

		if jsonOutput {
			data, _ := json.MarshalIndent(health, "", "  ")
			fmt.Println(string(data))
			return
		}

		color.Cyan("Toolhub Server Status:")
		fmt.Printf("  Status: %s\n", health.Status)
		fmt.Printf("  Uptime: %s\n", health.Uptime)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
