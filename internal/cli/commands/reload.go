package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Force the server to reload the registry from disk",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		stats, err := c.Reload()
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}
		fmt.Println("Registry reloaded")
		fmt.Println(formatter.FormatStats(stats))
	},
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}
