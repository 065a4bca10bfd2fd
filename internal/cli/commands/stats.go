package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry statistics",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		stats, err := c.Stats()
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}
		fmt.Println(formatter.FormatStats(stats))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
