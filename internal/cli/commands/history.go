package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent tool executions, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		records, err := c.History()
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}
		if historyLimit > 0 && len(records) > historyLimit {
			records = records[:historyLimit]
		}
		if len(records) == 0 {
			fmt.Println("No executions recorded yet")
			return
		}
		formatter.FormatHistory(records)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n entries")
}
