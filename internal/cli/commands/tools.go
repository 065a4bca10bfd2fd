package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
)

var toolsShowSchema bool

var toolsCmd = &cobra.Command{
	Use:   "tools <server> [tool]",
	Short: "List a server's tools, or show one tool's definition",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		if len(args) == 2 || toolsShowSchema {
			if len(args) < 2 {
				fmt.Println("Error: --schema requires a tool name")
				os.Exit(1)
			}
			def, err := c.GetTool(args[0], args[1])
			if err != nil {
				fmt.Println(formatter.FormatError(errors.Classify(err)))
				os.Exit(1)
			}
			data, _ := json.MarshalIndent(def, "", "  ")
			fmt.Println(string(data))
			return
		}

		tools, err := c.ListTools(args[0])
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}
		formatter.FormatTools(tools)
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().BoolVar(&toolsShowSchema, "schema", false, "show the full tool definition including input schema")
}
