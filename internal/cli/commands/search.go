package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
)

var (
	searchServer string
	searchTags   []string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tools by name, description, or tag",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		query := strings.Join(args, " ")
		hits, err := c.Search(query, searchServer, searchTags)
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}
		if len(hits) == 0 {
			fmt.Printf("No tools match %q\n", query)
			return
		}
		formatter.FormatHits(hits)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchServer, "server", "", "restrict the search to one server")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "require a tag (repeatable)")
}
