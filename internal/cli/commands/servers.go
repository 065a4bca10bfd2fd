package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List the servers in the tool registry",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		names, err := c.ListServers()
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}

		manifests := make([]registry.ServerManifest, 0, len(names))
		for _, name := range names {
			m, err := c.GetServer(name)
			if err != nil {
				fmt.Println(formatter.FormatError(errors.Classify(err)))
				os.Exit(1)
			}
			manifests = append(manifests, *m)
		}
		formatter.FormatServers(manifests)
	},
}

func init() {
	rootCmd.AddCommand(serversCmd)
}
