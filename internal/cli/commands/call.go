package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
)

var callCmd = &cobra.Command{
	Use:   "call <server>.<tool> [key=value...]",
	Short: "Invoke a tool",
	Long: `Invoke a tool on a running toolhub server. Arguments are key=value
pairs; values that parse as JSON (numbers, booleans, arrays, objects) are
passed through typed, everything else is sent as a string.

Examples:
  toolhub-cli call supabase.list-tables
  toolhub-cli call supabase.query-table table=users limit=10
  toolhub-cli call stripe.create-payment-link price=price_123 quantity=2`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient()
		formatter := newFormatter()

		target := args[0]
		parts := strings.SplitN(target, ".", 2)
		if len(parts) != 2 {
			fmt.Println("Error: invalid target format, use server.tool")
			os.Exit(1)
		}
		serverName, toolName := parts[0], parts[1]

		input := make(map[string]any)
		for _, arg := range args[1:] {
			kv := strings.SplitN(arg, "=", 2)
			if len(kv) != 2 {
				fmt.Printf("Error: invalid argument %q, use key=value\n", arg)
				os.Exit(1)
			}
			input[kv[0]] = coerceValue(kv[1])
		}

		result, err := c.CallTool(serverName, toolName, input)
		if err != nil {
			fmt.Println(formatter.FormatError(errors.Classify(err)))
			os.Exit(1)
		}

		fmt.Println(formatter.FormatResult(result))
		if !result.Success {
			os.Exit(1)
		}
	},
}

// coerceValue lets callers write limit=10 or verbose=true without JSON
// quoting. Anything that is not valid JSON stays a plain string.
func coerceValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func init() {
	rootCmd.AddCommand(callCmd)
}
