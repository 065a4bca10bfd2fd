package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mcp-toolhub/toolhub/internal/api"
	"github.com/mcp-toolhub/toolhub/internal/cli/errors"
	"github.com/mcp-toolhub/toolhub/internal/domain/discovery"
	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/domain/tool"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatRaw  OutputFormat = "raw"
)

type Formatter struct {
	format OutputFormat
	color  bool
}

func NewFormatter(format OutputFormat, useColor bool) *Formatter {
	return &Formatter{
		format: format,
		color:  useColor,
	}
}

func (f *Formatter) FormatResult(result *tool.Result) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(result, "", "  ")
		return string(data)
	}
	if f.format == FormatRaw {
		// Raw mode emits only the payload, for piping into jq and friends.
		data, _ := json.Marshal(result.Data)
		return string(data)
	}

	if !result.Success {
		var sb strings.Builder
		code := "UNKNOWN"
		msg := "tool execution failed"
		if result.Error != nil {
			code = result.Error.Code
			msg = result.Error.Message
		}
		if f.color {
			sb.WriteString(color.RedString("Error [%s]: %s", code, msg))
		} else {
			fmt.Fprintf(&sb, "Error [%s]: %s", code, msg)
		}
		if result.Error != nil && result.Error.Details != nil {
			details, _ := json.MarshalIndent(result.Error.Details, "", "  ")
			sb.WriteString("\n")
			sb.Write(details)
		}
		return sb.String()
	}

	data, _ := json.MarshalIndent(result.Data, "", "  ")
	out := string(data)
	if result.Metadata.Server != "" {
		out += fmt.Sprintf("\n(%s.%s, %dms)",
			result.Metadata.Server, result.Metadata.Tool, result.Metadata.ExecutionTimeMs)
	}
	return out
}

func (f *Formatter) FormatError(err errors.ClassifiedError) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(err, "", "  ")
		return string(data)
	}

	var msg string
	if f.color {
		msg = color.RedString("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\n" + color.YellowString("Hint: %s", err.Hint)
		}
	} else {
		msg = fmt.Sprintf("Error [%s]: %s", err.Kind, err.Message)
		if err.Hint != "" {
			msg += "\nHint: " + err.Hint
		}
	}
	return msg
}

func (f *Formatter) FormatServers(manifests []registry.ServerManifest) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(manifests, "", "  ")
		fmt.Println(string(data))
		return ""
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Name", "Version", "Tools", "Description"}),
	)

	for _, m := range manifests {
		table.Append([]string{m.Name, m.Version, fmt.Sprintf("%d", len(m.Tools)), m.Description})
	}

	table.Render()
	return "" // tablewriter writes directly to stdout
}

func (f *Formatter) FormatTools(tools []registry.ToolDefinition) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(tools, "", "  ")
		fmt.Println(string(data))
		return ""
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Name", "Type", "Description"}),
	)

	for _, t := range tools {
		kind := "api"
		if t.CLICommand != "" {
			kind = "cli"
		}
		table.Append([]string{t.Name, kind, t.Description})
	}

	table.Render()
	return ""
}

func (f *Formatter) FormatHits(hits []discovery.SearchHit) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(hits, "", "  ")
		fmt.Println(string(data))
		return ""
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Server", "Tool", "Tags", "Description"}),
	)

	for _, h := range hits {
		table.Append([]string{h.Server, h.Tool.Name, strings.Join(h.Tool.Tags, ","), h.Tool.Description})
	}

	table.Render()
	return ""
}

func (f *Formatter) FormatHistory(records []api.ExecutionRecord) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(data))
		return ""
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Time", "Server", "Tool", "OK", "Duration"}),
	)

	for _, rec := range records {
		ok := "yes"
		if rec.Result == nil || !rec.Result.Success {
			ok = "no"
		}
		table.Append([]string{
			rec.Timestamp.Format(time.RFC3339),
			rec.Server,
			rec.Tool,
			ok,
			fmt.Sprintf("%dms", rec.DurationMs),
		})
	}

	table.Render()
	return ""
}

func (f *Formatter) FormatStats(stats *registry.Stats) string {
	if f.format == FormatJSON {
		data, _ := json.MarshalIndent(stats, "", "  ")
		return string(data)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Servers: %d\n", stats.TotalServers)
	fmt.Fprintf(&sb, "Tools:   %d\n", stats.TotalTools)
	for server, n := range stats.ToolsByServer {
		fmt.Fprintf(&sb, "  %-12s %d\n", server, n)
	}
	if stats.LastUpdated != nil {
		fmt.Fprintf(&sb, "Updated: %s", stats.LastUpdated.Format(time.RFC3339))
	} else {
		sb.WriteString("Updated: never")
	}
	return sb.String()
}
