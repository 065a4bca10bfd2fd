// Command build-registry assembles the tool registry document from the
// compiled-in server modules and writes it to disk.
//
// Usage:
//
//	build-registry [options]
//
// Options:
//
//	-out PATH        Output path (default <config-dir>/registry.json)
//	-validate-only   Validate the assembled document without writing
//	-json            Output the validation report as JSON
//	-quiet           Only output errors
//
// Any validation or write failure exits nonzero.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcp-toolhub/toolhub/internal/config"
	"github.com/mcp-toolhub/toolhub/internal/domain/registry"
	"github.com/mcp-toolhub/toolhub/internal/servers"
)

var (
	outPath      = ""
	validateOnly = false
	asJSON       = false
	quiet        = false
)

func main() {
	fs := flag.NewFlagSet("build-registry", flag.ExitOnError)
	fs.StringVar(&outPath, "out", "", "Output path for registry.json")
	fs.BoolVar(&validateOnly, "validate-only", false, "Validate without writing")
	fs.BoolVar(&asJSON, "json", false, "Output validation report as JSON")
	fs.BoolVar(&quiet, "quiet", false, "Only output errors")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run())
}

func run() int {
	if outPath == "" {
		settings, err := config.NewStore(filepath.Join(config.Dir(), "toolhub.yaml")).Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
		outPath = settings.RegistryPath
	}

	reg, result, err := registry.Build(servers.Manifests())
	report(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if validateOnly {
		if !quiet {
			fmt.Printf("Registry valid: %d servers, %d tools\n", len(reg.Servers), totalTools(reg))
		}
		return 0
	}

	if err := registry.Write(reg, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !quiet {
		fmt.Printf("Wrote %s: %d servers, %d tools (version %s)\n",
			outPath, len(reg.Servers), totalTools(reg), reg.Version)
	}
	return 0
}

func report(result *registry.ValidationResult) {
	if result == nil {
		return
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
		return
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  ERROR: %s: %s\n", e.Field, e.Message)
	}
	if !quiet {
		for _, warn := range result.Warnings {
			fmt.Printf("  WARN:  %s: %s\n", warn.Field, warn.Message)
		}
	}
}

func totalTools(reg *registry.Registry) int {
	n := 0
	for _, s := range reg.Servers {
		n += len(s.Tools)
	}
	return n
}
