package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Build assembles a registry document from server manifests. Manifest order
// is preserved; the caller's slice order becomes the registry iteration
// order. The document is validated before being returned.
func Build(manifests []ServerManifest) (*Registry, *ValidationResult, error) {
	reg := &Registry{
		Version:     SchemaVersion,
		LastUpdated: time.Now().UTC(),
		Servers:     manifests,
	}

	result := Validate(reg)
	if !result.Valid {
		return nil, result, fmt.Errorf("registry validation failed with %d error(s)", len(result.Errors))
	}
	return reg, result, nil
}

// Write persists the registry document to path. The file is written to a
// temp sibling and renamed so a concurrent reader never observes a partial
// document.
func Write(reg *Registry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".registry-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp registry file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp registry file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace registry file: %w", err)
	}
	return nil
}

// Read parses a registry document from path.
func Read(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("invalid registry JSON: %w", err)
	}
	return &reg, nil
}
