// Package output writes hotpath results to files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hotpath/internal/calltree"
)

// Mode names for Report.Mode.
const (
	ModeDowncall = "downcall"
	ModeUpcall   = "upcall"
)

// Report is one constructed tree with its run metadata.
type Report struct {
	Key          string         `json:"key"`
	Mode         string         `json:"mode"`
	Depth        uint           `json:"depth"`
	Digest       string         `json:"digest,omitempty"`
	Blocks       int            `json:"blocks"`
	Dependencies int            `json:"dependencies"`
	Unreliable   bool           `json:"unreliable"`
	Classes      map[string]int `json:"classes,omitempty"`
	Root         *calltree.Node `json:"root"`
}

// NewReport summarizes a build result.
func NewReport(key string, opts calltree.Options, res *calltree.Result) *Report {
	mode := ModeDowncall
	if opts.Upcall {
		mode = ModeUpcall
	}
	classes := make(map[string]int)
	for c, n := range calltree.Stats(res.Root) {
		classes[c.String()] = n
	}
	return &Report{
		Key:          key,
		Mode:         mode,
		Depth:        opts.Depth,
		Digest:       res.Digest,
		Blocks:       res.Blocks,
		Dependencies: calltree.CumulatedDependencies(res.Root),
		Unreliable:   res.Unreliable,
		Classes:      classes,
		Root:         res.Root,
	}
}

// WriteTreeJSON writes the report as indented JSON to path.
func WriteTreeJSON(path string, r *Report) error {
	return writeJSON(path, r)
}

// ReadTreeJSON loads a report written by WriteTreeJSON.
func ReadTreeJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("output: read %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("output: decode %s: %w", path, err)
	}
	return &r, nil
}

// WriteText writes a rendered artifact to path, creating parent directories.
func WriteText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("output: write %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return nil
}
