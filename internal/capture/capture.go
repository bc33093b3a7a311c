// Package capture prepares raw kernel-debugger logs for tree construction:
// Trim cuts the region of interest out of a session log and Sanitize drops
// failed disassembly blocks and the per-line address column.
package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"hotpath/internal/section"
)

// Failure cookies printed by the debugger in place of a usable body.
const (
	NoCodeCookie         = "No code found, aborting"
	CouldntResolveCookie = "Couldn't resolve error at"
	SyntaxErrorCookie    = "Syntax error at"
)

// FlowAnalysisLimit is the block size above which a block carrying the
// flow-analysis caveat is dropped.
const FlowAnalysisLimit = 100000

var addressColumn = regexp.MustCompile("(?m)^[a-z0-9]{8}(`[a-z0-9]{8})? ")

// Trim copies the lines of src between two markers into dst. Copying starts
// at the first line beginning with from (the line itself is skipped when
// after is set) and stops before the first line beginning with to. A to
// line ends the copy even if from was never seen.
func Trim(src, from string, after bool, to, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("capture: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", dst, err)
	}
	w := bufio.NewWriter(out)

	found := false
	err = eachLine(in, func(line string) bool {
		if strings.HasPrefix(line, to) {
			return false
		}
		if found {
			w.WriteString(line + "\n")
			return true
		}
		if strings.HasPrefix(line, from) {
			found = true
			if !after {
				w.WriteString(line + "\n")
			}
		}
		return true
	})
	if err != nil {
		out.Close()
		return fmt.Errorf("capture: read %s: %w", src, err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("capture: write %s: %w", dst, err)
	}
	return out.Close()
}

// SanitizeStats counts the blocks Sanitize kept and dropped.
type SanitizeStats struct {
	Kept    int
	Dropped int
}

// Sanitize rewrites the capture at path in place. A line starting with
// delimiter opens a new block. Blocks the debugger failed to disassemble
// are dropped, and the leading address column is stripped from every line
// of the blocks that remain.
func Sanitize(delimiter, path string) (SanitizeStats, error) {
	var stats SanitizeStats
	marker := strings.TrimRight(delimiter, "\r\n")

	in, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("capture: open %s: %w", path, err)
	}

	var (
		kept  []string
		block strings.Builder
	)
	flush := func() {
		if block.Len() == 0 {
			return
		}
		s := block.String()
		block.Reset()
		if Failed(s) {
			stats.Dropped++
			return
		}
		kept = append(kept, addressColumn.ReplaceAllString(s, ""))
		stats.Kept++
	}

	err = eachLine(in, func(line string) bool {
		if marker != "" && strings.HasPrefix(line, marker) {
			flush()
		}
		block.WriteString(line)
		block.WriteByte('\n')
		return true
	})
	in.Close()
	if err != nil {
		return stats, fmt.Errorf("capture: read %s: %w", path, err)
	}
	flush()

	if err := os.WriteFile(path, []byte(strings.Join(kept, "")), 0644); err != nil {
		return stats, fmt.Errorf("capture: write %s: %w", path, err)
	}
	return stats, nil
}

// Failed reports whether a block records a failed disassembly.
func Failed(block string) bool {
	return strings.Contains(block, NoCodeCookie) ||
		strings.Contains(block, CouldntResolveCookie) ||
		strings.Contains(block, SyntaxErrorCookie) ||
		len(block) > FlowAnalysisLimit && strings.Contains(block, section.FlowAnalysisCookie)
}

// eachLine feeds fn every line of r without its terminator, stopping early
// when fn returns false. Lines have no length limit.
func eachLine(r io.Reader, fn func(line string) bool) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if !fn(strings.TrimRight(line, "\r\n")) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
