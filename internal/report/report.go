// Package report serializes a run's results into the three output artifacts:
// the detailed per-host JSON object, the flat JSON address array, and the
// flat newline-delimited address text file.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/lc/hostip/internal/filesys"
	"github.com/lc/hostip/internal/results"
)

const _artifactMode fs.FileMode = 0o644

// Paths names the destinations of the three artifacts.
type Paths struct {
	Detailed   string // per-host JSON object
	IPListJSON string // flat JSON array
	IPListText string // flat text, one address per line
}

// Writer writes result artifacts through an injected filesystem.
type Writer struct {
	fs    filesys.FileOps
	paths Paths
}

// NewWriter creates a Writer that writes the artifacts at the given paths.
func NewWriter(fs filesys.FileOps, paths Paths) *Writer {
	return &Writer{fs: fs, paths: paths}
}

// Write serializes set into all three artifacts, in order: detailed JSON,
// flat JSON, flat text. The first failure aborts and is returned; artifacts
// already written stay on disk. Failed hosts appear in the detailed JSON as
// an empty array.
func (w *Writer) Write(set *results.Set) error {
	detailed, err := detailedJSON(set)
	if err != nil {
		return fmt.Errorf("encoding detailed results: %w", err)
	}
	if err := filesys.AtomicWrite(w.fs, w.paths.Detailed, detailed, _artifactMode); err != nil {
		return fmt.Errorf("writing %s: %w", w.paths.Detailed, err)
	}

	flat, err := flatJSON(set.Flat())
	if err != nil {
		return fmt.Errorf("encoding flat address list: %w", err)
	}
	if err := filesys.AtomicWrite(w.fs, w.paths.IPListJSON, flat, _artifactMode); err != nil {
		return fmt.Errorf("writing %s: %w", w.paths.IPListJSON, err)
	}

	if err := filesys.AtomicWrite(w.fs, w.paths.IPListText, flatText(set.Flat()), _artifactMode); err != nil {
		return fmt.Errorf("writing %s: %w", w.paths.IPListText, err)
	}

	return nil
}

// detailedJSON renders the per-host object with two-space indentation and a
// trailing newline. Key order is the set's insertion order; Set.MarshalJSON
// guarantees it, json.Indent merely reformats.
func detailedJSON(set *results.Set) ([]byte, error) {
	compact, err := json.Marshal(set)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// flatJSON renders the deduplicated address list as an indented JSON array.
func flatJSON(addrs []string) ([]byte, error) {
	data, err := json.MarshalIndent(addrs, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// flatText renders one address per line with a final newline. An empty
// address list yields an empty file, not a single blank line.
func flatText(addrs []string) []byte {
	if len(addrs) == 0 {
		return nil
	}
	return []byte(strings.Join(addrs, "\n") + "\n")
}
