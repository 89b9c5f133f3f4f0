// Package hostlist loads and normalizes the comma-separated host lists that
// feed the resolution pipeline. Raw tokens may be full URLs as a user would
// paste them from a browser; normalization reduces each one to the bare
// hostname the resolver needs.
package hostlist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lc/hostip/internal/filesys"
)

// ErrNotFound is returned when the input file does not exist.
var ErrNotFound = errors.New("input file not found")

// Normalize reduces a raw token to a bare hostname:
//
//	"https://www.example.com/path?x=1" -> "example.com"
//
// It strips a leading http:// or https:// scheme (case-insensitively), a
// leading "www.", and everything from the first '/', '?' or ':' onward, then
// trims surrounding whitespace. Case is preserved. Malformed input degrades
// to a best-effort substring; the empty string means the token carried no
// host at all and must be discarded by the caller.
func Normalize(raw string) string {
	host := strings.TrimSpace(raw)

	for _, scheme := range []string{"http://", "https://"} {
		if len(host) >= len(scheme) && strings.EqualFold(host[:len(scheme)], scheme) {
			host = host[len(scheme):]
			break
		}
	}

	if len(host) >= 4 && strings.EqualFold(host[:4], "www.") {
		host = host[4:]
	}

	// Keep only the leading host portion: cut at path, query, or port.
	if i := strings.IndexAny(host, "/?:"); i != -1 {
		host = host[:i]
	}

	return strings.TrimSpace(host)
}

// Loader reads host lists through an injected filesystem so tests can run
// against fixtures without touching the disk layout.
type Loader struct {
	fs filesys.ReadWriteFS
}

// NewLoader creates a Loader backed by the given filesystem.
func NewLoader(fs filesys.ReadWriteFS) *Loader {
	return &Loader{fs: fs}
}

// Load reads the file at path and returns the normalized hostnames in input
// order. Fragments are separated by commas and may span multiple lines;
// fragments that normalize to the empty string are dropped. Duplicates are
// preserved — deduplication is an aggregation concern, not a loading one.
//
// A missing file is reported as an error wrapping ErrNotFound; any other read
// failure is returned as-is. Both are fatal to a run.
func (l *Loader) Load(path string) ([]string, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var hosts []string
	for _, frag := range strings.Split(string(content), ",") {
		if host := Normalize(frag); host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts, nil
}
