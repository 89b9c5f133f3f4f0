// Package results accumulates per-host resolution outcomes for a single run.
// A Set keeps outcomes in input order and derives the flattened,
// globally-deduplicated address list the flat artifacts are built from.
// Sets are mutated by one goroutine only; the pipeline is sequential.
package results

import (
	"bytes"
	"encoding/json"
	"net"
)

// Outcome is the result of resolving one hostname: either a non-empty
// ordered address list, or a failure carrying the resolution error.
// Outcomes are never mutated after creation.
type Outcome struct {
	Host  string
	Addrs []net.IPAddr
	Err   error
}

// Failed reports whether resolution failed for this host.
func (o Outcome) Failed() bool { return o.Err != nil }

// AddrStrings returns the outcome's addresses in textual form, in order.
// A failed outcome yields an empty (non-nil) slice so JSON encoding
// produces [] rather than null.
func (o Outcome) AddrStrings() []string {
	out := make([]string, 0, len(o.Addrs))
	for _, a := range o.Addrs {
		out = append(out, a.IP.String())
	}
	return out
}

// Set is an insertion-ordered collection of outcomes plus the derived flat
// address list. Hosts keep the position of their first occurrence; adding a
// duplicate host overwrites its outcome (last write wins, mirroring JSON
// object key semantics) but still counts toward the run totals.
type Set struct {
	order    []string
	outcomes map[string]Outcome
	flat     []string
	flatSeen map[string]struct{}

	total    int
	resolved int
	failed   int
}

// NewSet returns an empty Set ready to accumulate outcomes.
func NewSet() *Set {
	return &Set{
		outcomes: make(map[string]Outcome),
		flatSeen: make(map[string]struct{}),
	}
}

// Add records the outcome of resolving host. A nil err marks success; the
// addresses are then merged into the flat list, skipping any address already
// seen for an earlier host.
func (s *Set) Add(host string, addrs []net.IPAddr, err error) {
	if _, ok := s.outcomes[host]; !ok {
		s.order = append(s.order, host)
	}
	s.outcomes[host] = Outcome{Host: host, Addrs: addrs, Err: err}

	s.total++
	if err != nil {
		s.failed++
		return
	}
	s.resolved++

	for _, a := range addrs {
		key := a.IP.String()
		if _, seen := s.flatSeen[key]; seen {
			continue
		}
		s.flatSeen[key] = struct{}{}
		s.flat = append(s.flat, key)
	}
}

// Hosts returns the hostnames in first-occurrence order.
func (s *Set) Hosts() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Outcome returns the recorded outcome for host.
func (s *Set) Outcome(host string) (Outcome, bool) {
	o, ok := s.outcomes[host]
	return o, ok
}

// Flat returns the deduplicated union of all resolved addresses, ordered by
// first appearance across hosts.
func (s *Set) Flat() []string {
	out := make([]string, len(s.flat))
	copy(out, s.flat)
	return out
}

// Total returns how many outcomes were recorded, duplicates included.
func (s *Set) Total() int { return s.total }

// Resolved returns how many outcomes succeeded.
func (s *Set) Resolved() int { return s.resolved }

// Failed returns how many outcomes failed.
func (s *Set) Failed() int { return s.failed }

// UniqueAddrs returns the size of the flat address list.
func (s *Set) UniqueAddrs() int { return len(s.flat) }

// MarshalJSON encodes the set as the detailed result object: one key per
// host in first-occurrence order, value the host's address array. Failed
// hosts are encoded as an empty array. encoding/json cannot keep map keys
// in insertion order, so the object is assembled by hand.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, host := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(host)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(s.outcomes[host].AddrStrings())
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
