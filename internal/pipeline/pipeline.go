// Package pipeline orchestrates a full hostip run: load the host list,
// resolve each host in input order, write the artifacts, and optionally
// publish them. The pipeline owns the result set for the duration of a run
// and executes strictly sequentially; each DNS lookup blocks until it
// completes or the resolver times out.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lc/hostip/internal/dnsresolver"
	"github.com/lc/hostip/internal/log"
	"github.com/lc/hostip/internal/results"
)

// Loader produces the ordered hostname list for a run.
type Loader interface {
	Load(path string) ([]string, error)
}

// Writer persists a run's results as output artifacts.
type Writer interface {
	Write(set *results.Set) error
}

// Publisher pushes written artifacts to a remote.
type Publisher interface {
	Publish(ctx context.Context, msg string) error
}

// Progress is called after each host completes, in input order. i is
// 1-based. addrs holds the host's resolved addresses; err is non-nil when
// resolution failed.
type Progress func(i, n int, host string, addrs []string, err error)

// Summary describes a completed run.
type Summary struct {
	RunID       string
	Total       int
	Resolved    int
	Failed      int
	UniqueAddrs int
	Published   bool
}

// Pipeline wires the run's collaborators together.
type Pipeline struct {
	loader       Loader
	resolver     dnsresolver.Clienter
	writer       Writer
	publisher    Publisher // nil disables publishing
	progress     Progress
	commitPrefix string
}

// Opt is a function option for configuring a Pipeline.
type Opt func(*Pipeline)

// WithPublisher enables the publish step.
func WithPublisher(p Publisher) Opt {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithProgress registers a per-host progress callback.
func WithProgress(fn Progress) Opt {
	return func(pl *Pipeline) { pl.progress = fn }
}

// WithCommitPrefix sets the prefix of the publish commit message.
func WithCommitPrefix(prefix string) Opt {
	return func(pl *Pipeline) { pl.commitPrefix = prefix }
}

// New creates a Pipeline from its required collaborators.
func New(loader Loader, resolver dnsresolver.Clienter, writer Writer, opts ...Opt) *Pipeline {
	pl := &Pipeline{
		loader:       loader,
		resolver:     resolver,
		writer:       writer,
		commitPrefix: "hostip",
	}
	for _, o := range opts {
		o(pl)
	}
	return pl
}

// Run executes one full pass over the host list at inputPath.
//
// Load and write failures are fatal and returned. Per-host resolution
// failures are recorded in the result set and never abort the run. A
// publish failure is logged as a warning only; the artifacts on disk are
// the primary contract and the run still succeeds.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Summary, error) {
	runID := uuid.NewString()
	log.Debug("run starting", "run_id", runID, "input", inputPath)

	hosts, err := p.loader.Load(inputPath)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no hostnames found in %s", inputPath)
	}

	set := results.NewSet()
	for i, host := range hosts {
		addrs, err := p.resolver.LookupHost(ctx, host)
		set.Add(host, addrs, err)

		if err != nil {
			log.Debug("host failed", "run_id", runID, "host", host, "error", err)
		} else {
			log.Debug("host resolved", "run_id", runID, "host", host, "addresses", len(addrs))
		}

		if p.progress != nil {
			outcome, _ := set.Outcome(host)
			p.progress(i+1, len(hosts), host, outcome.AddrStrings(), err)
		}
	}

	if err := p.writer.Write(set); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:       runID,
		Total:       set.Total(),
		Resolved:    set.Resolved(),
		Failed:      set.Failed(),
		UniqueAddrs: set.UniqueAddrs(),
	}

	if p.publisher != nil {
		msg := fmt.Sprintf("%s: %d hosts, %d addresses (run %.8s)",
			p.commitPrefix, set.Total(), set.UniqueAddrs(), runID)
		if err := p.publisher.Publish(ctx, msg); err != nil {
			log.Warnf("publish failed, artifacts remain local: %v", err)
		} else {
			summary.Published = true
		}
	}

	log.Debug("run finished",
		"run_id", runID,
		"total", summary.Total,
		"resolved", summary.Resolved,
		"failed", summary.Failed,
		"unique_addrs", summary.UniqueAddrs,
		"published", summary.Published,
	)
	return summary, nil
}
