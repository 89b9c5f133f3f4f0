// Package dnsresolver provides DNS resolution with concurrent IPv4 and IPv6 lookups.
//
// The package implements the per-host lookup used by the hostip pipeline: one
// blocking LookupHost call per hostname that queries A and AAAA records
// concurrently and returns every address found. The pipeline itself stays
// sequential; concurrency exists only inside a single host's lookup.
//
// # Basic Usage
//
// Create a new resolver with default settings:
//
//	resolver := dnsresolver.New(5 * time.Second)
//	ips, err := resolver.LookupHost(ctx, "example.com")
//	if err != nil {
//		// resolution failed for this host; not fatal to a run
//	}
//
// Configure the resolver with custom options:
//
//	resolver := dnsresolver.New(
//		5 * time.Second,
//		dnsresolver.WithResolvers([]string{
//			"1.1.1.1:53",  // Cloudflare
//			"8.8.8.8:53",  // Google
//		}),
//		dnsresolver.WithRetries(2),
//	)
//
// # Result Ordering
//
// The returned slice is deterministic: IPv4 answers first, then IPv6, each
// family in the order the resolver returned them, with duplicate addresses
// removed keeping the first occurrence. Callers can therefore compare and
// serialize results without sorting.
//
// # Error Handling
//
// The package defines several error types:
//   - ErrNoRecords: no DNS records found for the hostname
//   - ErrEmptyMsg: empty DNS response received
//   - ErrEmptyHostname: empty hostname provided
//
// A host only fails when *both* the A and AAAA queries fail; the two errors
// are then aggregated with go.uber.org/multierr into the returned error.
//
// # Retries and Timeouts
//
//   - The timeout passed to New bounds one whole LookupHost call.
//   - Retries defaults to zero: each query gets a single attempt. Use
//     WithRetries to allow additional attempts per query.
//   - When several resolvers are configured, one is picked at random per
//     attempt, spreading load and routing retries around a dead resolver.
//
// # Implementation Notes
//
//   - Uses github.com/miekg/dns for low-level DNS operations.
//   - Hostnames that are already IP literals are returned directly without
//     touching the network.
package dnsresolver
