// Command hostip resolves a list of web hostnames to their IPv4/IPv6
// addresses and writes the results as structured output files.
//
// The input file contains hostnames separated by commas, optionally spanning
// multiple lines. Tokens may be full URLs; schemes, "www." prefixes, paths,
// and ports are stripped before resolution.
//
// Usage:
//
//	hostip <input-file>            Resolve every host and write the artifacts
//	hostip sites.txt -o out.json   Custom path for the detailed JSON
//	hostip sites.txt --no-git      Skip publishing the artifacts to git
//	hostip version                 Show version information
//
// Three artifacts are produced per run: a detailed JSON object keyed by
// hostname, a flat deduplicated JSON array of addresses (iplist.json), and
// the same list as plain text (iplist.txt). Unless disabled, the flat
// artifacts are then committed and pushed with git; a failed push is a
// warning only, the local files are the primary result.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lc/hostip/internal/buildinfo"
	"github.com/lc/hostip/internal/config"
	"github.com/lc/hostip/internal/dnsresolver"
	"github.com/lc/hostip/internal/filesys"
	"github.com/lc/hostip/internal/hostlist"
	"github.com/lc/hostip/internal/pipeline"
	"github.com/lc/hostip/internal/publish"
	"github.com/lc/hostip/internal/report"
)

func main() {
	var (
		outputPath string
		noGit      bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "hostip <input-file>",
		Short: "Resolve a host list to IP addresses",
		Long: `hostip reads a comma-separated list of hostnames from a text file, resolves
each one to its IPv4 and IPv6 addresses, and writes three artifacts: a
detailed JSON object per host, a flat deduplicated JSON address list, and the
same list as plain text. The flat artifacts can be published to a git remote.`,
		Example:      "hostip sites.txt -o results.json --no-git",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], outputPath, noGit, configPath)
		},
	}
	root.Flags().StringVarP(&outputPath, "output", "o", "", "detailed JSON output path (overrides config)")
	root.Flags().BoolVar(&noGit, "no-git", false, "skip publishing artifacts to git")
	root.Flags().StringVar(&configPath, "config", "", "config file path (default ~/"+config.DefaultConfigPath+")")

	// ---- version command ----
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}

	root.AddCommand(versionCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(input, outputPath string, noGit bool, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if outputPath != "" {
		cfg.Output.Detailed = outputPath
	}
	if noGit {
		cfg.Git.Disabled = true
	}

	fsys := filesys.OS()
	loader := hostlist.NewLoader(fsys)
	resolver := dnsresolver.New(cfg.DNS.Timeout,
		dnsresolver.WithResolvers(cfg.DNS.Resolvers),
		dnsresolver.WithRetries(cfg.DNS.Retries),
	)
	writer := report.NewWriter(fsys, report.Paths{
		Detailed:   cfg.Output.Detailed,
		IPListJSON: cfg.Output.IPListJSON,
		IPListText: cfg.Output.IPListText,
	})

	opts := []pipeline.Opt{
		pipeline.WithProgress(printProgress),
		pipeline.WithCommitPrefix(cfg.Git.CommitPrefix),
	}
	if !cfg.Git.Disabled {
		pub := publish.New(publish.ExecRunner{}, publish.Config{
			Dir:    cfg.Git.Dir,
			Remote: cfg.Git.Remote,
			Branch: cfg.Git.Branch,
			Files:  []string{cfg.Output.IPListJSON, cfg.Output.IPListText},
		})
		opts = append(opts, pipeline.WithPublisher(pub))
	}

	color.New(color.Bold).Printf("Resolving hosts from %s\n", input)

	summary, err := pipeline.New(loader, resolver, writer, opts...).Run(context.Background(), input)
	if err != nil {
		return err
	}

	printSummary(summary, cfg)
	return nil
}

// loadConfig loads from the given path, or the default location when empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.NewWithPath(filesys.OS(), path).Load()
	}
	return config.New().Load()
}

// printProgress renders one real-time line per completed host.
func printProgress(i, n int, host string, addrs []string, err error) {
	fmt.Printf("[%d/%d] %s ", i, n, host)
	if err != nil {
		color.New(color.FgRed, color.Bold).Println("✗ resolution failed")
		return
	}
	color.New(color.FgGreen, color.Bold).Printf("✓ %d address(es)\n", len(addrs))
	fmt.Printf("        %s\n", strings.Join(addrs, ", "))
}

func printSummary(summary *pipeline.Summary, cfg *config.Config) {
	fmt.Println()
	color.New(color.Bold).Println("SUMMARY:")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Hosts", "Resolved", "Failed", "Unique IPs"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
	)
	table.SetBorder(false)
	table.Append([]string{
		fmt.Sprint(summary.Total),
		fmt.Sprint(summary.Resolved),
		fmt.Sprint(summary.Failed),
		fmt.Sprint(summary.UniqueAddrs),
	})
	table.Render()

	fmt.Println()
	fmt.Printf("Detailed results: %s\n", cfg.Output.Detailed)
	fmt.Printf("Flat address list: %s, %s\n", cfg.Output.IPListJSON, cfg.Output.IPListText)

	switch {
	case summary.Published:
		color.Green("Artifacts published to git")
	case cfg.Git.Disabled:
		// Publishing was never attempted; nothing to report.
	default:
		color.Yellow("Publish skipped or failed; artifacts remain local")
	}
}
