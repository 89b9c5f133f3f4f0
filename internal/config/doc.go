// Package config provides configuration management for hostip.
//
// Configuration is loaded from a YAML file located at ~/.hostip/config.yaml
// by default. When the file does not exist, built-in defaults are used, so a
// fresh install works with no setup.
//
// # Configuration Format
//
// The configuration file uses YAML format:
//
//	output:
//	  detailed: ip_results.json
//	  iplist_json: iplist.json
//	  iplist_text: iplist.txt
//	dns:
//	  timeout: 5s
//	  retries: 0
//	  resolvers:
//	    - "1.1.1.1:53"
//	    - "8.8.8.8:53"
//	git:
//	  disabled: false
//	  dir: .
//	  remote: origin
//	  branch: main
//	  commit_prefix: hostip
//
// # Sections
//
//   - output: where the three artifacts are written. The detailed path can
//     also be overridden per run with the -o flag.
//   - dns: per-host lookup timeout, optional retry count, and the upstream
//     resolvers queried. With no resolvers configured the built-in default
//     (1.1.1.1:53) is used.
//   - git: controls the optional publish step. Publishing is on unless
//     "disabled: true" is set or --no-git is passed. The remote and branch
//     are passed straight to git push; leaving them empty pushes to the
//     repository's configured upstream.
//
// # Loading
//
// Use the Provider interface to load configuration:
//
//	cfg, err := config.New().Load()
//	if err != nil {
//		log.Fatalf("config error: %v", err)
//	}
//
// Fields omitted from a partial file are filled from the defaults before
// validation, so a file containing only a git block is valid.
//
// # Validation
//
// Load validates the parsed file and fails with ErrInvalidConfig when one of
// the artifact paths is blank, the DNS timeout is below one second, or
// publishing is enabled with an empty working directory.
package config
