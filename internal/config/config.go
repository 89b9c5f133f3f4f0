// Package config provides configuration loading and validation for hostip.
// It handles reading configuration from files, providing defaults, and ensuring
// all required settings are properly set.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lc/hostip/internal/filesys"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoConfig is returned when the configuration file is not found.
	ErrNoConfig = errors.New("configuration file not found")
)

const (
	// DefaultConfigPath is the default path for the configuration file,
	// relative to the user's home directory.
	DefaultConfigPath = ".hostip/config.yaml"
	// DefaultDetailedPath is the default path for the detailed JSON artifact.
	DefaultDetailedPath = "ip_results.json"
	// DefaultIPListJSONPath is the default path for the flat JSON address list.
	DefaultIPListJSONPath = "iplist.json"
	// DefaultIPListTextPath is the default path for the flat text address list.
	DefaultIPListTextPath = "iplist.txt"
	// DefaultDNSTimeout is the default timeout for a single host's DNS resolution.
	DefaultDNSTimeout = 5 * time.Second
	// DefaultCommitPrefix is the default prefix for publish commit messages.
	DefaultCommitPrefix = "hostip"
)

// Config holds the application configuration.
type Config struct {
	Output OutputConfig `yaml:"output"`
	DNS    DNSConfig    `yaml:"dns"`
	Git    GitConfig    `yaml:"git"`
}

// OutputConfig holds artifact path configuration.
type OutputConfig struct {
	Detailed   string `yaml:"detailed"`
	IPListJSON string `yaml:"iplist_json"`
	IPListText string `yaml:"iplist_text"`
}

// DNSConfig holds DNS resolution configuration.
type DNSConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Retries   uint          `yaml:"retries"`
	Resolvers []string      `yaml:"resolvers"`
}

// GitConfig holds publish configuration. Publishing is on unless disabled,
// so an absent git block in the file keeps the default behavior.
type GitConfig struct {
	Disabled     bool   `yaml:"disabled"`
	Dir          string `yaml:"dir"`
	Remote       string `yaml:"remote"`
	Branch       string `yaml:"branch"`
	CommitPrefix string `yaml:"commit_prefix"`
}

// Provider defines the interface for loading configuration.
type Provider interface {
	Load() (*Config, error)
}

// FSProvider implements Provider using the local filesystem.
type FSProvider struct {
	fs   filesys.ReadWriteFS
	path string
}

// Verify FSProvider implements Provider interface.
var _ Provider = (*FSProvider)(nil)

// New creates a new configuration provider using the default configuration path.
// It uses the OS filesystem and the user's home directory to locate the
// configuration file. If the home directory cannot be determined, it falls
// back to the current directory.
func New() Provider {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine home directory: %v\n", err)
		home = ""
	}
	return NewWithPath(filesys.OS(), filepath.Join(home, DefaultConfigPath))
}

// NewWithPath creates a new provider with a specific config path.
// It allows specifying both the filesystem implementation and the path to use.
func NewWithPath(fs filesys.ReadWriteFS, path string) Provider {
	return &FSProvider{
		fs:   fs,
		path: path,
	}
}

// Default returns a default configuration with preset values.
// This is used when no configuration file exists.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Detailed:   DefaultDetailedPath,
			IPListJSON: DefaultIPListJSONPath,
			IPListText: DefaultIPListTextPath,
		},
		DNS: DNSConfig{
			Timeout: DefaultDNSTimeout,
		},
		Git: GitConfig{
			Dir:          ".",
			CommitPrefix: DefaultCommitPrefix,
		},
	}
}

// Load loads the configuration from the specified path.
// A missing file yields the defaults; a present but invalid file is an error.
func (p *FSProvider) Load() (*Config, error) {
	cfg, err := p.loadAndParse()
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			return Default(), nil
		}
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Validate checks the configuration to ensure all required fields are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Detailed) == "" {
		return errors.New("detailed output path cannot be empty")
	}
	if strings.TrimSpace(c.Output.IPListJSON) == "" {
		return errors.New("iplist JSON path cannot be empty")
	}
	if strings.TrimSpace(c.Output.IPListText) == "" {
		return errors.New("iplist text path cannot be empty")
	}
	if c.DNS.Timeout < time.Second {
		return errors.New("DNS timeout must be at least 1 second")
	}
	if !c.Git.Disabled && strings.TrimSpace(c.Git.Dir) == "" {
		return errors.New("git dir cannot be empty while publishing is enabled")
	}
	return nil
}

// applyDefaults fills fields the file omitted so a partial config stays usable.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Output.Detailed == "" {
		c.Output.Detailed = d.Output.Detailed
	}
	if c.Output.IPListJSON == "" {
		c.Output.IPListJSON = d.Output.IPListJSON
	}
	if c.Output.IPListText == "" {
		c.Output.IPListText = d.Output.IPListText
	}
	if c.DNS.Timeout == 0 {
		c.DNS.Timeout = d.DNS.Timeout
	}
	if c.Git.Dir == "" {
		c.Git.Dir = d.Git.Dir
	}
	if c.Git.CommitPrefix == "" {
		c.Git.CommitPrefix = d.Git.CommitPrefix
	}
}

func (p *FSProvider) loadAndParse() (*Config, error) {
	f, err := p.fs.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	return &cfg, nil
}
