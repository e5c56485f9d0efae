// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"gopkg.in/yaml.v3"

	"github.com/joe/scan-dir/internal/logging"
	"github.com/joe/scan-dir/internal/report"
	"github.com/joe/scan-dir/pkg/filesystem"
)

// Exported variables.
var (
	ErrInvalidOption = errors.New("invalid option")
	ErrRootRequired  = errors.New("root path is required")
)

// Config holds the application configuration
type Config struct {
	Root            string `arg:"positional" yaml:"root" help:"Directory to scan (local path or sftp://user@host[:port]/path)"`
	ConfigFile      string `arg:"-c,--config" yaml:"-" help:"YAML file with option values (flags take precedence)"`
	Match           string `arg:"-m,--match" yaml:"match" help:"Only report entries whose root-relative path matches this glob (e.g. '**/*.log')"`
	Strict          bool   `arg:"--strict" yaml:"strict" help:"Abort the scan when a directory cannot be listed"`
	MaxEntries      int    `arg:"--max-entries" yaml:"max_entries" help:"Maximum number of live entries (0 = unlimited)"`
	BufferSize      int    `arg:"--buffer-size" yaml:"buffer_size" help:"Directory read buffer size in bytes"`
	LogFile         string `arg:"--log-file" yaml:"log_file" help:"Also write the log to this file"`
	LogLevel        string `arg:"--log-level" yaml:"log_level" help:"Log level: debug|info|warn|error"`
	Progress        bool   `arg:"-p,--progress" yaml:"progress" help:"Show a live progress view instead of per-entry lines (TTY only)"`
	InsecureHostKey bool   `arg:"--insecure-host-key" yaml:"insecure_host_key" help:"Skip SSH host key verification for sftp:// roots"`
	KnownHosts      string `arg:"--known-hosts" yaml:"known_hosts" help:"known_hosts file for sftp:// roots (default ~/.ssh/known_hosts)"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Enumerates every directory and regular file beneath a root, breadth first"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "scan-dir 1.0.0"
}

// Defaults returns a config holding the default option values.
func Defaults() *Config {
	return &Config{
		BufferSize: filesystem.DefaultBufferSize,
		LogLevel:   "info",
	}
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg, err := ParseArgs(os.Args[1:])
	if errors.Is(err, arg.ErrHelp) || errors.Is(err, arg.ErrVersion) {
		// Prints help or version and exits.
		arg.MustParse(Defaults())
	}

	if err != nil {
		return nil, err
	}

	return PostProcessConfig(cfg)
}

// ParseArgs parses args (without the program name). When --config names a
// file its values replace the defaults and flags given in args override them.
func ParseArgs(args []string) (*Config, error) {
	cfg := Defaults()

	err := parseInto(cfg, args)
	if err != nil {
		return nil, err
	}

	if cfg.ConfigFile == "" {
		return cfg, nil
	}

	fileCfg, err := LoadFile(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}

	// Non-zero fields act as defaults for the second pass.
	err = parseInto(fileCfg, args)
	if err != nil {
		return nil, err
	}

	return fileCfg, nil
}

func parseInto(cfg *Config, args []string) error {
	parser, err := arg.NewParser(arg.Config{Program: "scan-dir"}, cfg)
	if err != nil {
		return fmt.Errorf("failed to build argument parser: %w", err)
	}

	return parser.Parse(args) //nolint:wrapcheck // ErrHelp and ErrVersion are compared by identity
}

// LoadFile reads a YAML config file on top of the defaults.
// Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := Defaults()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	err = decoder.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ConfigFile = path

	return cfg, nil
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	cfg.Root = strings.TrimSpace(cfg.Root)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option values. It does not touch the filesystem; the root
// itself is validated by the scan.
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		return ErrRootRequired
	}

	if _, err := filesystem.ParseRoot(cfg.Root); err != nil {
		return fmt.Errorf("invalid root: %w", err)
	}

	if cfg.MaxEntries < 0 {
		return fmt.Errorf("%w: --max-entries must not be negative", ErrInvalidOption)
	}

	if cfg.BufferSize != 0 && cfg.BufferSize < filesystem.MinBufferSize {
		return fmt.Errorf("%w: --buffer-size must be 0 or at least %d", ErrInvalidOption, filesystem.MinBufferSize)
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: --log-level: %w", ErrInvalidOption, err)
	}

	if !report.ValidatePattern(cfg.Match) {
		return fmt.Errorf("%w: --match %q is not a valid glob", ErrInvalidOption, cfg.Match)
	}

	return nil
}

// Level returns the parsed log level (info if invalid).
func (cfg *Config) Level() slog.Level {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return level
}

// LookupOptions returns the options for filesystem.OpenLookup.
func (cfg *Config) LookupOptions() filesystem.Options {
	return filesystem.Options{
		BufferSize: cfg.BufferSize,
		SSH: filesystem.SSHOptions{
			InsecureHostKey: cfg.InsecureHostKey,
			KnownHostsPath:  cfg.KnownHosts,
		},
	}
}
