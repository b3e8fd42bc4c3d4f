// Package config loads serve settings from devserve.yaml and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no -config is given.
const DefaultFile = "devserve.yaml"

// ServeConfig contains all tunable server parameters.
// These can be overridden via devserve.yaml and then by flags.
type ServeConfig struct {
	// Listener
	Host string `yaml:"host"` // Interface to bind (default: all)
	Port int    `yaml:"port"` // TCP port (default: 8000, 0 picks a free port)

	// Content
	Root      string            `yaml:"root"`      // Directory to serve (default: .)
	MimeTypes map[string]string `yaml:"mimeTypes"` // Extra extension -> content type entries

	// Lifecycle
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // Graceful shutdown window (default: 5s)

	// Live reload
	Watch            bool          `yaml:"watch"`            // Serve /__devserve/events and watch Root
	DebounceDuration time.Duration `yaml:"debounceDuration"` // File watcher debounce (default: 300ms)

	Verbose bool `yaml:"verbose"` // Debug logging, including per-request lines
}

// Default returns the default serve configuration.
func Default() *ServeConfig {
	return &ServeConfig{
		Host:             "",
		Port:             8000,
		Root:             ".",
		MimeTypes:        map[string]string{},
		ShutdownTimeout:  5 * time.Second,
		DebounceDuration: 300 * time.Millisecond,
	}
}

// Load reads path into a copy of the defaults. An empty path means
// DefaultFile, which is allowed to be missing.
func Load(path string) (*ServeConfig, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.validate()
	return cfg, nil
}

// Addr returns the host:port the listener binds.
func (c *ServeConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RegisterFlags defines the serve flags on fs, defaulting to the current values.
func (c *ServeConfig) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Host, "host", c.Host, "The host/IP to bind to (empty for all interfaces)")
	fs.IntVar(&c.Port, "port", c.Port, "The port to listen on")
	fs.StringVar(&c.Root, "root", c.Root, "The directory to serve")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "Watch root and push reload events")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "Log every request")
}

// FromArgs parses args for the serve command. Flags override values from the
// config file only when they are set explicitly.
func FromArgs(args []string) (*ServeConfig, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a devserve.yaml file")
	flags := Default()
	flags.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg, err := Load(*configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = flags.Host
		case "port":
			cfg.Port = flags.Port
		case "root":
			cfg.Root = flags.Root
		case "watch":
			cfg.Watch = flags.Watch
		case "verbose":
			cfg.Verbose = flags.Verbose
		}
	})

	cfg.validate()
	return cfg, nil
}

// validate ensures configuration values are within reasonable bounds
func (c *ServeConfig) validate() {
	if c.Port < 0 {
		c.Port = 0
	}
	if c.Port > 65535 {
		c.Port = 65535
	}
	if c.Root == "" {
		c.Root = "."
	}

	// Extensions are matched with their leading dot.
	if len(c.MimeTypes) > 0 {
		normalized := make(map[string]string, len(c.MimeTypes))
		for ext, ctype := range c.MimeTypes {
			if ext == "" || ctype == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			normalized[ext] = ctype
		}
		c.MimeTypes = normalized
	}
	if c.MimeTypes == nil {
		c.MimeTypes = map[string]string{}
	}

	// Timeouts
	if c.ShutdownTimeout < 1*time.Second {
		c.ShutdownTimeout = 1 * time.Second
	}
	if c.ShutdownTimeout > 60*time.Second {
		c.ShutdownTimeout = 60 * time.Second
	}
	if c.DebounceDuration < 10*time.Millisecond {
		c.DebounceDuration = 10 * time.Millisecond
	}
	if c.DebounceDuration > 5*time.Second {
		c.DebounceDuration = 5 * time.Second
	}
}
