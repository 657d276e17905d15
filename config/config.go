// Package config loads the strscan command's settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dhamidi/strscan/strscan"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "strscan.toml"

// Config holds the settings read from a TOML file.
type Config struct {
	FixedAnchor bool   `toml:"fixed_anchor"`
	Encoding    string `toml:"encoding"`
	Verbosity   int    `toml:"verbosity"`
	LogFile     string `toml:"log_file"`

	Lex struct {
		Skip []string `toml:"skip"`
	} `toml:"lex"`

	Run struct {
		StopOnError bool `toml:"stop_on_error"`
	} `toml:"run"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{Encoding: strscan.UTF8.String()}
}

// Load reads the configuration at path on top of Default. An empty path
// means DefaultFile, which may be absent.
func Load(path string) (*Config, error) {
	cfg := Default()
	optional := path == ""
	if optional {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("parse config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if _, err := cfg.ScannerEncoding(); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ScannerEncoding resolves the configured encoding name.
func (c *Config) ScannerEncoding() (strscan.Encoding, error) {
	if c.Encoding == "" {
		return strscan.UTF8, nil
	}
	return strscan.LookupEncoding(c.Encoding)
}

// ScannerOptions returns the scanner options the configuration asks for.
func (c *Config) ScannerOptions() ([]strscan.Option, error) {
	enc, err := c.ScannerEncoding()
	if err != nil {
		return nil, err
	}
	opts := []strscan.Option{strscan.WithEncoding(enc)}
	if c.FixedAnchor {
		opts = append(opts, strscan.WithFixedAnchor())
	}
	return opts, nil
}

// LogPath returns the log file for commonlog.Configure, nil for stderr.
func (c *Config) LogPath() *string {
	if c.LogFile == "" {
		return nil
	}
	path := c.LogFile
	return &path
}
