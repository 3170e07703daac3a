package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name of the optional YAML file inside Home.
const ConfigFile = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home            string `yaml:"home"`             // config root, e.g. $HOME/.sail
	LogLevel        string `yaml:"log_level"`        // debug, info, warn, error
	LogFormat       string `yaml:"log_format"`       // text or json
	MetricsTextfile string `yaml:"metrics_textfile"` // optional Prometheus textfile path
	KDFIterations   int    `yaml:"kdf_iterations"`   // PBKDF2 rounds for new namespace keys
}

// DefaultHome returns ~/.sail.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".sail"), nil
}

// LoadConfig reads a YAML config from path. A missing file yields an empty
// Config; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Override returns c with every non-zero field of o applied on top.
func (c Config) Override(o Config) Config {
	if o.Home != "" {
		c.Home = o.Home
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.MetricsTextfile != "" {
		c.MetricsTextfile = o.MetricsTextfile
	}
	if o.KDFIterations != 0 {
		c.KDFIterations = o.KDFIterations
	}
	return c
}
