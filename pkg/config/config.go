package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the application
type Config struct {
	Document string `koanf:"document"` // SVG document to edit
	Filter   string `koanf:"filter"`   // id of the filter element, "" = first
	WebMode  bool   `koanf:"web"`
	Port     int    `koanf:"port"`
	Watch    bool   `koanf:"watch"` // reload the document when it changes on disk
	SVGOut   string `koanf:"svgout"`
	PNGOut   string `koanf:"pngout"`
	Font     string `koanf:"font"` // font file for PNG labels, "" = no labels
	Verbose  int    `koanf:"verbose"`
	JSONLog  bool   `koanf:"jsonlog"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"document": "",
		"filter":   "",
		"web":      false,
		"port":     8080,
		"watch":    false,
		"svgout":   "",
		"pngout":   "",
		"font":     "",
		"verbose":  0,
		"jsonlog":  false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - fegraph.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("fegraph.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: FEGRAPH_ (e.g., FEGRAPH_PORT=9090)
	if err := k.Load(env.Provider("FEGRAPH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "FEGRAPH_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
