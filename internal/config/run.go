// Package config loads receiver run configuration from YAML files.
// All fields are optional; the Get* methods supply defaults, so a
// partial config is safe.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/softradio/nonht/internal/phy"
)

// RunConfig is the root run configuration. Pointer fields distinguish
// "absent" from a zero value.
type RunConfig struct {
	// Receiver params
	Bandwidth       *string  `yaml:"bandwidth,omitempty"`
	TimingThreshold *float64 `yaml:"timing_threshold,omitempty"`
	SymbolOffset    *float64 `yaml:"symbol_offset,omitempty"`
	Equalizer       *string  `yaml:"equalizer,omitempty"` // "zf" or "mmse"

	// Input params
	InputFormat  *string `yaml:"input_format,omitempty"` // "cf32" or "cs16"
	BatchSymbols *int    `yaml:"batch_symbols,omitempty"`

	// Storage params
	StorePath *string `yaml:"store_path,omitempty"`

	Debug *bool `yaml:"debug,omitempty"`
}

// EmptyRunConfig returns a RunConfig with all fields unset.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// LoadRunConfig loads a RunConfig from a YAML file. Fields omitted
// from the file retain their defaults.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have a .yaml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c *RunConfig) GetBandwidth() string {
	if c != nil && c.Bandwidth != nil {
		return *c.Bandwidth
	}
	return "CBW20"
}

func (c *RunConfig) GetTimingThreshold() float64 {
	if c != nil && c.TimingThreshold != nil {
		return *c.TimingThreshold
	}
	return 0.6
}

func (c *RunConfig) GetSymbolOffset() float64 {
	if c != nil && c.SymbolOffset != nil {
		return *c.SymbolOffset
	}
	return 0.5
}

func (c *RunConfig) GetEqualizer() string {
	if c != nil && c.Equalizer != nil {
		return *c.Equalizer
	}
	return "zf"
}

func (c *RunConfig) GetInputFormat() string {
	if c != nil && c.InputFormat != nil {
		return *c.InputFormat
	}
	return "cf32"
}

func (c *RunConfig) GetBatchSymbols() int {
	if c != nil && c.BatchSymbols != nil {
		return *c.BatchSymbols
	}
	return 64
}

func (c *RunConfig) GetStorePath() string {
	if c != nil && c.StorePath != nil {
		return *c.StorePath
	}
	return ""
}

func (c *RunConfig) GetDebug() bool {
	if c != nil && c.Debug != nil {
		return *c.Debug
	}
	return false
}

// PHYConfig materializes the receiver configuration.
func (c *RunConfig) PHYConfig() (phy.Config, error) {
	bw, err := phy.ParseBandwidth(c.GetBandwidth())
	if err != nil {
		return phy.Config{}, err
	}
	return phy.Config{
		Bandwidth:       bw,
		TimingThreshold: c.GetTimingThreshold(),
		SymbolOffset:    c.GetSymbolOffset(),
	}, nil
}

// Equalization resolves the equalizer selection.
func (c *RunConfig) Equalization() (phy.Equalization, error) {
	switch c.GetEqualizer() {
	case "zf":
		return phy.EqZeroForcing, nil
	case "mmse":
		return phy.EqMMSE, nil
	}
	return 0, fmt.Errorf("unknown equalizer %q", c.GetEqualizer())
}
