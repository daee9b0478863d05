// Package config loads runtime settings from the environment. Command-line
// flags override individual fields after loading.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Source names where preset documents are read from.
type Source string

const (
	SourceEmbedded Source = "embedded"
	SourceDir      Source = "dir"
	SourceStore    Source = "store"
)

// Config holds every setting of the osmnames tool.
type Config struct {
	// DataDir is a directory containing presets.json and <locale>.json files.
	DataDir string `env:"OSMNAMES_DATA_DIR"`

	// StorePath is a bbolt asset database. It takes precedence over DataDir.
	StorePath string `env:"OSMNAMES_STORE_PATH"`
	DataSet   string `env:"OSMNAMES_DATA_SET"   envDefault:"default"`

	BaseFile   string `env:"OSMNAMES_BASE_FILE"  envDefault:"presets.json"`
	Locale     string `env:"OSMNAMES_LOCALE"`
	Compressed bool   `env:"OSMNAMES_COMPRESSED" envDefault:"false"`

	LogLevel   string `env:"OSMNAMES_LOG_LEVEL"   envDefault:"warn"`
	LogColored bool   `env:"OSMNAMES_LOG_COLORED" envDefault:"true"`
}

// FromEnv parses Config from the process environment.
func FromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Source reports which backend the settings select.
func (c Config) Source() Source {
	switch {
	case c.StorePath != "":
		return SourceStore
	case c.DataDir != "":
		return SourceDir
	default:
		return SourceEmbedded
	}
}
