// Package config loads the optional TOML settings file and .env overrides.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/xerrors"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = ".axamltranslate.toml"

// Duration is a time.Duration written as a string ("1s", "250ms") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	// LocalesDir holds every <lang>.axaml file.
	LocalesDir string `toml:"locales_dir"`

	Indent       bool `toml:"indent"`
	IndentSpaces int  `toml:"indent_spaces"`

	// Delay and FastDelay pace auto-fill translation requests.
	Delay     Duration `toml:"delay"`
	FastDelay Duration `toml:"fast_delay"`

	// SourceLang overrides the translation source language derived from
	// the reference file name.
	SourceLang string `toml:"source_lang"`
}

func Default() *Config {
	return &Config{
		LocalesDir:   "src/Resources/Locales",
		Indent:       true,
		IndentSpaces: 2,
		Delay:        Duration{time.Second},
		FastDelay:    Duration{100 * time.Millisecond},
	}
}

// LoadEnv reads a .env file from the working directory into the process
// environment. The file is optional.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnw("could not read .env", "error", err)
	}
}

// Load returns the defaults overlaid with the TOML file at path. An empty path
// falls back to DefaultFile, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, xerrors.Errorf("decoding config %s: %w", path, err)
		}
		log.Debugw("loaded config", "path", path)
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, xerrors.Errorf("reading config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.LocalesDir == "" {
		return xerrors.New("locales_dir must not be empty")
	}
	if c.IndentSpaces < 0 {
		return xerrors.Errorf("indent_spaces must not be negative, got %d", c.IndentSpaces)
	}
	if c.Delay.Duration < 0 || c.FastDelay.Duration < 0 {
		return xerrors.New("delays must not be negative")
	}
	return nil
}
