// Package config handles intcode.toml run configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

// CONFIG_NAME is the default configuration file name.
const CONFIG_NAME = "intcode.toml"

var (
	ErrNoProgram = errors.New(f("no program or script configured"))
	ErrConflict  = errors.New(f("program and script are exclusive"))
)

// ErrConfig locates a configuration file error.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// Config is a run configuration.
type Config struct {
	Program string `toml:"program"` // Program text file.
	Text    string `toml:"text"`    // Inline program text, instead of Program.
	Script  string `toml:"script"`  // Topology script, instead of a program.

	Feedback bool    `toml:"feedback"` // Amplifiers form a ring.
	Phases   []int64 `toml:"phases"`   // Phase setting choices to search.
	Seed     int64   `toml:"seed"`     // Initial signal.
	Verbose  bool    `toml:"verbose"`

	// Dir is the directory containing the configuration (set at load time).
	Dir string `toml:"-"`
}

// Default phase choices, by topology.
var (
	DefaultPhases         = []int64{0, 1, 2, 3, 4}
	DefaultFeedbackPhases = []int64{5, 6, 7, 8, 9}
)

// Load parses and validates a configuration file. Relative paths in the
// file are resolved against its directory.
func Load(path string) (cfg *Config, err error) {
	cfg, err = Read(path)
	if err != nil {
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
		err = &ErrConfig{Path: path, Err: err}
		return
	}

	return
}

// Read parses a configuration file without validating it, so that settings
// may be overridden before Validate.
func Read(path string) (cfg *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = &ErrConfig{Path: path, Err: err}
		return
	}

	cfg = &Config{}
	err = toml.Unmarshal(data, cfg)
	if err != nil {
		cfg = nil
		err = &ErrConfig{Path: path, Err: err}
		return
	}

	cfg.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		cfg = nil
		err = &ErrConfig{Path: path, Err: err}
		return
	}

	return
}

// Validate checks for exclusive settings and applies defaults.
func (cfg *Config) Validate() (err error) {
	sources := 0
	for _, src := range []string{cfg.Program, cfg.Text, cfg.Script} {
		if len(src) != 0 {
			sources++
		}
	}
	switch {
	case sources == 0:
		err = ErrNoProgram
		return
	case sources > 1:
		err = ErrConflict
		return
	}

	if len(cfg.Phases) == 0 {
		if cfg.Feedback {
			cfg.Phases = slices.Clone(DefaultFeedbackPhases)
		} else {
			cfg.Phases = slices.Clone(DefaultPhases)
		}
	}

	return
}

// Resolve returns path relative to the configuration directory.
func (cfg *Config) Resolve(path string) string {
	if len(path) == 0 || filepath.IsAbs(path) || len(cfg.Dir) == 0 {
		return path
	}
	return filepath.Join(cfg.Dir, path)
}

// LoadProgram returns the configured program.
func (cfg *Config) LoadProgram() (prog cpu.Program, err error) {
	if len(cfg.Text) != 0 {
		prog, err = cpu.ParseProgramString(cfg.Text, cpu.PROGRAM_SEPARATOR)
		return
	}

	if len(cfg.Program) == 0 {
		err = ErrNoProgram
		return
	}

	path := cfg.Resolve(cfg.Program)
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = cpu.ParseProgram(inf)
	if err != nil {
		err = &ErrConfig{Path: path, Err: err}
	}

	return
}
