package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/config"
)

func parseOptions(t *testing.T, args ...string) (opts *options, fs *flag.FlagSet) {
	fs = flag.NewFlagSet("intcode", flag.ContinueOnError)
	opts = newOptions(fs)
	err := fs.Parse(args)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func writeConfig(t *testing.T, text string) (path string) {
	path = filepath.Join(t.TempDir(), config.CONFIG_NAME)
	err := os.WriteFile(path, []byte(text), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return
}

const testConfig = `
program = "amp.txt"
phases = [0, 1]
seed = 3
`

func TestOptions_Config(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, testConfig)

	opts, fs := parseOptions(t, "-c", path)
	cfg, err := opts.config(fs)
	assert.NoError(err)
	assert.Equal("amp.txt", cfg.Program)
	assert.Equal(filepath.Join(filepath.Dir(path), "amp.txt"), cfg.Resolve(cfg.Program))
	assert.False(cfg.Feedback)
	assert.False(cfg.Verbose)
	assert.Equal(int64(3), cfg.Seed)
	assert.Equal([]int64{0, 1}, cfg.Phases)
}

func TestOptions_Config_Override(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, testConfig)

	opts, fs := parseOptions(t, "-c", path, "-f", "-seed", "7", "-v", "-phases", "5,6")
	cfg, err := opts.config(fs)
	assert.NoError(err)
	assert.Equal("amp.txt", cfg.Program)
	assert.True(cfg.Feedback)
	assert.True(cfg.Verbose)
	assert.Equal(int64(7), cfg.Seed)
	assert.Equal([]int64{5, 6}, cfg.Phases)

	script, err := filepath.Abs("ring.star")
	assert.NoError(err)

	opts, fs = parseOptions(t, "-c", path, "-s", "ring.star")
	cfg, err = opts.config(fs)
	assert.NoError(err)
	assert.Empty(cfg.Program)
	assert.Equal(script, cfg.Script)
	assert.Equal(script, cfg.Resolve(cfg.Script))
	assert.Equal(int64(3), cfg.Seed)

	program, err := filepath.Abs("other.txt")
	assert.NoError(err)

	opts, fs = parseOptions(t, "-c", path, "-p", "other.txt")
	cfg, err = opts.config(fs)
	assert.NoError(err)
	assert.Equal(program, cfg.Program)
	assert.Equal(program, cfg.Resolve(cfg.Program))

	opts, fs = parseOptions(t, "-c", path, "-p", "other.txt", "-s", "ring.star")
	_, err = opts.config(fs)
	assert.ErrorIs(err, config.ErrConflict)
	var cerr *config.ErrConfig
	assert.ErrorAs(err, &cerr)
	assert.Equal(path, cerr.Path)
}

func TestOptions_Config_Flags(t *testing.T) {
	assert := assert.New(t)

	opts, fs := parseOptions(t, "-p", "amp.txt", "-f")
	cfg, err := opts.config(fs)
	assert.NoError(err)
	assert.Equal("amp.txt", cfg.Program)
	assert.Equal(config.DefaultFeedbackPhases, cfg.Phases)

	opts, fs = parseOptions(t)
	_, err = opts.config(fs)
	assert.ErrorIs(err, config.ErrNoProgram)

	opts, fs = parseOptions(t, "-p", "amp.txt", "-phases", "1,x")
	_, err = opts.config(fs)
	assert.ErrorIs(err, ErrPhases)
}
