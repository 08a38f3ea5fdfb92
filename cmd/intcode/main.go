// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/intcode/amp"
	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/topology"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var ErrPhases = errors.New(f("-phases invalid"))

// options are the command line settings.
type options struct {
	cfgPath string
	phases  string
	once    bool
	cfg     config.Config
}

func newOptions(fs *flag.FlagSet) (opts *options) {
	opts = &options{}

	fs.StringVar(&opts.cfgPath, "c", "", "intcode.toml configuration to use")
	fs.StringVar(&opts.cfg.Program, "p", "", "program file to run")
	fs.StringVar(&opts.cfg.Script, "s", "", ".star topology script to run")
	fs.BoolVar(&opts.cfg.Feedback, "f", false, "Connect amplifiers in a feedback ring")
	fs.StringVar(&opts.phases, "phases", "", "Comma separated phase settings")
	fs.Int64Var(&opts.cfg.Seed, "seed", 0, "Initial signal")
	fs.BoolVar(&opts.once, "once", false, "Run the phase settings in the given order, do not search")
	fs.BoolVar(&opts.cfg.Verbose, "v", false, "Verbose mode")

	return
}

// config returns the validated run configuration. Flags set on the command
// line override the settings of a -c configuration file.
func (opts *options) config(fs *flag.FlagSet) (cfg *config.Config, err error) {
	if len(opts.cfgPath) == 0 {
		cfg = &opts.cfg
	} else {
		cfg, err = config.Read(opts.cfgPath)
		if err != nil {
			return
		}
		err = opts.override(fs, cfg)
		if err != nil {
			return
		}
	}

	if len(opts.phases) != 0 {
		var list cpu.Program
		list, err = cpu.ParseProgramString(opts.phases, ",")
		if err != nil {
			err = errors.Join(ErrPhases, err)
			return
		}
		cfg.Phases = list
	}

	err = cfg.Validate()
	if err != nil && len(opts.cfgPath) != 0 {
		err = &config.ErrConfig{Path: opts.cfgPath, Err: err}
	}

	return
}

// override applies the flags set on the command line to a loaded
// configuration. Flag paths are relative to the working directory.
func (opts *options) override(fs *flag.FlagSet, cfg *config.Config) (err error) {
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		set[fl.Name] = true
	})

	if set["p"] || set["s"] {
		cfg.Program, cfg.Text, cfg.Script = "", "", ""
	}
	if set["p"] && len(opts.cfg.Program) != 0 {
		cfg.Program, err = filepath.Abs(opts.cfg.Program)
		if err != nil {
			return
		}
	}
	if set["s"] && len(opts.cfg.Script) != 0 {
		cfg.Script, err = filepath.Abs(opts.cfg.Script)
		if err != nil {
			return
		}
	}
	if set["f"] {
		cfg.Feedback = opts.cfg.Feedback
	}
	if set["seed"] {
		cfg.Seed = opts.cfg.Seed
	}
	if set["v"] {
		cfg.Verbose = opts.cfg.Verbose
	}

	return
}

func main() {
	opts := newOptions(flag.CommandLine)

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg, err := opts.config(flag.CommandLine)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if len(cfg.Script) != 0 {
		path := cfg.Resolve(cfg.Script)
		topo, err := topology.Load(path, nil, cfg.Verbose)
		if err != nil {
			log.Fatal(err)
		}
		value, err := topo.Answer()
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
		fmt.Println(f("result %v", translate.Number(value)))
		return
	}

	prog, err := cfg.LoadProgram()
	if err != nil {
		log.Fatal(err)
	}

	ac := amp.Config{
		Verbose:  cfg.Verbose,
		Feedback: cfg.Feedback,
		Seed:     cfg.Seed,
	}

	if opts.once {
		signal, err := ac.Signal(prog, cfg.Phases)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Phases, err)
		}
		fmt.Println(f("signal %v phases %v", translate.Number(signal), cfg.Phases))
		return
	}

	best, err := ac.Search(prog, cfg.Phases)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(f("signal %v phases %v", translate.Number(best.Signal), best.Phases))
}
