// Package amp drives amplifier topologies built from a single intcode program.
//
// Each amplifier is a process that first reads its phase setting, then
// transforms the signals it reads into the signals it writes. Amplifiers are
// connected in a Chain, or in a feedback Ring where the last amplifier feeds
// the first.
package amp

import (
	"errors"
	"iter"
	"log"
	"slices"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/scheduler"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrPhasesEmpty     = errors.New(f("phase settings empty"))
	ErrNoSignal        = errors.New(f("no output signal"))
	ErrNoConfiguration = errors.New(f("no phase setting completes"))
)

// Config selects the amplifier topology.
type Config struct {
	Verbose  bool  // If set, enables verbose logging.
	Feedback bool  // Build a Ring instead of a Chain.
	Seed     int64 // Signal sent to the first amplifier.
}

// Amplifier is a topology ready to run.
type Amplifier struct {
	*scheduler.Scheduler
	Result io.Port // Port holding the final signal.
}

// Result of a phase setting search.
type Result struct {
	Signal int64
	Phases []int64
}

// Build creates the amplifier topology for a phase setting.
//
// Build panics with ErrPhasesEmpty if phases is empty.
func (cfg Config) Build(prog cpu.Program, phases []int64) (amp *Amplifier) {
	if cfg.Feedback {
		amp = Ring(prog, phases, cfg.Seed, cfg.Verbose)
	} else {
		amp = Chain(prog, phases, cfg.Seed, cfg.Verbose)
	}

	return
}

// Chain wires amplifier i from port i to port i+1. Port 0 is preloaded with
// the first phase and the seed; the result is read from the last port.
//
// Chain panics with ErrPhasesEmpty if phases is empty.
func Chain(prog cpu.Program, phases []int64, seed int64, verbose bool) (amp *Amplifier) {
	if len(phases) == 0 {
		panic(ErrPhasesEmpty)
	}

	sc := scheduler.New()
	sc.Verbose = verbose

	ports := make([]io.Port, len(phases)+1)
	for n := range ports {
		switch {
		case n == 0:
			ports[n] = sc.CreatePort(phases[n], seed)
		case n < len(phases):
			ports[n] = sc.CreatePort(phases[n])
		default:
			ports[n] = sc.CreatePort()
		}
	}

	for n := range phases {
		vm := sc.Spawn(prog.Memory())
		sc.Wire(vm, ports[n], ports[n+1])
	}

	amp = &Amplifier{Scheduler: sc, Result: ports[len(phases)]}
	return
}

// Ring wires amplifier i from port i to port (i+1) mod N. Port 0 is
// preloaded with the first phase and the seed, and also receives the final
// signal.
//
// Ring panics with ErrPhasesEmpty if phases is empty.
func Ring(prog cpu.Program, phases []int64, seed int64, verbose bool) (amp *Amplifier) {
	if len(phases) == 0 {
		panic(ErrPhasesEmpty)
	}

	sc := scheduler.New()
	sc.Verbose = verbose

	ports := make([]io.Port, len(phases))
	for n, phase := range phases {
		if n == 0 {
			ports[n] = sc.CreatePort(phase, seed)
		} else {
			ports[n] = sc.CreatePort(phase)
		}
	}

	for n := range phases {
		vm := sc.Spawn(prog.Memory())
		sc.Wire(vm, ports[n], ports[(n+1)%len(ports)])
	}

	amp = &Amplifier{Scheduler: sc, Result: ports[0]}
	return
}

// Signal runs the topology and returns the last value on the result port.
func (amp *Amplifier) Signal() (signal int64, err error) {
	err = amp.Run()
	if err != nil {
		return
	}

	signal, ok := amp.Stream(amp.Result).Last()
	if !ok {
		err = ErrNoSignal
	}

	return
}

// Signal builds and runs the topology for one phase setting.
func (cfg Config) Signal(prog cpu.Program, phases []int64) (signal int64, err error) {
	if len(phases) == 0 {
		err = ErrPhasesEmpty
		return
	}

	signal, err = cfg.Build(prog, phases).Signal()
	return
}

// Search tries every ordering of choices as phase settings and returns the
// one producing the highest signal. Settings that deadlock or produce no
// signal are skipped.
func (cfg Config) Search(prog cpu.Program, choices []int64) (best Result, err error) {
	if len(choices) == 0 {
		err = ErrPhasesEmpty
		return
	}

	found := false
	for phases := range Permutations(choices) {
		signal, serr := cfg.Signal(prog, phases)
		if serr != nil {
			if cfg.Verbose {
				log.Printf("amp: %v: %v", phases, serr)
			}
			continue
		}
		if cfg.Verbose {
			log.Printf("amp: %v: %v", phases, signal)
		}
		if !found || signal > best.Signal {
			found = true
			best = Result{Signal: signal, Phases: phases}
		}
	}

	if !found {
		err = ErrNoConfiguration
	}

	return
}

// Permutations yields every ordering of values, using Heap's algorithm.
// Each yielded slice is a fresh copy.
func Permutations(values []int64) iter.Seq[[]int64] {
	return func(yield func(perm []int64) bool) {
		work := slices.Clone(values)
		count := make([]int, len(work))

		if !yield(slices.Clone(work)) {
			return
		}

		for n := 1; n < len(work); {
			if count[n] < n {
				if n%2 == 0 {
					work[0], work[n] = work[n], work[0]
				} else {
					work[count[n]], work[n] = work[n], work[count[n]]
				}
				if !yield(slices.Clone(work)) {
					return
				}
				count[n]++
				n = 1
			} else {
				count[n] = 0
				n++
			}
		}
	}
}
