package topology

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.starlark.net/starlark"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/scheduler"
)

func doLoad(t *testing.T, lines ...string) (topo *Topology) {
	topo, err := Load("test.star", strings.Join(lines, "\n"), false)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestLoad_Echo(t *testing.T) {
	assert := assert.New(t)

	topo := doLoad(t,
		`prog = program("3,0,4,0,99")`,
		`a = port(42)`,
		`result = port()`,
		`wire(spawn(prog), a, result)`,
	)

	assert.Equal(io.Port(1), topo.Result)
	assert.Equal([]int64{42}, topo.Stream(0).Data)

	proc := topo.Process(0)
	assert.Equal(io.Port(0), proc.Input)
	assert.Equal(io.Port(1), proc.Output)
	assert.Equal([]int64{3, 0, 4, 0, 99}, proc.Cpu.Memory)

	value, err := topo.Answer()
	assert.NoError(err)
	assert.Equal(int64(42), value)
}

func TestLoad_Ring(t *testing.T) {
	assert := assert.New(t)

	topo := doLoad(t,
		`prog = program("3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5")`,
		`phases = [9, 8, 7, 6, 5]`,
		`ports = [port(phases[0], 0)] + [port(p) for p in phases[1:]]`,
		`for n in range(len(ports)):`,
		`    wire(spawn(prog), ports[n], ports[(n + 1) % len(ports)])`,
		`result = ports[0]`,
	)

	count := 0
	for range topo.Processes() {
		count++
	}
	assert.Equal(5, count)

	value, err := topo.Answer()
	assert.NoError(err)
	assert.Equal(int64(139629729), value)
}

func TestLoad_SpawnForms(t *testing.T) {
	assert := assert.New(t)

	topo := doLoad(t,
		`a = spawn("99")`,
		`b = spawn([1101, 1, 2, 0, 99])`,
		`c = spawn((99,))`,
		`d = spawn(program("1;1;1;0;99", sep=";"))`,
	)

	assert.Equal(starlark.MakeInt(0), topo.Globals["a"])
	assert.Equal(starlark.MakeInt(3), topo.Globals["d"])
	assert.Equal([]int64{99}, topo.Process(0).Cpu.Memory)
	assert.Equal([]int64{1101, 1, 2, 0, 99}, topo.Process(1).Cpu.Memory)
	assert.Equal([]int64{99}, topo.Process(2).Cpu.Memory)
	assert.Equal([]int64{1, 1, 1, 0, 99}, topo.Process(3).Cpu.Memory)
	assert.Equal(io.PORT_NONE, topo.Result)

	_, err := topo.Answer()
	assert.ErrorIs(err, ErrNoResult)
}

func TestLoad_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		script string
		text   string
	}){
		{"bad_program", `spawn("1,x")`, "program invalid"},
		{"empty_program", `spawn([])`, "program invalid"},
		{"bad_cell", `spawn(["a"])`, "program invalid"},
		{"bad_type", `spawn(1)`, "program invalid"},
		{"bad_pid", `wire(7)`, "pid unknown"},
		{"bad_port", `wire(spawn("99"), 3)`, "port unknown"},
		{"bad_preload", `port("x")`, "bad arguments"},
		{"kwargs", `port(x=1)`, "bad arguments"},
		{"syntax", `port(`, ""},
		{"bad_result", `result = "x"`, "result is not a port"},
		{"unknown_result", `result = 5`, "port unknown"},
	}

	for _, entry := range table {
		topo, err := Load(entry.name+".star", entry.script, false)
		assert.Nil(topo, entry.name)
		assert.Error(err, entry.name)
		if entry.text != "" {
			assert.ErrorContains(err, entry.text, entry.name)
		}
	}

	_, err := Load("result.star", `result = "x"`, false)
	assert.ErrorIs(err, ErrResult)
}

func TestLoad_MaxSteps(t *testing.T) {
	assert := assert.New(t)

	defer func(steps uint64) { MaxSteps = steps }(MaxSteps)
	MaxSteps = 1000

	topo, err := Load("spin.star", "while True:\n    pass\n", false)
	assert.Nil(topo)
	assert.ErrorContains(err, "too many steps")

	topo, err = Load("count.star", "n = 0\nwhile n < 10:\n    n += 1\nresult = port(n)\n", false)
	assert.NoError(err)
	value, err := topo.Answer()
	assert.NoError(err)
	assert.Equal(int64(10), value)
}

func TestLoad_File(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "deadlock.star")
	script := strings.Join([]string{
		`a = port()`,
		`b = port()`,
		`wire(spawn("3,0,4,0,99"), a, b)`,
		`wire(spawn("3,0,4,0,99"), b, a)`,
		`result = b`,
	}, "\n")
	assert.NoError(os.WriteFile(path, []byte(script), 0o644))

	topo, err := Load(path, nil, false)
	assert.NoError(err)

	_, err = topo.Answer()
	assert.ErrorIs(err, &scheduler.ErrDeadlock{})
	assert.Equal(scheduler.Blocked(0), topo.Process(cpu.Pid(0)).Status)
	assert.Equal(scheduler.Blocked(1), topo.Process(cpu.Pid(1)).Status)
}
