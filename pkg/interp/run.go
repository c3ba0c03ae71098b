package interp

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/GriffinCanCode/brilgo/pkg/bb"
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/heap"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// Options controls a run
type Options struct {
	// Profile writes "total_dyn_inst: N" to ProfileOut after a successful run
	Profile    bool
	ProfileOut io.Writer
	// NewHeap builds the allocator; nil selects the basic heap
	NewHeap func() heap.Allocator
	// HeapName is only used for logging
	HeapName string
}

// Result describes a finished run
type Result struct {
	Value        value.Value
	HasValue     bool
	Instructions uint64
}

func (o Options) allocator() heap.Allocator {
	if o.NewHeap == nil {
		return heap.NewBasicHeap()
	}
	return o.NewHeap()
}

// Run executes entry with already typed arguments. Output is flushed before
// Run returns, even on failure. The heap is not checked for leaks.
func Run(prog *bb.Program, entry *bb.Function, out io.Writer, args []value.Value, opts Options) (Result, error) {
	if len(args) != len(entry.Args) {
		return Result{}, diag.AtPos(diag.ArgCount(len(entry.Args), len(args)), entry.Pos)
	}
	m := newMachine(prog, entry, out, args, opts)
	res, ok, err := m.execute(entry)
	if ferr := m.out.Flush(); err == nil && ferr != nil {
		err = diag.Wrap(diag.IO, ferr)
	}
	return Result{Value: res, HasValue: ok, Instructions: m.count}, err
}

func newMachine(prog *bb.Program, entry *bb.Function, out io.Writer, args []value.Value, opts Options) *machine {
	env := NewEnvironment(entry.NumVars)
	for i, v := range args {
		env.Set(entry.ArgSlots[i], v)
	}
	return &machine{
		prog: prog,
		env:  env,
		heap: opts.allocator(),
		out:  bufio.NewWriter(out),
	}
}

// ExecuteMain runs the program's main function with textual arguments, the
// way the command line supplies them. Every allocation must be freed by the
// time main returns.
func ExecuteMain(prog *bb.Program, out io.Writer, args []string, opts Options) error {
	if prog.Main == bb.NoSlot {
		return &diag.Error{Kind: diag.NoMainFunction}
	}
	main := prog.Funcs[prog.Main]

	vals, err := ParseArgs(main, args)
	if err != nil {
		return diag.AtPos(err, main.Pos)
	}

	logger.LogExecutionStart(main.Name, args, opts.HeapName)
	start := time.Now()

	m := newMachine(prog, main, out, vals, opts)
	_, _, err = m.execute(main)
	if err == nil && !m.heap.IsEmpty() {
		err = diag.AtPos(diag.Leak(m.heap.Live()), main.Pos)
	}
	if ferr := m.out.Flush(); err == nil && ferr != nil {
		err = diag.Wrap(diag.IO, ferr)
	}
	if err != nil {
		return err
	}

	logger.LogExecutionComplete(m.count, time.Since(start))
	if opts.Profile && opts.ProfileOut != nil {
		if _, err := fmt.Fprintf(opts.ProfileOut, "total_dyn_inst: %d\n", m.count); err != nil {
			return diag.Wrap(diag.IO, err)
		}
	}
	return nil
}
