// Package driver wires the interpreter phases together:
// load → check → build → execute.
package driver

import (
	"context"
	"io"
	"time"

	"github.com/GriffinCanCode/brilgo/pkg/bb"
	"github.com/GriffinCanCode/brilgo/pkg/check"
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/heap"
	"github.com/GriffinCanCode/brilgo/pkg/interp"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
)

// Options controls one invocation
type Options struct {
	// CheckOnly stops after the program has been validated and built
	CheckOnly bool
	// Profile writes the dynamic instruction count to ProfileOut
	Profile    bool
	ProfileOut io.Writer
	// Heap names the allocator; see heap.Kinds
	Heap string
	// Groups restricts the enabled opcode groups; nil enables all
	Groups []ir.Group
	// Checker replaces the default static checker
	Checker check.Checker
}

// Load decodes, checks and builds a program without running it
func Load(ctx context.Context, r io.Reader, opts Options) (*bb.Program, error) {
	prog, err := phase(ctx, "load", func() (*ir.Program, error) {
		p, err := ir.Load(r)
		if err != nil {
			return nil, diag.Wrap(diag.Conversion, err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	checker := opts.Checker
	if checker == nil {
		checker = check.NewTypeChecker()
	}
	if _, err := phase(ctx, "check", func() (struct{}, error) {
		return struct{}{}, checker.Check(prog)
	}); err != nil {
		return nil, err
	}

	var bopts []bb.Option
	if opts.Groups != nil {
		bopts = append(bopts, bb.WithGroups(opts.Groups...))
	}
	return phase(ctx, "build", func() (*bb.Program, error) {
		return bb.NewProgram(prog, bopts...)
	})
}

// RunInput interprets the JSON program read from r. Program output goes to
// out; args are the textual arguments for main.
func RunInput(ctx context.Context, r io.Reader, out io.Writer, args []string, opts Options) error {
	newHeap, err := heap.Factory(opts.Heap)
	if err != nil {
		return err
	}

	prog, err := Load(ctx, r, opts)
	if err != nil || opts.CheckOnly {
		return err
	}

	_, err = phase(ctx, "execute", func() (struct{}, error) {
		return struct{}{}, interp.ExecuteMain(prog, out, args, interp.Options{
			Profile:    opts.Profile,
			ProfileOut: opts.ProfileOut,
			NewHeap:    newHeap,
			HeapName:   opts.Heap,
		})
	})
	return err
}

// phase runs one step with timing and error logging. A cancelled context
// stops the pipeline before the step starts.
func phase[T any](ctx context.Context, name string, run func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	logger.LogPhase(name)
	start := time.Now()
	v, err := run()
	if err != nil {
		logger.LogError(name, err)
		return zero, err
	}
	logger.LogPhaseComplete(name, time.Since(start))
	return v, nil
}
