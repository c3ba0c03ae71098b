package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"

	"github.com/GriffinCanCode/brilgo/pkg/bb"
	"github.com/GriffinCanCode/brilgo/pkg/config"
	"github.com/GriffinCanCode/brilgo/pkg/driver"
	"github.com/GriffinCanCode/brilgo/pkg/heap"
	"github.com/GriffinCanCode/brilgo/pkg/interp"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
)

const (
	historyFile   = ".brili_history"
	inspectPrompt = "brili> "
)

// inspector answers the commands of the interactive prompt
type inspector struct {
	prog *bb.Program
	dump *spew.ConfigState
}

func newInspector(prog *bb.Program) *inspector {
	return &inspector{
		prog: prog,
		dump: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		},
	}
}

var inspectCommands = []string{"funcs", "blocks", "dump", "run", "help", "quit"}

func (in *inspector) help(w io.Writer) {
	fmt.Fprintln(w, `Commands:
    funcs                  List functions
    blocks <fn>            List the basic blocks of fn with their successors
    dump <fn> <block>      Dump one block's resolved instructions
    run [args...]          Run main with args
    quit                   Leave`)
}

// exec runs one command line and reports whether the session should end
func (in *inspector) exec(line string, w io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		in.help(w)
	case "funcs":
		for _, f := range in.prog.Funcs {
			ret := "void"
			if f.ReturnType != nil {
				ret = f.ReturnType.String()
			}
			fmt.Fprintf(w, "%s(%d args) -> %s: %d blocks, %d vars\n", f.Name, len(f.Args), ret, len(f.Blocks), f.NumVars)
		}
	case "blocks":
		f, ok := in.function(fields, w)
		if !ok {
			return false
		}
		reach := f.Reachable()
		for i, b := range f.Blocks {
			name := b.Label
			if name == "" {
				name = "<entry>"
			}
			mark := ""
			if !reach[i] {
				mark = " (unreachable)"
			}
			fmt.Fprintf(w, "%d %s: %d instrs -> %v%s\n", i, name, len(b.Instrs), b.Exits, mark)
		}
	case "dump":
		f, ok := in.function(fields, w)
		if !ok {
			return false
		}
		if len(fields) < 3 {
			fmt.Fprintln(w, "usage: dump <fn> <block>")
			return false
		}
		idx, found := f.BlockIndex(fields[2])
		if !found {
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 || n >= len(f.Blocks) {
				fmt.Fprintf(w, "no block %q in %s\n", fields[2], f.Name)
				return false
			}
			idx = n
		}
		in.dump.Fdump(w, f.Blocks[idx])
	case "run":
		var out bytes.Buffer
		err := interp.ExecuteMain(in.prog, &out, splitArgs(fields[1:]), interp.Options{
			Profile:    true,
			ProfileOut: &out,
			NewHeap:    func() heap.Allocator { return heap.NewBasicHeap() },
		})
		_, _ = w.Write(out.Bytes())
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	default:
		fmt.Fprintf(w, "unknown command %q. Type help for a list.\n", fields[0])
	}
	return false
}

func (in *inspector) function(fields []string, w io.Writer) (*bb.Function, bool) {
	if len(fields) < 2 {
		fmt.Fprintf(w, "usage: %s <fn>\n", fields[0])
		return nil, false
	}
	f, ok := in.prog.Func(fields[1])
	if !ok {
		fmt.Fprintf(w, "no function %q\n", fields[1])
	}
	return f, ok
}

func saveHistory(ln *liner.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := ln.WriteHistory(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func cmdInspect(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "usage: brili inspect <program.json>")
		return exitUsage
	}
	in, closeIn, err := openInput(args[0], stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	prog, err := driver.Load(context.Background(), in, driver.Options{})
	closeIn()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}

	insp := newInspector(prog)

	if err := setupLogging(config.Default(), stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Close() }()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		var out []string
		for _, c := range inspectCommands {
			if strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
		return out
	})

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := saveHistory(ln, histPath); err != nil {
			logger.LogHistoryError(histPath, err)
		}
	}()

	insp.help(stdout)
	for {
		line, err := ln.Prompt(inspectPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(stdout)
			return exitOK
		}
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if insp.exec(line, stdout) {
			return exitOK
		}
	}
}
