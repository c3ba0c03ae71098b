// Package main implements the brili interpreter binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/GriffinCanCode/brilgo/pkg/config"
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/driver"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
)

const version = "0.1.0"

// Exit codes
const (
	exitOK      = 0
	exitUsage   = 1 // bad flags, unreadable files, I/O failures
	exitProgram = 2 // the program is malformed or faulted while running
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}

	cmd := args[0]
	switch cmd {
	case "run":
		return cmdRun(args[1:], stdin, stdout, stderr)
	case "check":
		return cmdCheck(args[1:], stdin, stderr)
	case "inspect":
		return cmdInspect(args[1:], stdin, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "brili version %s\n", version)
	case "help", "-h", "--help":
		usage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		usage(stderr)
		return exitUsage
	}
	return exitOK
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `brili - Bril interpreter

Usage:
    brili run [options] <program.json|-> [args...]   Run main with args
    brili check [options] <program.json|->           Validate without running
    brili inspect <program.json>                     Explore the block graph
    brili version                                    Show interpreter version
    brili help                                       Show this help message

Options:
    -p             Print the dynamic instruction count to stderr
    -check         Validate only, do not run
    -config <file> Read settings from a YAML file
    -heap <kind>   Allocator: basic or arena (default: basic)
    -v             Verbose (debug) logging

Arguments to main may be separated by spaces or commas.`)
}

// runFlags are the options shared by run and check
type runFlags struct {
	fs         *flag.FlagSet
	profile    *bool
	checkOnly  *bool
	configPath *string
	heap       *string
	verbose    *bool
}

func newRunFlags(name string, stderr io.Writer) *runFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return &runFlags{
		fs:         fs,
		profile:    fs.Bool("p", false, "print the dynamic instruction count to stderr"),
		checkOnly:  fs.Bool("check", false, "validate only, do not run"),
		configPath: fs.String("config", "", "YAML settings file"),
		heap:       fs.String("heap", "", "allocator: basic or arena"),
		verbose:    fs.Bool("v", false, "debug logging"),
	}
}

// settings merges the config file with the flags that were given explicitly
func (f *runFlags) settings() (config.Config, error) {
	cfg := config.Default()
	if *f.configPath != "" {
		var err error
		if cfg, err = config.Load(*f.configPath); err != nil {
			return cfg, err
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "p":
			cfg.Profile = *f.profile
		case "check":
			cfg.Check = *f.checkOnly
		case "heap":
			cfg.Heap = *f.heap
		case "v":
			if *f.verbose {
				cfg.Log.Level = "debug"
			}
		}
	})
	return cfg, cfg.Validate()
}

// source names where the settings came from, for the log
func (f *runFlags) source() string {
	if *f.configPath != "" {
		return *f.configPath
	}
	return "flags"
}

// setupLogging starts the global logger; the caller closes it with
// logger.Close. Debug logging to the terminal also records source locations.
func setupLogging(cfg config.Config, stderr io.Writer) error {
	lc, err := cfg.Logger()
	if err != nil {
		return err
	}
	if lc.Level == logger.LevelDebug && lc.LogFile == "" && lc.Format == "text" {
		return logger.InitDev(stderr)
	}
	lc.Output = stderr
	return logger.Init(lc)
}

func cmdRun(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f := newRunFlags("run", stderr)
	if err := f.fs.Parse(args); err != nil {
		return exitUsage
	}
	cfg, err := f.settings()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	return execute(cfg, f.source(), f.fs.Args(), stdin, stdout, stderr)
}

func cmdCheck(args []string, stdin io.Reader, stderr io.Writer) int {
	f := newRunFlags("check", stderr)
	if err := f.fs.Parse(args); err != nil {
		return exitUsage
	}
	cfg, err := f.settings()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	cfg.Check = true
	return execute(cfg, f.source(), f.fs.Args(), stdin, io.Discard, stderr)
}

func execute(cfg config.Config, source string, rest []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "error: no input file")
		return exitUsage
	}
	if err := setupLogging(cfg, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Close() }()
	logger.LogConfig(source, cfg.Heap, cfg.Profile)
	if cfg.Check && cfg.Profile {
		logger.LogIgnoredSetting("profile", "the program is only checked")
	}
	groups, err := cfg.OpGroups()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	in, closeIn, err := openInput(rest[0], stdin)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer closeIn()

	err = driver.RunInput(context.Background(), in, stdout, splitArgs(rest[1:]), driver.Options{
		CheckOnly:  cfg.Check,
		Profile:    cfg.Profile,
		ProfileOut: stderr,
		Heap:       cfg.Heap,
		Groups:     groups,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// openInput opens path, or returns stdin for "-"
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}

// splitArgs accepts "1 2", "1,2" and "1, 2" alike
func splitArgs(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.FieldsFunc(a, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return out
}

// exitCode maps program faults to exitProgram and everything else, such as
// I/O errors while reading the program, to exitUsage
func exitCode(err error) int {
	var d *diag.Error
	if errors.As(err, &d) && d.Kind == diag.IO {
		return exitUsage
	}
	if diag.KindOf(err) != 0 {
		return exitProgram
	}
	return exitUsage
}
