// Package diag defines the closed set of faults the interpreter can report.
//
// Every fault is fatal. An *Error carries its Kind, an optional source
// position and, for wrapped faults, the underlying cause. Positions are
// attached on the way out of each call frame and the innermost one wins.
package diag

//go:generate go run golang.org/x/tools/cmd/stringer -type=Kind

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/brilgo/pkg/ir"
)

// Kind names one class of fault. A Kind is itself an error so it can be used
// as the target of errors.Is.
type Kind int

const (
	// Run-time faults
	DivisionByZero Kind = iota + 1
	MemLeak
	UsingUninitializedMemory
	NoLastLabel
	PhiMissingLabel
	CannotAllocSize
	IllegalFree
	InvalidMemoryAccess
	ToCharError
	NoReturnValue
	NotSpeculating
	SpeculativeReturn

	// Entry point and arguments
	NoMainFunction
	BadNumFuncArgs
	BadFuncArgType
	NotOneChar

	// Structural faults found while building blocks or checking
	MissingLabel
	DuplicateLabel
	DuplicateFunction
	FuncNotFound
	VarUndefined
	NonEmptyRetForFunc
	UnsupportedOp
	BadNumArgs
	BadNumLabels
	BadNumFuncs
	BadAsmtType
	UnequalPhiNode
	ExpectedPointerType

	// Wrapped causes
	IO
	Conversion
)

var kindText = map[Kind]string{
	DivisionByZero:           "Attempt to divide by 0",
	MemLeak:                  "Some memory locations have not been freed by the end of execution",
	UsingUninitializedMemory: "Trying to load from uninitialized memory",
	NoLastLabel:              "phi node executed with no last label",
	PhiMissingLabel:          "Label for phi node not found",
	CannotAllocSize:          "cannot allocate the requested number of entries",
	IllegalFree:              "Tried to free illegal memory location",
	InvalidMemoryAccess:      "Uninitialized heap location and/or illegal offset",
	ToCharError:              "value is not a valid Unicode scalar",
	NoReturnValue:            "function returned no value to a value call",
	NotSpeculating:           "commit or guard outside of speculation",
	SpeculativeReturn:        "return while speculating",
	NoMainFunction:           "no main function defined, doing nothing",
	BadNumFuncArgs:           "wrong number of function arguments",
	BadFuncArgType:           "bad function argument type",
	NotOneChar:               "char argument must be exactly one character",
	MissingLabel:             "Could not find label",
	DuplicateLabel:           "duplicate label",
	DuplicateFunction:        "multiple functions of the same name found",
	FuncNotFound:             "function not found",
	VarUndefined:             "undefined variable",
	NonEmptyRetForFunc:       "Expected empty return",
	UnsupportedOp:            "opcode group is not enabled",
	BadNumArgs:               "wrong number of instruction arguments",
	BadNumLabels:             "wrong number of labels",
	BadNumFuncs:              "wrong number of functions",
	BadAsmtType:              "type mismatch",
	UnequalPhiNode:           "phi node has unequal numbers of labels and args",
	ExpectedPointerType:      "expected a pointer type",
	IO:                       "i/o error",
	Conversion:               "program conversion error",
}

// Error implements error so a bare Kind can be returned or matched
func (k Kind) Error() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return k.String()
}

// Runtime reports whether k is raised while executing rather than while loading
func (k Kind) Runtime() bool {
	return k >= DivisionByZero && k <= SpeculativeReturn
}

// Error is a positioned interpreter fault
type Error struct {
	Kind Kind
	Msg  string // detail; Kind.Error() is used when empty
	Pos  *ir.Position
	Err  error // wrapped cause for IO and Conversion
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		if e.Err != nil {
			msg = e.Err.Error()
		} else {
			msg = e.Kind.Error()
		}
	}
	if e.Pos != nil {
		return fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	return msg
}

// Unwrap exposes the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a Kind target
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New creates an unpositioned fault with a formatted detail message
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap wraps cause under kind, keeping any position a ConversionError had
func Wrap(kind Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	var d *Error
	if errors.As(cause, &d) {
		return d
	}
	e := &Error{Kind: kind, Err: cause}
	var ce *ir.ConversionError
	if errors.As(cause, &ce) {
		e.Pos = ce.Pos
	}
	return e
}

// AtPos attaches pos to err unless err already carries a position. Non-diag
// errors are wrapped as IO.
func AtPos(err error, pos *ir.Position) error {
	if err == nil {
		return nil
	}
	var d *Error
	if !errors.As(err, &d) {
		d = &Error{Kind: IO, Err: err}
	}
	if d.Pos != nil || pos == nil {
		return d
	}
	cp := *d
	p := *pos
	cp.Pos = &p
	return &cp
}

// KindOf returns the Kind carried by err, or 0 when err is not a diag fault
func KindOf(err error) Kind {
	var d *Error
	if errors.As(err, &d) {
		return d.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}

// Constructors for faults that carry details

func DivideByZero() *Error { return &Error{Kind: DivisionByZero} }

func Leak(live int) *Error {
	return New(MemLeak, "Some memory locations have not been freed by the end of execution (%d live)", live)
}

func Uninitialized() *Error { return &Error{Kind: UsingUninitializedMemory} }

func AllocSize(amount int64) *Error {
	return New(CannotAllocSize, "cannot allocate `%d` entries", amount)
}

func BadFree(base uint64, offset int64) *Error {
	return New(IllegalFree, "Tried to free illegal memory location base: `%d`, offset: `%d`. Offset must be 0.", base, offset)
}

func BadAccess(base uint64, offset int64) *Error {
	return New(InvalidMemoryAccess, "Uninitialized heap location `%d` and/or illegal offset `%d`", base, offset)
}

func ArgCount(expected, actual int) *Error {
	return New(BadNumFuncArgs, "Expected `%d` function arguments, found `%d`", expected, actual)
}

func ArgType(expected ir.Type, actual string) *Error {
	return New(BadFuncArgType, "Expected type `%s` for function argument, found `%s`", expected, actual)
}

func Label(name string) *Error {
	return New(MissingLabel, "Could not find label: %s", name)
}

func PhiLabel(name string) *Error {
	return New(PhiMissingLabel, "Label `%s` for phi node not found", name)
}

func Func(name string) *Error {
	return New(FuncNotFound, "no function of name `%s` found", name)
}

func CharRange(v int64) *Error {
	return New(ToCharError, "cannot convert `%d` to a char", v)
}
