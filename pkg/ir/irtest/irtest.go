// Package irtest provides terse constructors for building Bril programs in Go
// tests.
package irtest

import "github.com/GriffinCanCode/brilgo/pkg/ir"

// Prog assembles a program from functions
func Prog(fns ...*ir.Function) *ir.Program {
	return &ir.Program{Functions: fns}
}

// Func builds a function. ret is nil for void functions.
func Func(name string, args []ir.Argument, ret *ir.Type, code ...ir.Code) *ir.Function {
	return &ir.Function{Name: name, Args: args, ReturnType: ret, Instrs: code}
}

// Main builds a void main function without arguments
func Main(code ...ir.Code) *ir.Function {
	return Func("main", nil, nil, code...)
}

// Arg builds a formal parameter
func Arg(name string, t ir.Type) ir.Argument {
	return ir.Argument{Name: name, Type: t}
}

// Ret returns a pointer to t for use as a return type
func Ret(t ir.Type) *ir.Type {
	return &t
}

// Label starts a block
func Label(name string) *ir.Label {
	return &ir.Label{Name: name}
}

// Int builds an int constant
func Int(dest string, v int64) *ir.Instruction {
	return constant(dest, ir.Int, ir.Literal{Kind: ir.TypeInt, Int: v})
}

// Bool builds a bool constant
func Bool(dest string, v bool) *ir.Instruction {
	return constant(dest, ir.Bool, ir.Literal{Kind: ir.TypeBool, Bool: v})
}

// Float builds a float constant
func Float(dest string, v float64) *ir.Instruction {
	return constant(dest, ir.Float, ir.Literal{Kind: ir.TypeFloat, Float: v})
}

// Char builds a char constant
func Char(dest string, v rune) *ir.Instruction {
	return constant(dest, ir.Char, ir.Literal{Kind: ir.TypeChar, Char: v})
}

func constant(dest string, t ir.Type, lit ir.Literal) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpConst, Dest: dest, Type: &t, Value: &lit}
}

// Value builds a value operation
func Value(op ir.Op, dest string, t ir.Type, args ...string) *ir.Instruction {
	return &ir.Instruction{Op: op, Dest: dest, Type: &t, Args: args}
}

// Call builds a value call
func Call(dest string, t ir.Type, fn string, args ...string) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpCall, Dest: dest, Type: &t, Funcs: []string{fn}, Args: args}
}

// CallVoid builds an effect call
func CallVoid(fn string, args ...string) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpCall, Funcs: []string{fn}, Args: args}
}

// Phi builds a phi node; pairs alternate label, variable
func Phi(dest string, t ir.Type, pairs ...string) *ir.Instruction {
	in := &ir.Instruction{Op: ir.OpPhi, Dest: dest, Type: &t}
	for i := 0; i+1 < len(pairs); i += 2 {
		in.Labels = append(in.Labels, pairs[i])
		in.Args = append(in.Args, pairs[i+1])
	}
	return in
}

// Effect builds an effect operation with only variable arguments
func Effect(op ir.Op, args ...string) *ir.Instruction {
	return &ir.Instruction{Op: op, Args: args}
}

// Print builds a print
func Print(args ...string) *ir.Instruction {
	return Effect(ir.OpPrint, args...)
}

// Return builds a ret, with or without a value
func Return(args ...string) *ir.Instruction {
	return Effect(ir.OpRet, args...)
}

// Jmp builds an unconditional jump
func Jmp(label string) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpJmp, Labels: []string{label}}
}

// Br builds a conditional branch
func Br(cond, ifTrue, ifFalse string) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpBr, Args: []string{cond}, Labels: []string{ifTrue, ifFalse}}
}

// Guard builds a speculation guard
func Guard(cond, onFail string) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpGuard, Args: []string{cond}, Labels: []string{onFail}}
}

// At sets a source position on an instruction
func At(in *ir.Instruction, row, col uint64) *ir.Instruction {
	in.Pos = &ir.Position{Row: row, Col: col}
	return in
}
