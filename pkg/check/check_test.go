package check

import (
	"errors"
	"testing"

	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	. "github.com/GriffinCanCode/brilgo/pkg/ir/irtest"
)

func TestWellTypedPrograms(t *testing.T) {
	tests := []struct {
		name string
		prog *ir.Program
	}{
		{
			name: "arithmetic",
			prog: Prog(Main(Int("a", 1), Int("b", 2), Value(ir.OpAdd, "c", ir.Int, "a", "b"), Print("c"))),
		},
		{
			name: "float from int literal",
			prog: Prog(Main(
				constOf("f", ir.Float, ir.Literal{Kind: ir.TypeInt, Int: 3}),
				Value(ir.OpFmul, "g", ir.Float, "f", "f"),
			)),
		},
		{
			name: "calls",
			prog: Prog(
				Main(Int("a", 1), Call("b", ir.Int, "inc", "a"), CallVoid("show", "b")),
				Func("inc", []ir.Argument{Arg("x", ir.Int)}, Ret(ir.Int),
					Int("one", 1), Value(ir.OpAdd, "y", ir.Int, "x", "one"), Return("y")),
				Func("show", []ir.Argument{Arg("x", ir.Int)}, nil, Print("x"), Return()),
			),
		},
		{
			name: "memory",
			prog: Prog(Main(
				Int("n", 2),
				Value(ir.OpAlloc, "p", ir.PtrTo(ir.Int), "n"),
				Value(ir.OpPtrAdd, "q", ir.PtrTo(ir.Int), "p", "n"),
				Effect(ir.OpStore, "q", "n"),
				Value(ir.OpLoad, "v", ir.Int, "q"),
				Effect(ir.OpFree, "p"),
			)),
		},
		{
			name: "phi defines its arguments",
			prog: Prog(Main(
				Label("a"),
				Phi("x", ir.Int, "a", "y", "b", "z"),
				Label("b"),
				Value(ir.OpAdd, "w", ir.Int, "y", "z"),
			)),
		},
		{
			name: "chars",
			prog: Prog(Main(
				Char("c", 'a'),
				Value(ir.OpChar2Int, "i", ir.Int, "c"),
				Value(ir.OpInt2Char, "d", ir.Char, "i"),
				Value(ir.OpCeq, "e", ir.Bool, "c", "d"),
			)),
		},
		{
			name: "speculation",
			prog: Prog(Main(
				Effect(ir.OpSpeculate),
				Bool("ok", true),
				Guard("ok", "out"),
				Effect(ir.OpCommit),
				Label("out"),
			)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Check(tt.prog); err != nil {
				t.Errorf("Check: %v", err)
			}
		})
	}
}

func TestIllTypedPrograms(t *testing.T) {
	tests := []struct {
		name string
		prog *ir.Program
		want diag.Kind
	}{
		{
			name: "undefined variable",
			prog: Prog(Main(Print("ghost"))),
			want: diag.VarUndefined,
		},
		{
			name: "int op on bool",
			prog: Prog(Main(Bool("a", true), Value(ir.OpAdd, "c", ir.Int, "a", "a"))),
			want: diag.BadAsmtType,
		},
		{
			name: "wrong result type",
			prog: Prog(Main(Int("a", 1), Value(ir.OpLt, "c", ir.Int, "a", "a"))),
			want: diag.BadAsmtType,
		},
		{
			name: "reassign with another type",
			prog: Prog(Main(Int("a", 1), Bool("a", true))),
			want: diag.BadAsmtType,
		},
		{
			name: "const literal mismatch",
			prog: Prog(Main(constOf("a", ir.Int, ir.Literal{Kind: ir.TypeBool, Bool: true}))),
			want: diag.BadAsmtType,
		},
		{
			name: "duplicate label",
			prog: Prog(Main(Label("x"), Label("x"))),
			want: diag.DuplicateLabel,
		},
		{
			name: "missing label",
			prog: Prog(Main(Jmp("nowhere"))),
			want: diag.MissingLabel,
		},
		{
			name: "value returned from void function",
			prog: Prog(Main(Int("a", 1), Return("a"))),
			want: diag.NonEmptyRetForFunc,
		},
		{
			name: "missing return value",
			prog: Prog(Main(), Func("f", nil, Ret(ir.Int), Return())),
			want: diag.BadNumArgs,
		},
		{
			name: "call of unknown function",
			prog: Prog(Main(CallVoid("ghost"))),
			want: diag.FuncNotFound,
		},
		{
			name: "call arity",
			prog: Prog(Main(CallVoid("f", "a")), Func("f", nil, nil)),
			want: diag.BadNumFuncArgs,
		},
		{
			name: "value call of void function",
			prog: Prog(Main(Call("x", ir.Int, "f")), Func("f", nil, nil)),
			want: diag.NonEmptyRetForFunc,
		},
		{
			name: "load from int",
			prog: Prog(Main(Int("a", 1), Value(ir.OpLoad, "b", ir.Int, "a"))),
			want: diag.ExpectedPointerType,
		},
		{
			name: "store wrong element type",
			prog: Prog(Main(
				Int("n", 1),
				Value(ir.OpAlloc, "p", ir.PtrTo(ir.Bool), "n"),
				Effect(ir.OpStore, "p", "n"),
			)),
			want: diag.BadAsmtType,
		},
		{
			name: "unequal phi",
			prog: Prog(Main(Label("a"), &ir.Instruction{Op: ir.OpPhi, Dest: "x", Type: Ret(ir.Int), Labels: []string{"a"}})),
			want: diag.UnequalPhiNode,
		},
		{
			name: "branch on int",
			prog: Prog(Main(Int("a", 1), Br("a", "x", "x"), Label("x"))),
			want: diag.BadAsmtType,
		},
		{
			name: "nop with argument",
			prog: Prog(Main(Int("a", 1), Effect(ir.OpNop, "a"))),
			want: diag.BadNumArgs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.prog)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Check error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	prog := Prog(Main(Int("a", 1), At(Print("ghost"), 12, 4)))
	err := Check(prog)
	var de *diag.Error
	if !errors.As(err, &de) || de.Pos == nil || de.Pos.Row != 12 || de.Pos.Col != 4 {
		t.Fatalf("error = %v, want one at line 12 column 4", err)
	}
}

func TestCheckerInterface(t *testing.T) {
	var c Checker = NewTypeChecker()
	if err := c.Check(Prog(Main())); err != nil {
		t.Errorf("empty main: %v", err)
	}
}

func constOf(dest string, t ir.Type, lit ir.Literal) *ir.Instruction {
	return &ir.Instruction{Op: ir.OpConst, Dest: dest, Type: &t, Value: &lit}
}
