package value

import (
	"math"
	"testing"

	"github.com/GriffinCanCode/brilgo/pkg/ir"
)

type fakePtr struct{ off int64 }

func (p fakePtr) Add(n int64) Pointer { return fakePtr{p.off + n} }
func (p fakePtr) String() string     { return "fake" }

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", Int(-12), "-12"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"float", Float(0.1), "0.10000000000000001"},
		{"whole float", Float(3), "3.00000000000000000"},
		{"negative zero", Float(math.Copysign(0, -1)), "-0.00000000000000000"},
		{"infinity", Float(math.Inf(1)), "Infinity"},
		{"negative infinity", Float(math.Inf(-1)), "-Infinity"},
		{"nan", Float(math.NaN()), "NaN"},
		{"char", Char('ß'), "ß"},
		{"pointer", Ptr(fakePtr{}), "fake"},
		{"uninitialized", Value{}, "<uninitialized>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.v); got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendLine(t *testing.T) {
	got := string(AppendLine(nil, Int(1), Bool(false), Char('x')))
	if got != "1 false x\n" {
		t.Errorf("AppendLine = %q", got)
	}
	if got := string(AppendLine(nil)); got != "\n" {
		t.Errorf("AppendLine() = %q, want a bare newline", got)
	}
}

func TestFromLiteral(t *testing.T) {
	v := FromLiteral(ir.Literal{Kind: ir.TypeInt, Int: 4}, ir.Float)
	if v.Kind() != KindFloat || v.AsFloat() != 4 {
		t.Errorf("int literal in float const = %v (%v), want 4.0", v, v.Kind())
	}
	if v := FromLiteral(ir.Literal{Kind: ir.TypeChar, Char: 'q'}, ir.Char); v.AsChar() != 'q' {
		t.Errorf("char literal = %v", v)
	}
}

func TestEqual(t *testing.T) {
	if Int(1).Equal(Float(1)) {
		t.Error("values of different kinds compared equal")
	}
	if Float(math.NaN()).Equal(Float(math.NaN())) {
		t.Error("NaN compared equal to itself")
	}
	if !Ptr(fakePtr{}).Equal(Ptr(fakePtr{1})) {
		t.Error("pointers with the same representation compared unequal")
	}
}
