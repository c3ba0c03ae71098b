package interp

import (
	"errors"
	"testing"

	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		name    string
		typ     ir.Type
		in      string
		want    value.Value
		wantErr diag.Kind
	}{
		{name: "int", typ: ir.Int, in: "42", want: value.Int(42)},
		{name: "negative int", typ: ir.Int, in: "-9223372036854775808", want: value.Int(-9223372036854775808)},
		{name: "int overflow", typ: ir.Int, in: "9223372036854775808", wantErr: diag.BadFuncArgType},
		{name: "int from float", typ: ir.Int, in: "1.0", wantErr: diag.BadFuncArgType},
		{name: "true", typ: ir.Bool, in: "true", want: value.Bool(true)},
		{name: "false", typ: ir.Bool, in: "false", want: value.Bool(false)},
		{name: "bool shorthand", typ: ir.Bool, in: "1", wantErr: diag.BadFuncArgType},
		{name: "float", typ: ir.Float, in: "2.5", want: value.Float(2.5)},
		{name: "float from int", typ: ir.Float, in: "3", want: value.Float(3)},
		{name: "bad float", typ: ir.Float, in: "x", wantErr: diag.BadFuncArgType},
		{name: "char", typ: ir.Char, in: "a", want: value.Char('a')},
		{name: "multibyte char", typ: ir.Char, in: "λ", want: value.Char('λ')},
		{name: "decomposed char", typ: ir.Char, in: "e\u0301", want: value.Char(0xe9)},
		{name: "newline escape", typ: ir.Char, in: `\n`, want: value.Char('\n')},
		{name: "nul escape", typ: ir.Char, in: `\0`, want: value.Char(0)},
		{name: "two chars", typ: ir.Char, in: "ab", wantErr: diag.NotOneChar},
		{name: "empty char", typ: ir.Char, in: "", wantErr: diag.NotOneChar},
		{name: "pointer", typ: ir.PtrTo(ir.Int), in: "0", wantErr: diag.BadFuncArgType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArg(tt.typ, tt.in)
			if tt.wantErr != 0 {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseArg(%s, %q) error = %v, want %v", tt.typ, tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArg(%s, %q): %v", tt.typ, tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseArg(%s, %q) = %v, want %v", tt.typ, tt.in, got, tt.want)
			}
		})
	}
}
