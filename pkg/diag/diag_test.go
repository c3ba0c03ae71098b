package diag

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/GriffinCanCode/brilgo/pkg/ir"
)

func TestKindIsError(t *testing.T) {
	err := New(DivisionByZero, "x")
	if !errors.Is(err, DivisionByZero) {
		t.Error("errors.Is did not match the Kind")
	}
	if errors.Is(err, MemLeak) {
		t.Error("errors.Is matched the wrong Kind")
	}
	if KindOf(err) != DivisionByZero {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if KindOf(io.EOF) != 0 {
		t.Error("KindOf a foreign error is not zero")
	}
}

func TestAtPosInnermostWins(t *testing.T) {
	inner := &ir.Position{Row: 2, Col: 4}
	outer := &ir.Position{Row: 10, Col: 1}

	err := AtPos(AtPos(DivideByZero(), inner), outer)
	var d *Error
	if !errors.As(err, &d) {
		t.Fatalf("AtPos returned %T", err)
	}
	if *d.Pos != *inner {
		t.Errorf("position = %v, want %v", d.Pos, inner)
	}
	if !strings.HasPrefix(err.Error(), "Line 2, Column 4: ") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestAtPosDoesNotMutate(t *testing.T) {
	orig := Uninitialized()
	_ = AtPos(orig, &ir.Position{Row: 1, Col: 1})
	if orig.Pos != nil {
		t.Error("AtPos modified its argument")
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(IO, io.ErrUnexpectedEOF)
	if !errors.Is(err, IO) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Wrap lost its kind or cause: %v", err)
	}

	conv := &ir.ConversionError{Msg: "bad", Pos: &ir.Position{Row: 3, Col: 3}}
	if w := Wrap(Conversion, conv); w.Pos == nil || w.Pos.Row != 3 {
		t.Errorf("Wrap did not lift the conversion position: %v", w)
	}

	existing := Leak(1)
	if Wrap(IO, existing) != existing {
		t.Error("Wrap rewrapped an existing fault")
	}
}

func TestEveryKindHasText(t *testing.T) {
	for k := DivisionByZero; k <= Conversion; k++ {
		if _, ok := kindText[k]; !ok {
			t.Errorf("%v has no message", k)
		}
		if strings.HasPrefix(k.String(), "Kind(") {
			t.Errorf("%d has no name", int(k))
		}
	}
}

func TestRuntimeKinds(t *testing.T) {
	if !DivisionByZero.Runtime() || !SpeculativeReturn.Runtime() {
		t.Error("run-time fault not classified as runtime")
	}
	if MissingLabel.Runtime() || Conversion.Runtime() {
		t.Error("structural fault classified as runtime")
	}
}
