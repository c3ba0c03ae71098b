// Package value implements the runtime values of the interpreter.
//
// Design: one small struct for every value so frames are flat slices with no
// per-slot allocation. Pointers are the only boxed case; their representation
// belongs to whichever allocator produced them.
package value

//go:generate go run golang.org/x/tools/cmd/stringer -type=Kind

import (
	"math"

	"github.com/GriffinCanCode/brilgo/pkg/ir"
)

// Kind tags a Value. The zero Kind is Uninitialized.
type Kind uint8

const (
	Uninitialized Kind = iota
	KindInt
	KindBool
	KindFloat
	KindChar
	KindPtr
)

// Pointer is an allocator-specific reference into the heap. Add never
// mutates the receiver and never checks bounds; bounds are checked when the
// pointer is read or written.
type Pointer interface {
	Add(offset int64) Pointer
	String() string
}

// Value is a tagged union over the Bril runtime types
type Value struct {
	kind Kind
	bits uint64
	ptr  Pointer
}

func Int(i int64) Value { return Value{kind: KindInt, bits: uint64(i)} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

func Float(f float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(f)} }

func Char(r rune) Value { return Value{kind: KindChar, bits: uint64(r)} }

func Ptr(p Pointer) Value { return Value{kind: KindPtr, ptr: p} }

// Kind returns the tag
func (v Value) Kind() Kind { return v.kind }

// IsUninitialized reports whether v is the sentinel fill value
func (v Value) IsUninitialized() bool { return v.kind == Uninitialized }

// The accessors below reinterpret the payload without checking the tag. A
// checked program never asks for the wrong kind; an unchecked one gets a
// meaningless value instead of a crash.

func (v Value) AsInt() int64     { return int64(v.bits) }
func (v Value) AsBool() bool     { return v.bits != 0 }
func (v Value) AsFloat() float64 { return math.Float64frombits(v.bits) }
func (v Value) AsChar() rune     { return rune(v.bits) }
func (v Value) AsPointer() Pointer {
	return v.ptr
}

// Equal compares two values of the same kind. Floats compare by IEEE
// equality, pointers by their debug representation.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.AsFloat() == o.AsFloat()
	case KindPtr:
		if v.ptr == nil || o.ptr == nil {
			return v.ptr == o.ptr
		}
		return v.ptr.String() == o.ptr.String()
	default:
		return v.bits == o.bits
	}
}

// FromLiteral converts a constant into a Value of type t. Integer literals in
// float constants are promoted.
func FromLiteral(l ir.Literal, t ir.Type) Value {
	if t.Kind == ir.TypeFloat && l.Kind == ir.TypeInt {
		return Float(float64(l.Int))
	}
	switch l.Kind {
	case ir.TypeInt:
		return Int(l.Int)
	case ir.TypeBool:
		return Bool(l.Bool)
	case ir.TypeFloat:
		return Float(l.Float)
	case ir.TypeChar:
		return Char(l.Char)
	}
	return Value{}
}
