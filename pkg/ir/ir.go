// Package ir implements the program representation consumed by the interpreter.
//
// Design: a flat list of labels and instructions per function, exactly as the
// Bril JSON schema describes it. Nothing here is resolved; names stay names
// until package bb numbers them.
package ir

import "fmt"

// Program is the top-level IR container
type Program struct {
	Functions []*Function
}

// Function is a named, typed sequence of labels and instructions
type Function struct {
	Name       string
	Args       []Argument
	ReturnType *Type // nil for void functions
	Instrs     []Code
	Pos        *Position
}

// Argument is a typed formal parameter
type Argument struct {
	Name string
	Type Type
}

// Position is a source location, 1-based
type Position struct {
	Row uint64
	Col uint64
}

func (p Position) String() string {
	return fmt.Sprintf("Line %d, Column %d", p.Row, p.Col)
}

// Code is either a *Label or an *Instruction
type Code interface {
	code()
}

// Label marks the start of a basic block
type Label struct {
	Name string
	Pos  *Position
}

func (*Label) code() {}

// Instruction covers constants, value operations and effect operations.
// Value operations have a Dest and a Type; effect operations have neither.
type Instruction struct {
	Op     Op
	Dest   string
	Type   *Type
	Args   []string
	Funcs  []string
	Labels []string
	Value  *Literal // const only
	Pos    *Position
}

func (*Instruction) code() {}

// HasDest reports whether the instruction produces a value
func (i *Instruction) HasDest() bool {
	return i.Dest != ""
}

// IsTerminator reports whether the instruction ends a basic block
func (i *Instruction) IsTerminator() bool {
	switch i.Op {
	case OpJmp, OpBr, OpRet:
		return true
	}
	return false
}

// TypeKind enumerates the Bril types
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeBool
	TypeFloat
	TypeChar
	TypePtr
)

// Type is a Bril type. Elem is set only for pointers.
type Type struct {
	Kind TypeKind
	Elem *Type
}

var (
	Int   = Type{Kind: TypeInt}
	Bool  = Type{Kind: TypeBool}
	Float = Type{Kind: TypeFloat}
	Char  = Type{Kind: TypeChar}
)

// PtrTo returns the pointer type with element t
func PtrTo(t Type) Type {
	return Type{Kind: TypePtr, Elem: &t}
}

// Equal compares types structurally
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != TypePtr {
		return true
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

func (t Type) String() string {
	switch t.Kind {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeFloat:
		return "float"
	case TypeChar:
		return "char"
	case TypePtr:
		if t.Elem == nil {
			return "ptr<?>"
		}
		return "ptr<" + t.Elem.String() + ">"
	default:
		return fmt.Sprintf("type(%d)", int(t.Kind))
	}
}

// Literal is a constant operand. Kind says which field is meaningful.
type Literal struct {
	Kind  TypeKind
	Int   int64
	Bool  bool
	Float float64
	Char  rune
}

func (l Literal) String() string {
	switch l.Kind {
	case TypeInt:
		return fmt.Sprint(l.Int)
	case TypeBool:
		return fmt.Sprint(l.Bool)
	case TypeFloat:
		return fmt.Sprint(l.Float)
	case TypeChar:
		return fmt.Sprintf("%q", l.Char)
	default:
		return "?"
	}
}
