// Program loading from the canonical Bril JSON form.
// Design: decode into loose wire structs first, then convert with positions
// attached so a malformed instruction can be reported where it was written.
package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/GriffinCanCode/brilgo/pkg/logger"
)

// ConversionError reports a program that decoded as JSON but is not valid Bril
type ConversionError struct {
	Msg string
	Pos *Position
}

func (e *ConversionError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

type wireProgram struct {
	Functions []wireFunction `json:"functions"`
}

type wireFunction struct {
	Name   string            `json:"name"`
	Args   []wireArgument    `json:"args"`
	Type   json.RawMessage   `json:"type"`
	Instrs []json.RawMessage `json:"instrs"`
	Pos    *Position         `json:"pos"`
}

type wireArgument struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type wireCode struct {
	Label  *string         `json:"label"`
	Op     string          `json:"op"`
	Dest   string          `json:"dest"`
	Type   json.RawMessage `json:"type"`
	Args   []string        `json:"args"`
	Funcs  []string        `json:"funcs"`
	Labels []string        `json:"labels"`
	Value  json.RawMessage `json:"value"`
	Pos    *Position       `json:"pos"`
}

// UnmarshalJSON accepts the {"row": r, "col": c} position form
func (p *Position) UnmarshalJSON(data []byte) error {
	var w struct {
		Row uint64 `json:"row"`
		Col uint64 `json:"col"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Row, p.Col = w.Row, w.Col
	return nil
}

// Load decodes a JSON Bril program
func Load(r io.Reader) (*Program, error) {
	var wp wireProgram
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wp); err != nil {
		return nil, &ConversionError{Msg: fmt.Sprintf("invalid program JSON: %v", err)}
	}

	prog := &Program{Functions: make([]*Function, 0, len(wp.Functions))}
	for i := range wp.Functions {
		fn, err := convertFunction(&wp.Functions[i])
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	logger.LogProgramLoaded(len(prog.Functions))
	return prog, nil
}

func convertFunction(wf *wireFunction) (*Function, error) {
	if wf.Name == "" {
		return nil, &ConversionError{Msg: "function without a name", Pos: wf.Pos}
	}
	fn := &Function{Name: wf.Name, Pos: wf.Pos}

	if len(wf.Type) > 0 && string(wf.Type) != "null" {
		t, err := parseType(wf.Type)
		if err != nil {
			return nil, &ConversionError{Msg: fmt.Sprintf("function %s: %v", wf.Name, err), Pos: wf.Pos}
		}
		fn.ReturnType = &t
	}

	for _, a := range wf.Args {
		t, err := parseType(a.Type)
		if err != nil {
			return nil, &ConversionError{Msg: fmt.Sprintf("argument %s: %v", a.Name, err), Pos: wf.Pos}
		}
		fn.Args = append(fn.Args, Argument{Name: a.Name, Type: t})
	}

	fn.Instrs = make([]Code, 0, len(wf.Instrs))
	for _, raw := range wf.Instrs {
		var wc wireCode
		if err := json.Unmarshal(raw, &wc); err != nil {
			return nil, &ConversionError{Msg: fmt.Sprintf("function %s: %v", wf.Name, err), Pos: wf.Pos}
		}
		c, err := convertCode(&wc)
		if err != nil {
			return nil, err
		}
		fn.Instrs = append(fn.Instrs, c)
	}
	return fn, nil
}

func convertCode(wc *wireCode) (Code, error) {
	if wc.Label != nil {
		return &Label{Name: *wc.Label, Pos: wc.Pos}, nil
	}

	op := ParseOp(wc.Op)
	if op == OpInvalid {
		return nil, &ConversionError{Msg: fmt.Sprintf("unknown opcode %q", wc.Op), Pos: wc.Pos}
	}

	inst := &Instruction{
		Op:     op,
		Dest:   wc.Dest,
		Args:   wc.Args,
		Funcs:  wc.Funcs,
		Labels: wc.Labels,
		Pos:    wc.Pos,
	}
	if len(wc.Type) > 0 {
		t, err := parseType(wc.Type)
		if err != nil {
			return nil, &ConversionError{Msg: err.Error(), Pos: wc.Pos}
		}
		inst.Type = &t
	}
	if (inst.Dest == "") != (inst.Type == nil) {
		return nil, &ConversionError{Msg: fmt.Sprintf("%s: dest and type must appear together", op), Pos: wc.Pos}
	}
	if op.IsValue() && !inst.HasDest() {
		return nil, &ConversionError{Msg: fmt.Sprintf("%s needs a destination", op), Pos: wc.Pos}
	}
	if op.IsEffect() && inst.HasDest() {
		return nil, &ConversionError{Msg: fmt.Sprintf("%s cannot have a destination", op), Pos: wc.Pos}
	}

	if op == OpConst {
		if inst.Type == nil {
			return nil, &ConversionError{Msg: "const without a type", Pos: wc.Pos}
		}
		lit, err := parseLiteral(wc.Value, *inst.Type)
		if err != nil {
			return nil, &ConversionError{Msg: err.Error(), Pos: wc.Pos}
		}
		inst.Value = &lit
	}
	return inst, nil
}

func parseType(raw json.RawMessage) (Type, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case "int":
			return Int, nil
		case "bool":
			return Bool, nil
		case "float":
			return Float, nil
		case "char":
			return Char, nil
		}
		return Type{}, fmt.Errorf("unknown type %q", name)
	}

	var param map[string]json.RawMessage
	if err := json.Unmarshal(raw, &param); err != nil {
		return Type{}, fmt.Errorf("malformed type %s", string(raw))
	}
	elem, ok := param["ptr"]
	if !ok || len(param) != 1 {
		return Type{}, fmt.Errorf("malformed type %s", string(raw))
	}
	et, err := parseType(elem)
	if err != nil {
		return Type{}, err
	}
	return PtrTo(et), nil
}

// parseLiteral reads a const value in light of its declared type. Integer
// literals are accepted for float constants.
func parseLiteral(raw json.RawMessage, t Type) (Literal, error) {
	if len(raw) == 0 {
		return Literal{}, fmt.Errorf("const without a value")
	}
	switch t.Kind {
	case TypeInt:
		i, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return Literal{}, fmt.Errorf("bad int literal %s", string(raw))
		}
		return Literal{Kind: TypeInt, Int: i}, nil
	case TypeBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Literal{}, fmt.Errorf("bad bool literal %s", string(raw))
		}
		return Literal{Kind: TypeBool, Bool: b}, nil
	case TypeFloat:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return Literal{}, fmt.Errorf("bad float literal %s", string(raw))
		}
		return Literal{Kind: TypeFloat, Float: f}, nil
	case TypeChar:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Literal{}, fmt.Errorf("bad char literal %s", string(raw))
		}
		if utf8.RuneCountInString(s) != 1 {
			return Literal{}, fmt.Errorf("char literal %q must be exactly one character", s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return Literal{Kind: TypeChar, Char: r}, nil
	default:
		return Literal{}, fmt.Errorf("constants of type %s are not allowed", t)
	}
}
