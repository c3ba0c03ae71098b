package ir

import (
	"errors"
	"strings"
	"testing"
)

const sample = `{
  "functions": [
    {
      "name": "main",
      "args": [{"name": "n", "type": "int"}, {"name": "p", "type": {"ptr": {"ptr": "float"}}}],
      "instrs": [
        {"op": "const", "dest": "x", "type": "int", "value": 5, "pos": {"row": 3, "col": 5}},
        {"op": "const", "dest": "f", "type": "float", "value": 2},
        {"op": "const", "dest": "c", "type": "char", "value": "λ"},
        {"op": "const", "dest": "b", "type": "bool", "value": true},
        {"label": "loop"},
        {"op": "add", "dest": "y", "type": "int", "args": ["x", "n"]},
        {"op": "call", "dest": "z", "type": "int", "funcs": ["f"], "args": ["y"]},
        {"op": "br", "args": ["b"], "labels": ["loop", "done"]},
        {"label": "done", "pos": {"row": 9, "col": 1}},
        {"op": "print", "args": ["y", "z"]},
        {"op": "ret"}
      ]
    },
    {"name": "f", "args": [{"name": "a", "type": "int"}], "type": "int",
     "instrs": [{"op": "ret", "args": ["a"]}]}
  ]
}`

func TestLoad(t *testing.T) {
	prog, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(prog.Functions) != 2 {
		t.Fatalf("got %d functions, want 2", len(prog.Functions))
	}

	main := prog.Functions[0]
	if main.ReturnType != nil {
		t.Errorf("main return type = %v, want none", main.ReturnType)
	}
	if got := main.Args[1].Type.String(); got != "ptr<ptr<float>>" {
		t.Errorf("arg type = %s, want ptr<ptr<float>>", got)
	}
	if len(main.Instrs) != 11 {
		t.Fatalf("got %d instrs, want 11", len(main.Instrs))
	}

	x := main.Instrs[0].(*Instruction)
	if x.Op != OpConst || x.Value.Int != 5 || x.Pos == nil || x.Pos.Row != 3 || x.Pos.Col != 5 {
		t.Errorf("const x decoded as %+v", x)
	}
	if f := main.Instrs[1].(*Instruction); f.Value.Kind != TypeFloat || f.Value.Float != 2 {
		t.Errorf("float const from int literal decoded as %+v", f.Value)
	}
	if c := main.Instrs[2].(*Instruction); c.Value.Char != 'λ' {
		t.Errorf("char const = %q, want 'λ'", c.Value.Char)
	}
	if l, ok := main.Instrs[4].(*Label); !ok || l.Name != "loop" {
		t.Errorf("instr 4 = %#v, want label loop", main.Instrs[4])
	}
	if br := main.Instrs[7].(*Instruction); !br.IsTerminator() || len(br.Labels) != 2 {
		t.Errorf("br decoded as %+v", br)
	}
	if l := main.Instrs[8].(*Label); l.Pos == nil || l.Pos.Row != 9 {
		t.Errorf("label position = %v, want line 9", l.Pos)
	}

	f := prog.Functions[1]
	if f.ReturnType == nil || !f.ReturnType.Equal(Int) {
		t.Errorf("f return type = %v, want int", f.ReturnType)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not json", `{"functions": [`},
		{"unknown op", `{"functions":[{"name":"main","instrs":[{"op":"frobnicate"}]}]}`},
		{"unknown type", `{"functions":[{"name":"main","instrs":[{"op":"const","dest":"x","type":"string","value":1}]}]}`},
		{"dest without type", `{"functions":[{"name":"main","instrs":[{"op":"id","dest":"x","args":["y"]}]}]}`},
		{"value op without dest", `{"functions":[{"name":"main","instrs":[{"op":"add","args":["a","b"]}]}]}`},
		{"effect op with dest", `{"functions":[{"name":"main","instrs":[{"op":"print","dest":"x","type":"int","args":["a"]}]}]}`},
		{"const without value", `{"functions":[{"name":"main","instrs":[{"op":"const","dest":"x","type":"int"}]}]}`},
		{"bool as int", `{"functions":[{"name":"main","instrs":[{"op":"const","dest":"x","type":"int","value":true}]}]}`},
		{"long char", `{"functions":[{"name":"main","instrs":[{"op":"const","dest":"x","type":"char","value":"ab"}]}]}`},
		{"pointer const", `{"functions":[{"name":"main","instrs":[{"op":"const","dest":"x","type":{"ptr":"int"},"value":0}]}]}`},
		{"malformed ptr", `{"functions":[{"name":"main","args":[{"name":"a","type":{"ref":"int"}}],"instrs":[]}]}`},
		{"nameless function", `{"functions":[{"instrs":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			var ce *ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("Load error = %v, want a ConversionError", err)
			}
		})
	}
}

func TestConversionErrorPosition(t *testing.T) {
	src := `{"functions":[{"name":"main","instrs":[{"op":"nope","pos":{"row":4,"col":2}}]}]}`
	_, err := Load(strings.NewReader(src))
	if err == nil || !strings.HasPrefix(err.Error(), "Line 4, Column 2") {
		t.Errorf("error = %v, want it prefixed with the position", err)
	}
}

func TestParseOpRoundTrip(t *testing.T) {
	for op := OpConst; op < numOps; op++ {
		if got := ParseOp(op.String()); got != op {
			t.Errorf("ParseOp(%q) = %v, want %v", op.String(), got, op)
		}
	}
	if ParseOp("bogus") != OpInvalid {
		t.Error("ParseOp accepted an unknown opcode")
	}
}

func TestOpClasses(t *testing.T) {
	tests := []struct {
		op     Op
		value  bool
		effect bool
		group  Group
	}{
		{OpAdd, true, false, GroupCore},
		{OpCall, false, false, GroupCore},
		{OpPrint, false, true, GroupCore},
		{OpFadd, true, false, GroupFloat},
		{OpInt2Char, true, false, GroupChar},
		{OpStore, false, true, GroupMemory},
		{OpPhi, true, false, GroupSSA},
		{OpGuard, false, true, GroupSpeculate},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if tt.op.IsValue() != tt.value {
				t.Errorf("IsValue = %v, want %v", tt.op.IsValue(), tt.value)
			}
			if tt.op.IsEffect() != tt.effect {
				t.Errorf("IsEffect = %v, want %v", tt.op.IsEffect(), tt.effect)
			}
			if tt.op.Group() != tt.group {
				t.Errorf("Group = %v, want %v", tt.op.Group(), tt.group)
			}
		})
	}
}
