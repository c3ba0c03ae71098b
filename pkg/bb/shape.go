package bb

import (
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
)

// shape is the operand layout an opcode requires. -1 means any count.
type shape struct {
	args, labels, funcs int
}

var shapes = map[ir.Op]shape{
	ir.OpConst:     {0, 0, 0},
	ir.OpId:        {1, 0, 0},
	ir.OpNot:       {1, 0, 0},
	ir.OpChar2Int:  {1, 0, 0},
	ir.OpInt2Char:  {1, 0, 0},
	ir.OpAlloc:     {1, 0, 0},
	ir.OpLoad:      {1, 0, 0},
	ir.OpFree:      {1, 0, 0},
	ir.OpPtrAdd:    {2, 0, 0},
	ir.OpStore:     {2, 0, 0},
	ir.OpCall:      {-1, 0, 1},
	ir.OpJmp:       {0, 1, 0},
	ir.OpBr:        {1, 2, 0},
	ir.OpGuard:     {1, 1, 0},
	ir.OpPrint:     {-1, 0, 0},
	ir.OpNop:       {0, 0, 0},
	ir.OpSpeculate: {0, 0, 0},
	ir.OpCommit:    {0, 0, 0},
}

func init() {
	binary := []ir.Op{
		ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv,
		ir.OpEq, ir.OpLt, ir.OpGt, ir.OpLe, ir.OpGe,
		ir.OpAnd, ir.OpOr,
		ir.OpFadd, ir.OpFsub, ir.OpFmul, ir.OpFdiv,
		ir.OpFeq, ir.OpFlt, ir.OpFgt, ir.OpFle, ir.OpFge,
		ir.OpCeq, ir.OpClt, ir.OpCgt, ir.OpCle, ir.OpCge,
	}
	for _, op := range binary {
		shapes[op] = shape{2, 0, 0}
	}
}

// checkShape rejects instructions whose operand counts would make the
// interpreter index out of range. Type errors are left to the checker.
func checkShape(c *ir.Instruction) error {
	switch c.Op {
	case ir.OpRet:
		if len(c.Args) > 1 {
			return diag.New(diag.BadNumArgs, "Expected `1` instruction arguments, found `%d`", len(c.Args))
		}
		return countLabelsFuncs(c, 0, 0)
	case ir.OpPhi:
		if len(c.Args) != len(c.Labels) {
			return &diag.Error{Kind: diag.UnequalPhiNode}
		}
		return countLabelsFuncs(c, -1, 0)
	case ir.OpConst:
		if c.Value == nil || c.Type == nil {
			return diag.New(diag.Conversion, "const `%s` has no value", c.Dest)
		}
	}

	s, ok := shapes[c.Op]
	if !ok {
		return diag.New(diag.Conversion, "unknown opcode %s", c.Op)
	}
	if s.args >= 0 && len(c.Args) != s.args {
		return diag.New(diag.BadNumArgs, "Expected `%d` instruction arguments, found `%d`", s.args, len(c.Args))
	}
	if c.Op.IsValue() && !c.HasDest() {
		return diag.New(diag.Conversion, "`%s` needs a destination", c.Op)
	}
	return countLabelsFuncs(c, s.labels, s.funcs)
}

func countLabelsFuncs(c *ir.Instruction, labels, funcs int) error {
	if labels >= 0 && len(c.Labels) != labels {
		return diag.New(diag.BadNumLabels, "Expected `%d` labels, found `%d`", labels, len(c.Labels))
	}
	if funcs >= 0 && len(c.Funcs) != funcs {
		return diag.New(diag.BadNumFuncs, "Expected `%d` functions, found `%d`", funcs, len(c.Funcs))
	}
	return nil
}
