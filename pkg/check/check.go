// Package check - Static well-formedness and type checking of Bril programs
//
// The checker walks each function once in textual order. A variable's type
// is fixed by its first assignment and every later use or assignment must
// agree with it. Phi arguments are typed from the phi's destination type.
package check

import (
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
)

// Checker validates a program before it is built into blocks
type Checker interface {
	Check(prog *ir.Program) error
}

// TypeChecker is the default Checker
type TypeChecker struct {
	funcs map[string]*ir.Function

	// per function
	fn     *ir.Function
	env    map[string]ir.Type
	labels map[string]bool
}

// NewTypeChecker creates a checker
func NewTypeChecker() *TypeChecker {
	return &TypeChecker{}
}

// Check runs the default checker over prog
func Check(prog *ir.Program) error {
	return NewTypeChecker().Check(prog)
}

// Check reports the first problem found, positioned at the offending
// instruction when the program carries positions
func (c *TypeChecker) Check(prog *ir.Program) error {
	c.funcs = make(map[string]*ir.Function, len(prog.Functions))
	for _, fn := range prog.Functions {
		if _, dup := c.funcs[fn.Name]; !dup {
			c.funcs[fn.Name] = fn
		}
	}
	for _, fn := range prog.Functions {
		if err := c.checkFunction(fn); err != nil {
			logger.Debug("check failed", "function", fn.Name, "error", err)
			return err
		}
	}
	return nil
}

func (c *TypeChecker) checkFunction(fn *ir.Function) error {
	c.fn = fn
	c.env = make(map[string]ir.Type, len(fn.Args)+len(fn.Instrs))
	c.labels = make(map[string]bool)
	for _, a := range fn.Args {
		c.env[a.Name] = a.Type
	}

	for _, code := range fn.Instrs {
		l, ok := code.(*ir.Label)
		if !ok {
			continue
		}
		if c.labels[l.Name] {
			return diag.AtPos(diag.New(diag.DuplicateLabel,
				"multiple labels named `%s` found in `%s`", l.Name, fn.Name), l.Pos)
		}
		c.labels[l.Name] = true
	}

	for _, code := range fn.Instrs {
		in, ok := code.(*ir.Instruction)
		if !ok {
			continue
		}
		if err := c.checkInstruction(in); err != nil {
			return diag.AtPos(err, in.Pos)
		}
	}
	return nil
}

// signature is the fixed typing of a simple value op
type signature struct {
	args   []ir.Type
	result ir.Type
}

var (
	intBinary   = signature{[]ir.Type{ir.Int, ir.Int}, ir.Int}
	intCompare  = signature{[]ir.Type{ir.Int, ir.Int}, ir.Bool}
	boolBinary  = signature{[]ir.Type{ir.Bool, ir.Bool}, ir.Bool}
	floatBinary = signature{[]ir.Type{ir.Float, ir.Float}, ir.Float}
	floatCmp    = signature{[]ir.Type{ir.Float, ir.Float}, ir.Bool}
	charCmp     = signature{[]ir.Type{ir.Char, ir.Char}, ir.Bool}
)

var signatures = map[ir.Op]signature{
	ir.OpAdd: intBinary, ir.OpSub: intBinary, ir.OpMul: intBinary, ir.OpDiv: intBinary,
	ir.OpEq: intCompare, ir.OpLt: intCompare, ir.OpGt: intCompare, ir.OpLe: intCompare, ir.OpGe: intCompare,
	ir.OpNot: {[]ir.Type{ir.Bool}, ir.Bool},
	ir.OpAnd: boolBinary, ir.OpOr: boolBinary,
	ir.OpFadd: floatBinary, ir.OpFsub: floatBinary, ir.OpFmul: floatBinary, ir.OpFdiv: floatBinary,
	ir.OpFeq: floatCmp, ir.OpFlt: floatCmp, ir.OpFgt: floatCmp, ir.OpFle: floatCmp, ir.OpFge: floatCmp,
	ir.OpCeq: charCmp, ir.OpClt: charCmp, ir.OpCgt: charCmp, ir.OpCle: charCmp, ir.OpCge: charCmp,
	ir.OpChar2Int: {[]ir.Type{ir.Char}, ir.Int},
	ir.OpInt2Char: {[]ir.Type{ir.Int}, ir.Char},
}

func (c *TypeChecker) checkInstruction(in *ir.Instruction) error {
	if in.Op.IsValue() && (in.Type == nil || !in.HasDest()) {
		return diag.New(diag.Conversion, "`%s` needs a typed destination", in.Op)
	}
	if sig, ok := signatures[in.Op]; ok {
		if err := counts(in, len(sig.args), 0, 0); err != nil {
			return err
		}
		for i, want := range sig.args {
			if err := c.use(in.Args[i], want); err != nil {
				return err
			}
		}
		return c.assign(in, sig.result)
	}

	switch in.Op {
	case ir.OpConst:
		if err := counts(in, 0, 0, 0); err != nil {
			return err
		}
		if in.Value == nil {
			return diag.New(diag.Conversion, "const `%s` has no value", in.Dest)
		}
		lit := in.Value.Kind
		if !(in.Type.Kind == ir.TypeFloat && lit == ir.TypeInt) && in.Type.Kind != lit {
			return mismatch(*in.Type, ir.Type{Kind: lit})
		}
		return c.assign(in, *in.Type)

	case ir.OpId:
		if err := counts(in, 1, 0, 0); err != nil {
			return err
		}
		if err := c.use(in.Args[0], *in.Type); err != nil {
			return err
		}
		return c.assign(in, *in.Type)

	case ir.OpCall:
		return c.checkCall(in)

	case ir.OpPhi:
		if len(in.Args) != len(in.Labels) {
			return &diag.Error{Kind: diag.UnequalPhiNode}
		}
		if err := c.checkLabels(in.Labels); err != nil {
			return err
		}
		if err := counts(in, -1, -1, 0); err != nil {
			return err
		}
		for _, a := range in.Args {
			if err := c.define(a, *in.Type); err != nil {
				return err
			}
		}
		return c.assign(in, *in.Type)

	case ir.OpAlloc:
		if err := counts(in, 1, 0, 0); err != nil {
			return err
		}
		if err := c.use(in.Args[0], ir.Int); err != nil {
			return err
		}
		if _, err := elem(*in.Type); err != nil {
			return err
		}
		return c.assign(in, *in.Type)

	case ir.OpLoad:
		if err := counts(in, 1, 0, 0); err != nil {
			return err
		}
		pt, err := c.lookup(in.Args[0])
		if err != nil {
			return err
		}
		et, err := elem(pt)
		if err != nil {
			return err
		}
		if !et.Equal(*in.Type) {
			return mismatch(et, *in.Type)
		}
		return c.assign(in, *in.Type)

	case ir.OpPtrAdd:
		if err := counts(in, 2, 0, 0); err != nil {
			return err
		}
		pt, err := c.lookup(in.Args[0])
		if err != nil {
			return err
		}
		if _, err := elem(pt); err != nil {
			return err
		}
		if err := c.use(in.Args[1], ir.Int); err != nil {
			return err
		}
		if !pt.Equal(*in.Type) {
			return mismatch(pt, *in.Type)
		}
		return c.assign(in, *in.Type)

	case ir.OpStore:
		if err := counts(in, 2, 0, 0); err != nil {
			return err
		}
		pt, err := c.lookup(in.Args[0])
		if err != nil {
			return err
		}
		et, err := elem(pt)
		if err != nil {
			return err
		}
		return c.use(in.Args[1], et)

	case ir.OpFree:
		if err := counts(in, 1, 0, 0); err != nil {
			return err
		}
		pt, err := c.lookup(in.Args[0])
		if err != nil {
			return err
		}
		_, err = elem(pt)
		return err

	case ir.OpJmp:
		if err := counts(in, 0, 1, 0); err != nil {
			return err
		}
		return c.checkLabels(in.Labels)

	case ir.OpBr, ir.OpGuard:
		labels := 2
		if in.Op == ir.OpGuard {
			labels = 1
		}
		if err := counts(in, 1, labels, 0); err != nil {
			return err
		}
		if err := c.use(in.Args[0], ir.Bool); err != nil {
			return err
		}
		return c.checkLabels(in.Labels)

	case ir.OpRet:
		if err := counts(in, -1, 0, 0); err != nil {
			return err
		}
		if c.fn.ReturnType == nil {
			if len(in.Args) != 0 {
				return diag.New(diag.NonEmptyRetForFunc, "Expected empty return for `%s`, found value", c.fn.Name)
			}
			return nil
		}
		if err := counts(in, 1, 0, 0); err != nil {
			return err
		}
		return c.use(in.Args[0], *c.fn.ReturnType)

	case ir.OpPrint:
		if err := counts(in, -1, 0, 0); err != nil {
			return err
		}
		for _, a := range in.Args {
			if _, err := c.lookup(a); err != nil {
				return err
			}
		}
		return nil

	case ir.OpNop, ir.OpSpeculate, ir.OpCommit:
		return counts(in, 0, 0, 0)
	}

	return diag.New(diag.UnsupportedOp, "unknown opcode %s", in.Op)
}

func (c *TypeChecker) checkCall(in *ir.Instruction) error {
	if err := counts(in, -1, 0, 1); err != nil {
		return err
	}
	callee, ok := c.funcs[in.Funcs[0]]
	if !ok {
		return diag.Func(in.Funcs[0])
	}
	if len(in.Args) != len(callee.Args) {
		return diag.ArgCount(len(callee.Args), len(in.Args))
	}
	for i, a := range in.Args {
		if err := c.use(a, callee.Args[i].Type); err != nil {
			return err
		}
	}

	switch {
	case in.HasDest() && callee.ReturnType == nil:
		return diag.New(diag.NonEmptyRetForFunc, "function `%s` returns nothing but its result is used", callee.Name)
	case !in.HasDest() && callee.ReturnType != nil:
		return diag.New(diag.NonEmptyRetForFunc, "result of `%s` is discarded", callee.Name)
	case in.HasDest():
		if !callee.ReturnType.Equal(*in.Type) {
			return mismatch(*in.Type, *callee.ReturnType)
		}
		return c.assign(in, *in.Type)
	}
	return nil
}

func (c *TypeChecker) lookup(name string) (ir.Type, error) {
	t, ok := c.env[name]
	if !ok {
		return ir.Type{}, diag.New(diag.VarUndefined, "undefined variable `%s`", name)
	}
	return t, nil
}

// use checks that name is defined with type want
func (c *TypeChecker) use(name string, want ir.Type) error {
	t, err := c.lookup(name)
	if err != nil {
		return err
	}
	if !t.Equal(want) {
		return mismatch(want, t)
	}
	return nil
}

// define fixes the type of name, or checks it against an earlier definition
func (c *TypeChecker) define(name string, t ir.Type) error {
	if cur, ok := c.env[name]; ok {
		if !cur.Equal(t) {
			return mismatch(cur, t)
		}
		return nil
	}
	c.env[name] = t
	return nil
}

// assign checks the instruction's declared type against want and records
// its destination
func (c *TypeChecker) assign(in *ir.Instruction, want ir.Type) error {
	if in.Type == nil || !in.HasDest() {
		return diag.New(diag.Conversion, "`%s` needs a destination", in.Op)
	}
	if !in.Type.Equal(want) {
		return mismatch(want, *in.Type)
	}
	return c.define(in.Dest, *in.Type)
}

func (c *TypeChecker) checkLabels(labels []string) error {
	for _, l := range labels {
		if !c.labels[l] {
			return diag.Label(l)
		}
	}
	return nil
}

// counts checks operand counts; -1 accepts any count
func counts(in *ir.Instruction, args, labels, funcs int) error {
	if args >= 0 && len(in.Args) != args {
		return diag.New(diag.BadNumArgs, "Expected `%d` instruction arguments, found `%d`", args, len(in.Args))
	}
	if labels >= 0 && len(in.Labels) != labels {
		return diag.New(diag.BadNumLabels, "Expected `%d` labels, found `%d`", labels, len(in.Labels))
	}
	if funcs >= 0 && len(in.Funcs) != funcs {
		return diag.New(diag.BadNumFuncs, "Expected `%d` functions, found `%d`", funcs, len(in.Funcs))
	}
	return nil
}

func elem(t ir.Type) (ir.Type, error) {
	if t.Kind != ir.TypePtr || t.Elem == nil {
		return ir.Type{}, diag.New(diag.ExpectedPointerType, "Expected a pointer type, found `%s`", t)
	}
	return *t.Elem, nil
}

func mismatch(expected, actual ir.Type) error {
	return diag.New(diag.BadAsmtType, "Expected type `%s`, found `%s`", expected, actual)
}
