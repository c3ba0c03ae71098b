// Package interp executes basic-block programs.
//
// Design: one recursive execute per interpreted call, one shared value
// stack, one heap. Control moves between blocks only at block ends (or on a
// failed guard), so per-block bookkeeping is enough to resolve phi nodes.
package interp

import (
	"bufio"
	"unicode/utf8"

	"github.com/GriffinCanCode/brilgo/pkg/bb"
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/heap"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// machine is the state shared across call boundaries
type machine struct {
	prog  *bb.Program
	env   *Environment
	heap  heap.Allocator
	out   *bufio.Writer
	buf   []byte
	vals  []value.Value // print operands
	count uint64
}

// control carries what one instruction decided about the rest of the block
type control struct {
	next      int // block to run next, or bb.NoSlot
	result    value.Value
	hasResult bool
	returned  bool
	aborted   bool // a guard failed; skip the rest of the block
	snapshots [][]value.Value
}

func (m *machine) execute(f *bb.Function) (value.Value, bool, error) {
	if len(f.Blocks) == 0 {
		return value.Value{}, false, nil
	}

	last, cur := bb.NoSlot, bb.NoSlot
	idx := 0
	ctl := control{}
	for {
		blk := f.Blocks[idx]
		last, cur = cur, idx
		ctl.next = bb.NoSlot
		ctl.aborted = false

		ran := len(blk.Instrs)
		for i := range blk.Instrs {
			if err := m.step(f, blk, &blk.Instrs[i], last, &ctl); err != nil {
				m.count += uint64(i + 1)
				return value.Value{}, false, diag.AtPos(err, blk.Positions[i])
			}
			if ctl.aborted {
				ran = i + 1
				break
			}
		}
		m.count += uint64(ran)

		switch {
		case ctl.next != bb.NoSlot:
			idx = ctl.next
		case !ctl.returned && len(blk.Exits) == 1:
			idx = blk.Exits[0]
		default:
			if len(ctl.snapshots) > 0 {
				var pos *ir.Position
				if n := len(blk.Positions); n > 0 {
					pos = blk.Positions[n-1]
				}
				return value.Value{}, false, diag.AtPos(&diag.Error{Kind: diag.SpeculativeReturn}, pos)
			}
			return ctl.result, ctl.hasResult, nil
		}
	}
}

func (m *machine) step(f *bb.Function, blk *bb.Block, in *bb.Instr, last int, ctl *control) error {
	env := m.env
	arg := func(i int) value.Value { return env.Get(in.Args[i]) }

	switch in.Op {
	case ir.OpConst:
		env.Set(in.Dest, in.Const)

	// Integers wrap on overflow
	case ir.OpAdd:
		env.Set(in.Dest, value.Int(arg(0).AsInt()+arg(1).AsInt()))
	case ir.OpSub:
		env.Set(in.Dest, value.Int(arg(0).AsInt()-arg(1).AsInt()))
	case ir.OpMul:
		env.Set(in.Dest, value.Int(arg(0).AsInt()*arg(1).AsInt()))
	case ir.OpDiv:
		d := arg(1).AsInt()
		if d == 0 {
			return diag.DivideByZero()
		}
		env.Set(in.Dest, value.Int(arg(0).AsInt()/d))
	case ir.OpEq:
		env.Set(in.Dest, value.Bool(arg(0).AsInt() == arg(1).AsInt()))
	case ir.OpLt:
		env.Set(in.Dest, value.Bool(arg(0).AsInt() < arg(1).AsInt()))
	case ir.OpGt:
		env.Set(in.Dest, value.Bool(arg(0).AsInt() > arg(1).AsInt()))
	case ir.OpLe:
		env.Set(in.Dest, value.Bool(arg(0).AsInt() <= arg(1).AsInt()))
	case ir.OpGe:
		env.Set(in.Dest, value.Bool(arg(0).AsInt() >= arg(1).AsInt()))

	case ir.OpNot:
		env.Set(in.Dest, value.Bool(!arg(0).AsBool()))
	case ir.OpAnd:
		env.Set(in.Dest, value.Bool(arg(0).AsBool() && arg(1).AsBool()))
	case ir.OpOr:
		env.Set(in.Dest, value.Bool(arg(0).AsBool() || arg(1).AsBool()))
	case ir.OpId:
		env.Set(in.Dest, arg(0))

	case ir.OpFadd:
		env.Set(in.Dest, value.Float(arg(0).AsFloat()+arg(1).AsFloat()))
	case ir.OpFsub:
		env.Set(in.Dest, value.Float(arg(0).AsFloat()-arg(1).AsFloat()))
	case ir.OpFmul:
		env.Set(in.Dest, value.Float(arg(0).AsFloat()*arg(1).AsFloat()))
	case ir.OpFdiv:
		env.Set(in.Dest, value.Float(arg(0).AsFloat()/arg(1).AsFloat()))
	case ir.OpFeq:
		env.Set(in.Dest, value.Bool(arg(0).AsFloat() == arg(1).AsFloat()))
	case ir.OpFlt:
		env.Set(in.Dest, value.Bool(arg(0).AsFloat() < arg(1).AsFloat()))
	case ir.OpFgt:
		env.Set(in.Dest, value.Bool(arg(0).AsFloat() > arg(1).AsFloat()))
	case ir.OpFle:
		env.Set(in.Dest, value.Bool(arg(0).AsFloat() <= arg(1).AsFloat()))
	case ir.OpFge:
		env.Set(in.Dest, value.Bool(arg(0).AsFloat() >= arg(1).AsFloat()))

	case ir.OpCeq:
		env.Set(in.Dest, value.Bool(arg(0).AsChar() == arg(1).AsChar()))
	case ir.OpClt:
		env.Set(in.Dest, value.Bool(arg(0).AsChar() < arg(1).AsChar()))
	case ir.OpCgt:
		env.Set(in.Dest, value.Bool(arg(0).AsChar() > arg(1).AsChar()))
	case ir.OpCle:
		env.Set(in.Dest, value.Bool(arg(0).AsChar() <= arg(1).AsChar()))
	case ir.OpCge:
		env.Set(in.Dest, value.Bool(arg(0).AsChar() >= arg(1).AsChar()))
	case ir.OpChar2Int:
		env.Set(in.Dest, value.Int(int64(arg(0).AsChar())))
	case ir.OpInt2Char:
		i := arg(0).AsInt()
		if i < 0 || i > utf8.MaxRune || !utf8.ValidRune(rune(i)) {
			return diag.CharRange(i)
		}
		env.Set(in.Dest, value.Char(rune(i)))

	case ir.OpCall:
		return m.call(in)

	case ir.OpPhi:
		if last == bb.NoSlot || f.Blocks[last].Label == "" {
			return &diag.Error{Kind: diag.NoLastLabel}
		}
		for j, l := range in.Labels {
			if l == last {
				env.Set(in.Dest, arg(j))
				return nil
			}
		}
		return diag.PhiLabel(f.Blocks[last].Label)

	case ir.OpAlloc:
		p, err := m.heap.Alloc(arg(0).AsInt())
		if err != nil {
			return err
		}
		env.Set(in.Dest, p)
	case ir.OpLoad:
		v, err := m.heap.Read(arg(0).AsPointer())
		if err != nil {
			return err
		}
		env.Set(in.Dest, v)
	case ir.OpPtrAdd:
		p := arg(0).AsPointer()
		if p == nil {
			return diag.New(diag.InvalidMemoryAccess, "ptradd on a non-pointer value")
		}
		env.Set(in.Dest, value.Ptr(p.Add(arg(1).AsInt())))
	case ir.OpStore:
		return m.heap.Write(arg(0).AsPointer(), arg(1))
	case ir.OpFree:
		return m.heap.Free(arg(0).AsPointer())

	case ir.OpJmp:
		ctl.next = blk.Exits[0]
	case ir.OpBr:
		if arg(0).AsBool() {
			ctl.next = blk.Exits[0]
		} else {
			ctl.next = blk.Exits[1]
		}
	case ir.OpRet:
		ctl.returned = true
		if len(in.Args) > 0 {
			ctl.result, ctl.hasResult = arg(0), true
		}
	case ir.OpPrint:
		vals := m.vals[:0]
		for _, a := range in.Args {
			vals = append(vals, env.Get(a))
		}
		m.vals = vals
		m.buf = value.AppendLine(m.buf[:0], vals...)
		if _, err := m.out.Write(m.buf); err != nil {
			return diag.Wrap(diag.IO, err)
		}
	case ir.OpNop:

	case ir.OpSpeculate:
		ctl.snapshots = append(ctl.snapshots, env.snapshot())
	case ir.OpCommit:
		if len(ctl.snapshots) == 0 {
			return &diag.Error{Kind: diag.NotSpeculating}
		}
		ctl.snapshots = ctl.snapshots[:len(ctl.snapshots)-1]
	case ir.OpGuard:
		if len(ctl.snapshots) == 0 {
			return &diag.Error{Kind: diag.NotSpeculating}
		}
		if !arg(0).AsBool() {
			top := ctl.snapshots[len(ctl.snapshots)-1]
			ctl.snapshots = ctl.snapshots[:len(ctl.snapshots)-1]
			env.restore(top)
			ctl.next = in.Labels[0]
			ctl.aborted = true
		}

	default:
		return diag.New(diag.UnsupportedOp, "cannot execute opcode %s", in.Op)
	}
	return nil
}

// call runs a callee in a fresh frame. Arguments are copied out of the
// caller's frame, which sits directly below the new one.
func (m *machine) call(in *bb.Instr) error {
	callee := m.prog.Funcs[in.Func]
	m.env.PushFrame(callee.NumVars)
	for k, a := range in.Args {
		m.env.Set(callee.ArgSlots[k], m.env.GetFromLastFrame(a))
	}

	res, ok, err := m.execute(callee)
	m.env.PopFrame()
	if err != nil {
		return err
	}
	if in.Dest == bb.NoSlot {
		return nil
	}
	if !ok {
		return diag.New(diag.NoReturnValue, "function `%s` returned no value", callee.Name)
	}
	m.env.Set(in.Dest, res)
	return nil
}
