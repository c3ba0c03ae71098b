// Basic-block construction
// Design: three passes per function - number the labels, fill blocks while
// resolving operands, then derive successor edges from each block's tail.
package bb

import (
	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/logger"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// Option configures NewProgram
type Option func(*options)

type options struct {
	groups map[ir.Group]bool
}

// WithGroups enables only the listed opcode groups. The core group is
// always enabled.
func WithGroups(groups ...ir.Group) Option {
	return func(o *options) {
		o.groups = map[ir.Group]bool{ir.GroupCore: true}
		for _, g := range groups {
			o.groups[g] = true
		}
	}
}

// NewProgram builds every function of prog. Duplicate function names are
// reported after all functions have been built.
func NewProgram(prog *ir.Program, opts ...Option) (*Program, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	index := make(map[string]int, len(prog.Functions))
	arity := make([]int, len(prog.Functions))
	for i, fn := range prog.Functions {
		index[fn.Name] = i
		arity[i] = len(fn.Args)
	}

	bp := &Program{Main: NoSlot, index: index}
	for _, fn := range prog.Functions {
		b := &Builder{funcs: index, arity: arity, groups: o.groups}
		f, err := b.Build(fn)
		if err != nil {
			return nil, err
		}
		bp.Funcs = append(bp.Funcs, f)
	}

	if len(index) != len(prog.Functions) {
		seen := make(map[string]bool, len(prog.Functions))
		for _, fn := range prog.Functions {
			if seen[fn.Name] {
				return nil, &diag.Error{
					Kind: diag.DuplicateFunction,
					Msg:  "multiple functions named `" + fn.Name + "` found",
					Pos:  fn.Pos,
				}
			}
			seen[fn.Name] = true
		}
	}

	if i, ok := index["main"]; ok {
		bp.Main = i
	}
	return bp, nil
}

// Builder converts one function. It is not reusable across functions.
type Builder struct {
	funcs  map[string]int
	arity  []int
	groups map[ir.Group]bool

	vars   map[string]int
	names  []string
	labels map[string]int
}

// Build converts fn into basic blocks
func (b *Builder) Build(fn *ir.Function) (*Function, error) {
	if err := b.numberLabels(fn); err != nil {
		return nil, err
	}

	b.vars = make(map[string]int)
	f := &Function{
		Name:       fn.Name,
		Args:       fn.Args,
		ReturnType: fn.ReturnType,
		Pos:        fn.Pos,
	}
	for _, a := range fn.Args {
		f.ArgSlots = append(f.ArgSlots, b.slot(a.Name))
	}

	blocks, err := b.findBlocks(fn)
	if err != nil {
		return nil, err
	}
	f.Blocks = blocks
	f.NumVars = len(b.names)
	f.VarNames = b.names
	buildCFG(f.Blocks)

	logger.LogBlockBuild(f.Name, len(f.Blocks), f.NumVars)
	if dead := countFalse(f.Reachable()); dead > 0 {
		logger.LogUnreachable(f.Name, dead)
	}
	return f, nil
}

// numberLabels gives every label the index of the block it will start.
// Code before the first label forms an unlabeled entry block at index 0.
func (b *Builder) numberLabels(fn *ir.Function) error {
	offset := 0
	if len(fn.Instrs) > 0 {
		if _, ok := fn.Instrs[0].(*ir.Label); !ok {
			offset = 1
		}
	}
	b.labels = make(map[string]int)
	for _, c := range fn.Instrs {
		l, ok := c.(*ir.Label)
		if !ok {
			continue
		}
		if _, dup := b.labels[l.Name]; dup {
			return &diag.Error{
				Kind: diag.DuplicateLabel,
				Msg:  "multiple labels named `" + l.Name + "` found in `" + fn.Name + "`",
				Pos:  l.Pos,
			}
		}
		b.labels[l.Name] = len(b.labels) + offset
	}
	return nil
}

// findBlocks splits the code into blocks. A label closes the current block
// unless it is an empty, unlabeled block before any block was closed; code
// following a terminator without a label is unreachable and dropped.
func (b *Builder) findBlocks(fn *ir.Function) ([]*Block, error) {
	var blocks []*Block
	cur := &Block{}

	for _, c := range fn.Instrs {
		switch c := c.(type) {
		case *ir.Label:
			if (len(cur.Instrs) > 0 && len(blocks) == 0) || cur.Label != "" {
				blocks = append(blocks, cur)
			}
			cur = &Block{Label: c.Name}
		case *ir.Instruction:
			if c.IsTerminator() {
				if cur.Label != "" || len(blocks) == 0 {
					in, err := b.flatten(c)
					if err != nil {
						return nil, err
					}
					cur.Instrs = append(cur.Instrs, in)
					cur.Positions = append(cur.Positions, c.Pos)
					blocks = append(blocks, cur)
				}
				cur = &Block{}
				continue
			}
			in, err := b.flatten(c)
			if err != nil {
				return nil, err
			}
			cur.Instrs = append(cur.Instrs, in)
			cur.Positions = append(cur.Positions, c.Pos)
		}
	}
	if len(cur.Instrs) > 0 || cur.Label != "" {
		blocks = append(blocks, cur)
	}
	return blocks, nil
}

// flatten resolves the names an instruction mentions
func (b *Builder) flatten(c *ir.Instruction) (Instr, error) {
	if b.groups != nil && !b.groups[c.Op.Group()] {
		return Instr{}, &diag.Error{
			Kind: diag.UnsupportedOp,
			Msg:  "opcode `" + c.Op.String() + "` belongs to disabled group `" + c.Op.Group().String() + "`",
			Pos:  c.Pos,
		}
	}
	if err := checkShape(c); err != nil {
		return Instr{}, diag.AtPos(err, c.Pos)
	}

	in := Instr{Op: c.Op, Dest: NoSlot, Func: NoSlot}
	if c.HasDest() {
		in.Dest = b.slot(c.Dest)
	}
	if len(c.Args) > 0 {
		in.Args = make([]int, len(c.Args))
		for i, a := range c.Args {
			in.Args[i] = b.slot(a)
		}
	}
	if len(c.Labels) > 0 {
		in.Labels = make([]int, len(c.Labels))
		for i, l := range c.Labels {
			idx, ok := b.labels[l]
			if !ok {
				return Instr{}, diag.AtPos(diag.Label(l), c.Pos)
			}
			in.Labels[i] = idx
		}
	}
	if len(c.Funcs) > 0 {
		idx, ok := b.funcs[c.Funcs[0]]
		if !ok {
			return Instr{}, diag.AtPos(diag.Func(c.Funcs[0]), c.Pos)
		}
		if want := b.arity[idx]; want != len(c.Args) {
			return Instr{}, diag.AtPos(diag.ArgCount(want, len(c.Args)), c.Pos)
		}
		in.Func = idx
	}
	if c.Op == ir.OpConst {
		in.Const = value.FromLiteral(*c.Value, *c.Type)
	}
	return in, nil
}

// slot interns a variable name
func (b *Builder) slot(name string) int {
	if i, ok := b.vars[name]; ok {
		return i
	}
	i := len(b.names)
	b.vars[name] = i
	b.names = append(b.names, name)
	return i
}

// buildCFG derives successor edges from the last instruction of each block
func buildCFG(blocks []*Block) {
	last := len(blocks) - 1
	for i, blk := range blocks {
		var tail *Instr
		if n := len(blk.Instrs); n > 0 {
			tail = &blk.Instrs[n-1]
		}
		switch {
		case tail != nil && tail.Op == ir.OpJmp:
			blk.Exits = []int{tail.Labels[0]}
		case tail != nil && tail.Op == ir.OpBr:
			blk.Exits = []int{tail.Labels[0], tail.Labels[1]}
		case tail != nil && tail.Op == ir.OpRet:
		default:
			if i < last {
				blk.Exits = []int{i + 1}
			}
		}
	}
}

func countFalse(bs []bool) int {
	n := 0
	for _, b := range bs {
		if !b {
			n++
		}
	}
	return n
}
