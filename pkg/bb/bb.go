// Package bb turns flat Bril functions into basic-block graphs.
//
// Design: every name is resolved exactly once, here. Variables become dense
// slot indices, labels become block indices and callees become function
// indices, so the interpreter never looks anything up by string.
package bb

import (
	"github.com/zephyrtronium/contains"

	"github.com/GriffinCanCode/brilgo/pkg/ir"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// NoSlot marks an absent destination or callee
const NoSlot = -1

// Program is a Bril program as basic blocks
type Program struct {
	Funcs []*Function
	// Main is the index of the function named main, or NoSlot
	Main  int
	index map[string]int
}

// Func looks a function up by name
func (p *Program) Func(name string) (*Function, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.Funcs[i], true
}

// Function is one Bril function as basic blocks
type Function struct {
	Name       string
	Args       []ir.Argument
	ReturnType *ir.Type
	Blocks     []*Block
	// NumVars is the frame size: the number of distinct variable names
	NumVars int
	// ArgSlots[i] is the slot of Args[i]
	ArgSlots []int
	// VarNames[slot] is the source name of slot
	VarNames []string
	Pos      *ir.Position
}

// Block is a basic block. Instrs and Positions are parallel.
type Block struct {
	Label     string // empty for an unlabeled entry block
	Instrs    []Instr
	Positions []*ir.Position
	// Exits holds successor block indices: none after ret, one for a jump or
	// fallthrough, and [true, false] for a branch
	Exits []int
}

// Instr is an instruction with every operand resolved
type Instr struct {
	Op     ir.Op
	Dest   int   // slot, or NoSlot
	Args   []int // slots
	Labels []int // block indices
	Func   int   // function index, or NoSlot
	Const  value.Value
}

// Reachable returns, for each block, whether some path from the entry block
// reaches it. Guard failure targets count as edges.
func (f *Function) Reachable() []bool {
	seen := make([]bool, len(f.Blocks))
	if len(f.Blocks) == 0 {
		return seen
	}
	set := contains.Set{}
	set.Add(0)
	seen[0] = true
	worklist := []int{0}
	for len(worklist) > 0 {
		i := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		blk := f.Blocks[i]
		succ := append([]int(nil), blk.Exits...)
		for _, in := range blk.Instrs {
			if in.Op == ir.OpGuard {
				succ = append(succ, in.Labels...)
			}
		}
		for _, s := range succ {
			if set.Add(uintptr(s)) {
				seen[s] = true
				worklist = append(worklist, s)
			}
		}
	}
	return seen
}

// BlockIndex returns the index of the block labeled name
func (f *Function) BlockIndex(name string) (int, bool) {
	for i, blk := range f.Blocks {
		if blk.Label == name && name != "" {
			return i, true
		}
	}
	return 0, false
}
