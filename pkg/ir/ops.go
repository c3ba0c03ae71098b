package ir

// Op is a Bril opcode
type Op int

const (
	OpInvalid Op = iota

	OpConst

	// Integer arithmetic and comparison
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpLt
	OpGt
	OpLe
	OpGe

	// Boolean logic
	OpNot
	OpAnd
	OpOr

	// Misc value ops
	OpId
	OpCall
	OpPhi

	// Floating point
	OpFadd
	OpFsub
	OpFmul
	OpFdiv
	OpFeq
	OpFlt
	OpFgt
	OpFle
	OpFge

	// Characters
	OpCeq
	OpClt
	OpCgt
	OpCle
	OpCge
	OpChar2Int
	OpInt2Char

	// Memory
	OpAlloc
	OpLoad
	OpPtrAdd
	OpStore
	OpFree

	// Control and effects
	OpJmp
	OpBr
	OpRet
	OpPrint
	OpNop

	// Speculative execution
	OpSpeculate
	OpCommit
	OpGuard

	numOps
)

var opNames = [numOps]string{
	OpInvalid:   "<invalid>",
	OpConst:     "const",
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpDiv:       "div",
	OpEq:        "eq",
	OpLt:        "lt",
	OpGt:        "gt",
	OpLe:        "le",
	OpGe:        "ge",
	OpNot:       "not",
	OpAnd:       "and",
	OpOr:        "or",
	OpId:        "id",
	OpCall:      "call",
	OpPhi:       "phi",
	OpFadd:      "fadd",
	OpFsub:      "fsub",
	OpFmul:      "fmul",
	OpFdiv:      "fdiv",
	OpFeq:       "feq",
	OpFlt:       "flt",
	OpFgt:       "fgt",
	OpFle:       "fle",
	OpFge:       "fge",
	OpCeq:       "ceq",
	OpClt:       "clt",
	OpCgt:       "cgt",
	OpCle:       "cle",
	OpCge:       "cge",
	OpChar2Int:  "char2int",
	OpInt2Char:  "int2char",
	OpAlloc:     "alloc",
	OpLoad:      "load",
	OpPtrAdd:    "ptradd",
	OpStore:     "store",
	OpFree:      "free",
	OpJmp:       "jmp",
	OpBr:        "br",
	OpRet:       "ret",
	OpPrint:     "print",
	OpNop:       "nop",
	OpSpeculate: "speculate",
	OpCommit:    "commit",
	OpGuard:     "guard",
}

var opByName map[string]Op

func init() {
	opByName = make(map[string]Op, numOps)
	for op := OpConst; op < numOps; op++ {
		opByName[opNames[op]] = op
	}
}

// ParseOp returns the opcode spelled name, or OpInvalid
func ParseOp(name string) Op {
	return opByName[name]
}

func (op Op) String() string {
	if op < 0 || op >= numOps {
		return opNames[OpInvalid]
	}
	return opNames[op]
}

// Group is an optional extension of the core instruction set
type Group int

const (
	GroupCore Group = iota
	GroupFloat
	GroupChar
	GroupMemory
	GroupSSA
	GroupSpeculate
)

var groupNames = map[Group]string{
	GroupCore:      "core",
	GroupFloat:     "float",
	GroupChar:      "char",
	GroupMemory:    "memory",
	GroupSSA:       "ssa",
	GroupSpeculate: "speculate",
}

func (g Group) String() string {
	if s, ok := groupNames[g]; ok {
		return s
	}
	return "unknown"
}

// ParseGroup maps a group name back to its Group
func ParseGroup(name string) (Group, bool) {
	for g, s := range groupNames {
		if s == name {
			return g, true
		}
	}
	return 0, false
}

// AllGroups lists every opcode group in declaration order
func AllGroups() []Group {
	return []Group{GroupCore, GroupFloat, GroupChar, GroupMemory, GroupSSA, GroupSpeculate}
}

// Group returns the extension op belongs to
func (op Op) Group() Group {
	switch {
	case op >= OpFadd && op <= OpFge:
		return GroupFloat
	case op >= OpCeq && op <= OpInt2Char:
		return GroupChar
	case op >= OpAlloc && op <= OpFree:
		return GroupMemory
	case op == OpPhi:
		return GroupSSA
	case op >= OpSpeculate && op <= OpGuard:
		return GroupSpeculate
	default:
		return GroupCore
	}
}

// IsEffect reports whether op never writes a destination
func (op Op) IsEffect() bool {
	switch op {
	case OpJmp, OpBr, OpRet, OpPrint, OpNop, OpStore, OpFree, OpSpeculate, OpCommit, OpGuard:
		return true
	}
	return false
}

// IsValue reports whether op always writes a destination. Call is neither
// value nor effect: it may be used either way.
func (op Op) IsValue() bool {
	return op != OpCall && op != OpInvalid && !op.IsEffect()
}
