package heap

import (
	"fmt"
	"slices"

	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// Cell is the pointer representation of ArenaHeap
type Cell struct {
	ID     uint64
	Offset int64
}

// Add returns a copy of c moved by offset cells
func (c Cell) Add(offset int64) value.Pointer {
	return Cell{ID: c.ID, Offset: c.Offset + offset}
}

func (c Cell) String() string {
	return fmt.Sprintf("Cell { id: %d, offset: %d }", c.ID, c.Offset)
}

type span struct {
	start int
	n     int
	live  bool
}

// ArenaHeap bump-allocates every allocation out of one slab. Freed space is
// only reclaimed once the heap is empty, at which point the slab is rewound.
// Span ids are never reused.
type ArenaHeap struct {
	slab  []value.Value
	spans []span
	live  int
}

// NewArenaHeap returns an empty arena
func NewArenaHeap() *ArenaHeap {
	return &ArenaHeap{slab: make([]value.Value, 0, 64)}
}

func (h *ArenaHeap) IsEmpty() bool { return h.live == 0 }

func (h *ArenaHeap) Live() int { return h.live }

func (h *ArenaHeap) Alloc(amount int64) (value.Value, error) {
	if amount < 0 || amount > MaxCells {
		return value.Value{}, diag.AllocSize(amount)
	}
	n := int(amount)
	start := len(h.slab)
	h.slab = slices.Grow(h.slab, n)[:start+n]
	clear(h.slab[start:])

	id := uint64(len(h.spans))
	h.spans = append(h.spans, span{start: start, n: n, live: true})
	h.live++
	return value.Ptr(Cell{ID: id}), nil
}

func (h *ArenaHeap) Free(p value.Pointer) error {
	c, ok := p.(Cell)
	if !ok {
		return foreignFree(p)
	}
	if c.Offset != 0 || c.ID >= uint64(len(h.spans)) || !h.spans[c.ID].live {
		return diag.BadFree(c.ID, c.Offset)
	}
	h.spans[c.ID].live = false
	h.live--
	if h.live == 0 {
		h.slab = h.slab[:0]
	}
	return nil
}

func (h *ArenaHeap) Write(p value.Pointer, v value.Value) error {
	i, err := h.locate(p)
	if err != nil {
		return err
	}
	h.slab[i] = v
	return nil
}

func (h *ArenaHeap) Read(p value.Pointer) (value.Value, error) {
	i, err := h.locate(p)
	if err != nil {
		return value.Value{}, err
	}
	v := h.slab[i]
	if v.IsUninitialized() {
		return value.Value{}, diag.Uninitialized()
	}
	return v, nil
}

func (h *ArenaHeap) locate(p value.Pointer) (int, error) {
	c, ok := p.(Cell)
	if !ok {
		return 0, foreignAccess(p)
	}
	if c.ID >= uint64(len(h.spans)) {
		return 0, diag.BadAccess(c.ID, c.Offset)
	}
	s := h.spans[c.ID]
	if !s.live || c.Offset < 0 || c.Offset >= int64(s.n) {
		return 0, diag.BadAccess(c.ID, c.Offset)
	}
	return s.start + int(c.Offset), nil
}
