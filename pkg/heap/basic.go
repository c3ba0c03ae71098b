package heap

import (
	"fmt"

	"github.com/GriffinCanCode/brilgo/pkg/diag"
	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// Ref is the pointer representation of BasicHeap
type Ref struct {
	Base   uint64
	Offset int64
}

// Add returns a copy of r moved by offset cells
func (r Ref) Add(offset int64) value.Pointer {
	return Ref{Base: r.Base, Offset: r.Offset + offset}
}

func (r Ref) String() string {
	return fmt.Sprintf("Pointer { base: %d, offset: %d }", r.Base, r.Offset)
}

// BasicHeap keeps one slice per allocation, keyed by allocation id
type BasicHeap struct {
	memory map[uint64][]value.Value
	next   uint64
}

// NewBasicHeap returns an empty heap
func NewBasicHeap() *BasicHeap {
	return &BasicHeap{memory: make(map[uint64][]value.Value, 20)}
}

func (h *BasicHeap) IsEmpty() bool { return len(h.memory) == 0 }

func (h *BasicHeap) Live() int { return len(h.memory) }

func (h *BasicHeap) Alloc(amount int64) (value.Value, error) {
	if amount < 0 || amount > MaxCells {
		return value.Value{}, diag.AllocSize(amount)
	}
	base := h.next
	h.next++
	h.memory[base] = make([]value.Value, amount)
	return value.Ptr(Ref{Base: base}), nil
}

func (h *BasicHeap) Free(p value.Pointer) error {
	r, ok := p.(Ref)
	if !ok {
		return foreignFree(p)
	}
	if r.Offset != 0 {
		return diag.BadFree(r.Base, r.Offset)
	}
	if _, live := h.memory[r.Base]; !live {
		return diag.BadFree(r.Base, r.Offset)
	}
	delete(h.memory, r.Base)
	return nil
}

func (h *BasicHeap) Write(p value.Pointer, v value.Value) error {
	cells, off, err := h.locate(p)
	if err != nil {
		return err
	}
	cells[off] = v
	return nil
}

func (h *BasicHeap) Read(p value.Pointer) (value.Value, error) {
	cells, off, err := h.locate(p)
	if err != nil {
		return value.Value{}, err
	}
	v := cells[off]
	if v.IsUninitialized() {
		return value.Value{}, diag.Uninitialized()
	}
	return v, nil
}

func (h *BasicHeap) locate(p value.Pointer) ([]value.Value, int64, error) {
	r, ok := p.(Ref)
	if !ok {
		return nil, 0, foreignAccess(p)
	}
	cells, live := h.memory[r.Base]
	if !live || r.Offset < 0 || r.Offset >= int64(len(cells)) {
		return nil, 0, diag.BadAccess(r.Base, r.Offset)
	}
	return cells, r.Offset, nil
}

func foreignFree(p value.Pointer) error {
	return diag.New(diag.IllegalFree, "Tried to free pointer %v not owned by this heap", p)
}

func foreignAccess(p value.Pointer) error {
	return diag.New(diag.InvalidMemoryAccess, "pointer %v is not owned by this heap", p)
}
