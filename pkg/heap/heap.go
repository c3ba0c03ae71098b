// Package heap implements the memory extension: explicit alloc/free over
// allocator-owned storage.
//
// Design: the interpreter only sees the Allocator interface. Each
// implementation brings its own Pointer type, and a pointer from one
// allocator is never valid in another. Allocation ids only grow, so a freed
// id can never be reached again.
package heap

import (
	"fmt"

	"github.com/GriffinCanCode/brilgo/pkg/value"
)

// MaxCells bounds a single allocation. Larger requests fail with
// CannotAllocSize instead of exhausting host memory.
const MaxCells = 1 << 31

// Allocator is the capability the interpreter needs from a heap
type Allocator interface {
	// Alloc reserves amount uninitialized cells and returns a pointer to the
	// first one
	Alloc(amount int64) (value.Value, error)
	// Free releases the allocation p points to; p must have offset 0
	Free(p value.Pointer) error
	// Write stores v at p
	Write(p value.Pointer, v value.Value) error
	// Read loads the value at p; reading an unwritten cell is an error
	Read(p value.Pointer) (value.Value, error)
	// IsEmpty reports whether every allocation has been freed
	IsEmpty() bool
	// Live returns the number of allocations not yet freed
	Live() int
}

// Kinds lists the allocator names New accepts
var Kinds = []string{"basic", "arena"}

// New returns a fresh allocator by name
func New(kind string) (Allocator, error) {
	switch kind {
	case "", "basic":
		return NewBasicHeap(), nil
	case "arena":
		return NewArenaHeap(), nil
	}
	return nil, fmt.Errorf("unknown heap kind %q", kind)
}

// Factory returns a constructor for the named allocator
func Factory(kind string) (func() Allocator, error) {
	if _, err := New(kind); err != nil {
		return nil, err
	}
	return func() Allocator {
		a, _ := New(kind)
		return a
	}, nil
}
