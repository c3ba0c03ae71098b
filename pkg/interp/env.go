package interp

import "github.com/GriffinCanCode/brilgo/pkg/value"

// minStack is the initial number of slots reserved so shallow programs never
// grow the stack
const minStack = 50

type frame struct {
	ptr, size int
}

// Environment is the value stack shared by every active call. Each call owns
// a contiguous frame of slots starting at ptr:
//
//	main (size 3)   foo (size 2)
//	[a, b, c,       a, b]
//
// The backing slice only grows; ptr+size never exceeds its length.
type Environment struct {
	ptr    int
	size   int
	frames []frame
	env    []value.Value
}

// NewEnvironment returns a stack whose first frame has size slots
func NewEnvironment(size int) *Environment {
	return &Environment{
		size: size,
		env:  make([]value.Value, max(size, minStack)),
	}
}

// Get reads a slot of the current frame
func (e *Environment) Get(slot int) value.Value {
	return e.env[e.ptr+slot]
}

// GetFromLastFrame reads a slot of the caller's frame; used to pass
// arguments right after PushFrame
func (e *Environment) GetFromLastFrame(slot int) value.Value {
	return e.env[e.frames[len(e.frames)-1].ptr+slot]
}

// Set writes a slot of the current frame
func (e *Environment) Set(slot int, v value.Value) {
	e.env[e.ptr+slot] = v
}

// PushFrame starts a frame of size uninitialized slots above the current one
func (e *Environment) PushFrame(size int) {
	e.frames = append(e.frames, frame{ptr: e.ptr, size: e.size})
	e.ptr += e.size
	e.size = size

	if need := e.ptr + e.size; need > len(e.env) {
		grown := make([]value.Value, max(len(e.env)*4, need))
		copy(grown, e.env[:e.ptr])
		e.env = grown
		return
	}
	clear(e.env[e.ptr : e.ptr+e.size])
}

// PopFrame returns to the caller's frame
func (e *Environment) PopFrame() {
	f := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	e.ptr, e.size = f.ptr, f.size
}

// Depth is the number of frames below the current one
func (e *Environment) Depth() int {
	return len(e.frames)
}

// snapshot copies the current frame
func (e *Environment) snapshot() []value.Value {
	return append([]value.Value(nil), e.env[e.ptr:e.ptr+e.size]...)
}

// restore overwrites the current frame with a snapshot
func (e *Environment) restore(s []value.Value) {
	copy(e.env[e.ptr:e.ptr+e.size], s)
}
