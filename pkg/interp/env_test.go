package interp

import (
	"testing"

	"github.com/GriffinCanCode/brilgo/pkg/value"
)

func TestFramesAreIsolated(t *testing.T) {
	e := NewEnvironment(2)
	e.Set(0, value.Int(1))
	e.Set(1, value.Int(2))

	e.PushFrame(3)
	if e.Depth() != 1 {
		t.Fatalf("Depth = %d, want 1", e.Depth())
	}
	if got := e.GetFromLastFrame(1); got.AsInt() != 2 {
		t.Errorf("GetFromLastFrame(1) = %v, want 2", got)
	}
	for i := 0; i < 3; i++ {
		if !e.Get(i).IsUninitialized() {
			t.Errorf("slot %d of a new frame = %v, want uninitialized", i, e.Get(i))
		}
	}
	e.Set(0, value.Int(7))
	e.PopFrame()

	if got := e.Get(0); got.AsInt() != 1 {
		t.Errorf("caller slot 0 = %v after pop, want 1", got)
	}

	// a reused region must not leak the previous callee's values
	e.PushFrame(3)
	if !e.Get(0).IsUninitialized() {
		t.Errorf("reused frame slot 0 = %v, want uninitialized", e.Get(0))
	}
}

func TestGrowthPreservesFrames(t *testing.T) {
	e := NewEnvironment(1)
	e.Set(0, value.Int(0))
	const depth = 200
	for i := 1; i <= depth; i++ {
		e.PushFrame(1)
		e.Set(0, value.Int(int64(i)))
	}
	for i := depth; i >= 1; i-- {
		if got := e.Get(0).AsInt(); got != int64(i) {
			t.Fatalf("frame %d holds %d", i, got)
		}
		e.PopFrame()
	}
	if got := e.Get(0).AsInt(); got != 0 {
		t.Errorf("root frame holds %d, want 0", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	e := NewEnvironment(2)
	e.Set(0, value.Int(1))
	s := e.snapshot()
	e.Set(0, value.Int(5))
	e.Set(1, value.Bool(true))
	e.restore(s)
	if got := e.Get(0).AsInt(); got != 1 {
		t.Errorf("slot 0 = %d after restore, want 1", got)
	}
	if !e.Get(1).IsUninitialized() {
		t.Errorf("slot 1 = %v after restore, want uninitialized", e.Get(1))
	}
}
