package node

import (
	"testing"

	"github.com/synnaxlabs/arc-runtime/ir"
	"github.com/synnaxlabs/arc-runtime/state"
	"github.com/synnaxlabs/arc-runtime/telem"
	"github.com/synnaxlabs/arc-runtime/types"
)

func twoInputModule() *ir.Module {
	f32 := types.New(types.F32)
	return &ir.Module{
		Nodes: []ir.Node{
			{Key: "A", Outputs: []ir.Param{{Name: "out", Type: f32}}},
			{Key: "B", Outputs: []ir.Param{{Name: "out", Type: f32}}},
			{Key: "C", Inputs: []ir.Param{{Name: "in1", Type: f32}, {Name: "in2", Type: f32}}, Outputs: []ir.Param{{Name: "out", Type: f32}}},
		},
		Edges: []ir.Edge{
			{Source: ir.Handle{NodeKey: "A", Param: "out"}, Target: ir.Handle{NodeKey: "C", Param: "in1"}},
			{Source: ir.Handle{NodeKey: "B", Param: "out"}, Target: ir.Handle{NodeKey: "C", Param: "in2"}},
		},
	}
}

func writeOutput(c *state.Container, nodeKey string, v float32, ts telem.TimeStamp) {
	idx, _ := c.ValueIndex(nodeKey, "out")
	slot := c.Slot(idx)
	data := telem.NewSeries(types.F32, 0)
	telem.Write(data, v)
	time := telem.NewSeries(types.I64, 0)
	time.WriteTimestamp(ts)
	slot.Data = data
	slot.Time = time
}

// TestTemporalAlignment matches spec.md §8's two-input node property list.
func TestTemporalAlignment(t *testing.T) {
	m := twoInputModule()
	c := state.New(state.Config{Module: m})
	n, err := New(c, m, "C")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if n.RefreshInputs() {
		t.Fatalf("RefreshInputs() with both slots empty must be false")
	}

	writeOutput(c, "A", 1.0, 100)
	if n.RefreshInputs() {
		t.Fatalf("RefreshInputs() with only A produced must be false")
	}

	writeOutput(c, "B", 2.0, 200)
	if !n.RefreshInputs() {
		t.Fatalf("RefreshInputs() with both produced must be true")
	}
	if telem.At[float32](n.Input(0), -1) != 1.0 || telem.At[float32](n.Input(1), -1) != 2.0 {
		t.Fatalf("aligned inputs = %v, %v", telem.At[float32](n.Input(0), -1), telem.At[float32](n.Input(1), -1))
	}

	if n.RefreshInputs() {
		t.Fatalf("RefreshInputs() again without new data must be false")
	}

	writeOutput(c, "A", 3.0, 300)
	if !n.RefreshInputs() {
		t.Fatalf("RefreshInputs() after a newer A sample must be true")
	}
}

func TestWatermarkNonDecreasing(t *testing.T) {
	m := twoInputModule()
	c := state.New(state.Config{Module: m})
	n, err := New(c, m, "C")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	writeOutput(c, "A", 1.0, 100)
	writeOutput(c, "B", 1.0, 100)
	n.RefreshInputs()
	last := n.accum[0].lastTimestamp

	for _, ts := range []telem.TimeStamp{150, 150, 400, 400} {
		writeOutput(c, "A", 1.0, ts)
		n.RefreshInputs()
		if n.accum[0].lastTimestamp < last {
			t.Fatalf("watermark decreased: %d -> %d", last, n.accum[0].lastTimestamp)
		}
		last = n.accum[0].lastTimestamp
	}
}

// TestDefaultValuePath matches spec.md §8 scenario 3.
func TestDefaultValuePath(t *testing.T) {
	i32 := types.New(types.I32)
	m := &ir.Module{
		Nodes: []ir.Node{
			{Key: "Src", Outputs: []ir.Param{{Name: "out", Type: i32}}},
			{
				Key:     "Add",
				Inputs:  []ir.Param{{Name: "x", Type: i32}, {Name: "y", Type: i32}},
				Outputs: []ir.Param{{Name: "out", Type: i32}},
				Defaults: []ir.InputDefault{
					{Param: "y", Value: float64(5)},
				},
			},
		},
		Edges: []ir.Edge{
			{Source: ir.Handle{NodeKey: "Src", Param: "out"}, Target: ir.Handle{NodeKey: "Add", Param: "x"}},
		},
	}
	c := state.New(state.Config{Module: m})
	n, err := New(c, m, "Add")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if n.RefreshInputs() {
		t.Fatalf("RefreshInputs() before x produces must be false")
	}

	idx, _ := c.ValueIndex("Src", "out")
	slot := c.Slot(idx)
	data := telem.NewSeries(types.I32, 0)
	telem.Write(data, int32(7))
	tm := telem.NewSeries(types.I64, 0)
	tm.WriteTimestamp(1)
	slot.Data = data
	slot.Time = tm

	if !n.RefreshInputs() {
		t.Fatalf("RefreshInputs() after x produces must be true")
	}
	x := telem.At[int32](n.Input(0), -1)
	y := telem.At[int32](n.Input(1), -1)
	if x != 7 || y != 5 {
		t.Fatalf("x=%d, y=%d, want 7, 5", x, y)
	}
}

func TestSetOutputVisibleNextTick(t *testing.T) {
	m := twoInputModule()
	c := state.New(state.Config{Module: m})
	n, err := New(c, m, "C")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out := telem.NewSeries(types.F32, 0)
	telem.Write(out, float32(9))
	ts := telem.NewSeries(types.I64, 0)
	ts.WriteTimestamp(1)
	n.SetOutput(0, out, ts)

	idx, _ := c.ValueIndex("C", "out")
	if c.Slot(idx).Data != out {
		t.Fatalf("SetOutput must write through to the container's slot")
	}
}
