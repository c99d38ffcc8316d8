package state

import (
	"testing"

	"github.com/synnaxlabs/arc-runtime/ir"
	"github.com/synnaxlabs/arc-runtime/telem"
	"github.com/synnaxlabs/arc-runtime/types"
)

func testModule() *ir.Module {
	return &ir.Module{
		Nodes: []ir.Node{
			{Key: "A", Outputs: []ir.Param{{Name: "out", Type: types.New(types.F32)}}},
			{Key: "B", Outputs: []ir.Param{{Name: "out", Type: types.New(types.F32)}}},
		},
	}
}

func TestNewAllocatesOneSlotPerOutput(t *testing.T) {
	c := New(Config{Module: testModule()})
	if c.NumSlots() != 2 {
		t.Fatalf("NumSlots() = %d, want 2", c.NumSlots())
	}
	idx, ok := c.ValueIndex("A", "out")
	if !ok || idx >= c.NumSlots() {
		t.Fatalf("ValueIndex(A,out) = %d, %v", idx, ok)
	}
	slot := c.Slot(idx)
	if !slot.Data.IsEmpty() || slot.Data.DataType() != types.F32 {
		t.Fatalf("slot not empty/typed as declared: %+v", slot.Data)
	}
}

func TestReadChannelReturnsDeepCopies(t *testing.T) {
	c := New(Config{Module: testModule()})
	s := telem.NewSeries(types.F64, 0)
	telem.Write(s, 1.0)
	c.Ingest(10, s, s)

	ms, ok := c.ReadChannel(10)
	if !ok || ms.Last().Len() != 1 {
		t.Fatalf("ReadChannel(10) = %v, %v", ms, ok)
	}
	telem.Write(ms.Last(), 2.0)

	ms2, ok := c.ReadChannel(10)
	if !ok || ms2.Last().Len() != 1 {
		t.Fatalf("mutating a prior read must not affect subsequent reads: %+v", ms2)
	}
}

func TestWriteChannelThenFlush(t *testing.T) {
	c := New(Config{Module: testModule()})
	a := telem.NewSeries(types.F64, 0)
	telem.Write(a, 1.0)
	b := telem.NewSeries(types.F64, 0)
	telem.Write(b, 2.0)
	ta := telem.NewSeries(types.I64, 0)
	ta.WriteTimestamp(telem.TimeStamp(100))

	c.WriteChannel(10, a, ta)
	c.WriteChannel(10, b, ta)
	c.WriteChannel(20, b, ta)

	flushed := c.FlushWrites()
	if len(flushed) != 2 {
		t.Fatalf("FlushWrites() returned %d entries, want 2", len(flushed))
	}
	byKey := make(map[uint32]FlushedWrite)
	for _, f := range flushed {
		byKey[f.ChannelKey] = f
	}
	if telem.At[float64](byKey[10].Data, 0) != 2.0 {
		t.Errorf("channel 10's flushed write should be the last value written")
	}
	if again := c.FlushWrites(); again != nil {
		t.Errorf("FlushWrites() after drain = %v, want nil", again)
	}
}

func TestWriteChannelEmitsPairedIndexChannel(t *testing.T) {
	c := New(Config{Module: testModule(), Digests: []ChannelDigest{{Key: 10, IndexKey: 11}}})
	a := telem.NewSeries(types.F64, 0)
	telem.Write(a, 1.0)
	ta := telem.NewSeries(types.I64, 0)
	ta.WriteTimestamp(telem.TimeStamp(100))

	c.WriteChannel(10, a, ta)
	flushed := c.FlushWrites()
	if len(flushed) != 2 {
		t.Fatalf("FlushWrites() returned %d entries, want 2 (data + paired index)", len(flushed))
	}
}

func TestClearReads(t *testing.T) {
	c := New(Config{Module: testModule()})
	s := telem.NewSeries(types.F64, 0)
	telem.Write(s, 1.0)
	c.Ingest(10, s, s)
	c.ClearReads()
	if _, ok := c.ReadChannel(10); ok {
		t.Errorf("ReadChannel after ClearReads should report ok=false")
	}
}

func TestHandleTableStrings(t *testing.T) {
	c := New(Config{})
	if c.StringCreate("") != 0 {
		t.Errorf("StringCreate(\"\") must return the null handle")
	}
	h := c.StringCreate("hello")
	if h == 0 {
		t.Fatalf("StringCreate(hello) returned the null handle")
	}
	got, ok := c.StringGet(h)
	if !ok || got != "hello" {
		t.Errorf("StringGet(h) = %q, %v, want hello, true", got, ok)
	}
	if c.StringCreate("hello") != h {
		t.Errorf("interning must dedupe identical content")
	}
	if c.StringExists(0) {
		t.Errorf("StringExists(0) must be false")
	}
}

func TestHandleTableSeries(t *testing.T) {
	c := New(Config{})
	s := telem.NewSeries(types.F32, 0)
	telem.Write(s, float32(1))
	h := c.SeriesStore(s)
	got, ok := c.SeriesGet(h)
	if !ok || got != s {
		t.Errorf("SeriesGet(h) = %v, %v", got, ok)
	}
	if _, ok := c.SeriesGet(0); ok {
		t.Errorf("SeriesGet(0) must report ok=false")
	}
}

func TestStateVars(t *testing.T) {
	c := New(Config{})
	v := VarLoad(c, "N", "counter", int32(5))
	if v != 5 {
		t.Fatalf("VarLoad first call = %d, want init 5", v)
	}
	VarStore(c, "N", "counter", int32(9))
	if got := VarLoad(c, "N", "counter", int32(5)); got != 9 {
		t.Errorf("VarLoad after store = %d, want 9", got)
	}

	// Disjoint storage for the same var_id on a different node.
	if got := VarLoad(c, "M", "counter", int32(1)); got != 1 {
		t.Errorf("VarLoad(M,counter) = %d, want disjoint init 1", got)
	}
}
