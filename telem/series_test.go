package telem

import (
	"testing"

	"github.com/synnaxlabs/arc-runtime/types"
)

func TestSeriesWriteAt(t *testing.T) {
	s := NewSeries(types.F64, 0)
	Write(s, 1.0)
	Write(s, 2.0)
	Write(s, 3.0)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if got := At[float64](s, 0); got != 1.0 {
		t.Errorf("At(0) = %v, want 1.0", got)
	}
	if got := At[float64](s, -1); got != 3.0 {
		t.Errorf("At(-1) = %v, want 3.0 (tail)", got)
	}
}

func TestSeriesResize(t *testing.T) {
	s := NewSeries(types.U32, 2)
	Set(s, 0, uint32(10))
	Set(s, 1, uint32(20))
	s.Resize(4)
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	if got := At[uint32](s, 0); got != 10 {
		t.Errorf("At(0) after resize = %d, want 10", got)
	}
	if got := At[uint32](s, 3); got != 0 {
		t.Errorf("At(3) after grow = %d, want 0 (zero-filled)", got)
	}
}

func TestSeriesDeepCopyIndependence(t *testing.T) {
	s := NewSeries(types.I32, 0)
	Write(s, int32(5))
	cp := s.DeepCopy()
	Write(s, int32(6))
	if cp.Len() != 1 {
		t.Errorf("deep copy should not observe writes to the source after copy, got len %d", cp.Len())
	}
}

func TestSeriesSlice(t *testing.T) {
	s := NewSeries(types.I64, 0)
	for i := int64(0); i < 5; i++ {
		Write(s, i)
	}
	sl := s.Slice(1, 3)
	if sl == nil || sl.Len() != 2 {
		t.Fatalf("Slice(1,3) = %v", sl)
	}
	if At[int64](sl, 0) != 1 {
		t.Errorf("Slice(1,3)[0] = %d, want 1", At[int64](sl, 0))
	}

	tests := []struct{ start, end int }{
		{5, 5}, {0, 6}, {3, 2}, {-1, 2},
	}
	for _, tt := range tests {
		if got := s.Slice(tt.start, tt.end); got != nil {
			t.Errorf("Slice(%d,%d) = %v, want nil", tt.start, tt.end, got)
		}
	}
}

func TestBinaryOpsRequireEqualLength(t *testing.T) {
	a := NewSeries(types.F64, 0)
	Write(a, 1.0)
	Write(a, 2.0)
	b := NewSeries(types.F64, 0)
	Write(b, 1.0)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on length mismatch")
		}
	}()
	AddSeries[float64](a, b)
}

func TestAddSeries(t *testing.T) {
	a := NewSeries(types.F64, 0)
	b := NewSeries(types.F64, 0)
	for i := 0; i < 3; i++ {
		Write(a, float64(i))
		Write(b, float64(i*2))
	}
	sum := AddSeries[float64](a, b)
	for i := 0; i < 3; i++ {
		want := float64(i) + float64(i*2)
		if got := At[float64](sum, i); got != want {
			t.Errorf("sum[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestScalarOps(t *testing.T) {
	s := NewSeries(types.I32, 0)
	Write(s, int32(1))
	Write(s, int32(2))
	Write(s, int32(3))

	mul := MulScalar[int32](s, 2)
	if At[int32](mul, 2) != 6 {
		t.Errorf("MulScalar: mul[2] = %d, want 6", At[int32](mul, 2))
	}

	if DivScalar[int32](s, 0) != nil {
		t.Errorf("DivScalar by zero must return nil")
	}

	rsub := RSubScalar[int32](10, s)
	if At[int32](rsub, 0) != 9 {
		t.Errorf("RSubScalar: rsub[0] = %d, want 9", At[int32](rsub, 0))
	}
}

func TestModOps(t *testing.T) {
	a := NewSeries(types.I32, 0)
	b := NewSeries(types.I32, 0)
	for _, v := range []int32{5, 7, 9} {
		Write(a, v)
	}
	for _, v := range []int32{2, 2, 2} {
		Write(b, v)
	}
	mod := ModSeries[int32](a, b)
	want := []int32{1, 1, 1}
	for i, w := range want {
		if got := At[int32](mod, i); got != w {
			t.Errorf("ModSeries[%d] = %d, want %d", i, got, w)
		}
	}

	if ModScalar[int32](a, 0) != nil {
		t.Errorf("ModScalar by zero must return nil")
	}
	modScalar := ModScalar[int32](a, 3)
	if At[int32](modScalar, 0) != 2 {
		t.Errorf("ModScalar: got %d, want 2", At[int32](modScalar, 0))
	}

	rmod := RModScalar[int32](10, a)
	if At[int32](rmod, 0) != 0 {
		t.Errorf("RModScalar: rmod[0] = %d, want 0", At[int32](rmod, 0))
	}
}

func TestDivSeriesModSeriesZeroDivisor(t *testing.T) {
	a := NewSeries(types.I32, 0)
	for _, v := range []int32{5, 7, 9} {
		Write(a, v)
	}
	b := NewSeries(types.I32, 0)
	for _, v := range []int32{2, 0, 2} {
		Write(b, v)
	}

	if DivSeries[int32](a, b) != nil {
		t.Errorf("DivSeries with a zero divisor element must return nil")
	}
	if ModSeries[int32](a, b) != nil {
		t.Errorf("ModSeries with a zero divisor element must return nil")
	}
}

func TestNegateAndLogicalNot(t *testing.T) {
	s := NewSeries(types.F32, 0)
	Write(s, float32(1))
	Write(s, float32(-2))
	neg := Negate[float32](s)
	if At[float32](neg, 0) != -1 || At[float32](neg, 1) != 2 {
		t.Errorf("Negate produced %v, %v", At[float32](neg, 0), At[float32](neg, 1))
	}

	b := NewSeries(types.U8, 0)
	for _, v := range []uint8{0, 1, 2, 0} {
		Write(b, v)
	}
	not := LogicalNot(b)
	want := []uint8{1, 0, 0, 1}
	for i, w := range want {
		if got := At[uint8](not, i); got != w {
			t.Errorf("LogicalNot[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestCompareSeriesAndScalar(t *testing.T) {
	a := NewSeries(types.I32, 0)
	b := NewSeries(types.I32, 0)
	for i := 0; i < 3; i++ {
		Write(a, int32(i))
		Write(b, int32(1))
	}
	gt := GreaterSeries[int32](a, b)
	want := []uint8{0, 0, 1}
	for i, w := range want {
		if got := At[uint8](gt, i); got != w {
			t.Errorf("GreaterSeries[%d] = %d, want %d", i, got, w)
		}
	}

	eqScalar := EqScalar[int32](a, 1)
	if At[uint8](eqScalar, 1) != 1 || At[uint8](eqScalar, 0) != 0 {
		t.Errorf("EqScalar produced unexpected results")
	}
}

func TestMultiSeriesDeepCopy(t *testing.T) {
	s1 := NewSeries(types.F64, 0)
	Write(s1, 1.0)
	ms := MultiSeries{Series: []*Series{s1}}
	cp := ms.DeepCopy()
	Write(s1, 2.0)
	if cp.Series[0].Len() != 1 {
		t.Errorf("MultiSeries.DeepCopy must not observe later writes")
	}
	if ms.IsEmpty() {
		t.Errorf("ms should not be empty")
	}
	if (MultiSeries{}).IsEmpty() != true {
		t.Errorf("empty MultiSeries must report IsEmpty")
	}
}

func TestStringSeries(t *testing.T) {
	s := NewSeries(types.String, 0)
	s.WriteString("a")
	s.WriteString("b")
	if s.AtString(-1) != "b" {
		t.Errorf("AtString(-1) = %q, want b", s.AtString(-1))
	}
	cp := s.DeepCopy()
	s.WriteString("c")
	if cp.Len() != 2 {
		t.Errorf("string DeepCopy must not observe later writes")
	}
}
