package types

import (
	"encoding/json"
	"testing"
)

func TestKindDensity(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{U8, 1}, {I8, 1},
		{U16, 2}, {I16, 2},
		{U32, 4}, {I32, 4}, {F32, 4},
		{U64, 8}, {I64, 8}, {F64, 8},
		{Invalid, 0}, {String, 0}, {Chan, 0}, {Series, 0},
	}
	for _, tt := range tests {
		if got := tt.kind.Density(); got != tt.want {
			t.Errorf("%s.Density() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestTypeDensity(t *testing.T) {
	for _, k := range []Kind{U8, U16, U32, U64, I8, I16, I32, I64, F32, F64} {
		ty := New(k)
		if ty.Density() != k.Density() {
			t.Errorf("Type(%s).Density() mismatch", k)
		}
	}
	for _, k := range []Kind{Invalid, String, Chan, Series} {
		ty := New(k)
		if ty.Density() != 0 {
			t.Errorf("Type(%s).Density() = %d, want 0", k, ty.Density())
		}
	}
}

func TestTimestampUnit(t *testing.T) {
	if !Timestamp.IsTimestamp() {
		t.Fatalf("Timestamp type must self-report IsTimestamp")
	}
	if Timestamp.Kind != I64 {
		t.Errorf("Timestamp.Kind = %s, want i64", Timestamp.Kind)
	}
	notTime := NewUnit(I64, Unit{Name: "rpm", Scale: 1})
	if notTime.IsTimestamp() {
		t.Errorf("rpm-named i64 must not be a timestamp")
	}
	notI64 := NewUnit(F64, NanosecondUnit)
	if notI64.IsTimestamp() {
		t.Errorf("f64 must never be a timestamp regardless of unit")
	}
}

func TestWireRoundTrip(t *testing.T) {
	tests := []Type{
		New(Invalid),
		New(U8),
		NewUnit(F64, Unit{Dimensions: Dimensions{Temperature: 1}, Scale: 1, Name: "K"}),
		NewContainer(Series, NewUnit(F32, Unit{Name: "psi", Scale: 6894.76})),
		NewContainer(Chan, New(String)),
		Timestamp,
	}
	for _, ty := range tests {
		wire := ty.ToWire()
		buf, err := json.Marshal(wire)
		if err != nil {
			t.Fatalf("marshal %v: %v", ty, err)
		}
		var decoded WireType
		if err := json.Unmarshal(buf, &decoded); err != nil {
			t.Fatalf("unmarshal %v: %v", ty, err)
		}
		back := decoded.FromWire()
		if !back.Equal(ty) {
			t.Errorf("round trip mismatch: got %+v, want %+v", back, ty)
		}
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		ty   Type
		want string
	}{
		{New(Invalid), "invalid"},
		{New(String), "str"},
		{NewContainer(Chan, New(F32)), "chan f32"},
		{NewContainer(Series, New(U8)), "series u8"},
		{NewContainer(Chan, Type{Kind: Chan}), "chan chan <invalid>"},
		{NewUnit(I32, Unit{Name: "rpm"}), "i32 rpm"},
		{New(F64), "f64"},
	}
	for _, tt := range tests {
		if got := tt.ty.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDimensionsIsZero(t *testing.T) {
	if !(Dimensions{}).IsZero() {
		t.Errorf("zero-value Dimensions must be IsZero")
	}
	if (Dimensions{Length: 1}).IsZero() {
		t.Errorf("non-zero Dimensions must not be IsZero")
	}
}
