package telem

import (
	"unsafe"

	"github.com/synnaxlabs/arc-runtime/types"
)

// TimeStamp is nanoseconds since the Unix epoch, the runtime's sole time
// representation (spec.md §9: no distinct TimeStamp/TimeSpan scalar kind).
type TimeStamp int64

// Now returns the current wall-clock time as a TimeStamp.
var Now = func() TimeStamp { return TimeStamp(nowNanos()) }

// Numeric is the set of scalar kinds a Series may hold fixed-width
// elements of.
type Numeric interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Signed is the subset of Numeric that supports negation.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Integer is the subset of Numeric that supports the % operator.
type Integer interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// Series is a typed, contiguous sample buffer. Numeric kinds back their
// samples with a raw byte buffer reinterpreted via unsafe casts (no
// per-element allocation on read/write); the String kind backs samples
// with a Go string slice.
type Series struct {
	dtype types.Kind
	buf   []byte   // backing storage for numeric kinds
	strs  []string // backing storage for types.String
}

// KindOf returns the types.Kind corresponding to the numeric type
// parameter T, the inverse of dispatching on Series.DataType.
func KindOf[T Numeric]() types.Kind {
	switch any(*new(T)).(type) {
	case uint8:
		return types.U8
	case uint16:
		return types.U16
	case uint32:
		return types.U32
	case uint64:
		return types.U64
	case int8:
		return types.I8
	case int16:
		return types.I16
	case int32:
		return types.I32
	case int64:
		return types.I64
	case float32:
		return types.F32
	case float64:
		return types.F64
	default:
		return types.Invalid
	}
}

// NewSeries allocates a Series of the given data type and length, samples
// zero-valued.
func NewSeries(dtype types.Kind, length int) *Series {
	s := &Series{dtype: dtype}
	if dtype == types.String {
		s.strs = make([]string, length)
		return s
	}
	s.buf = make([]byte, length*dtype.Density())
	return s
}

// DataType returns the element kind of the series.
func (s *Series) DataType() types.Kind { return s.dtype }

// Len returns the number of samples in the series.
func (s *Series) Len() int {
	if s.dtype == types.String {
		return len(s.strs)
	}
	d := s.dtype.Density()
	if d == 0 {
		return 0
	}
	return len(s.buf) / d
}

// IsEmpty reports whether the series holds zero samples.
func (s *Series) IsEmpty() bool { return s.Len() == 0 }

// Resize grows or truncates the series to exactly n samples, zero-filling
// any newly added tail.
func (s *Series) Resize(n int) {
	if s.dtype == types.String {
		grown := make([]string, n)
		copy(grown, s.strs)
		s.strs = grown
		return
	}
	d := s.dtype.Density()
	grown := make([]byte, n*d)
	copy(grown, s.buf)
	s.buf = grown
}

// resolveIndex converts a possibly-negative (from-the-tail) index into an
// absolute one.
func resolveIndex(i, length int) int {
	if i < 0 {
		return length + i
	}
	return i
}

// At returns the sample at index i (negative indices count from the
// tail), reinterpreting the series' byte buffer as []T. Out-of-range
// access panics, matching the C++ original's unchecked at<T>.
func At[T Numeric](s *Series, i int) T {
	idx := resolveIndex(i, s.Len())
	sz := int(unsafe.Sizeof(*new(T)))
	off := idx * sz
	return *(*T)(unsafe.Pointer(&s.buf[off]))
}

// AtString returns the string sample at index i (negative indices count
// from the tail).
func (s *Series) AtString(i int) string {
	idx := resolveIndex(i, len(s.strs))
	return s.strs[idx]
}

// Set overwrites the sample at absolute index i.
func Set[T Numeric](s *Series, i int, v T) {
	sz := int(unsafe.Sizeof(v))
	off := i * sz
	*(*T)(unsafe.Pointer(&s.buf[off])) = v
}

// Write appends one sample to the series.
func Write[T Numeric](s *Series, v T) {
	n := s.Len()
	s.Resize(n + 1)
	Set(s, n, v)
}

// WriteString appends one string sample.
func (s *Series) WriteString(v string) {
	s.strs = append(s.strs, v)
}

// WriteTimestamp appends a TimeStamp sample to a canonical timestamp
// series (I64).
func (s *Series) WriteTimestamp(ts TimeStamp) {
	Write(s, int64(ts))
}

// AtTimestamp returns the TimeStamp sample at index i.
func (s *Series) AtTimestamp(i int) TimeStamp {
	return TimeStamp(At[int64](s, i))
}

// DeepCopy returns a Series with independently-owned backing storage.
func (s *Series) DeepCopy() *Series {
	cp := &Series{dtype: s.dtype}
	if s.dtype == types.String {
		cp.strs = append([]string(nil), s.strs...)
		return cp
	}
	cp.buf = append([]byte(nil), s.buf...)
	return cp
}

// Slice returns a new Series copying the half-open sample range [start, end),
// or nil if the range is invalid (start < 0, end > len, or start >= end).
func (s *Series) Slice(start, end int) *Series {
	n := s.Len()
	if start < 0 || end > n || start >= end {
		return nil
	}
	out := &Series{dtype: s.dtype}
	if s.dtype == types.String {
		out.strs = append([]string(nil), s.strs[start:end]...)
		return out
	}
	d := s.dtype.Density()
	out.buf = append([]byte(nil), s.buf[start*d:end*d]...)
	return out
}

// binaryOp applies op element-wise to a and b, which must have equal
// length; it panics otherwise (the runtime surfaces this as a
// wasm_panic — see host.SeriesSeriesOp).
func binaryOp[T Numeric](a, b *Series, op func(T, T) T) *Series {
	if a.Len() != b.Len() {
		panic("arc: series length mismatch in binary series operation")
	}
	out := NewSeries(a.dtype, a.Len())
	for i := 0; i < a.Len(); i++ {
		Set(out, i, op(At[T](a, i), At[T](b, i)))
	}
	return out
}

// scalarOp applies op(element, scalar) element-wise, producing a new
// series of the same type and length.
func scalarOp[T Numeric](s *Series, v T, op func(T, T) T) *Series {
	out := NewSeries(s.dtype, s.Len())
	for i := 0; i < s.Len(); i++ {
		Set(out, i, op(At[T](s, i), v))
	}
	return out
}

// AddSeries returns a + b element-wise.
func AddSeries[T Numeric](a, b *Series) *Series { return binaryOp(a, b, func(x, y T) T { return x + y }) }

// SubSeries returns a - b element-wise.
func SubSeries[T Numeric](a, b *Series) *Series { return binaryOp(a, b, func(x, y T) T { return x - y }) }

// MulSeries returns a * b element-wise.
func MulSeries[T Numeric](a, b *Series) *Series { return binaryOp(a, b, func(x, y T) T { return x * y }) }

// DivSeries returns a / b element-wise, or nil if any element of b is the
// zero value (mirroring DivScalar's zero-divisor guard).
func DivSeries[T Numeric](a, b *Series) *Series {
	if a.Len() == b.Len() && seriesHasZero[T](b) {
		return nil
	}
	return binaryOp(a, b, func(x, y T) T { return x / y })
}

// ModSeries returns a % b element-wise, or nil if any element of b is the
// zero value (mirroring ModScalar's zero-divisor guard).
func ModSeries[T Integer](a, b *Series) *Series {
	if a.Len() == b.Len() && seriesHasZero[T](b) {
		return nil
	}
	return binaryOp(a, b, func(x, y T) T { return x % y })
}

// seriesHasZero reports whether s contains any element equal to T's zero
// value, scanning s.Len() elements. DivSeries and ModSeries consult it only
// when both operands have equal length, so a length mismatch still reaches
// binaryOp's panic.
func seriesHasZero[T Numeric](s *Series) bool {
	var zero T
	for i := 0; i < s.Len(); i++ {
		if At[T](s, i) == zero {
			return true
		}
	}
	return false
}

// AddScalar returns s[i]+v for every i.
func AddScalar[T Numeric](s *Series, v T) *Series { return scalarOp(s, v, func(x, y T) T { return x + y }) }

// SubScalar returns s[i]-v for every i.
func SubScalar[T Numeric](s *Series, v T) *Series { return scalarOp(s, v, func(x, y T) T { return x - y }) }

// MulScalar returns s[i]*v for every i.
func MulScalar[T Numeric](s *Series, v T) *Series { return scalarOp(s, v, func(x, y T) T { return x * y }) }

// DivScalar returns s[i]/v for every i, or nil if v is the zero value.
func DivScalar[T Numeric](s *Series, v T) *Series {
	var zero T
	if v == zero {
		return nil
	}
	return scalarOp(s, v, func(x, y T) T { return x / y })
}

// ModScalar returns s[i]%v for every i, or nil if v is the zero value.
func ModScalar[T Integer](s *Series, v T) *Series {
	var zero T
	if v == zero {
		return nil
	}
	return scalarOp(s, v, func(x, y T) T { return x % y })
}

// RModScalar returns v%s[i] for every i (operand-swapped mod), or nil if
// any element is the zero value.
func RModScalar[T Integer](v T, s *Series) *Series {
	out := NewSeries(s.dtype, s.Len())
	var zero T
	for i := 0; i < s.Len(); i++ {
		d := At[T](s, i)
		if d == zero {
			return nil
		}
		Set(out, i, v%d)
	}
	return out
}

// RSubScalar returns v-s[i] for every i (operand-swapped subtraction).
func RSubScalar[T Numeric](v T, s *Series) *Series { return scalarOp(s, v, func(x, y T) T { return y - x }) }

// RDivScalar returns v/s[i] for every i (operand-swapped division).
func RDivScalar[T Numeric](v T, s *Series) *Series { return scalarOp(s, v, func(x, y T) T { return y / x }) }

// RAddScalar returns v+s[i] for every i.
func RAddScalar[T Numeric](v T, s *Series) *Series { return scalarOp(s, v, func(x, y T) T { return y + x }) }

// RMulScalar returns v*s[i] for every i.
func RMulScalar[T Numeric](v T, s *Series) *Series { return scalarOp(s, v, func(x, y T) T { return y * x }) }

// Negate returns -s[i] for every i. Signed types only.
func Negate[T Signed](s *Series) *Series {
	out := NewSeries(s.dtype, s.Len())
	for i := 0; i < s.Len(); i++ {
		Set(out, i, -At[T](s, i))
	}
	return out
}

// LogicalNot returns the boolean negation of a u8-coded series: 0 -> 1,
// anything else -> 0.
func LogicalNot(s *Series) *Series {
	out := NewSeries(types.U8, s.Len())
	for i := 0; i < s.Len(); i++ {
		v := At[uint8](s, i)
		if v == 0 {
			Set(out, i, uint8(1))
		} else {
			Set(out, i, uint8(0))
		}
	}
	return out
}

// compareSeries applies a comparison element-wise across a and b (equal
// length required) and returns a u8-coded boolean series.
func compareSeries[T Numeric](a, b *Series, cmp func(T, T) bool) *Series {
	if a.Len() != b.Len() {
		panic("arc: series length mismatch in binary series comparison")
	}
	out := NewSeries(types.U8, a.Len())
	for i := 0; i < a.Len(); i++ {
		if cmp(At[T](a, i), At[T](b, i)) {
			Set(out, i, uint8(1))
		} else {
			Set(out, i, uint8(0))
		}
	}
	return out
}

// compareScalar applies a comparison against a scalar, returning a
// u8-coded boolean series.
func compareScalar[T Numeric](s *Series, v T, cmp func(T, T) bool) *Series {
	out := NewSeries(types.U8, s.Len())
	for i := 0; i < s.Len(); i++ {
		if cmp(At[T](s, i), v) {
			Set(out, i, uint8(1))
		} else {
			Set(out, i, uint8(0))
		}
	}
	return out
}

// GreaterSeries, LessSeries, ... provide the series-series comparison
// family used by the host's registerSeriesCompare32/registerSeriesCompare64
// bindings.
func GreaterSeries[T Numeric](a, b *Series) *Series { return compareSeries(a, b, func(x, y T) bool { return x > y }) }
func LessSeries[T Numeric](a, b *Series) *Series    { return compareSeries(a, b, func(x, y T) bool { return x < y }) }
func GESeries[T Numeric](a, b *Series) *Series      { return compareSeries(a, b, func(x, y T) bool { return x >= y }) }
func LESeries[T Numeric](a, b *Series) *Series      { return compareSeries(a, b, func(x, y T) bool { return x <= y }) }
func EqSeries[T Numeric](a, b *Series) *Series      { return compareSeries(a, b, func(x, y T) bool { return x == y }) }
func NeSeries[T Numeric](a, b *Series) *Series      { return compareSeries(a, b, func(x, y T) bool { return x != y }) }

// GreaterScalar, ... provide the series-scalar comparison family.
func GreaterScalar[T Numeric](s *Series, v T) *Series { return compareScalar(s, v, func(x, y T) bool { return x > y }) }
func LessScalar[T Numeric](s *Series, v T) *Series    { return compareScalar(s, v, func(x, y T) bool { return x < y }) }
func GEScalar[T Numeric](s *Series, v T) *Series      { return compareScalar(s, v, func(x, y T) bool { return x >= y }) }
func LEScalar[T Numeric](s *Series, v T) *Series      { return compareScalar(s, v, func(x, y T) bool { return x <= y }) }
func EqScalar[T Numeric](s *Series, v T) *Series      { return compareScalar(s, v, func(x, y T) bool { return x == y }) }
func NeScalar[T Numeric](s *Series, v T) *Series      { return compareScalar(s, v, func(x, y T) bool { return x != y }) }

// MultiSeries is an ordered run of Series, the shape returned by a
// channel read (one accumulated-frame Series per ingest).
type MultiSeries struct {
	Series []*Series
}

// IsEmpty reports whether the multi-series has no constituent series.
func (m MultiSeries) IsEmpty() bool { return len(m.Series) == 0 }

// DeepCopy returns a MultiSeries whose constituent series are independent
// copies, decoupling the reader's lifetime from the producer's.
func (m MultiSeries) DeepCopy() MultiSeries {
	out := MultiSeries{Series: make([]*Series, len(m.Series))}
	for i, s := range m.Series {
		out.Series[i] = s.DeepCopy()
	}
	return out
}

// Last returns the most recently appended series, or nil if empty.
func (m MultiSeries) Last() *Series {
	if len(m.Series) == 0 {
		return nil
	}
	return m.Series[len(m.Series)-1]
}
