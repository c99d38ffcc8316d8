package host

import (
	"fmt"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/synnaxlabs/arc-runtime/errors"
	"github.com/synnaxlabs/arc-runtime/state"
	"github.com/synnaxlabs/arc-runtime/telem"
)

// trap converts a recovered panic (or a freshly-detected fault) into a
// wasm_panic, dispatches it to the configured handler, and re-panics with
// the typed error so it propagates out through the WASM call boundary.
func (b *Bindings) trap(op string, cause any) {
	var causeErr error
	switch c := cause.(type) {
	case error:
		causeErr = c
	case string:
		causeErr = fmt.Errorf("%s", c)
	case nil:
	default:
		causeErr = fmt.Errorf("%v", c)
	}
	err := errors.WasmPanic(b.activeKey(), op, causeErr)
	b.log.Warn("wasm trap", zap.String("node", b.activeKey()), zap.Error(err))
	b.onPanic(err)
	panic(err)
}

func seriesCreateEmptyCore[T telem.Numeric](b *Bindings, length uint32) uint32 {
	return uint32(b.container.SeriesStore(telem.NewSeries(telem.KindOf[T](), int(length))))
}

func seriesSetElementCore[T telem.Numeric](b *Bindings, h, index uint32, v T) {
	if h == 0 {
		return
	}
	s, ok := b.container.SeriesGet(state.Handle(h))
	if !ok {
		return
	}
	telem.Set(s, int(index), v)
}

func seriesIndexCore[T telem.Numeric](b *Bindings, h, index uint32) T {
	var zero T
	if h == 0 {
		return zero
	}
	s, ok := b.container.SeriesGet(state.Handle(h))
	if !ok {
		return zero
	}
	return telem.At[T](s, int(index))
}

// SeriesScalarOp resolves h, applies op against v, and stores the result
// under a new handle, or returns 0 if h is the null handle, h does not
// resolve, or op itself returns nil (e.g. division by zero).
func SeriesScalarOp[T telem.Numeric](b *Bindings, h uint32, v T, op func(*telem.Series, T) *telem.Series) uint32 {
	if h == 0 {
		return 0
	}
	s, ok := b.container.SeriesGet(state.Handle(h))
	if !ok {
		return 0
	}
	out := op(s, v)
	if out == nil {
		return 0
	}
	return uint32(b.container.SeriesStore(out))
}

// SeriesSeriesOp resolves h1 and h2 and applies op, returning 0 if either
// handle is null or unresolved, or if op itself returns nil (e.g. a
// zero-valued divisor element), and recovering a length mismatch into a
// wasm_panic rather than letting the underlying Go panic escape
// unconverted.
func SeriesSeriesOp(b *Bindings, h1, h2 uint32, op func(a, c *telem.Series) *telem.Series, name string) (result uint32) {
	if h1 == 0 || h2 == 0 {
		return 0
	}
	a, ok1 := b.container.SeriesGet(state.Handle(h1))
	c, ok2 := b.container.SeriesGet(state.Handle(h2))
	if !ok1 || !ok2 {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			b.trap(name, r)
		}
	}()
	out := op(a, c)
	if out == nil {
		return 0
	}
	return uint32(b.container.SeriesStore(out))
}

func registerSeriesInt32[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(length uint32) uint32 {
		return seriesCreateEmptyCore[T](b, length)
	}).Export("series_create_empty_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(h, index, raw uint32) {
		seriesSetElementCore(b, h, index, narrow32[T](raw))
	}).Export("series_set_element_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(h, index uint32) uint32 {
		return widen32(seriesIndexCore[T](b, h, index))
	}).Export("series_index_" + suffix)

	registerSeriesArith32[T](b, m, suffix)
	registerSeriesCompare32[T](b, m, suffix)
}

func registerSeriesInt64[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	m.NewFunctionBuilder().WithFunc(func(length uint32) uint32 {
		return seriesCreateEmptyCore[T](b, length)
	}).Export("series_create_empty_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(h, index uint32, raw uint64) {
		seriesSetElementCore(b, h, index, narrow64[T](raw))
	}).Export("series_set_element_" + suffix)

	m.NewFunctionBuilder().WithFunc(func(h, index uint32) uint64 {
		return widen64(seriesIndexCore[T](b, h, index))
	}).Export("series_index_" + suffix)

	registerSeriesArith64[T](b, m, suffix)
	registerSeriesCompare64[T](b, m, suffix)
}

// registerSeriesArith32 wires series_element_<op>_<suffix> (both
// orientations) and series_series_<op>_<suffix> for an integer kind
// narrow enough for the i32 wire type.
func registerSeriesArith32[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	scalar := func(name string, op func(*telem.Series, T) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h, raw uint32) uint32 {
			return SeriesScalarOp(b, h, narrow32[T](raw), op)
		}).Export("series_element_" + name + "_" + suffix)
	}
	scalar("add", telem.AddScalar[T])
	scalar("sub", telem.SubScalar[T])
	scalar("mul", telem.MulScalar[T])
	scalar("div", telem.DivScalar[T])
	scalar("mod", telem.ModScalar[T])
	scalar("radd", func(s *telem.Series, v T) *telem.Series { return telem.RAddScalar(v, s) })
	scalar("rsub", func(s *telem.Series, v T) *telem.Series { return telem.RSubScalar(v, s) })
	scalar("rmul", func(s *telem.Series, v T) *telem.Series { return telem.RMulScalar(v, s) })
	scalar("rdiv", func(s *telem.Series, v T) *telem.Series { return telem.RDivScalar(v, s) })
	scalar("rmod", func(s *telem.Series, v T) *telem.Series { return telem.RModScalar(v, s) })

	binary := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_"+name+"_"+suffix)
		}).Export("series_series_" + name + "_" + suffix)
	}
	binary("add", telem.AddSeries[T])
	binary("sub", telem.SubSeries[T])
	binary("mul", telem.MulSeries[T])
	binary("div", telem.DivSeries[T])
	binary("mod", telem.ModSeries[T])
}

func registerSeriesArith64[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	scalar := func(name string, op func(*telem.Series, T) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h uint32, raw uint64) uint32 {
			return SeriesScalarOp(b, h, narrow64[T](raw), op)
		}).Export("series_element_" + name + "_" + suffix)
	}
	scalar("add", telem.AddScalar[T])
	scalar("sub", telem.SubScalar[T])
	scalar("mul", telem.MulScalar[T])
	scalar("div", telem.DivScalar[T])
	scalar("mod", telem.ModScalar[T])
	scalar("radd", func(s *telem.Series, v T) *telem.Series { return telem.RAddScalar(v, s) })
	scalar("rsub", func(s *telem.Series, v T) *telem.Series { return telem.RSubScalar(v, s) })
	scalar("rmul", func(s *telem.Series, v T) *telem.Series { return telem.RMulScalar(v, s) })
	scalar("rdiv", func(s *telem.Series, v T) *telem.Series { return telem.RDivScalar(v, s) })
	scalar("rmod", func(s *telem.Series, v T) *telem.Series { return telem.RModScalar(v, s) })

	binary := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_"+name+"_"+suffix)
		}).Export("series_series_" + name + "_" + suffix)
	}
	binary("add", telem.AddSeries[T])
	binary("sub", telem.SubSeries[T])
	binary("mul", telem.MulSeries[T])
	binary("div", telem.DivSeries[T])
	binary("mod", telem.ModSeries[T])
}

func registerSeriesCompare32[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	scmp := func(name string, op func(*telem.Series, T) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h, raw uint32) uint32 {
			return SeriesScalarOp(b, h, narrow32[T](raw), op)
		}).Export("series_element_cmp_" + name + "_" + suffix)
	}
	scmp("gt", telem.GreaterScalar[T])
	scmp("lt", telem.LessScalar[T])
	scmp("ge", telem.GEScalar[T])
	scmp("le", telem.LEScalar[T])
	scmp("eq", telem.EqScalar[T])
	scmp("ne", telem.NeScalar[T])

	scmp2 := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_cmp_"+name+"_"+suffix)
		}).Export("series_series_cmp_" + name + "_" + suffix)
	}
	scmp2("gt", telem.GreaterSeries[T])
	scmp2("lt", telem.LessSeries[T])
	scmp2("ge", telem.GESeries[T])
	scmp2("le", telem.LESeries[T])
	scmp2("eq", telem.EqSeries[T])
	scmp2("ne", telem.NeSeries[T])
}

func registerSeriesCompare64[T telem.Integer](b *Bindings, m wazero.HostModuleBuilder, suffix string) {
	scmp := func(name string, op func(*telem.Series, T) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h uint32, raw uint64) uint32 {
			return SeriesScalarOp(b, h, narrow64[T](raw), op)
		}).Export("series_element_cmp_" + name + "_" + suffix)
	}
	scmp("gt", telem.GreaterScalar[T])
	scmp("lt", telem.LessScalar[T])
	scmp("ge", telem.GEScalar[T])
	scmp("le", telem.LEScalar[T])
	scmp("eq", telem.EqScalar[T])
	scmp("ne", telem.NeScalar[T])

	scmp2 := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_cmp_"+name+"_"+suffix)
		}).Export("series_series_cmp_" + name + "_" + suffix)
	}
	scmp2("gt", telem.GreaterSeries[T])
	scmp2("lt", telem.LessSeries[T])
	scmp2("ge", telem.GESeries[T])
	scmp2("le", telem.LESeries[T])
	scmp2("eq", telem.EqSeries[T])
	scmp2("ne", telem.NeSeries[T])
}

// registerSeriesFloat32 and registerSeriesFloat64 wire the f32/f64 series
// families: create/set/index
// use the native wazero wire type directly, arithmetic excludes mod (no
// modulo operator over floats in this runtime), and comparisons mirror the
// integer families.
func registerSeriesFloat32(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(length uint32) uint32 {
		return seriesCreateEmptyCore[float32](b, length)
	}).Export("series_create_empty_f32")
	m.NewFunctionBuilder().WithFunc(func(h, index uint32, v float32) {
		seriesSetElementCore(b, h, index, v)
	}).Export("series_set_element_f32")
	m.NewFunctionBuilder().WithFunc(func(h, index uint32) float32 {
		return seriesIndexCore[float32](b, h, index)
	}).Export("series_index_f32")

	scalar := func(name string, op func(*telem.Series, float32) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h uint32, v float32) uint32 {
			return SeriesScalarOp(b, h, v, op)
		}).Export("series_element_" + name + "_f32")
	}
	scalar("add", telem.AddScalar[float32])
	scalar("sub", telem.SubScalar[float32])
	scalar("mul", telem.MulScalar[float32])
	scalar("div", telem.DivScalar[float32])
	scalar("radd", func(s *telem.Series, v float32) *telem.Series { return telem.RAddScalar(v, s) })
	scalar("rsub", func(s *telem.Series, v float32) *telem.Series { return telem.RSubScalar(v, s) })
	scalar("rmul", func(s *telem.Series, v float32) *telem.Series { return telem.RMulScalar(v, s) })
	scalar("rdiv", func(s *telem.Series, v float32) *telem.Series { return telem.RDivScalar(v, s) })

	binary := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_"+name+"_f32")
		}).Export("series_series_" + name + "_f32")
	}
	binary("add", telem.AddSeries[float32])
	binary("sub", telem.SubSeries[float32])
	binary("mul", telem.MulSeries[float32])
	binary("div", telem.DivSeries[float32])

	scmp := func(name string, op func(*telem.Series, float32) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h uint32, v float32) uint32 {
			return SeriesScalarOp(b, h, v, op)
		}).Export("series_element_cmp_" + name + "_f32")
	}
	scmp("gt", telem.GreaterScalar[float32])
	scmp("lt", telem.LessScalar[float32])
	scmp("ge", telem.GEScalar[float32])
	scmp("le", telem.LEScalar[float32])
	scmp("eq", telem.EqScalar[float32])
	scmp("ne", telem.NeScalar[float32])

	scmp2 := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_cmp_"+name+"_f32")
		}).Export("series_series_cmp_" + name + "_f32")
	}
	scmp2("gt", telem.GreaterSeries[float32])
	scmp2("lt", telem.LessSeries[float32])
	scmp2("ge", telem.GESeries[float32])
	scmp2("le", telem.LESeries[float32])
	scmp2("eq", telem.EqSeries[float32])
	scmp2("ne", telem.NeSeries[float32])
}

func registerSeriesFloat64(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(length uint32) uint32 {
		return seriesCreateEmptyCore[float64](b, length)
	}).Export("series_create_empty_f64")
	m.NewFunctionBuilder().WithFunc(func(h, index uint32, v float64) {
		seriesSetElementCore(b, h, index, v)
	}).Export("series_set_element_f64")
	m.NewFunctionBuilder().WithFunc(func(h, index uint32) float64 {
		return seriesIndexCore[float64](b, h, index)
	}).Export("series_index_f64")

	scalar := func(name string, op func(*telem.Series, float64) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h uint32, v float64) uint32 {
			return SeriesScalarOp(b, h, v, op)
		}).Export("series_element_" + name + "_f64")
	}
	scalar("add", telem.AddScalar[float64])
	scalar("sub", telem.SubScalar[float64])
	scalar("mul", telem.MulScalar[float64])
	scalar("div", telem.DivScalar[float64])
	scalar("radd", func(s *telem.Series, v float64) *telem.Series { return telem.RAddScalar(v, s) })
	scalar("rsub", func(s *telem.Series, v float64) *telem.Series { return telem.RSubScalar(v, s) })
	scalar("rmul", func(s *telem.Series, v float64) *telem.Series { return telem.RMulScalar(v, s) })
	scalar("rdiv", func(s *telem.Series, v float64) *telem.Series { return telem.RDivScalar(v, s) })

	binary := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_"+name+"_f64")
		}).Export("series_series_" + name + "_f64")
	}
	binary("add", telem.AddSeries[float64])
	binary("sub", telem.SubSeries[float64])
	binary("mul", telem.MulSeries[float64])
	binary("div", telem.DivSeries[float64])

	scmp := func(name string, op func(*telem.Series, float64) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h uint32, v float64) uint32 {
			return SeriesScalarOp(b, h, v, op)
		}).Export("series_element_cmp_" + name + "_f64")
	}
	scmp("gt", telem.GreaterScalar[float64])
	scmp("lt", telem.LessScalar[float64])
	scmp("ge", telem.GEScalar[float64])
	scmp("le", telem.LEScalar[float64])
	scmp("eq", telem.EqScalar[float64])
	scmp("ne", telem.NeScalar[float64])

	scmp2 := func(name string, op func(a, c *telem.Series) *telem.Series) {
		m.NewFunctionBuilder().WithFunc(func(h1, h2 uint32) uint32 {
			return SeriesSeriesOp(b, h1, h2, op, "series_series_cmp_"+name+"_f64")
		}).Export("series_series_cmp_" + name + "_f64")
	}
	scmp2("gt", telem.GreaterSeries[float64])
	scmp2("lt", telem.LessSeries[float64])
	scmp2("ge", telem.GESeries[float64])
	scmp2("le", telem.LESeries[float64])
	scmp2("eq", telem.EqSeries[float64])
	scmp2("ne", telem.NeSeries[float64])
}

// registerSeriesOps wires family 3 (series ops, both scalar orientations
// and series-series arithmetic/comparison) for every numeric kind.
func registerSeriesOps(b *Bindings, m wazero.HostModuleBuilder) {
	registerSeriesInt32[uint8](b, m, "u8")
	registerSeriesInt32[uint16](b, m, "u16")
	registerSeriesInt32[uint32](b, m, "u32")
	registerSeriesInt64[uint64](b, m, "u64")
	registerSeriesInt32[int8](b, m, "i8")
	registerSeriesInt32[int16](b, m, "i16")
	registerSeriesInt32[int32](b, m, "i32")
	registerSeriesInt64[int64](b, m, "i64")
	registerSeriesFloat32(b, m)
	registerSeriesFloat64(b, m)

	registerSeriesStateScoped(b, m)
}

// registerSeriesStateScoped wires the state-scoped series handle load/store
// mentioned at the end of family 3: a series handle is type-erased, so one
// pair of bindings serves every element kind.
func registerSeriesStateScoped(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(varIDHandle, init uint32) uint32 {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return init
		}
		return uint32(b.container.VarLoadSeries(b.activeKey(), varID, state.Handle(init)))
	}).Export("series_state_load")

	m.NewFunctionBuilder().WithFunc(func(varIDHandle, h uint32) {
		varID, ok := b.container.StringGet(state.Handle(varIDHandle))
		if !ok {
			return
		}
		b.container.VarStoreSeries(b.activeKey(), varID, state.Handle(h))
	}).Export("series_state_store")
}

// registerSeriesUnary wires family 4: negate for signed/float kinds, and
// not_u8 for boolean-coded unsigned 8-bit series.
func registerSeriesUnary(b *Bindings, m wazero.HostModuleBuilder) {
	negate := func(suffix string, fn func(uint32) uint32) {
		m.NewFunctionBuilder().WithFunc(fn).Export("series_negate_" + suffix)
	}
	negateOf := func(h uint32, op func(*telem.Series) *telem.Series) uint32 {
		if h == 0 {
			return 0
		}
		s, ok := b.container.SeriesGet(state.Handle(h))
		if !ok {
			return 0
		}
		return uint32(b.container.SeriesStore(op(s)))
	}
	negate("i8", func(h uint32) uint32 { return negateOf(h, telem.Negate[int8]) })
	negate("i16", func(h uint32) uint32 { return negateOf(h, telem.Negate[int16]) })
	negate("i32", func(h uint32) uint32 { return negateOf(h, telem.Negate[int32]) })
	negate("i64", func(h uint32) uint32 { return negateOf(h, telem.Negate[int64]) })
	negate("f32", func(h uint32) uint32 { return negateOf(h, telem.Negate[float32]) })
	negate("f64", func(h uint32) uint32 { return negateOf(h, telem.Negate[float64]) })

	m.NewFunctionBuilder().WithFunc(func(h uint32) uint32 {
		return negateOf(h, telem.LogicalNot)
	}).Export("series_not_u8")
}

func seriesLenHandle(b *Bindings, h uint32) uint64 {
	if h == 0 {
		return 0
	}
	s, ok := b.container.SeriesGet(state.Handle(h))
	if !ok {
		return 0
	}
	return uint64(s.Len())
}

// registerSeriesLenSlice wires family 6: the single generic series_len and
// series_slice, independent of element kind since handles are type-erased.
func registerSeriesLenSlice(b *Bindings, m wazero.HostModuleBuilder) {
	m.NewFunctionBuilder().WithFunc(func(h uint32) uint64 {
		return seriesLenHandle(b, h)
	}).Export("series_len")

	m.NewFunctionBuilder().WithFunc(func(h, start, end uint32) uint32 {
		if h == 0 {
			return 0
		}
		s, ok := b.container.SeriesGet(state.Handle(h))
		if !ok {
			return 0
		}
		sliced := s.Slice(int(start), int(end))
		if sliced == nil {
			return 0
		}
		return uint32(b.container.SeriesStore(sliced))
	}).Export("series_slice")
}
