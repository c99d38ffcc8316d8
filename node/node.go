// Package node implements the runtime projection of one IR node: the
// temporal alignment of its input edges, its output handles, and the
// per-node channel pass-through, grounded on State::node and
// Node::refresh_inputs in
// original_source/arc/cpp/runtime/state/state.cpp.
package node

import (
	"fmt"
	"math"

	"github.com/synnaxlabs/arc-runtime/ir"
	"github.com/synnaxlabs/arc-runtime/state"
	"github.com/synnaxlabs/arc-runtime/telem"
	"github.com/synnaxlabs/arc-runtime/types"
)

// negInf is the sentinel watermark every accumulator starts at, so that
// any real (non-negative) timestamp is judged to have advanced on first
// observation.
const negInf telem.TimeStamp = math.MinInt64

// accumulator tracks one input's source slot and the watermark gating
// re-execution.
type accumulator struct {
	src           *state.Value
	data, time    *telem.Series
	lastTimestamp telem.TimeStamp
	consumed      bool
}

// Node adapts one IR node's declared inputs and outputs to the aligned,
// zero-copy buffers a compiled stage function reads and writes. It holds
// a borrow of the Container plus indices — never the reverse — so the
// Container can outlive every Node derived from it.
type Node struct {
	container *state.Container
	key       string

	accum       []accumulator
	alignedData []*telem.Series
	alignedTime []*telem.Series
	inputIndex  map[string]int

	outputSlots []*state.Value
	outputIndex map[string]int

	channels ir.Channels
}

// New constructs the Node adapter for the IR node named key, binding each
// declared input to either the edge that targets it or a synthetic
// default slot, and recording each declared output's slot index.
func New(c *state.Container, m *ir.Module, key string) (*Node, error) {
	irNode, ok := m.NodeByKey(key)
	if !ok {
		return nil, fmt.Errorf("arc: node %q not declared in module", key)
	}

	n := &Node{
		container:   c,
		key:         key,
		accum:       make([]accumulator, len(irNode.Inputs)),
		alignedData: make([]*telem.Series, len(irNode.Inputs)),
		alignedTime: make([]*telem.Series, len(irNode.Inputs)),
		inputIndex:  make(map[string]int, len(irNode.Inputs)),
		outputSlots: make([]*state.Value, len(irNode.Outputs)),
		outputIndex: make(map[string]int, len(irNode.Outputs)),
		channels:    irNode.Channels,
	}

	for i, param := range irNode.Inputs {
		n.inputIndex[param.Name] = i
		if edge, ok := m.EdgeInto(key, param.Name); ok {
			srcIdx, ok := c.ValueIndex(edge.Source.NodeKey, edge.Source.Param)
			if !ok {
				return nil, fmt.Errorf("arc: node %q input %q: edge source %s.%s has no output slot",
					key, param.Name, edge.Source.NodeKey, edge.Source.Param)
			}
			n.accum[i] = accumulator{
				src:           c.Slot(srcIdx),
				lastTimestamp: negInf,
				consumed:      true,
			}
			continue
		}

		def := defaultFor(irNode, param.Name)
		data, time := defaultSeries(param.Type.Kind, def)
		slot := c.EnsureDefault(key, param.Name, data, time)
		n.accum[i] = accumulator{
			src:           slot,
			lastTimestamp: negInf,
			consumed:      false,
		}
	}

	for i, param := range irNode.Outputs {
		idx, ok := c.ValueIndex(key, param.Name)
		if !ok {
			return nil, fmt.Errorf("arc: node %q output %q has no pre-allocated slot", key, param.Name)
		}
		n.outputSlots[i] = c.Slot(idx)
		n.outputIndex[param.Name] = i
	}

	return n, nil
}

func defaultFor(n ir.Node, param string) any {
	for _, d := range n.Defaults {
		if d.Param == param {
			return d.Value
		}
	}
	return nil
}

// defaultSeries builds the one-sample (data, time) pair for a synthetic
// default slot: the parameter's default value coerced to its declared
// type, timestamped zero.
func defaultSeries(k types.Kind, v any) (*telem.Series, *telem.Series) {
	data := telem.NewSeries(k, 0)
	time := telem.NewSeries(types.I64, 0)
	time.WriteTimestamp(0)

	if k == types.String {
		s, _ := v.(string)
		data.WriteString(s)
		return data, time
	}

	f, _ := toFloat64(v)
	switch k {
	case types.U8:
		telem.Write(data, uint8(f))
	case types.U16:
		telem.Write(data, uint16(f))
	case types.U32:
		telem.Write(data, uint32(f))
	case types.U64:
		telem.Write(data, uint64(f))
	case types.I8:
		telem.Write(data, int8(f))
	case types.I16:
		telem.Write(data, int16(f))
	case types.I32:
		telem.Write(data, int32(f))
	case types.I64:
		telem.Write(data, int64(f))
	case types.F32:
		telem.Write(data, float32(f))
	case types.F64:
		telem.Write(data, f)
	}
	return data, time
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

// RefreshInputs is the temporal alignment pass. It returns true iff the
// node should execute this tick; on a true return, Input/InputTime for
// every i reflect the freshest source series observed so far.
func (n *Node) RefreshInputs() bool {
	for i := range n.accum {
		a := &n.accum[i]
		if a.src.Data != nil && !a.src.Data.IsEmpty() {
			ts := a.src.Time.AtTimestamp(-1)
			if ts > a.lastTimestamp {
				a.data = a.src.Data
				a.time = a.src.Time
				a.lastTimestamp = ts
				a.consumed = false
			}
		}
		if a.data == nil || a.data.IsEmpty() {
			return false
		}
	}

	anyFresh := false
	for i := range n.accum {
		if !n.accum[i].consumed {
			anyFresh = true
			break
		}
	}
	if !anyFresh {
		return false
	}

	for i := range n.accum {
		n.alignedData[i] = n.accum[i].data
		n.alignedTime[i] = n.accum[i].time
		n.accum[i].consumed = true
	}
	return true
}

// Input returns the aligned data series for input i.
func (n *Node) Input(i int) *telem.Series { return n.alignedData[i] }

// InputTime returns the aligned time series for input i.
func (n *Node) InputTime(i int) *telem.Series { return n.alignedTime[i] }

// InputNamed resolves a declared input parameter name to its index.
func (n *Node) InputNamed(name string) (int, bool) {
	i, ok := n.inputIndex[name]
	return i, ok
}

// Output returns the current data series for output i.
func (n *Node) Output(i int) *telem.Series { return n.outputSlots[i].Data }

// OutputTime returns the current time series for output i.
func (n *Node) OutputTime(i int) *telem.Series { return n.outputSlots[i].Time }

// SetOutput overwrites output i's data and time series; the new series
// become visible to downstream nodes starting with their next
// RefreshInputs call.
func (n *Node) SetOutput(i int, data, time *telem.Series) {
	n.outputSlots[i].Data = data
	n.outputSlots[i].Time = time
}

// IsOutputTruthy reports whether the named output's last sample is
// nonzero. Used by control-flow stages that branch on a prior output.
func (n *Node) IsOutputTruthy(name string) bool {
	i, ok := n.outputIndex[name]
	if !ok {
		return false
	}
	s := n.outputSlots[i].Data
	if s == nil || s.IsEmpty() {
		return false
	}
	switch s.DataType() {
	case types.F32:
		return telem.At[float32](s, -1) != 0
	case types.F64:
		return telem.At[float64](s, -1) != 0
	case types.U8:
		return telem.At[uint8](s, -1) != 0
	case types.U16:
		return telem.At[uint16](s, -1) != 0
	case types.U32:
		return telem.At[uint32](s, -1) != 0
	case types.U64:
		return telem.At[uint64](s, -1) != 0
	case types.I8:
		return telem.At[int8](s, -1) != 0
	case types.I16:
		return telem.At[int16](s, -1) != 0
	case types.I32:
		return telem.At[int32](s, -1) != 0
	case types.I64:
		return telem.At[int64](s, -1) != 0
	default:
		return false
	}
}

// ReadChan reads the channel bound to the node's param entry, returning
// the same shape as state.Container.ReadChannel.
func (n *Node) ReadChan(key uint32) (telem.MultiSeries, bool) {
	return n.container.ReadChannel(key)
}

// WriteChan writes through to the state container, keyed by the logical
// channel id.
func (n *Node) WriteChan(key uint32, data, time *telem.Series) {
	n.container.WriteChannel(key, data, time)
}

// Channels returns the node's declared channel read/write bindings.
func (n *Node) Channels() ir.Channels { return n.channels }

// Key returns the node's IR key.
func (n *Node) Key() string { return n.key }
