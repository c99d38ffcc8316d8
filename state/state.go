// Package state implements the runtime's Container: the single owner of
// every value series, per-node state variable, interned string, and
// handle-table entry (spec.md §4.2), grounded on
// original_source/arc/cpp/runtime/state/state.cpp.
package state

import (
	"github.com/synnaxlabs/arc-runtime/ir"
	"github.com/synnaxlabs/arc-runtime/telem"
	"github.com/synnaxlabs/arc-runtime/types"
)

// Value is one (data, time) series pair: the shape of every node output
// slot, channel read entry, and channel write entry.
type Value struct {
	Data *telem.Series
	Time *telem.Series
}

// valueKey identifies a node output slot.
type valueKey struct {
	node, param string
}

// ChannelDigest pairs a data channel with its companion index (timestamp)
// channel, so that writing the data channel also emits the index channel's
// time series under its own key.
type ChannelDigest struct {
	Key      uint32
	IndexKey uint32
}

// Config configures a Container at construction.
type Config struct {
	Module  *ir.Module
	Digests []ChannelDigest
}

// pendingWrite accumulates one channel's outstanding writes between
// flushes.
type pendingWrite struct {
	data []*telem.Series
	time []*telem.Series
}

// Container owns all persistent runtime memory: the per-node output value
// slots, per-channel read/write buffers, the handle table, and per-node
// state variables. It is created once at module load and lives until
// unload; once New returns, its value slots are never resized or moved.
type Container struct {
	module *ir.Module

	values     []Value
	valueIndex map[valueKey]int

	indexOf map[uint32]uint32 // data channel key -> paired index channel key

	readBuf  map[uint32]*readBuf
	writeBuf map[uint32]*pendingWrite

	handleEntries []handleEntry
	stringIntern  map[string]Handle

	stateVars map[stateKey]any

	// defaults holds the synthetic (__default_<node>, param) slots
	// materialised lazily by the node package for inputs with no incoming
	// edge. Kept separate from values so that New's "never resized" slot
	// array invariant holds regardless of what the node package allocates
	// afterward; map-held pointers stay stable across inserts.
	defaults map[valueKey]*Value
}

// readBuf accumulates the data and time series ingested for one channel
// since the last ClearReads.
type readBuf struct {
	data telem.MultiSeries
	time telem.MultiSeries
}

type stateKey struct {
	node, varID string
}

// New pre-allocates one value slot per IR-declared node output and builds
// the (node,param) -> slot index lookup. Allocation is O(total outputs).
func New(cfg Config) *Container {
	c := &Container{
		module:        cfg.Module,
		valueIndex:    make(map[valueKey]int),
		indexOf:       make(map[uint32]uint32, len(cfg.Digests)),
		readBuf:       make(map[uint32]*readBuf),
		writeBuf:      make(map[uint32]*pendingWrite),
		handleEntries: make([]handleEntry, 1), // index 0 is the reserved null handle
		stringIntern:  make(map[string]Handle),
		stateVars:     make(map[stateKey]any),
		defaults:      make(map[valueKey]*Value),
	}
	for _, d := range cfg.Digests {
		c.indexOf[d.Key] = d.IndexKey
	}
	if cfg.Module == nil {
		return c
	}
	for _, n := range cfg.Module.Nodes {
		for _, out := range n.Outputs {
			key := valueKey{node: n.Key, param: out.Name}
			c.valueIndex[key] = len(c.values)
			c.values = append(c.values, Value{
				Data: telem.NewSeries(out.Type.Kind, 0),
				Time: telem.NewSeries(types.I64, 0),
			})
		}
	}
	return c
}

// ValueIndex returns the slot index for (node, param) and true, or
// (0, false) if no such output is declared.
func (c *Container) ValueIndex(node, param string) (int, bool) {
	idx, ok := c.valueIndex[valueKey{node: node, param: param}]
	return idx, ok
}

// Slot returns a pointer to the value slot at idx. Slots are never
// resized or relocated after New returns, so the returned pointer remains
// valid for the Container's lifetime.
func (c *Container) Slot(idx int) *Value {
	return &c.values[idx]
}

// NumSlots returns the number of pre-allocated output value slots.
func (c *Container) NumSlots() int { return len(c.values) }

// Ingest records one externally-delivered frame into the per-channel read
// buffer. Called only from the runtime thread, either between ticks or
// by WriteChannel during a tick — there are no concurrent readers during
// the call.
func (c *Container) Ingest(channelKey uint32, data, time *telem.Series) {
	rb, ok := c.readBuf[channelKey]
	if !ok {
		rb = &readBuf{}
		c.readBuf[channelKey] = rb
	}
	rb.data.Series = append(rb.data.Series, data)
	rb.time.Series = append(rb.time.Series, time)
}

// ReadChannel returns deep copies of every data series accumulated for key
// since the last ClearReads, decoupling the reader's lifetime from the
// producer's. Values written with WriteChannel during the tick are
// included. ok is false if nothing has been ingested or written for key
// this tick.
func (c *Container) ReadChannel(key uint32) (telem.MultiSeries, bool) {
	rb, ok := c.readBuf[key]
	if !ok || rb.data.IsEmpty() {
		return telem.MultiSeries{}, false
	}
	return rb.data.DeepCopy(), true
}

// ReadChannelTime returns deep copies of the time series paired with
// ReadChannel's data series.
func (c *Container) ReadChannelTime(key uint32) (telem.MultiSeries, bool) {
	rb, ok := c.readBuf[key]
	if !ok || rb.time.IsEmpty() {
		return telem.MultiSeries{}, false
	}
	return rb.time.DeepCopy(), true
}

// EnsureDefault returns the synthetic default value slot for
// (node, param), creating it from data/time on first call. The returned
// pointer is stable for the Container's lifetime.
func (c *Container) EnsureDefault(node, param string, data, time *telem.Series) *Value {
	key := valueKey{node: "__default_" + node, param: param}
	if v, ok := c.defaults[key]; ok {
		return v
	}
	v := &Value{Data: data, Time: time}
	c.defaults[key] = v
	return v
}

// WriteChannel records one output sample pair under key. If key has a
// registered index (timestamp) channel, the time series is also recorded
// under that channel's own key. The write is also visible to ReadChannel
// for key until the next ClearReads.
func (c *Container) WriteChannel(key uint32, data, time *telem.Series) {
	c.appendWrite(key, data, time)
	if data != nil && time != nil {
		c.Ingest(key, data, time)
	}
	if idxKey, ok := c.indexOf[key]; ok {
		c.appendWrite(idxKey, time, time)
	}
}

func (c *Container) appendWrite(key uint32, data, time *telem.Series) {
	pw, ok := c.writeBuf[key]
	if !ok {
		pw = &pendingWrite{}
		c.writeBuf[key] = pw
	}
	pw.data = append(pw.data, data)
	pw.time = append(pw.time, time)
}

// FlushedWrite is one drained output entry: the most recently written data
// and time series for one channel.
type FlushedWrite struct {
	ChannelKey uint32
	Data       *telem.Series
	Time       *telem.Series
}

// FlushWrites drains every pending write, returning one entry per channel
// key with the last value written to it this tick.
func (c *Container) FlushWrites() []FlushedWrite {
	if len(c.writeBuf) == 0 {
		return nil
	}
	out := make([]FlushedWrite, 0, len(c.writeBuf))
	for key, pw := range c.writeBuf {
		n := len(pw.data)
		out = append(out, FlushedWrite{ChannelKey: key, Data: pw.data[n-1], Time: pw.time[n-1]})
	}
	c.writeBuf = make(map[uint32]*pendingWrite)
	return out
}

// ClearReads invalidates the current read buffer at end-of-tick: one tick,
// one snapshot.
func (c *Container) ClearReads() {
	c.readBuf = make(map[uint32]*readBuf)
}
