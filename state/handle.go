package state

import "github.com/synnaxlabs/arc-runtime/telem"

// Handle is an opaque 32-bit identifier into the Container's handle table,
// used to pass string and series values to compiled WASM. Zero is the
// null handle; it is never allocated.
type Handle uint32

type handleKind uint8

const (
	handleString handleKind = iota + 1
	handleSeries
)

type handleEntry struct {
	kind   handleKind
	str    string
	series *telem.Series
}

// StringCreate interns s, returning its handle. Interned strings
// deduplicate by content; an empty string always returns the null handle,
// matching the source runtime's choice to treat "" as unrepresented.
func (c *Container) StringCreate(s string) Handle {
	if s == "" {
		return 0
	}
	if h, ok := c.stringIntern[s]; ok {
		return h
	}
	h := Handle(len(c.handleEntries))
	c.handleEntries = append(c.handleEntries, handleEntry{kind: handleString, str: s})
	c.stringIntern[s] = h
	return h
}

// StringGet returns the string stored at h, or ("", false) if h is null,
// out of range, or not a string handle.
func (c *Container) StringGet(h Handle) (string, bool) {
	e, ok := c.entry(h)
	if !ok || e.kind != handleString {
		return "", false
	}
	return e.str, true
}

// StringExists reports whether h is a valid, non-null string handle.
func (c *Container) StringExists(h Handle) bool {
	_, ok := c.StringGet(h)
	return ok
}

// SeriesStore allocates a new handle for s, returning it. Unlike strings,
// series handles are never deduplicated — each store produces a fresh
// entry.
func (c *Container) SeriesStore(s *telem.Series) Handle {
	h := Handle(len(c.handleEntries))
	c.handleEntries = append(c.handleEntries, handleEntry{kind: handleSeries, series: s})
	return h
}

// SeriesGet returns the series stored at h, or (nil, false) if h is null,
// out of range, or not a series handle.
func (c *Container) SeriesGet(h Handle) (*telem.Series, bool) {
	e, ok := c.entry(h)
	if !ok || e.kind != handleSeries {
		return nil, false
	}
	return e.series, true
}

func (c *Container) entry(h Handle) (handleEntry, bool) {
	if h == 0 || int(h) >= len(c.handleEntries) {
		return handleEntry{}, false
	}
	return c.handleEntries[h], true
}
