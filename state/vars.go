package state

// VarLoad returns the current value of the scalar state variable
// (node, varID), installing init as its value on first load.
func VarLoad[T any](c *Container, node, varID string, init T) T {
	key := stateKey{node: node, varID: varID}
	if v, ok := c.stateVars[key]; ok {
		return v.(T)
	}
	c.stateVars[key] = init
	return init
}

// VarStore overwrites the scalar state variable (node, varID) with v.
func VarStore[T any](c *Container, node, varID string, v T) {
	c.stateVars[stateKey{node: node, varID: varID}] = v
}

// VarLoadSeries returns the handle of the series state variable
// (node, varID), installing initHandle as its value on first load.
func (c *Container) VarLoadSeries(node, varID string, initHandle Handle) Handle {
	key := stateKey{node: node, varID: varID}
	if v, ok := c.stateVars[key]; ok {
		return v.(Handle)
	}
	c.stateVars[key] = initHandle
	return initHandle
}

// VarStoreSeries overwrites the series state variable (node, varID) with
// the handle h.
func (c *Container) VarStoreSeries(node, varID string, h Handle) {
	c.stateVars[stateKey{node: node, varID: varID}] = h
}
