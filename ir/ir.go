// Package ir defines the wire schema of a compiled module: the functions,
// nodes, edges, and topological strata produced by the Arc compiler and
// consumed by the runtime core at load time (spec.md §6).
package ir

import "github.com/synnaxlabs/arc-runtime/types"

// Handle identifies one parameter of one node: (node_key, param_name).
type Handle struct {
	NodeKey string `json:"node_key"`
	Param   string `json:"param"`
}

// Param is one input or output parameter of a Function signature.
type Param struct {
	Name string     `json:"name"`
	Type types.Type `json:"type"`
}

// Function is a stage signature: a name plus ordered input/output
// parameter lists. A module may declare the same Function signature for
// many Nodes.
type Function struct {
	Name    string  `json:"name"`
	Inputs  []Param `json:"inputs"`
	Outputs []Param `json:"outputs"`
}

// Channels records the channel bindings of one Node: which input
// parameters read from which channel keys, and which output parameters
// write to which channel keys.
type Channels struct {
	Read  map[uint32]string `json:"read"`  // channel_key -> param name
	Write map[string]uint32 `json:"write"` // param name -> channel_key
}

// InputDefault carries the literal default value for an input parameter
// with no incoming edge, as a JSON scalar (the node constructor coerces it
// to the parameter's declared type).
type InputDefault struct {
	Param string `json:"param"`
	Value any    `json:"value"`
}

// Node is the runtime projection of one compiled stage instance: the
// compiled Function it calls, its ordered input/output parameter lists
// (matching the Function signature), its channel bindings, and the
// literal defaults for inputs with no incoming edge.
type Node struct {
	Key      string         `json:"key"`
	Type     string         `json:"type"` // Function.Name
	Inputs   []Param        `json:"inputs"`
	Outputs  []Param        `json:"outputs"`
	Channels Channels       `json:"channels"`
	Defaults []InputDefault `json:"defaults"`
}

// Edge is a directed dataflow connection between one node's output
// parameter and another node's input parameter. Edges are established at
// module load and never change during execution.
type Edge struct {
	Source Handle `json:"source"`
	Target Handle `json:"target"`
}

// Module is the complete compiled dataflow graph: every Function
// signature referenced by a Node, every Node instance, every Edge between
// them, and the topological strata the scheduler walks one layer at a
// time.
type Module struct {
	Functions []Function `json:"functions"`
	Nodes     []Node     `json:"nodes"`
	Edges     []Edge     `json:"edges"`
	// Strata is a list of topological layers; nodes within a layer have no
	// dependency on one another and execute in declared order.
	Strata [][]string `json:"strata"`
}

// FunctionByName returns the Function signature named name, or false if no
// such function is declared.
func (m *Module) FunctionByName(name string) (Function, bool) {
	for _, f := range m.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return Function{}, false
}

// NodeByKey returns the Node declared with the given key, or false if
// none exists.
func (m *Module) NodeByKey(key string) (Node, bool) {
	for _, n := range m.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

// EdgeInto returns the Edge whose target is (nodeKey, param), and true if
// one exists. Every input either has an edge into it or a synthetic
// default, never both, never neither.
func (m *Module) EdgeInto(nodeKey, param string) (Edge, bool) {
	for _, e := range m.Edges {
		if e.Target.NodeKey == nodeKey && e.Target.Param == param {
			return e, true
		}
	}
	return Edge{}, false
}
