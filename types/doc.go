// Package types implements the Arc runtime's scalar type system: Kind, the
// dimensioned Unit metadata carried by numeric types, and the composite
// Type (which adds chan/series element nesting on top of Kind+Unit). Type
// round-trips through WireType, a JSON-tagged wire schema standing in for
// the protobuf schema the original C++ runtime serializes through.
package types
