package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Typed catalog of device configuration parameters.
 *
 * Description:	Every parameter is a fixed byte/bit position in device
 *		memory, with a declared encoding. Unlike the original's
 *		class hierarchy with runtime polymorphism, each variant
 *		here is its own small type implementing the Parameter
 *		interface; the registry just holds a slice of them in
 *		declaration order.
 *
 *------------------------------------------------------------------*/

import "fmt"

// Parameter is a typed, named field at a fixed byte/bit offset in
// device memory. Implementations are process-global constants (see
// the registry below); per-request state (decoded value, old bytes)
// is carried separately in an Instance.
type Parameter interface {
	Name() string
	Description() string
	Offset() int
	Len() int
	Writable() bool
	Immutable() bool

	// Range is the byte range this parameter occupies.
	Range() Range

	// Decode interprets data (exactly Len() bytes, sliced from a
	// Response at this parameter's Range) as an Instance. diag
	// receives advisories for malformed device data (e.g. an enum
	// byte that doesn't correspond to any named member).
	Decode(data []byte, diag Diagnostics) Instance

	// Parse builds an Instance from a textual value, for the
	// "parameter set" command. The Instance's Value is nil if text
	// could not be parsed as this parameter's type; diag receives an
	// advisory describing why.
	Parse(text string, diag Diagnostics) Instance

	// Encode renders v (as produced by Decode or Parse) back to the
	// Len() bytes that should be written to the device. old, if
	// non-nil, is the current on-device bytes for this parameter's
	// range and must be used as the read-modify-write background for
	// sub-byte fields; whole-byte parameters ignore it.
	Encode(v any, old []byte, diag Diagnostics) []byte

	// Format renders a decoded/parsed value as the CLI displays it.
	Format(v any) string
}

// Instance is a parameter paired with a decoded or user-supplied
// value. Unlike Parameter, instances are not shared across commands.
type Instance struct {
	Param Parameter
	Value any // nil means "unset"
}

// Text renders the instance's value the way the CLI prints it; empty
// string for an unset value.
func (i Instance) Text() string {
	if i.Value == nil {
		return ""
	}
	return i.Param.Format(i.Value)
}

// baseParameter factors the fields every variant shares.
type baseParameter struct {
	name        string
	description string
	offset      int
	writable    bool
	immutable   bool
}

func (b baseParameter) Name() string        { return b.name }
func (b baseParameter) Description() string { return b.description }
func (b baseParameter) Offset() int         { return b.offset }
func (b baseParameter) Writable() bool      { return b.writable }
func (b baseParameter) Immutable() bool     { return b.immutable }

// Registry is a process-wide, order-preserving, immutable table of
// parameters.
type Registry struct {
	params []Parameter
}

// NewRegistry returns the authoritative parameter catalog (spec.md §4.4/§6).
func NewRegistry() *Registry {
	return &Registry{params: catalog}
}

// All iterates the registry in declaration order.
func (r *Registry) All() []Parameter {
	return r.params
}

// Lookup finds a parameter by name.
func (r *Registry) Lookup(name string) (Parameter, error) {
	for _, p := range r.params {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, name)
}

func parameterRange(p Parameter) Range {
	return Range{Start: p.Offset(), Len: p.Len()}
}
