package netcdf

// Attribute is a named metadata value attached to a group (global
// scope) or to one variable. The value is one of the atomic kinds, a
// string, or a slice thereof, decoded from the engine when the owning
// scope is materialized or written.
type Attribute struct {
	name  string
	value any
	kind  Kind
}

// Name returns the attribute's name.
func (a *Attribute) Name() string { return a.name }

// Value returns the decoded value: a Go scalar or slice of one of the
// atomic kinds, or a string.
func (a *Attribute) Value() any { return a.value }

// Kind returns the atomic kind the value stores as.
func (a *Attribute) Kind() Kind { return a.kind }
