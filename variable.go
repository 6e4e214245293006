package netcdf

import (
	"github.com/apexys/netcdf/engine"
)

// Variable is a named, typed array whose shape is an ordered list of
// dimension references. The dimension order is the array's shape and
// is preserved exactly as the engine reports it.
type Variable struct {
	group *Group
	name  string
	id    engine.VarID
	typ   engine.TypeID
	kind  Kind
	dims  []*Dimension
	atts  []*Attribute
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

// Kind returns the variable's type tag.
func (v *Variable) Kind() Kind { return v.kind }

// Group returns the group the variable is defined in.
func (v *Variable) Group() *Group { return v.group }

// Dimensions returns the ordered dimension list defining the
// variable's shape.
func (v *Variable) Dimensions() []*Dimension {
	out := make([]*Dimension, len(v.dims))
	copy(out, v.dims)
	return out
}

// Len returns the total element count of the variable at this moment;
// growable dimensions contribute their current length.
func (v *Variable) Len() uint64 {
	n := uint64(1)
	for _, d := range v.dims {
		n *= d.Len()
	}
	return n
}

// Attribute returns the named attribute of this variable, or nil.
func (v *Variable) Attribute(name string) *Attribute {
	f := v.group.file
	f.mu.RLock()
	defer f.mu.RUnlock()
	return findAttribute(v.atts, name)
}

// Attributes returns the variable's attributes in native enumeration
// order.
func (v *Variable) Attributes() []*Attribute {
	f := v.group.file
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*Attribute, len(v.atts))
	copy(out, v.atts)
	return out
}

// Get reads a hyperslab of the variable's payload: start and count
// must have one entry per dimension. The value is a Go slice of the
// variable's kind.
func (v *Variable) Get(start, count []uint64) (any, error) {
	f := v.group.file
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.check("Variable.Get"); err != nil {
		return nil, err
	}
	var data any
	err := engine.With(func() error {
		var err error
		data, err = f.eng.GetVara(v.group.id, v.id, start, count)
		return err
	})
	return data, err
}

// VariableMut is the exclusive view of a Variable, required for
// payload writes and attribute definition. It is reachable only
// through a mutable group view.
type VariableMut struct {
	*Variable
}

// Put writes a hyperslab. Writes past the end of a growable dimension
// extend it; writes past a fixed dimension's bound fail.
func (v *VariableMut) Put(start, count []uint64, data any) error {
	f := v.group.file
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkWritable("Variable.Put"); err != nil {
		return err
	}
	return engine.With(func() error {
		return f.eng.PutVara(v.group.id, v.id, start, count, data)
	})
}

// AddAttribute writes an attribute on the variable and mirrors it in
// the in-memory list. Re-putting an existing name updates it in
// place; whether the type may change is engine policy.
func (v *VariableMut) AddAttribute(name string, value any) (*Attribute, error) {
	const op = "Variable.AddAttribute"
	if err := validateName(op, name); err != nil {
		return nil, err
	}
	f := v.group.file
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkWritable(op); err != nil {
		return nil, err
	}
	att, err := putAttribute(f, v.group.id, v.id, name, value)
	if err != nil {
		return nil, err
	}
	v.atts = upsertAttribute(v.atts, att)
	return att, nil
}

func findAttribute(atts []*Attribute, name string) *Attribute {
	for _, a := range atts {
		if a.name == name {
			return a
		}
	}
	return nil
}

func upsertAttribute(atts []*Attribute, att *Attribute) []*Attribute {
	for i, a := range atts {
		if a.name == att.name {
			atts[i] = att
			return atts
		}
	}
	return append(atts, att)
}

// putAttribute performs the gate-guarded engine write and re-reads the
// stored value, so the in-memory attribute matches engine state.
// Caller holds the container's writer lock.
func putAttribute(f *File, g engine.GroupID, vid engine.VarID, name string, value any) (*Attribute, error) {
	var (
		stored any
		tid    engine.TypeID
	)
	err := engine.With(func() error {
		if err := f.eng.PutAtt(g, vid, name, value); err != nil {
			return err
		}
		var err error
		stored, tid, err = f.eng.GetAtt(g, vid, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	kind, err := kindFromNative("Attribute", tid)
	if err != nil {
		return nil, err
	}
	return &Attribute{name: name, value: stored, kind: kind}, nil
}
