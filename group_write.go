package netcdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/apexys/netcdf/engine"
	"github.com/apexys/netcdf/errors"
)

// GroupMut is the exclusive view of a Group, required for every Add*
// operation. It is reachable only from a container opened for writing
// (File.RootMut), and each mutation takes the container's writer lock,
// so no read view observes a half-applied change.
type GroupMut struct {
	*Group
}

// GroupMut returns the named subgroup as a mutable view, or nil.
func (g *GroupMut) GroupMut(name string) *GroupMut {
	sub := g.Group.Group(name)
	if sub == nil {
		return nil
	}
	return &GroupMut{sub}
}

// VariableMut returns the named variable as a mutable view, or nil.
func (g *GroupMut) VariableMut(name string) *VariableMut {
	v := g.Group.Variable(name)
	if v == nil {
		return nil
	}
	return &VariableMut{v}
}

// AddDimension defines a dimension in this group. A length of 0
// creates a growable dimension whose reported length starts at 0 and
// grows with writes.
func (g *GroupMut) AddDimension(name string, length uint64) (*Dimension, error) {
	const op = "Group.AddDimension"
	if err := validateName(op, name); err != nil {
		return nil, err
	}
	f := g.file
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkWritable(op); err != nil {
		return nil, err
	}

	var id engine.DimID
	err := engine.With(func() error {
		var err error
		id, err = f.eng.DefineDim(g.id, name, length)
		return err
	})
	if err != nil {
		return nil, err
	}

	d := &Dimension{
		file:      f,
		name:      name,
		id:        Identifier{Group: g.id, Dim: id},
		length:    length,
		unlimited: length == 0,
	}
	g.dims = append(g.dims, d)
	engine.Logger().Debug("dimension defined",
		zap.String("group", g.Path()), zap.String("name", name), zap.Uint64("len", length))
	return d, nil
}

// AddUnlimitedDimension defines a growable dimension.
func (g *GroupMut) AddUnlimitedDimension(name string) (*Dimension, error) {
	return g.AddDimension(name, 0)
}

// AddGroup defines an empty subgroup and returns its mutable view.
func (g *GroupMut) AddGroup(name string) (*GroupMut, error) {
	const op = "Group.AddGroup"
	if err := validateName(op, name); err != nil {
		return nil, err
	}
	f := g.file
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkWritable(op); err != nil {
		return nil, err
	}

	var id engine.GroupID
	err := engine.With(func() error {
		var err error
		id, err = f.eng.DefineGroup(g.id, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	sub := &Group{file: f, parent: g.Group, name: name, id: id}
	g.groups = append(g.groups, sub)
	engine.Logger().Debug("group defined", zap.String("path", sub.Path()))
	return &GroupMut{sub}, nil
}

// AddAttribute writes a group-global attribute and mirrors it in the
// in-memory list. Re-putting an existing name updates it in place.
func (g *GroupMut) AddAttribute(name string, value any) (*Attribute, error) {
	const op = "Group.AddAttribute"
	if err := validateName(op, name); err != nil {
		return nil, err
	}
	f := g.file
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkWritable(op); err != nil {
		return nil, err
	}
	att, err := putAttribute(f, g.id, engine.GlobalAtt, name, value)
	if err != nil {
		return nil, err
	}
	g.atts = upsertAttribute(g.atts, att)
	return att, nil
}

// AddVariable defines a variable of the given atomic kind. Each
// dimension name is resolved by searching this group first and then
// walking ancestors toward the root; an unresolved name fails with
// NotFound.
func (g *GroupMut) AddVariable(name string, kind Kind, dims ...string) (*VariableMut, error) {
	const op = "Group.AddVariable"
	if err := validateName(op, name); err != nil {
		return nil, err
	}
	tid, err := nativeFromKind(op, kind)
	if err != nil {
		return nil, err
	}

	f := g.file
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkWritable(op); err != nil {
		return nil, err
	}

	resolved := make([]*Dimension, len(dims))
	for i, dn := range dims {
		d := g.findDimension(dn)
		if d == nil {
			return nil, errors.NotFound(op, dn)
		}
		resolved[i] = d
	}
	return g.defineVariable(op, name, kind, tid, resolved)
}

// AddStringVariable defines a variable with the variable-length
// string type.
func (g *GroupMut) AddStringVariable(name string, dims ...string) (*VariableMut, error) {
	return g.AddVariable(name, String, dims...)
}

// AddVariableFromIdentifiers defines a variable shaped by dimension
// identifiers instead of names, recursing upward from this group to
// locate each one.
func (g *GroupMut) AddVariableFromIdentifiers(name string, kind Kind, ids ...Identifier) (*VariableMut, error) {
	const op = "Group.AddVariableFromIdentifiers"
	if err := validateName(op, name); err != nil {
		return nil, err
	}
	tid, err := nativeFromKind(op, kind)
	if err != nil {
		return nil, err
	}

	f := g.file
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkWritable(op); err != nil {
		return nil, err
	}

	resolved := make([]*Dimension, len(ids))
	for i, id := range ids {
		d := g.findDimensionByID(id)
		if d == nil {
			return nil, errors.NotFound(op, fmt.Sprintf("dimid %d", id.Dim))
		}
		resolved[i] = d
	}
	return g.defineVariable(op, name, kind, tid, resolved)
}

// defineVariable performs the gate-guarded define and appends the new
// variable. Caller holds the writer lock and has resolved dimensions.
func (g *GroupMut) defineVariable(op, name string, kind Kind, tid engine.TypeID, dims []*Dimension) (*VariableMut, error) {
	ids := make([]engine.DimID, len(dims))
	for i, d := range dims {
		ids[i] = d.id.Dim
	}

	f := g.file
	var vid engine.VarID
	err := engine.With(func() error {
		var err error
		vid, err = f.eng.DefineVar(g.id, name, tid, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	v := &Variable{
		group: g.Group,
		name:  name,
		id:    vid,
		typ:   tid,
		kind:  kind,
		dims:  dims,
	}
	g.vars = append(g.vars, v)
	engine.Logger().Debug("variable defined",
		zap.String("group", g.Path()), zap.String("name", name), zap.Stringer("kind", kind))
	return &VariableMut{v}, nil
}
