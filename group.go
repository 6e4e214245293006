package netcdf

import (
	"github.com/apexys/netcdf/engine"
)

// Group is a namespace node in the container hierarchy. It owns the
// dimensions, variables, attributes and subgroups defined directly in
// it, and holds a non-owning reference to its parent. A group can see
// its ancestors' dimensions; a parent never resolves names belonging
// to a descendant.
//
// Group is a read-only view: it may be shared freely between
// goroutines. Mutation requires the exclusive GroupMut view.
type Group struct {
	file   *File
	parent *Group // nil iff root
	name   string
	id     engine.GroupID
	dims   []*Dimension
	vars   []*Variable
	atts   []*Attribute
	groups []*Group
	types  []*UserType
}

// Name returns the group's name; the root group is named "root".
func (g *Group) Name() string { return g.name }

// Parent returns the parent group, or nil at the root.
func (g *Group) Parent() *Group { return g.parent }

// Parents returns the ancestors in order toward the root.
func (g *Group) Parents() []*Group {
	var out []*Group
	for p := g.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Path returns the slash-joined path of the group from the root.
func (g *Group) Path() string {
	if g.parent == nil {
		return "/"
	}
	prefix := g.parent.Path()
	if prefix == "/" {
		return "/" + g.name
	}
	return prefix + "/" + g.name
}

// Dimension resolves a dimension by name, searching this group first
// and then its ancestors toward the root. Returns nil when the name
// is not visible from this group.
func (g *Group) Dimension(name string) *Dimension {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	return g.findDimension(name)
}

// Dimensions returns the dimensions defined directly in this group,
// in native enumeration order.
func (g *Group) Dimensions() []*Dimension {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	out := make([]*Dimension, len(g.dims))
	copy(out, g.dims)
	return out
}

// Variable returns the named variable of this group, or nil. Variable
// lookup does not search ancestors.
func (g *Group) Variable(name string) *Variable {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	return g.findVariable(name)
}

// Variables returns the group's variables in native enumeration order.
func (g *Group) Variables() []*Variable {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	out := make([]*Variable, len(g.vars))
	copy(out, g.vars)
	return out
}

// Attribute returns the named group-global attribute, or nil.
func (g *Group) Attribute(name string) *Attribute {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	return findAttribute(g.atts, name)
}

// Attributes returns the group's own attributes.
func (g *Group) Attributes() []*Attribute {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	out := make([]*Attribute, len(g.atts))
	copy(out, g.atts)
	return out
}

// Group returns the named direct subgroup, or nil.
func (g *Group) Group(name string) *Group {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	return g.findGroup(name)
}

// Groups returns the direct subgroups in native enumeration order.
func (g *Group) Groups() []*Group {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	out := make([]*Group, len(g.groups))
	copy(out, g.groups)
	return out
}

// Types returns the user-defined type descriptors of this group.
func (g *Group) Types() []*UserType {
	g.file.mu.RLock()
	defer g.file.mu.RUnlock()
	out := make([]*UserType, len(g.types))
	copy(out, g.types)
	return out
}

// findDimension climbs toward the root. Caller holds the tree lock.
func (g *Group) findDimension(name string) *Dimension {
	for node := g; node != nil; node = node.parent {
		for _, d := range node.dims {
			if d.name == name {
				return d
			}
		}
	}
	return nil
}

// findDimensionByID climbs toward the root matching on identifier.
// Caller holds the tree lock.
func (g *Group) findDimensionByID(id Identifier) *Dimension {
	for node := g; node != nil; node = node.parent {
		for _, d := range node.dims {
			if d.id == id {
				return d
			}
		}
	}
	return nil
}

// findDimensionByHandle climbs toward the root matching the
// container-scoped dimension handle. Caller holds the tree lock.
func (g *Group) findDimensionByHandle(dim engine.DimID) *Dimension {
	for node := g; node != nil; node = node.parent {
		for _, d := range node.dims {
			if d.id.Dim == dim {
				return d
			}
		}
	}
	return nil
}

func (g *Group) findVariable(name string) *Variable {
	for _, v := range g.vars {
		if v.name == name {
			return v
		}
	}
	return nil
}

func (g *Group) findGroup(name string) *Group {
	for _, sub := range g.groups {
		if sub.name == name {
			return sub
		}
	}
	return nil
}
