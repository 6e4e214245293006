package netcdf

import (
	"fmt"

	"github.com/apexys/netcdf/engine"
	"github.com/apexys/netcdf/errors"
)

// buildGroup materializes the full metadata tree rooted at id by
// interrogating the engine. The caller must already be inside a
// single engine.With section; every call below goes straight to the
// engine without re-entering the gate.
//
// Order matters: dimensions before variables (shapes reference them),
// types before variables (kinds may reference them), subgroups last
// so a child can resolve ancestor dimensions during its own build.
func buildGroup(f *File, parent *Group, id engine.GroupID) (*Group, error) {
	name, err := f.eng.GroupName(id)
	if err != nil {
		return nil, err
	}
	g := &Group{file: f, parent: parent, name: name, id: id}

	if err := buildDimensions(f, g); err != nil {
		return nil, err
	}
	if err := buildTypes(f, g); err != nil {
		return nil, err
	}
	if err := buildVariables(f, g); err != nil {
		return nil, err
	}
	atts, err := buildAttributes(f, id, engine.GlobalAtt)
	if err != nil {
		return nil, err
	}
	g.atts = atts

	subs, err := f.eng.Groups(id)
	if err != nil {
		return nil, err
	}
	for _, sid := range subs {
		sub, err := buildGroup(f, g, sid)
		if err != nil {
			return nil, err
		}
		g.groups = append(g.groups, sub)
	}
	return g, nil
}

func buildDimensions(f *File, g *Group) error {
	ids, err := f.eng.DimIDs(g.id)
	if err != nil {
		return err
	}
	unlim, err := f.eng.UnlimitedDims(g.id)
	if err != nil {
		return err
	}
	growable := make(map[engine.DimID]bool, len(unlim))
	for _, u := range unlim {
		growable[u] = true
	}
	for _, did := range ids {
		name, length, err := f.eng.InqDim(g.id, did)
		if err != nil {
			return err
		}
		g.dims = append(g.dims, &Dimension{
			file:      f,
			name:      name,
			id:        Identifier{Group: g.id, Dim: did},
			length:    length,
			unlimited: growable[did],
		})
	}
	return nil
}

func buildTypes(f *File, g *Group) error {
	ids, err := f.eng.TypeIDs(g.id)
	if err != nil {
		return err
	}
	for _, tid := range ids {
		name, size, class, err := f.eng.InqUserType(g.id, tid)
		if err != nil {
			return err
		}
		kind, err := kindFromClass("open", class)
		if err != nil {
			return err
		}
		g.types = append(g.types, &UserType{name: name, id: tid, size: size, kind: kind})
	}
	return nil
}

func buildVariables(f *File, g *Group) error {
	ids, err := f.eng.VarIDs(g.id)
	if err != nil {
		return err
	}
	for _, vid := range ids {
		name, tid, dimids, err := f.eng.InqVar(g.id, vid)
		if err != nil {
			return err
		}
		kind, err := variableKind(g, tid)
		if err != nil {
			return err
		}
		dims := make([]*Dimension, len(dimids))
		for i, did := range dimids {
			d := g.findDimensionByHandle(did)
			if d == nil {
				return errors.NotFound("open", fmt.Sprintf("dimid %d", did))
			}
			dims[i] = d
		}
		v := &Variable{group: g, name: name, id: vid, typ: tid, kind: kind, dims: dims}
		atts, err := buildAttributes(f, g.id, vid)
		if err != nil {
			return err
		}
		v.atts = atts
		g.vars = append(g.vars, v)
	}
	return nil
}

// variableKind maps a variable's type handle to a Kind, consulting
// the group chain for user-defined types when the handle is not
// atomic.
func variableKind(g *Group, tid engine.TypeID) (Kind, error) {
	if k, ok := atomicKinds[tid]; ok {
		return k, nil
	}
	for cur := g; cur != nil; cur = cur.parent {
		for _, ut := range cur.types {
			if ut.id == tid {
				return ut.kind, nil
			}
		}
	}
	return Unknown, errors.NotFound("open", fmt.Sprintf("typeid %d", tid))
}

func buildAttributes(f *File, gid engine.GroupID, vid engine.VarID) ([]*Attribute, error) {
	n, err := f.eng.AttCount(gid, vid)
	if err != nil {
		return nil, err
	}
	atts := make([]*Attribute, 0, n)
	for i := 0; i < n; i++ {
		name, err := f.eng.AttName(gid, vid, i)
		if err != nil {
			return nil, err
		}
		value, tid, err := f.eng.GetAtt(gid, vid, name)
		if err != nil {
			return nil, err
		}
		kind, err := kindFromNative("open", tid)
		if err != nil {
			return nil, err
		}
		atts = append(atts, &Attribute{name: name, value: value, kind: kind})
	}
	return atts, nil
}
