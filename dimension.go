package netcdf

import (
	"go.uber.org/zap"

	"github.com/apexys/netcdf/engine"
)

// Identifier names a dimension uniquely within an open container:
// the handle of the group that defined it plus the dimension handle.
// Identifiers can shape variables in descendant groups, see
// GroupMut.AddVariableFromIdentifiers.
type Identifier struct {
	Group engine.GroupID
	Dim   engine.DimID
}

// Dimension is a named axis length shared by one or more variables.
// A growable ("unlimited") dimension has no fixed length: it reports
// the highest index written so far across every variable bound to it,
// re-queried from the engine on each call.
type Dimension struct {
	file      *File
	name      string
	id        Identifier
	length    uint64 // cached at creation, fixed dimensions only
	unlimited bool
}

// Name returns the dimension's name.
func (d *Dimension) Name() string { return d.name }

// IsUnlimited reports whether the dimension is growable.
func (d *Dimension) IsUnlimited() bool { return d.unlimited }

// Identifier returns the dimension's unique identifier.
func (d *Dimension) Identifier() Identifier { return d.id }

// Len returns the current length. Fixed dimensions answer from the
// value cached at creation; growable dimensions perform one fresh
// gate-guarded engine query, since writes through unrelated variable
// handles on the same container can extend them at any time. A failed
// query is logged and reported as 0.
func (d *Dimension) Len() uint64 {
	if !d.unlimited {
		return d.length
	}
	var n uint64
	err := engine.With(func() error {
		var err error
		n, err = d.file.eng.DimLen(d.id.Group, d.id.Dim)
		return err
	})
	if err != nil {
		engine.Logger().Warn("growable dimension length query failed",
			zap.String("dimension", d.name), zap.Error(err))
		return 0
	}
	return n
}
