// Package engine defines the native call surface the netcdf object
// model depends on, and provides two implementations of it.
//
// The Engine interface mirrors the inquiry/define calls of a netCDF
// storage engine: container lifecycle, dimension, group, variable,
// attribute and user-type inquiry. Handles (GroupID, DimID, VarID,
// TypeID) are opaque integers unique only within their own kind and
// container.
//
// Engines are declared non-reentrant: no two calls may be in flight at
// once, process-wide. Callers serialize every invocation through the
// gate:
//
//	err := engine.With(func() error {
//		n, err = eng.DimLen(g, dim)
//		return err
//	})
//
// Two backends are provided:
//
//   - Memory: a complete in-memory netCDF-4 style model with nested
//     groups, growable dimensions and user types. Backs tests and
//     throwaway datasets.
//   - Classic: netCDF-3 files on disk through github.com/ctessum/cdf.
//     Flat namespace (no groups), at most one growable dimension.
package engine
