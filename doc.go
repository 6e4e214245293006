// Package netcdf provides a safe object model over a non-reentrant
// netCDF storage engine addressed through opaque integer handles.
//
// A container is a tree of named groups, each holding dimensions,
// variables (typed arrays shaped by ordered dimension references),
// attributes, and nested subgroups. This package translates the
// engine's flat handle space into an ownership tree, enforces the
// format's visibility rules, and serializes every engine call through
// a single process-wide gate.
//
// # Architecture Overview
//
//	netcdf/            Object model: File, Group, Dimension, Variable, Attribute
//	├── engine/        Native call surface, the gate, and two backends
//	├── errors/        Structured error taxonomy
//	└── cmd/ncdump/    Dump tool over the public read API
//
// # Quick Start
//
// Read an existing file:
//
//	f, err := netcdf.Open("data.nc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	for _, d := range f.Dimensions() {
//	    fmt.Println(d.Name(), d.Len())
//	}
//
// Create one:
//
//	f, err := netcdf.Create("out.nc")
//	root, err := f.RootMut()
//	dim, err := root.AddDimension("x", 4)
//	v, err := root.AddVariable("data", netcdf.Int, "x")
//
// # Visibility rules
//
// Dimension lookup searches the group itself and then its ancestors
// toward the root; a group never resolves names belonging to a
// descendant. Group, variable and attribute lookup is local to the
// group. Variables may therefore be shaped by dimensions defined in
// any ancestor group, never by a sibling's or descendant's.
//
// # Concurrency
//
// Read views may be shared freely between goroutines; all engine
// access is serialized by the package-wide gate. Mutation goes through
// the exclusive views (File.RootMut, GroupMut, VariableMut), which
// take the container's writer lock for each operation. Growable
// dimension lengths are never cached: Len on an unlimited dimension
// performs a fresh gate-guarded engine query, since other handles into
// the same container can extend it at any time.
package netcdf
