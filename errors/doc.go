// Package errors provides structured error types for the netcdf library.
//
// Errors are categorized by Kind and carry the operation that failed,
// the entity name involved, and, for errors reported by the storage
// engine, the raw native status code.
//
// Use the convenience constructors:
//
//	err := errors.NotFound("Group.Dimension", "time")
//	err := errors.Engine("engine.Open", status, cause)
//
// All errors implement the standard error interface and support
// errors.Is/errors.As. Kind matching is done with IsKind:
//
//	if errors.IsKind(err, errors.KindAlreadyExists) { ... }
package errors
