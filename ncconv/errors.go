// Package ncconv converts step-indexed array store containers into
// dimensioned, self-describing datasets, preserving dimensions, variable
// schemas and attributes. It supports a serial copy path and a
// domain-decomposed collective path where each rank of a process group
// copies one slab of every large array variable.
package ncconv

import "errors"

// Common errors
var (
	ErrUnsupportedType    = errors.New("unsupported element type")
	ErrDuplicateDimension = errors.New("dimension already declared")
	ErrDuplicateVariable  = errors.New("variable already declared")
	ErrUnknownDimension   = errors.New("unknown dimension")
	ErrUnknownVariable    = errors.New("unknown variable")
	ErrCollectiveIO       = errors.New("collective I/O failure")
	ErrClosed             = errors.New("destination is closed")
)

// DecompThreshold is the smallest largest-axis extent worth splitting
// across ranks. Variables below it are copied whole.
const DecompThreshold = 50
