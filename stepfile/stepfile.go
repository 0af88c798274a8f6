// Package stepfile reads and writes step-indexed array store containers.
//
// A container is an HDF5 file with one group per variable and one dataset
// per step inside it, named by zero-padded step index. A root-level
// "_header" dataset records the step count and carries the container-wide
// attributes, including the "_DIM_<name>" dimension-length entries. The
// step-0 dataset of each variable carries the variable's attributes, the
// "_type" element-type tag and the "Dims" dimension-order hint
// (source-declared order, the reverse of the stored row-major order).
// String-typed variables store one placeholder dataset per step whose
// "_value" attribute holds the step's string.
package stepfile

import (
	"errors"
	"fmt"
)

const (
	headerName = "_header"
	typeAttr   = "_type"
	valueAttr  = "_value"
	dimsAttr   = "Dims"
)

// ErrNotStepStore reports a container without the expected layout.
var ErrNotStepStore = errors.New("not a step store container")

func stepName(step int) string {
	return fmt.Sprintf("%05d", step)
}
