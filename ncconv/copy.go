package ncconv

import (
	"context"
	"fmt"

	"github.com/robert-malhotra/go-ncconv/internal/ctxlog"
)

// ProgressFunc receives per-variable completion feedback. It is operator
// feedback only and carries no semantic weight.
type ProgressFunc func(done, total int, name string)

// copyData streams every variable, step by step, from src to dst.
// Variables are processed in catalog order and steps in increasing order;
// schema declaration has already completed, so no reordering is possible
// or permitted.
func copyData(ctx context.Context, src Source, dst Destination, meta *Metadata, exec Exec, progress ProgressFunc) error {
	log := ctxlog.FromContext(ctx)
	for i, v := range meta.Vars {
		if progress != nil {
			progress(i, len(meta.Vars), v.Name)
		}
		log.Debug("copying variable", "name", v.Name, "type", v.Elem.String(), "steps", meta.Steps)

		var err error
		if exec.Parallel() {
			err = copyVariableCollective(src, dst, v, meta.Steps, exec)
		} else {
			err = copyVariableSerial(src, dst, v, meta.Steps)
		}
		if err != nil {
			return fmt.Errorf("copying variable %q: %w", v.Name, err)
		}
	}
	if progress != nil {
		progress(len(meta.Vars), len(meta.Vars), "")
	}
	return nil
}

// copyVariableSerial copies every step of one variable without
// partitioning.
func copyVariableSerial(src Source, dst Destination, v VarMeta, steps int) error {
	for step := 0; step < steps; step++ {
		if v.Elem == String {
			if err := copyStringStep(src, dst, v.Name, step); err != nil {
				return err
			}
			continue
		}
		data, err := src.Read(v.Name, step, nil, nil)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if err := writeFullStep(dst, v, step, data); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
	}
	return nil
}

// copyVariableCollective copies every step of one variable under the
// static domain decomposition. The plan is computed once when the variable
// starts and discarded when its steps are done.
//
// String-typed, scalar and sub-threshold variables are not decomposed;
// rank 0 alone issues those writes while the other ranks skip ahead, so no
// rank ever writes data it does not own.
func copyVariableCollective(src Source, dst Destination, v VarMeta, steps int, exec Exec) error {
	start, count := Plan(v.Shape, exec.Rank, exec.Size)
	split := v.Elem != String && Split(v.Shape)

	for step := 0; step < steps; step++ {
		switch {
		case v.Elem == String:
			if exec.Rank != 0 {
				continue
			}
			if err := copyStringStep(src, dst, v.Name, step); err != nil {
				return err
			}

		case !split:
			if exec.Rank != 0 {
				continue
			}
			data, err := src.Read(v.Name, step, nil, nil)
			if err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}
			if err := writeFullStep(dst, v, step, data); err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}

		default:
			data, err := src.Read(v.Name, step, start, count)
			if err != nil {
				return fmt.Errorf("%w: rank %d reading step %d: %w", ErrCollectiveIO, exec.Rank, step, err)
			}
			if err := dst.WriteSlab(v.Name, step, start, count, data); err != nil {
				return fmt.Errorf("%w: rank %d writing step %d: %w", ErrCollectiveIO, exec.Rank, step, err)
			}
		}
	}
	return nil
}

func copyStringStep(src Source, dst Destination, name string, step int) error {
	s, err := src.ReadString(name, step)
	if err != nil {
		return fmt.Errorf("step %d: %w", step, err)
	}
	if err := dst.WriteString(name, step, s); err != nil {
		return fmt.Errorf("step %d: %w", step, err)
	}
	return nil
}

// writeFullStep writes one undecomposed step: single-element
// one-dimensional values go to the scalar slot, everything else is a
// full-extent slab.
func writeFullStep(dst Destination, v VarMeta, step int, data interface{}) error {
	if scalarShape(v.Shape) {
		return dst.WriteScalar(v.Name, step, data)
	}
	return dst.WriteSlab(v.Name, step, make([]int, len(v.Shape)), v.Shape, data)
}

// scalarShape reports whether a shape addresses a single-element
// one-dimensional value.
func scalarShape(shape []int) bool {
	return len(shape) == 1 && shape[0] == 1
}
