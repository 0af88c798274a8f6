package stepfile

import (
	"fmt"

	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/robert-malhotra/go-ncconv/internal/slab"
	"github.com/robert-malhotra/go-ncconv/ncconv"
)

// Container describes a step store to be written. Used by tests and by
// fixture tooling; the conversion engine itself only reads containers.
type Container struct {
	Steps       int
	GlobalAttrs map[string]interface{}
	GlobalOrder []string
	DimLens     map[string]int
	DimOrder    []string
	Vars        []Var
}

// Var holds one variable's schema, metadata and per-step values. Shape is
// the stored row-major order; Dims is the source-declared order, the
// reverse of Shape's dimension names. Exactly one of the step slices must
// be populated, matching Type.
type Var struct {
	Name        string
	Type        string // "float", "int32_t" or "string"
	Shape       []int
	Dims        []string
	Attrs       map[string]interface{}
	AttrOrder   []string
	FloatSteps  [][]float32
	IntSteps    [][]int32
	StringSteps []string
}

// Create writes a container file with the given content.
func Create(path string, c Container) (err error) {
	f, err := hdf5.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var headerOpts []hdf5.DatasetOption
	for _, key := range c.GlobalOrder {
		headerOpts = append(headerOpts, hdf5.WithAttribute(key, c.GlobalAttrs[key]))
	}
	for _, name := range c.DimOrder {
		headerOpts = append(headerOpts, hdf5.WithAttribute(ncconv.DimPrefix+name, int32(c.DimLens[name])))
	}
	if _, err := f.Root().CreateDataset(headerName, []int32{int32(c.Steps)}, headerOpts...); err != nil {
		return fmt.Errorf("writing %s: %w", headerName, err)
	}

	for _, v := range c.Vars {
		if err := writeVar(f, c.Steps, v); err != nil {
			return fmt.Errorf("writing variable %q: %w", v.Name, err)
		}
	}
	return nil
}

func writeVar(f *hdf5.File, steps int, v Var) error {
	g, err := f.Root().CreateGroup(v.Name)
	if err != nil {
		return err
	}

	for step := 0; step < steps; step++ {
		var opts []hdf5.DatasetOption
		if step == 0 {
			opts = append(opts, hdf5.WithAttribute(typeAttr, v.Type))
			if len(v.Dims) > 0 {
				opts = append(opts, hdf5.WithAttribute(dimsAttr, v.Dims))
			}
			for _, key := range v.AttrOrder {
				opts = append(opts, hdf5.WithAttribute(key, v.Attrs[key]))
			}
		}

		var data interface{}
		switch v.Type {
		case "float":
			if len(v.FloatSteps) != steps {
				return fmt.Errorf("have %d float steps, want %d", len(v.FloatSteps), steps)
			}
			data = slab.Reshape(v.FloatSteps[step], v.Shape)
		case "int32_t":
			if len(v.IntSteps) != steps {
				return fmt.Errorf("have %d int steps, want %d", len(v.IntSteps), steps)
			}
			data = slab.Reshape(v.IntSteps[step], v.Shape)
		case "string":
			if len(v.StringSteps) != steps {
				return fmt.Errorf("have %d string steps, want %d", len(v.StringSteps), steps)
			}
			// Placeholder dataset; the value rides on an attribute.
			data = []int32{0}
			opts = append(opts, hdf5.WithAttribute(valueAttr, v.StringSteps[step]))
		default:
			return fmt.Errorf("%w: %q", ncconv.ErrUnsupportedType, v.Type)
		}

		if _, err := g.CreateDataset(stepName(step), data, opts...); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
	}
	return nil
}
