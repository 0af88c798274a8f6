// Package ncfile persists a conversion to a NetCDF (classic format) file
// using the go-native-netcdf codec. Writes stage in an in-memory grid and
// the file is laid down when the writer is closed, since the classic
// format wants complete variables up front.
package ncfile

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/robert-malhotra/go-ncconv/internal/slab"
	"github.com/robert-malhotra/go-ncconv/memgrid"
	"github.com/robert-malhotra/go-ncconv/ncconv"
)

// Writer implements ncconv.Destination backed by a NetCDF file.
type Writer struct {
	path   string
	stage  *memgrid.Grid
	closed bool
}

var _ ncconv.Destination = (*Writer)(nil)

// Create prepares a writer for the given output path. Nothing is written
// until Close.
func Create(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("empty output path")
	}
	return &Writer{path: path, stage: memgrid.New()}, nil
}

func (w *Writer) CreateDimension(name string, length int) error {
	return w.stage.CreateDimension(name, length)
}

func (w *Writer) CreateVariable(name string, t ncconv.ElemType, dims []string) error {
	return w.stage.CreateVariable(name, t, dims)
}

func (w *Writer) SetFillOff() {
	w.stage.SetFillOff()
}

func (w *Writer) WriteScalar(name string, step int, value interface{}) error {
	return w.stage.WriteScalar(name, step, value)
}

func (w *Writer) WriteString(name string, step int, value string) error {
	return w.stage.WriteString(name, step, value)
}

func (w *Writer) WriteSlab(name string, step int, start, count []int, value interface{}) error {
	return w.stage.WriteSlab(name, step, start, count, value)
}

func (w *Writer) SetGlobalAttrs(attrs map[string]interface{}, order []string) error {
	return w.stage.SetGlobalAttrs(attrs, order)
}

func (w *Writer) SetVarAttr(name, key string, value interface{}) error {
	return w.stage.SetVarAttr(name, key, value)
}

// Close seals the stage and writes the NetCDF file. Closing twice is a
// no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.stage.Close(); err != nil {
		return err
	}

	cw, err := cdf.OpenWriter(w.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.path, err)
	}

	attrs, order := w.stage.GlobalAttrs()
	am, err := util.NewOrderedMap(order, attrs)
	if err != nil {
		cw.Close()
		return fmt.Errorf("global attributes: %w", err)
	}
	if err := cw.AddAttributes(am); err != nil {
		cw.Close()
		return fmt.Errorf("writing global attributes: %w", err)
	}

	for _, name := range w.stage.Variables() {
		v, err := w.variable(name)
		if err != nil {
			cw.Close()
			return err
		}
		if err := cw.AddVar(name, v); err != nil {
			cw.Close()
			return fmt.Errorf("writing variable %q: %w", name, err)
		}
	}

	if err := cw.Close(); err != nil {
		return fmt.Errorf("finalizing %s: %w", w.path, err)
	}
	return nil
}

// variable assembles the staged content of one variable for the codec:
// nested row-major slices, the dimension-name list with Time outermost,
// and the attribute map.
func (w *Writer) variable(name string) (api.Variable, error) {
	var v api.Variable

	dims, err := w.stage.VarDims(name)
	if err != nil {
		return v, err
	}
	shape, err := w.stage.VarShape(name)
	if err != nil {
		return v, err
	}
	elem, err := w.stage.VarElem(name)
	if err != nil {
		return v, err
	}
	attrs, order, err := w.stage.VarAttrs(name)
	if err != nil {
		return v, err
	}
	am, err := util.NewOrderedMap(order, attrs)
	if err != nil {
		return v, fmt.Errorf("variable %q attributes: %w", name, err)
	}

	var values interface{}
	switch elem {
	case ncconv.Float32:
		flat, err := w.stage.Float32s(name)
		if err != nil {
			return v, err
		}
		values = slab.Reshape(flat, shape)
	case ncconv.Int32:
		flat, err := w.stage.Int32s(name)
		if err != nil {
			return v, err
		}
		values = slab.Reshape(flat, shape)
	case ncconv.String:
		strs, err := w.stage.Strings(name)
		if err != nil {
			return v, err
		}
		values = strs
	default:
		return v, fmt.Errorf("variable %q: %w: %v", name, ncconv.ErrUnsupportedType, elem)
	}

	return api.Variable{
		Values:     values,
		Dimensions: dims,
		Attributes: am,
	}, nil
}
