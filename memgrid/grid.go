// Package memgrid provides an in-memory dimensioned dataset implementing
// ncconv.Destination. It is the staging area behind the NetCDF file
// writer, the handle returned by diskless conversions, and a
// collective-safe destination for multi-rank groups: concurrent writes
// are serialized internally, so disjoint or identical slab writes from
// all ranks are safe.
package memgrid

import (
	"fmt"
	"sync"

	"github.com/robert-malhotra/go-ncconv/internal/slab"
	"github.com/robert-malhotra/go-ncconv/ncconv"
)

type variable struct {
	elem      ncconv.ElemType
	dims      []string // including Time, outermost first
	shape     []int    // lengths of dims
	perStep   int      // elements per step
	f32       []float32
	i32       []int32
	str       []string
	attrs     map[string]interface{}
	attrOrder []string
}

// Grid is an in-memory destination. The zero value is not usable; call
// New.
type Grid struct {
	mu          sync.Mutex
	dims        map[string]int
	dimOrder    []string
	vars        map[string]*variable
	varOrder    []string
	globalAttrs map[string]interface{}
	globalOrder []string
	fillOff     bool
	closed      bool
}

func New() *Grid {
	return &Grid{
		dims:        make(map[string]int),
		vars:        make(map[string]*variable),
		globalAttrs: make(map[string]interface{}),
	}
}

// CreateDimension declares a named dimension of fixed length.
func (g *Grid) CreateDimension(name string, length int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ncconv.ErrClosed
	}
	if _, ok := g.dims[name]; ok {
		return fmt.Errorf("%w: %q", ncconv.ErrDuplicateDimension, name)
	}
	if length < 0 {
		return fmt.Errorf("dimension %q has negative length %d", name, length)
	}
	g.dims[name] = length
	g.dimOrder = append(g.dimOrder, name)
	return nil
}

// CreateVariable declares a variable over already-declared dimensions and
// allocates its backing storage.
func (g *Grid) CreateVariable(name string, t ncconv.ElemType, dims []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ncconv.ErrClosed
	}
	if _, ok := g.vars[name]; ok {
		return fmt.Errorf("%w: %q", ncconv.ErrDuplicateVariable, name)
	}

	shape := make([]int, len(dims))
	for i, d := range dims {
		length, ok := g.dims[d]
		if !ok {
			return fmt.Errorf("%w: %q", ncconv.ErrUnknownDimension, d)
		}
		shape[i] = length
	}

	v := &variable{
		elem:    t,
		dims:    append([]string(nil), dims...),
		shape:   shape,
		perStep: slab.Size(shape[1:]),
		attrs:   make(map[string]interface{}),
	}
	total := slab.Size(shape)
	switch t {
	case ncconv.Float32:
		v.f32 = make([]float32, total)
	case ncconv.Int32:
		v.i32 = make([]int32, total)
	case ncconv.String:
		v.str = make([]string, total)
	default:
		return fmt.Errorf("%w: %v", ncconv.ErrUnsupportedType, t)
	}

	g.vars[name] = v
	g.varOrder = append(g.varOrder, name)
	return nil
}

// SetFillOff disables fill-value pre-initialization. Backing storage is
// zeroed on allocation regardless, so this only records the request.
func (g *Grid) SetFillOff() {
	g.mu.Lock()
	g.fillOff = true
	g.mu.Unlock()
}

// WriteScalar writes a single-element value into the scalar slot of one
// step.
func (g *Grid) WriteScalar(name string, step int, value interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.writable(name, step)
	if err != nil {
		return err
	}
	off := step * v.perStep
	switch val := value.(type) {
	case float32:
		v.f32[off] = val
	case []float32:
		if len(val) != 1 {
			return fmt.Errorf("variable %q: scalar write with %d elements", name, len(val))
		}
		v.f32[off] = val[0]
	case int32:
		v.i32[off] = val
	case []int32:
		if len(val) != 1 {
			return fmt.Errorf("variable %q: scalar write with %d elements", name, len(val))
		}
		v.i32[off] = val[0]
	default:
		return fmt.Errorf("variable %q: cannot write %T as scalar", name, value)
	}
	return nil
}

// WriteString writes the string value of one step.
func (g *Grid) WriteString(name string, step int, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.writable(name, step)
	if err != nil {
		return err
	}
	if v.elem != ncconv.String {
		return fmt.Errorf("variable %q is %v, not string", name, v.elem)
	}
	v.str[step*v.perStep] = value
	return nil
}

// WriteSlab writes a row-major slab over the non-time axes of one step.
func (g *Grid) WriteSlab(name string, step int, start, count []int, value interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.writable(name, step)
	if err != nil {
		return err
	}
	spatial := v.shape[1:]
	off := step * v.perStep
	block := off + v.perStep

	switch data := value.(type) {
	case []float32:
		if v.elem != ncconv.Float32 {
			return fmt.Errorf("variable %q is %v, cannot write []float32", name, v.elem)
		}
		if err := slab.Place(v.f32[off:block], spatial, start, count, data); err != nil {
			return fmt.Errorf("variable %q step %d: %w", name, step, err)
		}
	case []int32:
		if v.elem != ncconv.Int32 {
			return fmt.Errorf("variable %q is %v, cannot write []int32", name, v.elem)
		}
		if err := slab.Place(v.i32[off:block], spatial, start, count, data); err != nil {
			return fmt.Errorf("variable %q step %d: %w", name, step, err)
		}
	default:
		return fmt.Errorf("variable %q: cannot write %T as slab", name, value)
	}
	return nil
}

// SetGlobalAttrs replaces the container-wide attribute batch.
func (g *Grid) SetGlobalAttrs(attrs map[string]interface{}, order []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ncconv.ErrClosed
	}
	g.globalAttrs = make(map[string]interface{}, len(attrs))
	g.globalOrder = append([]string(nil), order...)
	for k, v := range attrs {
		g.globalAttrs[k] = v
	}
	return nil
}

// SetVarAttr sets one attribute on a declared variable.
func (g *Grid) SetVarAttr(name, key string, value interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ncconv.ErrClosed
	}
	v, ok := g.vars[name]
	if !ok {
		return fmt.Errorf("%w: %q", ncconv.ErrUnknownVariable, name)
	}
	if _, exists := v.attrs[key]; !exists {
		v.attrOrder = append(v.attrOrder, key)
	}
	v.attrs[key] = value
	return nil
}

// Close seals the grid: further schema declarations and writes fail, reads
// stay valid. Closing twice is a no-op.
func (g *Grid) Close() error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	return nil
}

var _ ncconv.Destination = (*Grid)(nil)

// writable resolves a variable for a data write and validates the step.
func (g *Grid) writable(name string, step int) (*variable, error) {
	if g.closed {
		return nil, ncconv.ErrClosed
	}
	v, ok := g.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ncconv.ErrUnknownVariable, name)
	}
	if len(v.shape) == 0 || step < 0 || step >= v.shape[0] {
		return nil, fmt.Errorf("variable %q: step %d out of range", name, step)
	}
	return v, nil
}
