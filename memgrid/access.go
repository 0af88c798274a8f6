package memgrid

import (
	"fmt"

	"github.com/robert-malhotra/go-ncconv/ncconv"
)

// Dimensions returns the declared dimension names in declaration order.
func (g *Grid) Dimensions() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.dimOrder...)
}

// Dimension returns the length of a declared dimension.
func (g *Grid) Dimension(name string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	length, ok := g.dims[name]
	return length, ok
}

// Variables returns the declared variable names in declaration order.
func (g *Grid) Variables() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.varOrder...)
}

// VarElem returns a variable's element type.
func (g *Grid) VarElem(name string) (ncconv.ElemType, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.lookup(name)
	if err != nil {
		return 0, err
	}
	return v.elem, nil
}

// VarDims returns a variable's dimension names, Time first.
func (g *Grid) VarDims(name string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v.dims...), nil
}

// VarShape returns a variable's full shape, the Time length first.
func (g *Grid) VarShape(name string) ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	return append([]int(nil), v.shape...), nil
}

// Float32s returns a copy of a float variable's flat backing buffer, all
// steps concatenated in row-major order.
func (g *Grid) Float32s(name string) ([]float32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	if v.elem != ncconv.Float32 {
		return nil, fmt.Errorf("variable %q is %v, not float32", name, v.elem)
	}
	return append([]float32(nil), v.f32...), nil
}

// Int32s returns a copy of an int variable's flat backing buffer.
func (g *Grid) Int32s(name string) ([]int32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	if v.elem != ncconv.Int32 {
		return nil, fmt.Errorf("variable %q is %v, not int32", name, v.elem)
	}
	return append([]int32(nil), v.i32...), nil
}

// Strings returns a copy of a string variable's per-step values.
func (g *Grid) Strings(name string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	if v.elem != ncconv.String {
		return nil, fmt.Errorf("variable %q is %v, not string", name, v.elem)
	}
	return append([]string(nil), v.str...), nil
}

// GlobalAttrs returns the container-wide attributes and their key order.
func (g *Grid) GlobalAttrs() (map[string]interface{}, []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	attrs := make(map[string]interface{}, len(g.globalAttrs))
	for k, v := range g.globalAttrs {
		attrs[k] = v
	}
	return attrs, append([]string(nil), g.globalOrder...)
}

// VarAttrs returns one variable's attributes and their key order.
func (g *Grid) VarAttrs(name string) (map[string]interface{}, []string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, err := g.lookup(name)
	if err != nil {
		return nil, nil, err
	}
	attrs := make(map[string]interface{}, len(v.attrs))
	for k, val := range v.attrs {
		attrs[k] = val
	}
	return attrs, append([]string(nil), v.attrOrder...), nil
}

// FillOff reports whether fill-value pre-initialization was disabled.
func (g *Grid) FillOff() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fillOff
}

func (g *Grid) lookup(name string) (*variable, error) {
	v, ok := g.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ncconv.ErrUnknownVariable, name)
	}
	return v, nil
}
