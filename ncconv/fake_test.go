package ncconv

import (
	"fmt"
	"strings"
	"sync"

	"github.com/robert-malhotra/go-ncconv/internal/slab"
)

// fakeSource is an in-memory Source for engine tests.
type fakeVar struct {
	tag   string
	shape []int
	hint  []string // source-declared dimension order
	f32   [][]float32
	i32   [][]int32
	strs  []string
}

type fakeSource struct {
	keys    []string
	typed   map[string]interface{}
	text    map[string][]string
	vars    []string
	byName  map[string]*fakeVar
	steps   int
	readErr map[string]error
}

func (s *fakeSource) AttributeKeys() []string { return s.keys }

func (s *fakeSource) ReadAttribute(key string) (interface{}, error) {
	if v, ok := s.typed[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("attribute %q holds text", key)
}

func (s *fakeSource) ReadAttributeString(key string) ([]string, error) {
	if name, ok := strings.CutSuffix(key, "/"+dimsHint); ok {
		if v, found := s.byName[name]; found {
			return append([]string(nil), v.hint...), nil
		}
	}
	if v, ok := s.text[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("attribute not found: %s", key)
}

func (s *fakeSource) VariableNames() []string { return s.vars }

func (s *fakeSource) VariableType(name string) (string, error) {
	v, ok := s.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return v.tag, nil
}

func (s *fakeSource) VariableShape(name string) ([]int, error) {
	v, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return append([]int(nil), v.shape...), nil
}

func (s *fakeSource) Steps() int { return s.steps }

func (s *fakeSource) Read(name string, step int, start, count []int) (interface{}, error) {
	if err := s.readErr[name]; err != nil {
		return nil, err
	}
	v, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	switch v.tag {
	case "float":
		full := v.f32[step]
		if start == nil && count == nil {
			return full, nil
		}
		return slab.Extract(full, v.shape, start, count)
	case "int32_t":
		full := v.i32[step]
		if start == nil && count == nil {
			return full, nil
		}
		return slab.Extract(full, v.shape, start, count)
	}
	return nil, fmt.Errorf("variable %q is string-typed", name)
}

func (s *fakeSource) ReadString(name string, step int) (string, error) {
	v, ok := s.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return v.strs[step], nil
}

func (s *fakeSource) Close() error { return nil }

// recordDest records every Destination call for assertions.
type slabCall struct {
	name         string
	step         int
	start, count []int
}

type recordDest struct {
	mu       sync.Mutex
	dims     map[string]int
	vars     map[string][]string
	scalars  map[string]map[int]interface{}
	strings  map[string]map[int]string
	slabs    []slabCall
	global   map[string]interface{}
	varAttrs map[string]map[string]interface{}
	fillOff  bool
	closed   bool
}

func newRecordDest() *recordDest {
	return &recordDest{
		dims:     make(map[string]int),
		vars:     make(map[string][]string),
		scalars:  make(map[string]map[int]interface{}),
		strings:  make(map[string]map[int]string),
		global:   make(map[string]interface{}),
		varAttrs: make(map[string]map[string]interface{}),
	}
}

func (d *recordDest) CreateDimension(name string, length int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.dims[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateDimension, name)
	}
	d.dims[name] = length
	return nil
}

func (d *recordDest) CreateVariable(name string, t ElemType, dims []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.vars[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateVariable, name)
	}
	for _, dim := range dims {
		if _, ok := d.dims[dim]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
		}
	}
	d.vars[name] = dims
	return nil
}

func (d *recordDest) SetFillOff() {
	d.mu.Lock()
	d.fillOff = true
	d.mu.Unlock()
}

func (d *recordDest) WriteScalar(name string, step int, value interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scalars[name] == nil {
		d.scalars[name] = make(map[int]interface{})
	}
	d.scalars[name][step] = value
	return nil
}

func (d *recordDest) WriteString(name string, step int, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.strings[name] == nil {
		d.strings[name] = make(map[int]string)
	}
	d.strings[name][step] = value
	return nil
}

func (d *recordDest) WriteSlab(name string, step int, start, count []int, value interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slabs = append(d.slabs, slabCall{
		name:  name,
		step:  step,
		start: append([]int(nil), start...),
		count: append([]int(nil), count...),
	})
	return nil
}

func (d *recordDest) SetGlobalAttrs(attrs map[string]interface{}, order []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, v := range attrs {
		d.global[k] = v
	}
	return nil
}

func (d *recordDest) SetVarAttr(name, key string, value interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.varAttrs[name] == nil {
		d.varAttrs[name] = make(map[string]interface{})
	}
	d.varAttrs[name][key] = value
	return nil
}

func (d *recordDest) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}
