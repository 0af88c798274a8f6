package stepfile

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/robert-malhotra/go-ncconv/internal/slab"
	"github.com/robert-malhotra/go-ncconv/ncconv"
)

type varEntry struct {
	tag   string
	shape []int
	group *hdf5.Group
}

// File is an open step store container implementing ncconv.Source.
type File struct {
	f        *hdf5.File
	steps    int
	vars     map[string]*varEntry
	varOrder []string
	attrKeys []string
}

var _ ncconv.Source = (*File)(nil)

// Open opens a container for reading and loads its catalog.
func Open(path string) (*File, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	sf := &File{f: f, vars: make(map[string]*varEntry)}
	if err := sf.load(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

func (sf *File) load() error {
	root := sf.f.Root()

	header, err := root.OpenDataset(headerName)
	if err != nil {
		return fmt.Errorf("%w: missing %s dataset: %v", ErrNotStepStore, headerName, err)
	}
	counts, err := header.ReadInt32()
	if err != nil || len(counts) == 0 {
		return fmt.Errorf("%w: unreadable step count", ErrNotStepStore)
	}
	sf.steps = int(counts[0])

	// Container-wide attribute keys, including _DIM_ entries.
	sf.attrKeys = append(sf.attrKeys, header.Attrs()...)

	members, err := root.Members()
	if err != nil {
		return fmt.Errorf("listing variables: %w", err)
	}
	for _, name := range members {
		if name == headerName {
			continue
		}
		g, err := root.OpenGroup(name)
		if err != nil {
			return fmt.Errorf("%w: %q is not a variable group: %v", ErrNotStepStore, name, err)
		}
		step0, err := g.OpenDataset(stepName(0))
		if err != nil {
			return fmt.Errorf("variable %q has no step 0: %w", name, err)
		}

		tagAttr := step0.Attr(typeAttr)
		if tagAttr == nil {
			return fmt.Errorf("%w: variable %q has no element-type tag", ErrNotStepStore, name)
		}
		tag, err := tagAttr.ReadScalarString()
		if err != nil {
			return fmt.Errorf("variable %q: reading element-type tag: %w", name, err)
		}

		entry := &varEntry{tag: tag, group: g}
		if tag != "string" {
			for _, d := range step0.Shape() {
				entry.shape = append(entry.shape, int(d))
			}
		}
		sf.vars[name] = entry
		sf.varOrder = append(sf.varOrder, name)

		for _, attr := range step0.Attrs() {
			if attr == typeAttr || attr == valueAttr {
				continue
			}
			sf.attrKeys = append(sf.attrKeys, name+"/"+attr)
		}
	}
	return nil
}

// AttributeKeys enumerates every attribute key: container-wide keys first,
// then "<variable>/<name>" keys in catalog order.
func (sf *File) AttributeKeys() []string {
	return append([]string(nil), sf.attrKeys...)
}

// ReadAttribute performs a typed read of an attribute value.
func (sf *File) ReadAttribute(key string) (interface{}, error) {
	attr, err := sf.attr(key)
	if err != nil {
		return nil, err
	}
	return attr.Value()
}

// ReadAttributeString reads an attribute as text.
func (sf *File) ReadAttributeString(key string) ([]string, error) {
	attr, err := sf.attr(key)
	if err != nil {
		return nil, err
	}
	return attr.ReadString()
}

func (sf *File) attr(key string) (*hdf5.Attribute, error) {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		vname, aname := key[:i], key[i+1:]
		entry, ok := sf.vars[vname]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ncconv.ErrUnknownVariable, vname)
		}
		step0, err := entry.group.OpenDataset(stepName(0))
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", vname, err)
		}
		attr := step0.Attr(aname)
		if attr == nil {
			return nil, fmt.Errorf("attribute not found: %s", key)
		}
		return attr, nil
	}

	header, err := sf.f.Root().OpenDataset(headerName)
	if err != nil {
		return nil, err
	}
	attr := header.Attr(key)
	if attr == nil {
		return nil, fmt.Errorf("attribute not found: %s", key)
	}
	return attr, nil
}

// VariableNames lists the variables in catalog order.
func (sf *File) VariableNames() []string {
	return append([]string(nil), sf.varOrder...)
}

// VariableType returns the raw element-type tag of a variable.
func (sf *File) VariableType(name string) (string, error) {
	entry, ok := sf.vars[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ncconv.ErrUnknownVariable, name)
	}
	return entry.tag, nil
}

// VariableShape returns the stored per-step shape, or nil for string
// variables.
func (sf *File) VariableShape(name string) ([]int, error) {
	entry, ok := sf.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ncconv.ErrUnknownVariable, name)
	}
	return append([]int(nil), entry.shape...), nil
}

// Steps reports the number of steps recorded in the container.
func (sf *File) Steps() int {
	return sf.steps
}

// Read reads one step of a variable, optionally restricted to the slab
// [start, start+count) on each axis. The step is loaded whole and sliced
// in memory.
func (sf *File) Read(name string, step int, start, count []int) (interface{}, error) {
	entry, ds, err := sf.stepDataset(name, step)
	if err != nil {
		return nil, err
	}

	switch entry.tag {
	case "float":
		full, err := ds.ReadFloat32()
		if err != nil {
			return nil, fmt.Errorf("variable %q step %d: %w", name, step, err)
		}
		if start == nil && count == nil {
			return full, nil
		}
		return slab.Extract(full, entry.shape, start, count)
	case "int32_t":
		full, err := ds.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("variable %q step %d: %w", name, step, err)
		}
		if start == nil && count == nil {
			return full, nil
		}
		return slab.Extract(full, entry.shape, start, count)
	case "string":
		return nil, fmt.Errorf("variable %q is string-typed, use ReadString", name)
	default:
		return nil, fmt.Errorf("variable %q: %w: %q", name, ncconv.ErrUnsupportedType, entry.tag)
	}
}

// ReadString reads the string value of one step.
func (sf *File) ReadString(name string, step int) (string, error) {
	_, ds, err := sf.stepDataset(name, step)
	if err != nil {
		return "", err
	}
	attr := ds.Attr(valueAttr)
	if attr == nil {
		return "", fmt.Errorf("variable %q step %d has no string value", name, step)
	}
	return attr.ReadScalarString()
}

func (sf *File) stepDataset(name string, step int) (*varEntry, *hdf5.Dataset, error) {
	entry, ok := sf.vars[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ncconv.ErrUnknownVariable, name)
	}
	if step < 0 || step >= sf.steps {
		return nil, nil, fmt.Errorf("variable %q: step %d out of range", name, step)
	}
	ds, err := entry.group.OpenDataset(stepName(step))
	if err != nil {
		return nil, nil, fmt.Errorf("variable %q step %d: %w", name, step, err)
	}
	return entry, ds, nil
}

// Close closes the underlying container.
func (sf *File) Close() error {
	return sf.f.Close()
}
