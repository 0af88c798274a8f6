package ncconv

import (
	"fmt"
	"strconv"
	"strings"
)

// DimPrefix marks attribute keys that declare dimension lengths rather
// than user metadata.
const DimPrefix = "_DIM_"

// dimsHint is the per-variable attribute carrying the source-declared
// dimension-name order. It is consumed here and never copied to the
// destination.
const dimsHint = "Dims"

// VarMeta describes one variable of the source catalog. Dims and Shape are
// in destination (row-major) order; the source-declared order is the
// reverse. Read-only once ReadMetadata returns.
type VarMeta struct {
	Name       string
	SourceType string
	Elem       ElemType
	Dims       []string
	Shape      []int
}

// Metadata is everything the schema and copy phases need from the source.
type Metadata struct {
	Vars         []VarMeta
	GlobalAttrs  map[string]interface{}
	GlobalOrder  []string
	VarAttrs     map[string]map[string]interface{}
	VarAttrOrder map[string][]string
	DimLens      map[string]int
	DimOrder     []string
	Steps        int
}

// ReadMetadata enumerates the source schema: attribute scoping, dimension
// lengths, the variable catalog with mapped element types, and the step
// count. Type mapping happens here so an unsupported type aborts the
// conversion before anything is declared on the destination.
func ReadMetadata(src Source) (*Metadata, error) {
	meta := &Metadata{
		GlobalAttrs:  make(map[string]interface{}),
		VarAttrs:     make(map[string]map[string]interface{}),
		VarAttrOrder: make(map[string][]string),
		DimLens:      make(map[string]int),
		Steps:        src.Steps(),
	}

	for _, key := range src.AttributeKeys() {
		if strings.HasSuffix(key, "/"+dimsHint) {
			// Dimension-order hint, consumed per variable below.
			continue
		}
		if i := strings.IndexByte(key, '/'); i >= 0 {
			vname, aname := key[:i], key[i+1:]
			val, err := readAttrValue(src, key)
			if err != nil {
				return nil, fmt.Errorf("reading attribute %q: %w", key, err)
			}
			if meta.VarAttrs[vname] == nil {
				meta.VarAttrs[vname] = make(map[string]interface{})
			}
			meta.VarAttrs[vname][aname] = val
			meta.VarAttrOrder[vname] = append(meta.VarAttrOrder[vname], aname)
			continue
		}
		if strings.HasPrefix(key, DimPrefix) {
			val, err := readAttrValue(src, key)
			if err != nil {
				return nil, fmt.Errorf("reading dimension entry %q: %w", key, err)
			}
			length, err := dimLength(val)
			if err != nil {
				return nil, fmt.Errorf("dimension entry %q: %w", key, err)
			}
			name := strings.TrimPrefix(key, DimPrefix)
			meta.DimLens[name] = length
			meta.DimOrder = append(meta.DimOrder, name)
			continue
		}
		val, err := readAttrValue(src, key)
		if err != nil {
			return nil, fmt.Errorf("reading attribute %q: %w", key, err)
		}
		meta.GlobalAttrs[key] = val
		meta.GlobalOrder = append(meta.GlobalOrder, key)
	}

	for _, name := range src.VariableNames() {
		tag, err := src.VariableType(name)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		elem, err := MapType(tag)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		shape, err := src.VariableShape(name)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}

		var dims []string
		if elem != String {
			dims, err = src.ReadAttributeString(name + "/" + dimsHint)
			if err != nil {
				return nil, fmt.Errorf("variable %q: reading dimension hint: %w", name, err)
			}
			// The source declares dimensions in the opposite major-order
			// convention; reverse to destination order.
			reverse(dims)
			if len(dims) > 0 && dims[0] == TimeDim {
				dims = dims[1:]
			}
		}

		meta.Vars = append(meta.Vars, VarMeta{
			Name:       name,
			SourceType: tag,
			Elem:       elem,
			Dims:       dims,
			Shape:      shape,
		})
	}

	return meta, nil
}

// readAttrValue applies the two-branch read policy: attempt a typed
// decode, and on failure read the value as text. The fallback is a normal
// path, not an error condition.
func readAttrValue(src Source, key string) (interface{}, error) {
	val, err := src.ReadAttribute(key)
	if err == nil {
		return val, nil
	}
	strs, serr := src.ReadAttributeString(key)
	if serr != nil {
		return nil, err
	}
	if len(strs) == 1 {
		return strs[0], nil
	}
	return strs, nil
}

// dimLength coerces a dimension-declaration attribute value to a length.
func dimLength(val interface{}) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case []int32:
		if len(v) == 1 {
			return int(v[0]), nil
		}
	case []int64:
		if len(v) == 1 {
			return int(v[0]), nil
		}
	case string:
		return strconv.Atoi(v)
	}
	return 0, fmt.Errorf("value %v is not a dimension length", val)
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
