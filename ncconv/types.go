package ncconv

import "fmt"

// ElemType identifies a destination element type.
type ElemType int

const (
	typeInvalid ElemType = iota
	Float32
	Int32
	String
)

func (t ElemType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case String:
		return "string"
	default:
		return "invalid"
	}
}

// MapType translates a source element-type tag into a destination element
// type. Exactly three tags are recognized. An unrecognized tag aborts the
// conversion, and must do so before any destination object is declared so
// no half-built schema is left behind.
func MapType(tag string) (ElemType, error) {
	switch tag {
	case "float":
		return Float32, nil
	case "int32_t":
		return Int32, nil
	case "string":
		return String, nil
	default:
		return typeInvalid, fmt.Errorf("%w: %q", ErrUnsupportedType, tag)
	}
}
