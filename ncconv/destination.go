package ncconv

// Destination is a dimensioned dataset opened for writing. The full schema
// (dimensions, then variables) must be declared before any data write.
//
// WriteSlab is the collective write point of a parallel conversion: a
// Destination used by a multi-rank group must accept concurrent slab
// writes that are either disjoint or byte-identical.
type Destination interface {
	// CreateDimension declares a named dimension of fixed length.
	// Redeclaring a name fails with ErrDuplicateDimension.
	CreateDimension(name string, length int) error

	// CreateVariable declares a variable with an ordered dimension-name
	// list (outermost first). Every referenced dimension must already be
	// declared. Redeclaring a name fails with ErrDuplicateVariable.
	CreateVariable(name string, t ElemType, dims []string) error

	// SetFillOff disables default fill-value pre-initialization.
	SetFillOff()

	// WriteScalar writes a single-element value into the scalar slot of
	// one step.
	WriteScalar(name string, step int, value interface{}) error

	// WriteString writes the string value of one step.
	WriteString(name string, step int, value string) error

	// WriteSlab writes a row-major slab covering [start, start+count) on
	// each non-time axis of one step.
	WriteSlab(name string, step int, start, count []int, value interface{}) error

	// SetGlobalAttrs sets all container-wide attributes in one batch,
	// preserving the given key order.
	SetGlobalAttrs(attrs map[string]interface{}, order []string) error

	// SetVarAttr sets a single attribute on a declared variable.
	SetVarAttr(name, key string, value interface{}) error

	Close() error
}
