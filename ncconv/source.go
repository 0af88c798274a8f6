package ncconv

// Source is a step-indexed array store opened for reading. Each rank of a
// parallel conversion owns its own Source handle.
//
// Read and ReadString address one step of one variable. Values returned by
// Read are flat slices ([]float32 or []int32) in row-major order of the
// variable's stored shape; a non-nil start/count pair restricts the read
// to that slab.
type Source interface {
	// AttributeKeys enumerates every attribute key in the container,
	// including variable-scoped keys of the form "<variable>/<name>".
	AttributeKeys() []string

	// ReadAttribute performs a typed read of an attribute value.
	ReadAttribute(key string) (interface{}, error)

	// ReadAttributeString reads an attribute as text. It is the fallback
	// branch when a typed read fails on a textual value.
	ReadAttributeString(key string) ([]string, error)

	// VariableNames lists the variables in catalog order.
	VariableNames() []string

	// VariableType returns the raw source element-type tag of a variable.
	VariableType(name string) (string, error)

	// VariableShape returns the stored per-step shape of a variable.
	// String-typed variables have no shape and return nil.
	VariableShape(name string) ([]int, error)

	// Steps reports the number of discrete time steps in the container.
	Steps() int

	Read(name string, step int, start, count []int) (interface{}, error)
	ReadString(name string, step int) (string, error)

	Close() error
}
