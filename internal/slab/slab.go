// Package slab provides row-major index arithmetic for placing and
// extracting rectangular slabs of multi-dimensional arrays stored as flat
// slices.
package slab

import (
	"fmt"
	"reflect"
)

// Size returns the element count of a shape. The empty shape is a scalar
// and has size 1.
func Size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Strides returns the row-major strides of a shape.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

// Place copies a row-major slab of extent count at origin start into the
// flat destination buffer of the given full shape.
func Place[T any](dst []T, shape, start, count []int, src []T) error {
	if err := check(shape, start, count, len(src), len(dst)); err != nil {
		return err
	}
	if len(shape) == 0 {
		dst[0] = src[0]
		return nil
	}
	strides := Strides(shape)
	srcStrides := Strides(count)

	var walk func(axis, dstOff, srcOff int)
	walk = func(axis, dstOff, srcOff int) {
		if axis == len(shape)-1 {
			base := dstOff + start[axis]
			copy(dst[base:base+count[axis]], src[srcOff:srcOff+count[axis]])
			return
		}
		for i := 0; i < count[axis]; i++ {
			walk(axis+1, dstOff+(start[axis]+i)*strides[axis], srcOff+i*srcStrides[axis])
		}
	}
	walk(0, 0, 0)
	return nil
}

// Extract copies the slab of extent count at origin start out of the flat
// source buffer of the given full shape.
func Extract[T any](src []T, shape, start, count []int) ([]T, error) {
	if err := check(shape, start, count, Size(count), len(src)); err != nil {
		return nil, err
	}
	out := make([]T, Size(count))
	if len(shape) == 0 {
		out[0] = src[0]
		return out, nil
	}
	strides := Strides(shape)
	outStrides := Strides(count)

	var walk func(axis, srcOff, outOff int)
	walk = func(axis, srcOff, outOff int) {
		if axis == len(shape)-1 {
			base := srcOff + start[axis]
			copy(out[outOff:outOff+count[axis]], src[base:base+count[axis]])
			return
		}
		for i := 0; i < count[axis]; i++ {
			walk(axis+1, srcOff+(start[axis]+i)*strides[axis], outOff+i*outStrides[axis])
		}
	}
	walk(0, 0, 0)
	return out, nil
}

// check validates slab bounds against the full shape and the flat buffer
// lengths. slabLen is the expected element count of the slab buffer.
func check(shape, start, count []int, slabLen, fullLen int) error {
	if len(start) != len(shape) || len(count) != len(shape) {
		return fmt.Errorf("slab rank %d/%d does not match shape rank %d",
			len(start), len(count), len(shape))
	}
	want := 1
	for i := range shape {
		if start[i] < 0 || count[i] < 0 || start[i]+count[i] > shape[i] {
			return fmt.Errorf("slab [%d:%d) out of range on axis %d of extent %d",
				start[i], start[i]+count[i], i, shape[i])
		}
		want *= count[i]
	}
	if slabLen != want {
		return fmt.Errorf("slab buffer has %d elements, extent wants %d", slabLen, want)
	}
	if full := Size(shape); fullLen < full {
		return fmt.Errorf("full buffer has %d elements, shape wants %d", fullLen, full)
	}
	return nil
}

// Reshape builds a nested slice of the given shape from a flat row-major
// slice. Shapes of rank 0 or 1 return the flat value unchanged.
func Reshape(flat interface{}, shape []int) interface{} {
	if len(shape) <= 1 {
		return flat
	}
	return reshapeValue(reflect.ValueOf(flat), shape).Interface()
}

func reshapeValue(v reflect.Value, shape []int) reflect.Value {
	if len(shape) == 1 {
		return v
	}
	chunk := 1
	for _, d := range shape[1:] {
		chunk *= d
	}
	out := reflect.MakeSlice(nestedSliceType(v.Type().Elem(), len(shape)), shape[0], shape[0])
	for i := 0; i < shape[0]; i++ {
		out.Index(i).Set(reshapeValue(v.Slice(i*chunk, (i+1)*chunk), shape[1:]))
	}
	return out
}

// nestedSliceType returns the type with depth levels of slicing around
// elem.
func nestedSliceType(elem reflect.Type, depth int) reflect.Type {
	t := elem
	for i := 0; i < depth; i++ {
		t = reflect.SliceOf(t)
	}
	return t
}
