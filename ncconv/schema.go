package ncconv

import "fmt"

// TimeDim is the distinguished step dimension. It is sized to the source
// step count and is the outermost axis of every destination variable.
const TimeDim = "Time"

// DeclareSchema declares the full destination layout: the Time dimension,
// every source-declared dimension, then one variable per catalog entry
// with Time prepended. Declaration must run to completion before any data
// write; any failure here is fatal to the conversion.
func DeclareSchema(dst Destination, meta *Metadata) error {
	if err := dst.CreateDimension(TimeDim, meta.Steps); err != nil {
		return fmt.Errorf("declaring dimension %q: %w", TimeDim, err)
	}
	for _, name := range meta.DimOrder {
		if err := dst.CreateDimension(name, meta.DimLens[name]); err != nil {
			return fmt.Errorf("declaring dimension %q: %w", name, err)
		}
	}

	for _, v := range meta.Vars {
		for i, d := range v.Dims {
			length, ok := meta.DimLens[d]
			if !ok {
				return fmt.Errorf("variable %q: %w: %q", v.Name, ErrUnknownDimension, d)
			}
			if i < len(v.Shape) && v.Shape[i] != length {
				return fmt.Errorf("variable %q: dimension %q has length %d but shape is %v",
					v.Name, d, length, v.Shape)
			}
		}
		dims := append([]string{TimeDim}, v.Dims...)
		if err := dst.CreateVariable(v.Name, v.Elem, dims); err != nil {
			return fmt.Errorf("declaring variable %q: %w", v.Name, err)
		}
	}
	return nil
}
