package ncconv

import "fmt"

// WriteAttrs copies all global attributes to the destination in one batch,
// then sets each variable-scoped attribute on its variable. It must run
// after DeclareSchema; this converter runs it after the data copy, so a
// reader inspecting the destination mid-conversion sees no metadata.
func WriteAttrs(dst Destination, meta *Metadata) error {
	if err := dst.SetGlobalAttrs(meta.GlobalAttrs, meta.GlobalOrder); err != nil {
		return fmt.Errorf("setting global attributes: %w", err)
	}
	for _, v := range meta.Vars {
		for _, key := range meta.VarAttrOrder[v.Name] {
			if err := dst.SetVarAttr(v.Name, key, meta.VarAttrs[v.Name][key]); err != nil {
				return fmt.Errorf("setting attribute %q on variable %q: %w", key, v.Name, err)
			}
		}
	}
	return nil
}
