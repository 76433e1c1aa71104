package layout

import "github.com/goliatone/go-tomlgen/pkg/fieldpath"

// Resolver answers which directive applies at a path. Layers are consulted in
// order; the first one holding an entry wins. Typical layering is caller
// overrides, then field-level schema directives, then type-level ones.
type Resolver struct {
	layers []Map
}

// NewResolver stacks layers from highest to lowest precedence. Nil layers are
// skipped.
func NewResolver(layers ...Map) Resolver {
	kept := make([]Map, 0, len(layers))
	for _, layer := range layers {
		if len(layer) > 0 {
			kept = append(kept, layer)
		}
	}
	return Resolver{layers: kept}
}

// Lookup returns the directive for path, or Default.
func (r Resolver) Lookup(path fieldpath.Path) Directive {
	d, _ := r.Explicit(path)
	return d
}

// Explicit returns the directive for path and whether any layer set it.
func (r Resolver) Explicit(path fieldpath.Path) (Directive, bool) {
	key := path.Key()
	for _, layer := range r.layers {
		if d, ok := layer[key]; ok {
			return d, true
		}
	}
	return Default, false
}
