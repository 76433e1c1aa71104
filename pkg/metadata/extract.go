package metadata

import (
	"fmt"

	"github.com/goliatone/go-tomlgen/pkg/fieldpath"
	"github.com/goliatone/go-tomlgen/pkg/layout"
	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// Extractor resolves references against a root schema document.
type Extractor struct {
	root schema.Schema
}

func NewExtractor(root schema.Schema) *Extractor {
	return &Extractor{root: root}
}

// Extract indexes every field reachable from root.
func Extract(root schema.Schema) *Index {
	return NewExtractor(root).ExtractAt(root, fieldpath.Root())
}

// ExtractAt indexes node as if it were located at start. References inside
// node resolve against the extractor's root.
//
// The walk is total: unresolvable references and keywords with an unexpected
// shape contribute nothing. Branches of allOf, anyOf, and oneOf are all
// merged into the same paths, so a field that exists in a single branch is
// indexed as if it were always present. Later visits to a path overwrite the
// comment and optional flag recorded by earlier ones.
func (e *Extractor) ExtractAt(node schema.Schema, start fieldpath.Path) *Index {
	w := &walker{root: e.root, index: newIndex()}
	if start.IsRoot() {
		if desc := w.rootDescription(node); desc != "" {
			w.index.comments[start.Key()] = desc
		}
	}
	w.walk(node, start)
	return w.index
}

type walker struct {
	root  schema.Schema
	index *Index
	refs  []string
}

func (w *walker) walk(node schema.Schema, path fieldpath.Path) {
	if node.Ref != "" {
		w.follow(node.Ref, path)
	}

	for _, branches := range [][]schema.Schema{node.AllOf, node.AnyOf, node.OneOf} {
		for _, branch := range branches {
			w.walk(branch, path)
		}
	}

	for _, name := range node.OrderedProperties() {
		prop := node.Properties[name]
		child := path.Child(name)

		w.index.addKnown(child)
		w.index.optional[child.Key()] = !node.IsRequired(name)
		if prop.Description != "" {
			w.index.comments[child.Key()] = prop.Description
		}
		if d, ok := w.directive(prop, child); ok {
			w.index.fieldDirectives.Set(child, d)
		}

		w.walk(prop, child)
	}

	if node.Items != nil {
		w.walk(*node.Items, path)
	}
}

// follow resolves ref and walks the target at the same path. A reference that
// is already being expanded further up is skipped.
func (w *walker) follow(ref string, path fieldpath.Path) {
	for _, active := range w.refs {
		if active == ref {
			return
		}
	}
	target, ok := w.root.Lookup(ref)
	if !ok {
		return
	}

	if !path.IsRoot() {
		if _, exists := w.index.typeDirectives.Get(path); !exists {
			if d, ok := w.directive(target, path); ok {
				w.index.typeDirectives.Set(path, d)
			}
		}
	}

	w.refs = append(w.refs, ref)
	w.walk(target, path)
	w.refs = w.refs[:len(w.refs)-1]
}

func (w *walker) directive(node schema.Schema, path fieldpath.Path) (layout.Directive, bool) {
	raw, ok := node.FormatDirective()
	if !ok {
		return layout.Default, false
	}
	d, err := layout.ParseDirective(raw)
	if err != nil {
		w.index.warnings = append(w.index.warnings, fmt.Sprintf("%s: %v", path.String(), err))
		return layout.Default, false
	}
	return d, true
}

// rootDescription returns the description of node, following a chain of root
// references when the node itself has none.
func (w *walker) rootDescription(node schema.Schema) string {
	seen := map[string]struct{}{}
	for node.Description == "" && node.Ref != "" {
		if _, loop := seen[node.Ref]; loop {
			return ""
		}
		seen[node.Ref] = struct{}{}
		target, ok := w.root.Lookup(node.Ref)
		if !ok {
			return ""
		}
		node = target
	}
	return node.Description
}
