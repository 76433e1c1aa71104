package scaffold

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-tomlgen/pkg/fieldpath"
	"github.com/goliatone/go-tomlgen/pkg/value"
)

// Transformer mutates the root table of a value before it is rendered.
// Implementations can fill in example values, drop secrets, or rename keys.
type Transformer interface {
	Transform(ctx context.Context, root *value.Table) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, root *value.Table) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, root *value.Table) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, root)
}

// Defaults is a Transformer that sets values at paths the root does not
// already hold. Intermediate tables are created as needed; a path that runs
// through a non-table value is an error.
type Defaults struct {
	paths  []fieldpath.Path
	values map[fieldpath.Key]value.Value
}

// NewDefaults returns an empty Defaults transformer.
func NewDefaults() *Defaults {
	return &Defaults{values: make(map[fieldpath.Key]value.Value)}
}

// Set registers v for path. The last registration for a path wins.
func (d *Defaults) Set(path fieldpath.Path, v value.Value) *Defaults {
	key := path.Key()
	if _, exists := d.values[key]; !exists {
		d.paths = append(d.paths, path)
	}
	d.values[key] = v
	return d
}

// Transform implements Transformer.
func (d *Defaults) Transform(ctx context.Context, root *value.Table) error {
	if root == nil {
		return errors.New("defaults transformer: root table is nil")
	}
	for _, path := range d.paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if path.IsRoot() {
			continue
		}
		table := root
		for i := 0; i < path.Len()-1; i++ {
			segment, _ := path.Segment(i)
			next, ok := table.Get(segment)
			if !ok {
				child := value.NewTable()
				table.Set(segment, value.TableOf(child))
				table = child
				continue
			}
			sub, ok := next.AsTable()
			if !ok {
				return fmt.Errorf("defaults transformer: %s is a %s, not a table", fieldpath.New(path.Segments()[:i+1]...), next.Kind())
			}
			table = sub
		}
		if !table.Has(path.Last()) {
			table.Set(path.Last(), d.values[path.Key()])
		}
	}
	return nil
}
