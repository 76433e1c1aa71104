package loader

import (
	"context"
	"errors"
	"io/fs"
	"strings"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("jsonschema loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("jsonschema loader: fs is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return fs.ReadFile(files, strings.TrimPrefix(name, "./"))
}
