package jsonschema

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-tomlgen/pkg/schema"
)

// Loader fetches schema documents from files, an fs.FS, or HTTP. The
// implementation lives in internal/jsonschema/loader.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures a Loader. HTTP is off unless a client or the
// fallback is configured.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS

	// HTTPClient is used for SourceKindURL when set.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client when no
	// HTTPClient is supplied.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetches.
	RequestTimeout time.Duration

	// MaxDocumentBytes caps the size of a remote document. Zero uses the
	// package default.
	MaxDocumentBytes int64
}

// LoaderOption mutates LoaderOptions.
type LoaderOption func(*LoaderOptions)

func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources using a default client with the given
// timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

func WithMaxDocumentBytes(limit int64) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.MaxDocumentBytes = limit
	}
}

// NewLoaderOptions applies options over the zero configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Load fetches src with loader and parses it.
func Load(ctx context.Context, loader Loader, src Source) (schema.Schema, error) {
	if loader == nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: loader is nil")
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return schema.Schema{}, err
	}
	out, err := Parse(doc.Raw())
	if err != nil {
		return schema.Schema{}, fmt.Errorf("%w (%s)", err, doc.Location())
	}
	return out, nil
}
