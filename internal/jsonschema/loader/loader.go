package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	pkgjsonschema "github.com/goliatone/go-tomlgen/pkg/jsonschema"
)

const defaultMaxDocumentBytes = int64(5 << 20)

// Loader implements pkgjsonschema.Loader over files, an fs.FS, and HTTP.
type Loader struct {
	fs       fs.FS
	http     *http.Client
	timeout  time.Duration
	maxBytes int64
}

var _ pkgjsonschema.Loader = (*Loader)(nil)

// New builds a Loader from resolved options. HTTP stays disabled unless a
// client or the fallback was configured.
func New(options pkgjsonschema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	maxBytes := options.MaxDocumentBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxDocumentBytes
	}

	return &Loader{
		fs:       options.FileSystem,
		http:     httpClient,
		timeout:  timeout,
		maxBytes: maxBytes,
	}
}

// Load reads src and wraps the payload in a Document.
func (l *Loader) Load(ctx context.Context, src pkgjsonschema.Source) (pkgjsonschema.Document, error) {
	if src == nil {
		return pkgjsonschema.Document{}, errors.New("jsonschema loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgjsonschema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkgjsonschema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case pkgjsonschema.SourceKindURL:
		if l.http == nil {
			return pkgjsonschema.Document{}, errors.New("jsonschema loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout, l.maxBytes)
	default:
		err = fmt.Errorf("jsonschema loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgjsonschema.Document{}, err
	}
	return pkgjsonschema.NewDocument(src, data)
}
