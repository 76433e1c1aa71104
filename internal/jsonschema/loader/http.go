package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration, maxBytes int64) ([]byte, error) {
	if client == nil {
		return nil, errors.New("jsonschema loader: http client is not configured")
	}
	if url == "" {
		return nil, errors.New("jsonschema loader: url is required")
	}

	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/schema+json, application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("jsonschema loader: unexpected status " + resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("jsonschema loader: document exceeds %d bytes", maxBytes)
	}
	return data, nil
}
