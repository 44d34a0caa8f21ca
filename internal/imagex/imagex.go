// Package imagex converts portraits between their wire form (base64 text,
// optionally carrying a data-URL prefix) and their stored form (gzip bytes).
package imagex

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Compress decodes a base64 portrait and gzips it for storage. A data-URL
// prefix ("data:image/png;base64,...") is stripped if present; clients attach
// it on input but it is never stored.
func Compress(encoded string) ([]byte, error) {
	if i := strings.IndexByte(encoded, ','); i >= 0 {
		encoded = encoded[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("imagex: decode base64: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, fmt.Errorf("imagex: compress: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("imagex: compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress expands a stored portrait back to bare base64 text, without any
// data-URL prefix; the client re-attaches one when rendering.
func Decompress(compressed []byte) (string, error) {
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", fmt.Errorf("imagex: open gzip: %w", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return "", fmt.Errorf("imagex: decompress: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
