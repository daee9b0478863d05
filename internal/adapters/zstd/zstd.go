// Package zstd decorates a ports.FileAccess so documents may be shipped
// zstd-compressed. A request for "de.json" is served from "de.json" when
// present and otherwise from "de.json.zst", decompressed on the fly.
package zstd

import (
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/corey/osmnames/internal/ports"
)

// Ext is the suffix of compressed documents.
const Ext = ".zst"

// Access serves plain or compressed documents from an inner FileAccess.
type Access struct {
	inner ports.FileAccess
}

var _ ports.FileAccess = (*Access)(nil)

// Wrap decorates inner.
func Wrap(inner ports.FileAccess) *Access {
	return &Access{inner: inner}
}

// Exists reports whether name or its compressed variant exists.
func (a *Access) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := a.inner.Exists(ctx, name)
	if err != nil || ok {
		return ok, err
	}
	return a.inner.Exists(ctx, name+Ext)
}

// Open prefers the plain document and falls back to the compressed one.
func (a *Access) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ok, err := a.inner.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if ok {
		return a.inner.Open(ctx, name)
	}

	compressed, err := a.inner.Open(ctx, name+Ext)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(compressed)
	if err != nil {
		compressed.Close()
		return nil, fmt.Errorf("zstd open %s: %w", name+Ext, err)
	}
	return &reader{dec: dec, src: compressed}, nil
}

// reader closes both the decoder and the underlying stream.
type reader struct {
	dec *zstd.Decoder
	src io.Closer
}

func (r *reader) Read(p []byte) (int, error) {
	return r.dec.Read(p)
}

func (r *reader) Close() error {
	r.dec.Close()
	return r.src.Close()
}

// Compress encodes data for storage as a ".zst" document.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}
