// Package transform provides the transforms forge runs on each asset:
// a passthrough copy and an external command executed under a pseudo-terminal.
package transform

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Transformer = (*Copier)(nil)

// Copier writes the input unchanged to the requested output path.
type Copier struct{}

// NewCopier creates a Copier.
func NewCopier() *Copier {
	return &Copier{}
}

// Transform copies req.Input to req.Output through a temp file in the output directory.
func (c *Copier) Transform(_ context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
	if !req.Kind.Supported() {
		return domain.TransformResult{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedAsset, "cannot copy"), "path", req.Input)
	}

	//nolint:gosec // input comes from the walked source tree
	src, err := os.Open(req.Input)
	if err != nil {
		return domain.TransformResult{}, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", req.Input)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return domain.TransformResult{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", req.Input)
	}

	written, err := writeAtomic(req.Output, src)
	if err != nil {
		return domain.TransformResult{}, err
	}

	return domain.TransformResult{
		BytesIn:    uint64(info.Size()), //nolint:gosec // file sizes are never negative
		BytesOut:   uint64(written),     //nolint:gosec // byte counts are never negative
		OutputPath: req.Output,
	}, nil
}

// writeAtomic streams r into path, creating parent directories as needed.
func writeAtomic(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", dir)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	written, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return 0, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", path)
	}
	if err := tmp.Close(); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "path", path)
	}
	return written, nil
}
