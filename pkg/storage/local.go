package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

// Local stores objects under a base directory and returns file:// URLs.
type Local struct {
	base string
}

// NewLocal creates the base directory if needed.
func NewLocal(base string) (*Local, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Validation, apperrors.CodeInvalidInput, err,
			"resolve output directory %q", base)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err,
			"create output directory %q", abs)
	}
	return &Local{base: abs}, nil
}

// Put writes data under key, creating intermediate directories. The write
// goes to a temp file in the destination directory and is renamed into
// place, so a reader never observes a partial object.
func (l *Local) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(l.base, filepath.FromSlash(key))
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err,
			"create directory %q", dir)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err,
			"create temp file in %q", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err,
			"write %q", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err,
			"close %q", tmpName)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return "", apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err,
			"rename into place %q", dst)
	}

	return "file://" + filepath.ToSlash(dst), nil
}
