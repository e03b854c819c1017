// Package blob stores uploaded photos and hands back opaque references.
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRef = errors.New("invalid blob reference")

// Upload is a stream to persist.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Object describes a stored blob.
type Object struct {
	Ref     string
	Size    int64
	ModTime time.Time
}

type Store interface {
	Put(ctx context.Context, u Upload) (string, error)
	Delete(ctx context.Context, ref string) error
	List(ctx context.Context) ([]Object, error)
}

// objectName builds a collision-free name that keeps the upload's extension.
func objectName(filename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/")))
	if len(ext) > 10 || strings.ContainsAny(ext, " /") {
		ext = ""
	}
	return uuid.NewString() + ext
}
