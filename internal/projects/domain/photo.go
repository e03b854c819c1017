package domain

import "io"

// Photo is an uploaded file on its way to the blob store.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
