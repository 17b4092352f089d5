package storage

import (
	"context"
	"io"
	"time"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// Signer issues short-lived GET URLs; documents are never public, every
// preview/download goes through a signed URL requested per view.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

type ObjectStore interface {
	Uploader
	Signer
}
