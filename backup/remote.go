package backup

import (
	"context"
	"time"
)

// RemoteFile is a backup file held by the remote store.
type RemoteFile struct {
	ID         string
	Name       string
	ModifiedAt time.Time
}

// Remote is a blob store addressed by file name. Implementations return an
// error wrapping apperrors.ErrUnauthorized when the credential is rejected.
type Remote interface {
	// Find returns nil, nil when no file has the name.
	Find(ctx context.Context, token, name string) (*RemoteFile, error)
	Create(ctx context.Context, token, name string, data []byte) (*RemoteFile, error)
	Update(ctx context.Context, token, id string, data []byte) error
	Download(ctx context.Context, token, id string) ([]byte, error)
}
