package upload

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Service is the upload pipeline: validate, relay to the object store, make
// public, mint the URL. Each remote call is attempted exactly once per
// invocation; retries are the caller's business.
type Service struct {
	tokens   TokenSource
	store    ObjectStore
	maxBytes int64
}

// NewService creates an upload Service enforcing maxBytes as the size cap.
func NewService(tokens TokenSource, store ObjectStore, maxBytes int64) *Service {
	return &Service{tokens: tokens, store: store, maxBytes: maxBytes}
}

// Upload validates data and relays it to the object store under name,
// returning the object id and its public URL.
//
// Step order is fixed: token, create, permission grant. A file is never
// reported as uploaded before the grant succeeds. When the grant fails the
// freshly created object is deleted best-effort so it does not linger
// unreadable, and ErrPermission is returned.
func (s *Service) Upload(ctx context.Context, data []byte, name, mimeType string) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: maximum size is %dMB", ErrTooLarge, s.maxBytes>>20)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w, got %q", ErrUnsupportedType, mimeType)
	}

	if s.tokens == nil {
		return nil, fmt.Errorf("%w: credentials not configured", ErrAuth)
	}
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	fileID, err := s.store.Create(ctx, token, name, mimeType, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if err := s.store.Share(ctx, token, fileID); err != nil {
		if delErr := s.store.Delete(ctx, token, fileID); delErr != nil {
			log.Printf("upload: cleanup of unshared object %s failed: %v", fileID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPermission, err)
	}

	return &Result{FileID: fileID, PublicURL: s.store.PublicURL(fileID)}, nil
}
