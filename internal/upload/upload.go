// Package upload relays in-memory image files to the Google Drive object
// store and mints durable public URLs for them.
package upload

import (
	"context"
	"errors"
)

// Result describes a successfully uploaded object. It is returned to the
// caller and not persisted here.
type Result struct {
	FileID    string `json:"fileId"`
	PublicURL string `json:"publicUrl"`
}

// Validation failures, rejected before any network call.
var (
	ErrEmptyFile       = errors.New("no file data")
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("only image files are allowed")
)

// Remote failures, one per pipeline step.
var (
	// ErrAuth means the refresh-token exchange failed.
	ErrAuth = errors.New("object store authentication failed")
	// ErrStore means the create-file call failed; nothing was stored.
	ErrStore = errors.New("object store upload failed")
	// ErrPermission means the object was created but could not be made
	// public. The pipeline attempts to delete it rather than hand out a URL
	// nobody can read.
	ErrPermission = errors.New("object store permission grant failed")
)

// IsValidation reports whether err is a caller error (HTTP 400) rather than
// a remote failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrTooLarge) || errors.Is(err, ErrUnsupportedType)
}

// TokenSource yields short-lived access tokens for the object store API.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// ObjectStore is the interface for the external object store. The pipeline
// obtains an access token first and passes it to every call.
type ObjectStore interface {
	// Create stores data under name and returns the provider-assigned object id.
	Create(ctx context.Context, accessToken, name, mimeType string, data []byte) (string, error)
	// Share makes the object world-readable.
	Share(ctx context.Context, accessToken, fileID string) error
	// Delete removes the object.
	Delete(ctx context.Context, accessToken, fileID string) error
	// PublicURL constructs the browser-accessible URL for an object id.
	PublicURL(fileID string) string
}
