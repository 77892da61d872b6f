package upload

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeTokens struct {
	token string
	err   error
	calls int
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeStore struct {
	fileID    string
	createErr error
	shareErr  error
	deleteErr error

	createCalls int
	shareCalls  int
	deleteCalls int

	lastToken string
	lastName  string
	lastMime  string
	lastData  []byte
}

func (f *fakeStore) Create(_ context.Context, token, name, mimeType string, data []byte) (string, error) {
	f.createCalls++
	f.lastToken, f.lastName, f.lastMime, f.lastData = token, name, mimeType, data
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.fileID, nil
}

func (f *fakeStore) Share(_ context.Context, token, fileID string) error {
	f.shareCalls++
	return f.shareErr
}

func (f *fakeStore) Delete(_ context.Context, token, fileID string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeStore) PublicURL(fileID string) string {
	return "https://cdn.example/d/" + fileID + "?authuser=0"
}

func newTestPipeline(maxBytes int64) (*Service, *fakeTokens, *fakeStore) {
	tokens := &fakeTokens{token: "tok-1"}
	store := &fakeStore{fileID: "file-123"}
	return NewService(tokens, store, maxBytes), tokens, store
}

func TestUploadHappyPath(t *testing.T) {
	svc, tokens, store := newTestPipeline(1 << 20)

	res, err := svc.Upload(context.Background(), []byte("png bytes"), "avatar-1.png", "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.FileID != "file-123" {
		t.Errorf("fileID = %q", res.FileID)
	}
	if res.PublicURL != "https://cdn.example/d/file-123?authuser=0" {
		t.Errorf("publicURL = %q", res.PublicURL)
	}
	if tokens.calls != 1 || store.createCalls != 1 || store.shareCalls != 1 {
		t.Errorf("calls: tokens=%d create=%d share=%d", tokens.calls, store.createCalls, store.shareCalls)
	}
	if store.lastToken != "tok-1" || store.lastName != "avatar-1.png" || store.lastMime != "image/png" {
		t.Errorf("store saw token=%q name=%q mime=%q", store.lastToken, store.lastName, store.lastMime)
	}
}

func TestUploadRejectsNonImageBeforeAnyCall(t *testing.T) {
	svc, tokens, store := newTestPipeline(1 << 20)

	_, err := svc.Upload(context.Background(), []byte("hi"), "notes.txt", "text/plain")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if tokens.calls != 0 || store.createCalls != 0 {
		t.Errorf("remote calls were made: tokens=%d create=%d", tokens.calls, store.createCalls)
	}
}

func TestUploadRejectsOversizeBeforeAnyCall(t *testing.T) {
	svc, tokens, store := newTestPipeline(16)

	_, err := svc.Upload(context.Background(), make([]byte, 17), "big.png", "image/png")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if !strings.Contains(err.Error(), "maximum size") {
		t.Errorf("error should mention the size limit: %v", err)
	}
	if tokens.calls != 0 || store.createCalls != 0 {
		t.Errorf("remote calls were made: tokens=%d create=%d", tokens.calls, store.createCalls)
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc, _, store := newTestPipeline(1 << 20)

	_, err := svc.Upload(context.Background(), nil, "empty.png", "image/png")
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	if store.createCalls != 0 {
		t.Errorf("create was called for an empty file")
	}
}

func TestUploadAuthFailure(t *testing.T) {
	svc, tokens, store := newTestPipeline(1 << 20)
	tokens.err = errors.New("invalid_grant")

	_, err := svc.Upload(context.Background(), []byte("x"), "a.png", "image/png")
	if err == nil {
		t.Fatalf("expected error")
	}
	if store.createCalls != 0 {
		t.Errorf("create was called after token failure")
	}
}

func TestUploadCreateFailure(t *testing.T) {
	svc, _, store := newTestPipeline(1 << 20)
	store.createErr = errors.New("quota exceeded")

	_, err := svc.Upload(context.Background(), []byte("x"), "a.png", "image/png")
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("upstream cause missing: %v", err)
	}
	if store.shareCalls != 0 {
		t.Errorf("share attempted after failed create")
	}
}

func TestUploadPermissionFailureCleansUp(t *testing.T) {
	svc, _, store := newTestPipeline(1 << 20)
	store.shareErr = errors.New("forbidden")

	_, err := svc.Upload(context.Background(), []byte("x"), "a.png", "image/png")
	if !errors.Is(err, ErrPermission) {
		t.Fatalf("expected ErrPermission, got %v", err)
	}
	if store.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1 (orphan cleanup)", store.deleteCalls)
	}
}

func TestUploadPermissionFailureSurvivesCleanupFailure(t *testing.T) {
	svc, _, store := newTestPipeline(1 << 20)
	store.shareErr = errors.New("forbidden")
	store.deleteErr = errors.New("also broken")

	_, err := svc.Upload(context.Background(), []byte("x"), "a.png", "image/png")
	if !errors.Is(err, ErrPermission) {
		t.Fatalf("expected ErrPermission even when cleanup fails, got %v", err)
	}
}

func TestPublicURLDeterministic(t *testing.T) {
	d := NewDrive("folder", "lh3.googleusercontent.com")

	want := "https://lh3.googleusercontent.com/d/abc123?authuser=0"
	if got := d.PublicURL("abc123"); got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
	if d.PublicURL("abc123") != d.PublicURL("abc123") {
		t.Errorf("PublicURL is not deterministic")
	}
}
