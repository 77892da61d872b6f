package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

func multipartReq(t *testing.T, path, field, filename, mimeType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)},
		"Content-Type":        {mimeType},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTestHandler(maxBytes int64) (*Handler, *fakeStore) {
	tokens := &fakeTokens{token: "tok"}
	store := &fakeStore{fileID: "f-1"}
	return NewHandler(NewService(tokens, store, maxBytes), maxBytes), store
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestUploadAvatarHandler(t *testing.T) {
	h, store := newTestHandler(1 << 20)

	rec := httptest.NewRecorder()
	h.UploadAvatar(rec, multipartReq(t, "/api/upload/avatar", "avatar", "me.png", "image/png", []byte("png bytes")))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Success   bool   `json:"success"`
		FileID    string `json:"fileId"`
		PublicURL string `json:"publicUrl"`
		Message   string `json:"message"`
	}
	decodeBody(t, rec, &body)
	if !body.Success || body.FileID != "f-1" || body.PublicURL == "" {
		t.Errorf("body = %+v", body)
	}
	if body.Message != "Avatar uploaded successfully" {
		t.Errorf("message = %q", body.Message)
	}
	if !strings.HasPrefix(store.lastName, "avatar-") || !strings.HasSuffix(store.lastName, ".png") {
		t.Errorf("object name = %q", store.lastName)
	}
}

func TestUploadMissingFile(t *testing.T) {
	h, store := newTestHandler(1 << 20)

	// Right endpoint, wrong field name.
	rec := httptest.NewRecorder()
	h.UploadBackground(rec, multipartReq(t, "/api/upload/background", "avatar", "bg.png", "image/png", []byte("x")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Error != "No file uploaded" {
		t.Errorf("error = %q", body.Error)
	}
	if store.createCalls != 0 {
		t.Errorf("object store was called")
	}
}

func TestUploadRejectsWrongType(t *testing.T) {
	h, store := newTestHandler(1 << 20)

	rec := httptest.NewRecorder()
	h.UploadProductImage(rec, multipartReq(t, "/api/upload/product-image", "productImage", "doc.pdf", "application/pdf", []byte("%PDF")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "image files") {
		t.Errorf("body = %s", rec.Body)
	}
	if store.createCalls != 0 {
		t.Errorf("object store was called")
	}
}

func TestUploadRejectsOversizeBody(t *testing.T) {
	h, store := newTestHandler(1 << 20)

	// 2 MiB against a 1 MiB cap: rejected at the boundary with a 400 that
	// names the limit, and the object store is never called.
	rec := httptest.NewRecorder()
	h.UploadAvatar(rec, multipartReq(t, "/api/upload/avatar", "avatar", "big.png", "image/png", make([]byte, 2<<20)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "File too large") {
		t.Errorf("body = %s", rec.Body)
	}
	if store.createCalls != 0 {
		t.Errorf("object store was called for an oversized upload")
	}
}

func TestUploadStoreFailure(t *testing.T) {
	h, store := newTestHandler(1 << 20)
	store.createErr = fmt.Errorf("drive is down")

	rec := httptest.NewRecorder()
	h.UploadAvatar(rec, multipartReq(t, "/api/upload/avatar", "avatar", "me.png", "image/png", []byte("x")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	decodeBody(t, rec, &body)
	if body.Error != "Failed to upload avatar" {
		t.Errorf("error = %q", body.Error)
	}
	if !strings.Contains(body.Details, "drive is down") {
		t.Errorf("details = %q", body.Details)
	}
}

func TestObjectName(t *testing.T) {
	name := objectName("avatar", "image/jpeg")
	if !strings.HasPrefix(name, "avatar-") || !strings.HasSuffix(name, ".jpeg") {
		t.Errorf("name = %q", name)
	}
	if got := objectName("product", "bogus"); !strings.HasSuffix(got, ".bin") {
		t.Errorf("fallback extension not applied: %q", got)
	}
}
