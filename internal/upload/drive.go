package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	driveAPIBase    = "https://www.googleapis.com/drive/v3"
	driveUploadBase = "https://www.googleapis.com/upload/drive/v3"
)

// Drive implements ObjectStore against the Google Drive v3 REST API.
// Uploaded objects land in a configured folder and are served from the
// image-hosting CDN, so the public URL is a pure function of the file id.
type Drive struct {
	folderID string
	cdnHost  string

	// Overridable in tests.
	apiBase    string
	uploadBase string
	client     *http.Client
}

// NewDrive creates a Drive store targeting folderID, minting public URLs on
// cdnHost.
func NewDrive(folderID, cdnHost string) *Drive {
	return &Drive{
		folderID:   folderID,
		cdnHost:    cdnHost,
		apiBase:    driveAPIBase,
		uploadBase: driveUploadBase,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Create uploads data in a single multipart/related request and returns the
// Drive file id. Only the id field is requested back.
func (d *Drive) Create(ctx context.Context, accessToken, name, mimeType string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	meta, err := json.Marshal(map[string]interface{}{
		"name":    name,
		"parents": []string{d.folderID},
	})
	if err != nil {
		return "", fmt.Errorf("encode file metadata: %w", err)
	}
	part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
	if err != nil {
		return "", fmt.Errorf("metadata part: %w", err)
	}
	if _, err := part.Write(meta); err != nil {
		return "", fmt.Errorf("metadata part: %w", err)
	}

	media, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {mimeType}})
	if err != nil {
		return "", fmt.Errorf("media part: %w", err)
	}
	if _, err := media.Write(data); err != nil {
		return "", fmt.Errorf("media part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finish multipart body: %w", err)
	}

	url := d.uploadBase + "/files?uploadType=multipart&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apiError("create file", resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create file: response contained no id")
	}
	return created.ID, nil
}

// Share grants anonymous read access to the file.
func (d *Drive) Share(ctx context.Context, accessToken, fileID string) error {
	payload := strings.NewReader(`{"role":"reader","type":"anyone"}`)
	url := d.apiBase + "/files/" + fileID + "/permissions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		return fmt.Errorf("build permission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError("grant permission", resp)
	}
	return nil
}

// Delete removes the file from Drive.
func (d *Drive) Delete(ctx context.Context, accessToken, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, d.apiBase+"/files/"+fileID, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError("delete file", resp)
	}
	return nil
}

// PublicURL returns the hosting URL for a file id. It is deterministic: no
// network round-trip is needed to derive it.
func (d *Drive) PublicURL(fileID string) string {
	return fmt.Sprintf("https://%s/d/%s?authuser=0", d.cdnHost, fileID)
}

// apiError reads the response body (truncated) into an error carrying the
// upstream status.
func apiError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: %s: %s", op, resp.Status, strings.TrimSpace(string(snippet)))
}
