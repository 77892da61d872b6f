package upload

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linkpage/service/internal/response"
)

// multipart boundary and field-name overhead on top of the file size cap
const formSlack = 4 << 10

// Handler holds HTTP handlers for the upload endpoints.
type Handler struct {
	svc      *Service
	maxBytes int64
}

// NewHandler creates a new upload Handler. maxBytes caps the request body at
// the boundary, before any bytes reach the pipeline.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

type uploadData struct {
	Success   bool   `json:"success"   example:"true"`
	FileID    string `json:"fileId"    example:"1A2b3C4d5E"`
	PublicURL string `json:"publicUrl" example:"https://lh3.googleusercontent.com/d/1A2b3C4d5E?authuser=0"`
	Message   string `json:"message"   example:"Avatar uploaded successfully"`
}

// UploadAvatar godoc
//
//	@Summary		Upload avatar image
//	@Description	Accepts an image file (max 10MB), stores it publicly, and returns its URL.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			avatar	formData	file	true	"Image file"
//	@Success		200		{object}	uploadData
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/api/upload/avatar [post]
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "avatar", "avatar", "Avatar")
}

// UploadBackground godoc
//
//	@Summary		Upload background image
//	@Description	Accepts an image file (max 10MB), stores it publicly, and returns its URL.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			background	formData	file	true	"Image file"
//	@Success		200			{object}	uploadData
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Router			/api/upload/background [post]
func (h *Handler) UploadBackground(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "background", "background", "Background")
}

// UploadProductImage godoc
//
//	@Summary		Upload product image
//	@Description	Accepts an image file (max 10MB), stores it publicly, and returns its URL.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			productImage	formData	file	true	"Image file"
//	@Success		200				{object}	uploadData
//	@Failure		400				{object}	response.ErrorBody
//	@Failure		500				{object}	response.ErrorBody
//	@Router			/api/upload/product-image [post]
func (h *Handler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "productImage", "product", "Product image")
}

// handle reads the multipart file under field, runs it through the pipeline,
// and writes the response. prefix names the stored object; label is the
// human-readable kind used in messages.
func (h *Handler) handle(w http.ResponseWriter, r *http.Request, field, prefix, label string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formSlack)

	file, header, err := r.FormFile(field)
	if err != nil {
		if isBodyTooLarge(err) {
			response.BadRequest(w, fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxBytes>>20))
			return
		}
		response.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		response.BadRequest(w, fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxBytes>>20))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			response.BadRequest(w, fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxBytes>>20))
			return
		}
		response.BadRequest(w, "could not read uploaded file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	name := objectName(prefix, mimeType)

	result, err := h.svc.Upload(r.Context(), data, name, mimeType)
	if err != nil {
		if IsValidation(err) {
			response.BadRequest(w, err.Error())
			return
		}
		log.Printf("upload %s: %v", field, err)
		response.InternalError(w, "Failed to upload "+strings.ToLower(label), err.Error())
		return
	}

	response.OK(w, uploadData{
		Success:   true,
		FileID:    result.FileID,
		PublicURL: result.PublicURL,
		Message:   label + " uploaded successfully",
	})
}

// objectName builds a collision-safe object name: prefix, upload time, a
// random suffix, and an extension taken from the MIME subtype.
func objectName(prefix, mimeType string) string {
	ext := "bin"
	if _, sub, ok := strings.Cut(mimeType, "/"); ok && sub != "" {
		ext = sub
	}
	return fmt.Sprintf("%s-%d-%s.%s", prefix, time.Now().UnixMilli(), uuid.NewString(), ext)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
