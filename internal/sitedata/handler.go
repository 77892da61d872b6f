package sitedata

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/linkpage/service/internal/docstore"
	"github.com/linkpage/service/internal/response"
)

// Handler holds HTTP handlers for site configuration endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new sitedata Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type saveResponse struct {
	Success   bool   `json:"success"   example:"true"`
	Message   string `json:"message"   example:"Site data saved successfully"`
	Timestamp string `json:"timestamp" example:"2026-09-01T10:15:04Z"`
}

type categoriesResponse struct {
	Categories []docstore.Document `json:"categories"`
}

// GetSiteData godoc
//
//	@Summary		Get site data
//	@Description	Returns the stored profile and background image URL, or the documented defaults before any admin edit.
//	@Tags			site-data
//	@Produce		json
//	@Success		200	{object}	SiteData
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/api/site-data [get]
func (h *Handler) GetSiteData(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.SiteData(r.Context())
	if err != nil {
		log.Printf("get site data: %v", err)
		response.InternalError(w, "Internal server error", err.Error())
		return
	}
	response.OK(w, data)
}

// GetCategories godoc
//
//	@Summary		List categories
//	@Description	Returns all categories sorted by creation time ascending.
//	@Tags			site-data
//	@Produce		json
//	@Success		200	{object}	categoriesResponse
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/api/categories [get]
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		log.Printf("get categories: %v", err)
		response.InternalError(w, "Internal server error", err.Error())
		return
	}
	response.OK(w, categoriesResponse{Categories: cats})
}

// SaveSiteData godoc
//
//	@Summary		Save site data
//	@Description	Saves any subset of profile, background image, and the full category list. Absent sections are untouched; a submitted category list fully replaces the stored one.
//	@Tags			site-data
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SaveRequest	true	"Sections to save"
//	@Success		200		{object}	saveResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/api/site-data [post]
func (h *Handler) SaveSiteData(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	ts, err := h.svc.Save(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			response.BadRequest(w, err.Error())
			return
		}
		log.Printf("save site data: %v", err)
		response.InternalError(w, "Internal server error", err.Error())
		return
	}

	response.OK(w, saveResponse{
		Success:   true,
		Message:   "Site data saved successfully",
		Timestamp: ts.Format(time.RFC3339),
	})
}
