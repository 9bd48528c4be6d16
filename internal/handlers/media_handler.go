package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"estate-backend/internal/media"
	"estate-backend/internal/middleware"
	"estate-backend/internal/services"
	"estate-backend/internal/timeutil"
)

// maxPhotoBytes caps listing photo uploads at 8 MB
const maxPhotoBytes = 8 << 20

type MediaHandler struct {
	Store      *media.Store
	Moderator  media.Moderator
	Properties *services.PropertyService
}

func NewMediaHandler(store *media.Store, moderator media.Moderator, properties *services.PropertyService) *MediaHandler {
	return &MediaHandler{Store: store, Moderator: moderator, Properties: properties}
}

// UploadPhoto accepts a multipart photo for one listing, stores it and
// records the object key once moderation approves it.
func (h *MediaHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		respondError(w, http.StatusServiceUnavailable, "Media storage not configured")
		return
	}

	propertyID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Photo too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo file field required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		respondError(w, http.StatusBadRequest, "Only jpg, png and webp photos are accepted")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := fmt.Sprintf("%d%s", timeutil.Now().UnixNano(), ext)
	key, err := h.Store.Upload(r.Context(), propertyID, name, file, contentType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	approved, reason, err := h.Moderator.Approve(r.Context(), key)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Moderation check failed")
		return
	}
	if !approved {
		// Rejected uploads are removed immediately
		if delErr := h.Store.Delete(r.Context(), key); delErr != nil {
			respondError(w, http.StatusInternalServerError, "Failed to discard rejected photo")
			return
		}
		respondError(w, http.StatusUnprocessableEntity, "Photo rejected: "+reason)
		return
	}

	if err := h.Properties.AttachPhoto(r.Context(), propertyID, userID, key); err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotListingOwner):
			respondError(w, http.StatusForbidden, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Failed to attach photo")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"key": key})
}

// PhotoURLs returns presigned download URLs for a listing's photos
func (h *MediaHandler) PhotoURLs(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		respondError(w, http.StatusServiceUnavailable, "Media storage not configured")
		return
	}

	propertyID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid property id")
		return
	}

	p, err := h.Properties.Get(r.Context(), propertyID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Property not found")
		return
	}

	urls := make([]string, 0, len(p.PhotoKeys))
	for _, key := range p.PhotoKeys {
		url, err := h.Store.PresignGet(r.Context(), key)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to presign photo URL")
			return
		}
		urls = append(urls, url)
	}
	respondJSON(w, http.StatusOK, map[string]any{"urls": urls})
}
