package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/utils"
)

type UploadImageRequest struct {
	Image string `json:"image"`
	Kind  string `json:"kind"`
}

type DeleteImageRequest struct {
	PublicID string `json:"publicId"`
}

// UploadImageHandler stores a data URL, base64 string or remote image and
// returns {url, publicId}.
func (h *Handler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Image API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req UploadImageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		utils.RespondError(w, &logMessageBuilder, "Image data is required", http.StatusBadRequest)
		return
	}

	kind := req.Kind
	switch kind {
	case "":
		kind = media.KindUploads
	case media.KindUploads, media.KindCloset, media.KindBodyScans:
	default:
		utils.RespondError(w, &logMessageBuilder, "kind must be one of: uploads, closet, body-scans", http.StatusBadRequest)
		return
	}

	up, err := h.storeImage(r.Context(), uid, kind, req.Image)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Upload failed: %v", err))
		if errors.Is(err, media.ErrEmptyImage) {
			utils.RespondError(w, &logMessageBuilder, "Image data is required", http.StatusBadRequest)
			return
		}
		if errors.Is(err, media.ErrImageTooLarge) {
			utils.RespondError(w, &logMessageBuilder, "Image is too large", http.StatusRequestEntityTooLarge)
			return
		}
		utils.RespondError(w, &logMessageBuilder, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Uploaded %s", up.PublicID))
	utils.RespondJSON(w, http.StatusOK, up)
}

// DeleteImageHandler removes one of the caller's uploads.
func (h *Handler) DeleteImageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Image API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req DeleteImageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PublicID == "" {
		utils.RespondError(w, &logMessageBuilder, "publicId is required", http.StatusBadRequest)
		return
	}
	if !h.ownsPublicID(uid, req.PublicID) {
		utils.RespondError(w, &logMessageBuilder, "Image does not belong to you", http.StatusForbidden)
		return
	}

	if err := h.Media.Delete(r.Context(), req.PublicID); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Delete failed: %v", err))
		if errors.Is(err, media.ErrDeleteUnsupported) {
			utils.RespondError(w, &logMessageBuilder, "Image deletion is not configured", http.StatusNotImplemented)
			return
		}
		utils.RespondError(w, &logMessageBuilder, "Failed to delete image", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
