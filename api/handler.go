package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/scrapers"
	"github.com/raushankrgupta/stylesync/utils"
)

type ImportItemRequest struct {
	URL string `json:"url"`
}

// ImportItemHandler reads a shop product link and returns a preview the
// client can turn into a closet item. The first product image is copied
// into the caller's closet folder so the item does not depend on the shop's CDN.
func (h *Handler) ImportItemHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Import Item API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	// Support both Query Params and JSON Body
	productURL := r.URL.Query().Get("url")
	if productURL == "" {
		var req ImportItemRequest
		if err := utils.DecodeJSON(r, &req); err == nil {
			productURL = strings.TrimSpace(req.URL)
		}
	}
	if productURL == "" {
		utils.RespondError(w, &logMessageBuilder, "Please provide a product url", http.StatusBadRequest)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Importing URL: %s", productURL))

	preview, err := h.Importer(r.Context(), productURL)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Import failed: %v", err))
		switch {
		case errors.Is(err, scrapers.ErrUnsupportedURL):
			utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		case errors.Is(err, scrapers.ErrNoProduct):
			utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusUnprocessableEntity)
		default:
			utils.RespondError(w, &logMessageBuilder, "Could not read the product page", http.StatusBadGateway)
		}
		return
	}

	if len(preview.Images) > 0 {
		up, err := h.storeImage(r.Context(), uid, media.KindCloset, preview.Images[0])
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Image not re-hosted: %v", err))
		} else {
			preview.ImageURL = up.URL
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, "Import successful")
	utils.RespondJSON(w, http.StatusOK, preview)
}
