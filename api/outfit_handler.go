package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/outfits"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
)

type GenerateOutfitsRequest struct {
	Occasion    string         `json:"occasion"`
	Weather     string         `json:"weather"`
	Preferences map[string]any `json:"preferences"`
}

type GenerateOutfitsResponse struct {
	Outfits    []outfits.LocalOutfit `json:"outfits"`
	TotalItems int                   `json:"totalItems"`
}

// GenerateOutfitsHandler pairs closet items with the local composer. The
// occasion, weather and preferences are accepted but do not steer pairing;
// AI-ranked suggestions go through generateOutfitRecommendations.
func (h *Handler) GenerateOutfitsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Generate Outfits API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req GenerateOutfitsRequest
	// An empty body is allowed; every field is optional.
	if err := utils.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	var items []models.ClosetItem
	q := store.Query{Where: map[string]any{"userId": uid}, OrderBy: "createdAt"}
	if err := h.Store.List(r.Context(), store.ClosetItems, q, &items); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to load items", http.StatusInternalServerError)
		return
	}

	result := outfits.Compose(items, h.Limits)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Composed %d outfits from %d items", len(result), len(items)))
	utils.RespondJSON(w, http.StatusOK, GenerateOutfitsResponse{Outfits: result, TotalItems: len(items)})
}
