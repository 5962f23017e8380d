package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/functions"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
	"github.com/raushankrgupta/stylesync/validation"
)

type AnalyzeClosetItemRequest struct {
	ImageURL      string  `json:"imageUrl" validate:"required"`
	ImagePublicID string  `json:"imagePublicId"`
	Category      string  `json:"category" validate:"required,oneof=tops bottoms dresses outerwear shoes accessories bags"`
	Name          string  `json:"name" validate:"max=120"`
	Color         string  `json:"color" validate:"max=40"`
	Brand         string  `json:"brand" validate:"max=80"`
	Season        string  `json:"season" validate:"omitempty,oneof=spring summer fall autumn winter all"`
	Style         string  `json:"style" validate:"max=40"`
	PricePaid     float64 `json:"pricePaid" validate:"min=0"`
}

type AnalyzeClosetItemResponse struct {
	ItemID   string                  `json:"itemId"`
	Analysis *functions.ItemAnalysis `json:"analysis,omitempty"`
}

type TagRequest struct {
	Tag string `json:"tag"`
}

// AnalyzeClosetItemHandler saves a new closet item. AI tagging is attempted
// first; when it fails the item is saved with the caller's fields only.
func (h *Handler) AnalyzeClosetItemHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Analyze Closet Item API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req AnalyzeClosetItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.Struct(req); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	analysis := h.tagItem(r.Context(), &logMessageBuilder, uid, req.ImageURL)
	item := newClosetItem(uid, req, analysis)

	id, err := h.Store.Add(r.Context(), store.ClosetItems, item)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save item: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save closet item", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Saved closet item %s", id))
	utils.RespondJSON(w, http.StatusOK, AnalyzeClosetItemResponse{ItemID: id, Analysis: analysis})
}

func (h *Handler) tagItem(ctx context.Context, logMessageBuilder *strings.Builder, uid, imageURL string) *functions.ItemAnalysis {
	if h.Service == nil {
		return nil
	}
	res, err := h.Service.AnalyzeClosetItem(ctx, uid, functions.AnalyzeClosetItemRequest{ImageURL: imageURL})
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("AI tagging skipped: %v", err))
		return nil
	}
	return &res.Analysis
}

func newClosetItem(uid string, req AnalyzeClosetItemRequest, a *functions.ItemAnalysis) models.ClosetItem {
	item := models.ClosetItem{
		UserID:        uid,
		Name:          strings.TrimSpace(req.Name),
		Category:      req.Category,
		Color:         req.Color,
		Brand:         req.Brand,
		Style:         req.Style,
		ImageURL:      req.ImageURL,
		ImagePublicID: req.ImagePublicID,
		PricePaid:     req.PricePaid,
	}
	if req.Season != "" {
		item.Seasons = []string{req.Season}
	}
	if a == nil {
		if item.Name == "" {
			item.Name = req.Category
		}
		return item
	}

	// Caller-supplied fields win over the model's guesses.
	item.Name = firstNonEmpty(item.Name, a.Name, a.ItemType, req.Category)
	item.Color = firstNonEmpty(item.Color, a.PrimaryColor)
	item.Brand = firstNonEmpty(item.Brand, a.Brand)
	item.Style = firstNonEmpty(item.Style, a.Style)
	if len(item.Seasons) == 0 {
		item.Seasons = a.Seasons
	}
	item.Colors = a.Colors
	item.Pattern = a.Pattern
	item.AITags = a.Tags
	item.SuitableOccasions = a.SuitableOccasions
	item.FormalityLevel = a.FormalityLevel
	item.ModestCoverage = a.ModestCoverage
	item.CoverageLevel = a.CoverageLevel
	return item
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// GetItemsHandler lists the caller's closet, newest first, optionally by category.
func (h *Handler) GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get Items API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodGet) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	where := map[string]any{"userId": uid}
	if c := r.URL.Query().Get("category"); c != "" {
		if !models.IsCategory(c) {
			utils.RespondError(w, &logMessageBuilder, "Unknown category", http.StatusBadRequest)
			return
		}
		where["category"] = c
	}

	items := []models.ClosetItem{}
	if err := h.Store.List(r.Context(), store.ClosetItems, store.Query{Where: where, OrderBy: "createdAt", Desc: true}, &items); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to load items", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// ItemHandler edits (PUT) or deletes (DELETE) one owned item.
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Item API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPut, http.MethodDelete) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}
	item, ok := h.ownedItem(w, r, &logMessageBuilder, uid)
	if !ok {
		return
	}

	if r.Method == http.MethodDelete {
		if err := h.Store.Remove(r.Context(), store.ClosetItems, item.ID); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete item: %v", err))
			utils.RespondError(w, &logMessageBuilder, "Failed to delete item", http.StatusInternalServerError)
			return
		}
		if item.ImagePublicID != "" {
			if err := h.Media.Delete(r.Context(), item.ImagePublicID); err != nil {
				utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Image left behind: %v", err))
			}
		}
		utils.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		return
	}

	var update models.ItemUpdate
	if err := utils.DecodeJSON(r, &update); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.Struct(update); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	fields := update.Fields()
	if update.PricePaid != nil {
		// Keep costPerWear consistent with the new price.
		item.PricePaid = *update.PricePaid
		fields["costPerWear"] = nil
		if item.PricePaid > 0 && item.WearCount > 0 {
			fields["costPerWear"] = item.PricePaid / float64(item.WearCount)
		}
	}
	h.saveItemFields(w, r, &logMessageBuilder, item.ID, fields)
}

// AddTagHandler adds a user tag, ignoring duplicates.
func (h *Handler) AddTagHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Add Tag API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req TagRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	tag := strings.ToLower(strings.TrimSpace(req.Tag))
	if tag == "" || len(tag) > 40 {
		utils.RespondError(w, &logMessageBuilder, "tag must be 1 to 40 characters", http.StatusBadRequest)
		return
	}

	item, ok := h.ownedItem(w, r, &logMessageBuilder, uid)
	if !ok {
		return
	}
	err := h.editTags(r.Context(), item.ID, func(tags []string) []string {
		for _, t := range tags {
			if t == tag {
				return tags
			}
		}
		return append(tags, tag)
	})
	h.respondTagEdit(w, r, &logMessageBuilder, item.ID, err)
}

// RemoveTagHandler removes a user tag if present.
func (h *Handler) RemoveTagHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Remove Tag API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodDelete) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}
	item, ok := h.ownedItem(w, r, &logMessageBuilder, uid)
	if !ok {
		return
	}

	tag := strings.ToLower(r.PathValue("tag"))
	err := h.editTags(r.Context(), item.ID, func(tags []string) []string {
		kept := make([]string, 0, len(tags))
		for _, t := range tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		return kept
	})
	h.respondTagEdit(w, r, &logMessageBuilder, item.ID, err)
}

// editTags rewrites the tag list inside a transaction so concurrent edits
// apply one after another instead of overwriting each other.
func (h *Handler) editTags(ctx context.Context, id string, edit func(tags []string) []string) error {
	return h.Store.RunInTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		var item models.ClosetItem
		if err := tx.Get(ctx, store.ClosetItems, id, &item); err != nil {
			return err
		}
		return tx.Update(ctx, store.ClosetItems, id, map[string]any{"tags": edit(item.Tags)})
	})
}

func (h *Handler) respondTagEdit(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder, id string, err error) {
	if err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to update tags: %v", err))
		utils.RespondError(w, logMessageBuilder, "Failed to update item", http.StatusInternalServerError)
		return
	}
	var item models.ClosetItem
	if err := h.Store.Get(r.Context(), store.ClosetItems, id, &item); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to reload item: %v", err))
		utils.RespondError(w, logMessageBuilder, "Failed to update item", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

// ownedItem loads the {id} item and writes 404 unless the caller owns it.
// Other users' items are reported as missing.
func (h *Handler) ownedItem(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder, uid string) (*models.ClosetItem, bool) {
	var item models.ClosetItem
	err := h.Store.Get(r.Context(), store.ClosetItems, r.PathValue("id"), &item)
	if err == nil && item.UserID == uid {
		return &item, true
	}
	if err != nil && !store.IsNotFound(err) {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, logMessageBuilder, "Failed to load item", http.StatusInternalServerError)
		return nil, false
	}
	utils.RespondError(w, logMessageBuilder, "Item not found", http.StatusNotFound)
	return nil, false
}

func (h *Handler) saveItemFields(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder, id string, fields map[string]any) {
	if err := h.Store.Update(r.Context(), store.ClosetItems, id, fields); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to update item: %v", err))
		utils.RespondError(w, logMessageBuilder, "Failed to update item", http.StatusInternalServerError)
		return
	}
	var item models.ClosetItem
	if err := h.Store.Get(r.Context(), store.ClosetItems, id, &item); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to reload item: %v", err))
		utils.RespondError(w, logMessageBuilder, "Failed to update item", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}
