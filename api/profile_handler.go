package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
	"github.com/raushankrgupta/stylesync/validation"
)

// SaveProfileRequest carries only the fields the client wants to change.
type SaveProfileRequest struct {
	DisplayName       *string   `json:"displayName" validate:"omitempty,max=80"`
	StylingPreference *string   `json:"stylingPreference" validate:"omitempty,oneof=veiled unveiled"`
	Occupation        *string   `json:"occupation" validate:"omitempty,max=120"`
	Location          *string   `json:"location" validate:"omitempty,max=120"`
	FavoriteBrands    *[]string `json:"favoriteBrands" validate:"omitempty,max=50,dive,max=80"`
}

func (req SaveProfileRequest) fields(uid string) map[string]any {
	fields := map[string]any{"userId": uid}
	if req.DisplayName != nil {
		fields["displayName"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.StylingPreference != nil {
		fields["stylingPreference"] = *req.StylingPreference
	}
	if req.Occupation != nil {
		fields["occupation"] = *req.Occupation
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.FavoriteBrands != nil {
		fields["favoriteBrands"] = *req.FavoriteBrands
	}
	return fields
}

func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Get Profile API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodGet) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var profile models.Profile
	h.respondDocument(w, r, &logMessageBuilder, store.Profiles, uid, &profile, "Profile not found")
}

// SaveProfileHandler upserts profiles/{uid}, merging with what is stored.
func (h *Handler) SaveProfileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Save Profile API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost, http.MethodPut) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req SaveProfileRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.Struct(req); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Store.Set(r.Context(), store.Profiles, uid, req.fields(uid), true); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save profile: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save profile", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Profile saved")
	var profile models.Profile
	h.respondDocument(w, r, &logMessageBuilder, store.Profiles, uid, &profile, "Profile not found")
}

// AvatarHandler returns avatars/{uid}.
func (h *Handler) AvatarHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Avatar API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodGet) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var avatar models.Avatar
	h.respondDocument(w, r, &logMessageBuilder, store.Avatars, uid, &avatar, "Avatar not found")
}

// respondDocument writes collection/id as JSON, or 404 with notFound.
func (h *Handler) respondDocument(w http.ResponseWriter, r *http.Request, logMessageBuilder *strings.Builder, collection, id string, out any, notFound string) {
	if err := h.Store.Get(r.Context(), collection, id, out); err != nil {
		if store.IsNotFound(err) {
			utils.RespondError(w, logMessageBuilder, notFound, http.StatusNotFound)
			return
		}
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}
	utils.RespondJSON(w, http.StatusOK, out)
}
