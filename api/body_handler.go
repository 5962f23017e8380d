package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
	"golang.org/x/sync/errgroup"
)

type AnalyzeBodyRequest struct {
	FrontImage string  `json:"frontImage"`
	SideImage  string  `json:"sideImage"`
	FaceImage  string  `json:"faceImage"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
}

// AnalyzeBodyHandler uploads the three reference photos and records a
// pending BodyScan. Measurements are filled in later by analyzeBodyShape.
func (h *Handler) AnalyzeBodyHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Analyze Body API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodPost) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var req AnalyzeBodyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FrontImage == "" || req.SideImage == "" || req.FaceImage == "" {
		utils.RespondError(w, &logMessageBuilder, "frontImage, sideImage and faceImage are required", http.StatusBadRequest)
		return
	}
	if req.Height < 0 || req.Weight < 0 {
		utils.RespondError(w, &logMessageBuilder, "height and weight must be positive", http.StatusBadRequest)
		return
	}

	// All three succeed or the scan is not saved. Completed uploads are not rolled back.
	inputs := [3]string{req.FrontImage, req.SideImage, req.FaceImage}
	var uploads [3]*media.Upload
	g, ctx := errgroup.WithContext(r.Context())
	for i, input := range inputs {
		g.Go(func() error {
			up, err := h.storeImage(ctx, uid, media.KindBodyScans, input)
			if err != nil {
				return err
			}
			uploads[i] = up
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Upload failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to upload images", http.StatusInternalServerError)
		return
	}

	scan := models.BodyScan{
		UserID:        uid,
		FrontImageURL: uploads[0].URL,
		SideImageURL:  uploads[1].URL,
		FaceImageURL:  uploads[2].URL,
		Height:        req.Height,
		Weight:        req.Weight,
		Measurements:  models.Measurements{Height: req.Height},
		Status:        models.ScanStatusPending,
	}
	if req.Height > 0 {
		scan.MeasurementSource = models.MeasurementManual
	}

	id, err := h.Store.Add(r.Context(), store.BodyScans, scan)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save scan: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save body scan", http.StatusInternalServerError)
		return
	}
	if err := h.Store.Get(r.Context(), store.BodyScans, id, &scan); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to reload scan: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to save body scan", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Saved body scan %s", id))
	utils.RespondJSON(w, http.StatusOK, scan)
}

// BodyScanHandler returns the caller's most recent scan.
func (h *Handler) BodyScanHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Body Scan API]")

	if !allowMethod(w, r, &logMessageBuilder, http.MethodGet) {
		return
	}
	uid, ok := caller(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	var scans []models.BodyScan
	q := store.Query{Where: map[string]any{"userId": uid}, OrderBy: "createdAt", Desc: true, Limit: 1}
	if err := h.Store.List(r.Context(), store.BodyScans, q, &scans); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to load body scan", http.StatusInternalServerError)
		return
	}
	if len(scans) == 0 {
		utils.RespondError(w, &logMessageBuilder, "No body scan found", http.StatusNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, scans[0])
}
