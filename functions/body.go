package functions

import (
	"context"
	"encoding/json"

	"github.com/raushankrgupta/stylesync/ai"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
)

type AnalyzeBodyShapeRequest struct {
	ScanID     string  `json:"scanId"`
	FrontImage string  `json:"frontImage"`
	SideImage  string  `json:"sideImage"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
}

type AnalyzeBodyShapeResponse struct {
	Measurements models.Measurements `json:"measurements"`
	BodyShape    string              `json:"bodyShape"`
	Analysis     map[string]any      `json:"analysis"`
}

type rawBodyAnalysis struct {
	Measurements models.Measurements `json:"measurements"`
	BodyShape    string              `json:"body_shape"`
}

// AnalyzeBodyShape estimates measurements from body photos. With a scanId the
// caller's scan supplies missing inputs and receives the result.
func (s *Service) AnalyzeBodyShape(ctx context.Context, uid string, req AnalyzeBodyShapeRequest) (*AnalyzeBodyShapeResponse, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}

	var scan *models.BodyScan
	if req.ScanID != "" {
		var err error
		if scan, err = s.ownedScan(ctx, uid, req.ScanID); err != nil {
			return nil, err
		}
		req.FrontImage = firstNonEmpty(req.FrontImage, scan.FrontImageURL)
		req.SideImage = firstNonEmpty(req.SideImage, scan.SideImageURL)
		if req.Height == 0 {
			req.Height = scan.Height
		}
		if req.Weight == 0 {
			req.Weight = scan.Weight
		}
	}
	if req.FrontImage == "" {
		return nil, Errorf(CodeInvalidArgument, "frontImage or scanId is required")
	}

	images := make([]ai.Image, 0, 2)
	for _, ref := range []string{req.FrontImage, req.SideImage} {
		if ref == "" {
			continue
		}
		img, err := s.image(ctx, ref, "")
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	var blob map[string]any
	if err := s.generate(ctx, "analyzeBodyShape", bodyShapePrompt(req.Height, req.Weight), &blob, images...); err != nil {
		return nil, err
	}
	parsed, err := reshape[rawBodyAnalysis](blob)
	if err != nil {
		return nil, Errorf(CodeInternal, "AI returned an unreadable response")
	}
	if parsed.Measurements.Height == 0 {
		parsed.Measurements.Height = req.Height
	}

	if scan != nil {
		err := s.store.Update(ctx, store.BodyScans, scan.ID, map[string]any{
			"measurements":      parsed.Measurements,
			"measurementSource": models.MeasurementAI,
			"bodyShape":         parsed.BodyShape,
			"aiAnalysis":        blob,
			"status":            models.ScanStatusAnalyzed,
		})
		if err != nil {
			return nil, internal("analyzeBodyShape: update scan", err)
		}
	}

	return &AnalyzeBodyShapeResponse{
		Measurements: parsed.Measurements,
		BodyShape:    parsed.BodyShape,
		Analysis:     blob,
	}, nil
}

func (s *Service) ownedScan(ctx context.Context, uid, scanID string) (*models.BodyScan, error) {
	var scan models.BodyScan
	if err := s.store.Get(ctx, store.BodyScans, scanID, &scan); err != nil {
		if store.IsNotFound(err) {
			return nil, Errorf(CodeNotFound, "Body scan not found")
		}
		return nil, internal("load body scan", err)
	}
	if scan.UserID != uid {
		return nil, Errorf(CodePermissionDenied, "Body scan belongs to another user")
	}
	return &scan, nil
}

// reshape converts a decoded JSON object into a typed view of it.
func reshape[T any](m map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(m)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
