package functions

import (
	"context"
	"errors"

	"github.com/raushankrgupta/stylesync/ai"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
)

type GenerateAvatarRequest struct {
	ScanID string `json:"scanId"`
}

type rawFaceFeatures struct {
	SkinTone       string            `json:"skin_tone"`
	HairColor      string            `json:"hair_color"`
	HairStyle      string            `json:"hair_style"`
	Gender         string            `json:"gender"`
	FacialFeatures map[string]string `json:"facial_features"`
}

// GenerateAvatar reads facial features from the scan's face photo, creates a
// Ready Player Me avatar and stores it under the caller's id.
func (s *Service) GenerateAvatar(ctx context.Context, uid string, req GenerateAvatarRequest) (*models.Avatar, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	if s.avatars == nil {
		return nil, Errorf(CodeFailedPrecondition, "Avatar provider is not configured")
	}

	scan, err := s.avatarScan(ctx, uid, req.ScanID)
	if err != nil {
		return nil, err
	}
	if scan.FaceImageURL == "" {
		return nil, Errorf(CodeFailedPrecondition, "Body scan has no face image")
	}

	face, err := s.image(ctx, scan.FaceImageURL, "")
	if err != nil {
		return nil, err
	}

	var features rawFaceFeatures
	if err := s.generate(ctx, "generateAvatar", avatarFeaturesPrompt, &features, face); err != nil {
		return nil, err
	}

	result, err := s.avatars.CreateAvatar(ctx, ai.AvatarRequest{FaceImage: face, Gender: rpmGender(features.Gender)})
	if err != nil {
		if errors.Is(err, ai.ErrMissingCredential) {
			return nil, Errorf(CodeFailedPrecondition, "Avatar provider is not configured")
		}
		return nil, internal("generateAvatar: create avatar", err)
	}

	avatar := models.Avatar{
		UserID:         uid,
		ScanID:         scan.ID,
		ModelURL:       result.ModelURL,
		ThumbnailURL:   result.ThumbnailURL,
		SkinTone:       features.SkinTone,
		HairColor:      features.HairColor,
		HairStyle:      features.HairStyle,
		FacialFeatures: features.FacialFeatures,
		BodyShape:      models.BodyShapeParams{Shape: scan.BodyShape, Measurements: scan.Measurements},
		Provider:       "readyplayerme",
	}
	if err := s.store.Set(ctx, store.Avatars, uid, avatar, false); err != nil {
		return nil, internal("generateAvatar: save avatar", err)
	}
	if err := s.store.Get(ctx, store.Avatars, uid, &avatar); err != nil {
		return nil, internal("generateAvatar: reload avatar", err)
	}
	return &avatar, nil
}

func (s *Service) avatarScan(ctx context.Context, uid, scanID string) (*models.BodyScan, error) {
	if scanID != "" {
		return s.ownedScan(ctx, uid, scanID)
	}
	var scans []models.BodyScan
	if err := s.store.List(ctx, store.BodyScans, store.Query{
		Where:   map[string]any{"userId": uid},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   1,
	}, &scans); err != nil {
		return nil, internal("generateAvatar: latest scan", err)
	}
	if len(scans) == 0 {
		return nil, Errorf(CodeFailedPrecondition, "Complete a body scan before generating an avatar")
	}
	return &scans[0], nil
}

func rpmGender(g string) string {
	switch g {
	case "masculine", "male":
		return "male"
	case "feminine", "female":
		return "female"
	default:
		return ""
	}
}
