package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	rpmAPIURL    = "https://api.readyplayer.me"
	rpmModelsURL = "https://models.readyplayer.me"
)

// AvatarRequest describes the avatar to create from a face photo.
type AvatarRequest struct {
	FaceImage Image
	Gender    string
	BodyType  string
}

// AvatarResult holds the hosted model and its thumbnail.
type AvatarResult struct {
	ID           string `json:"id"`
	ModelURL     string `json:"modelUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// ReadyPlayerMe creates 3D avatars through the Ready Player Me REST API.
type ReadyPlayerMe struct {
	apiKey     string
	appID      string
	apiURL     string
	modelsURL  string
	httpClient *http.Client
}

func NewReadyPlayerMe(apiKey, appID string) *ReadyPlayerMe {
	return &ReadyPlayerMe{
		apiKey:     apiKey,
		appID:      appID,
		apiURL:     rpmAPIURL,
		modelsURL:  rpmModelsURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURLs overrides the API and model hosts.
func (r *ReadyPlayerMe) WithBaseURLs(apiURL, modelsURL string) *ReadyPlayerMe {
	r.apiURL = apiURL
	r.modelsURL = modelsURL
	return r
}

type rpmCreateRequest struct {
	Data struct {
		ApplicationID string `json:"applicationId,omitempty"`
		BodyType      string `json:"bodyType"`
		Gender        string `json:"gender,omitempty"`
		Base64Image   string `json:"base64Image"`
	} `json:"data"`
}

type rpmCreateResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Message string `json:"message"`
}

// CreateAvatar uploads the face photo and saves the generated avatar.
func (r *ReadyPlayerMe) CreateAvatar(ctx context.Context, in AvatarRequest) (*AvatarResult, error) {
	if r.apiKey == "" {
		return nil, ErrMissingCredential
	}

	var body rpmCreateRequest
	body.Data.ApplicationID = r.appID
	body.Data.BodyType = in.BodyType
	if body.Data.BodyType == "" {
		body.Data.BodyType = "fullbody"
	}
	body.Data.Gender = in.Gender
	body.Data.Base64Image = base64.StdEncoding.EncodeToString(in.FaceImage.Data)

	var created rpmCreateResponse
	if err := r.do(ctx, http.MethodPost, r.apiURL+"/v2/avatars", body, &created); err != nil {
		return nil, err
	}
	if created.Data.ID == "" {
		return nil, fmt.Errorf("ready player me returned no avatar id")
	}

	// Drafts are discarded unless saved.
	if err := r.do(ctx, http.MethodPut, r.apiURL+"/v2/avatars/"+created.Data.ID, nil, nil); err != nil {
		return nil, err
	}

	return &AvatarResult{
		ID:           created.Data.ID,
		ModelURL:     fmt.Sprintf("%s/%s.glb", r.modelsURL, created.Data.ID),
		ThumbnailURL: fmt.Sprintf("%s/%s.png", r.modelsURL, created.Data.ID),
	}, nil
}

func (r *ReadyPlayerMe) do(ctx context.Context, method, url string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal ready player me request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", r.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ready player me request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read ready player me response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e rpmCreateResponse
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			return fmt.Errorf("ready player me error %d: %s", resp.StatusCode, e.Message)
		}
		return fmt.Errorf("ready player me error %d", resp.StatusCode)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode ready player me response: %w", err)
	}
	return nil
}
