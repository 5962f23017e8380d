package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
	APIKey       string
	APISecret    string
	BaseURL      string // API prefix; the SDK default when empty
}

// CloudinaryUploader uploads through an unsigned upload preset and deletes
// with a signed destroy call.
type CloudinaryUploader struct {
	cfg CloudinaryConfig
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	conf, err := config.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	if cfg.BaseURL != "" {
		conf.API.UploadPrefix = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &CloudinaryUploader{cfg: cfg, cld: cld}, nil
}

func (c *CloudinaryUploader) Upload(ctx context.Context, data []byte, contentType, folder string) (*Upload, error) {
	if c.cfg.CloudName == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME is not set")
	}

	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		UploadPreset: c.cfg.UploadPreset,
		Unsigned:     api.Bool(true),
	})
	if err != nil {
		return nil, c.uploadError(err.Error())
	}
	// API errors arrive in the result body with a nil error.
	if res.Error.Message != "" {
		return nil, c.uploadError(res.Error.Message)
	}
	return &Upload{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (c *CloudinaryUploader) uploadError(msg string) error {
	if strings.Contains(strings.ToLower(msg), "preset") {
		return fmt.Errorf("cloudinary upload failed: %s (create an unsigned upload preset named %q in the Cloudinary console)", msg, c.cfg.UploadPreset)
	}
	return fmt.Errorf("cloudinary upload failed: %s", msg)
}

func (c *CloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	if c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return ErrDeleteUnsupported
	}

	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Error.Message)
	}
	if res.Result != "" && res.Result != "ok" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, res.Result)
	}
	return nil
}
