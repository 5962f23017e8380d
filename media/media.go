// Package media uploads user images to an image CDN or object storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/raushankrgupta/stylesync/config"
)

// Folder kinds under <MEDIA_FOLDER>/<userId>/.
const (
	KindCloset    = "closet"
	KindBodyScans = "body-scans"
	KindUploads   = "uploads"
)

// ErrDeleteUnsupported is returned when the uploader has no credential that
// allows server-side deletion.
var ErrDeleteUnsupported = errors.New("image deletion requires a server-side secret")

// Upload is a stored image.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Uploader stores and removes images.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType, folder string) (*Upload, error)
	Delete(ctx context.Context, publicID string) error
}

// Folder builds the <root>/<userId>/<kind> folder for a user's uploads.
func Folder(root, userID, kind string) string {
	return path.Join(strings.Trim(root, "/"), userID, kind)
}

// New builds the uploader named by MEDIA_PROVIDER.
func New(ctx context.Context, cfg *config.Config) (Uploader, error) {
	switch cfg.MediaProvider {
	case "", "cloudinary":
		return NewCloudinaryUploader(CloudinaryConfig{
			CloudName:    cfg.CloudinaryCloud,
			UploadPreset: cfg.CloudinaryPreset,
			APIKey:       cfg.CloudinaryKey,
			APISecret:    cfg.CloudinarySecret,
		})
	case "s3":
		return NewS3Uploader(ctx, S3Config{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.AWSBucketName,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown MEDIA_PROVIDER %q", cfg.MediaProvider)
	}
}
