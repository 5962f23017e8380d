package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raushankrgupta/stylesync/utils"
)

// MaxImageBytes caps a single decoded or downloaded image.
const MaxImageBytes = 15 << 20

var (
	ErrEmptyImage    = errors.New("image data is empty")
	ErrImageTooLarge = errors.New("image exceeds the size limit")
)

var fetchClient = utils.NewPublicHTTPClient(30 * time.Second)

// DecodeImage accepts a data: URL, raw base64 or an http(s) URL and returns
// the image bytes and content type.
func DecodeImage(ctx context.Context, input string) ([]byte, string, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return nil, "", ErrEmptyImage
	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		return fetch(ctx, input)
	case strings.HasPrefix(input, "data:"):
		header, payload, ok := strings.Cut(input, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", fmt.Errorf("unsupported data URL")
		}
		data, err := decodeBase64(payload)
		if err != nil {
			return nil, "", err
		}
		contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		return data, contentType, nil
	default:
		data, err := decodeBase64(input)
		if err != nil {
			return nil, "", err
		}
		return data, http.DetectContentType(data), nil
	}
}

func decodeBase64(s string) ([]byte, error) {
	if base64.StdEncoding.DecodedLen(len(s)) > MaxImageBytes+2 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip padding.
		if data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); err != nil {
			return nil, fmt.Errorf("invalid base64 image: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return data, nil
}

func fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (macOS) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36")

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image, status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/heic":
		return ".heic"
	default:
		return ""
	}
}
