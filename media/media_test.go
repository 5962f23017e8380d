package media

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/stylesync/utils"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestDecodeImage(t *testing.T) {
	ctx := context.Background()
	b64 := base64.StdEncoding.EncodeToString(pngHeader)

	data, ct, err := DecodeImage(ctx, "data:image/png;base64,"+b64)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)

	data, ct, err = DecodeImage(ctx, b64)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = DecodeImage(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, _, err = DecodeImage(ctx, "data:image/png,notbase64")
	assert.Error(t, err)

	huge := strings.Repeat("A", (MaxImageBytes/3+8)*4)
	_, _, err = DecodeImage(ctx, "data:image/png;base64,"+huge)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestDecodeImage_URL(t *testing.T) {
	utils.AllowPrivateNetworks(true)
	t.Cleanup(func() { utils.AllowPrivateNetworks(false) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	data, ct, err := DecodeImage(context.Background(), srv.URL+"/shirt.png")
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", ct)

	_, _, err = DecodeImage(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestDecodeImage_BlocksLoopback(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	_, _, err := DecodeImage(context.Background(), srv.URL+"/internal.png")
	assert.ErrorIs(t, err, utils.ErrBlockedAddress)
	assert.Zero(t, hits)
}

func TestFolder(t *testing.T) {
	assert.Equal(t, "stylesync/u1/closet", Folder("/stylesync/", "u1", KindCloset))
}

func TestCloudinaryUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/upload"), r.URL.Path)
		assert.Equal(t, "preset1", r.FormValue("upload_preset"))
		assert.Equal(t, "stylesync/u1/uploads", r.FormValue("folder"))
		assert.Empty(t, r.FormValue("signature"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.test/x.png","public_id":"stylesync/u1/uploads/x"}`))
	}))
	defer srv.Close()

	c, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo", UploadPreset: "preset1", BaseURL: srv.URL})
	require.NoError(t, err)
	up, err := c.Upload(context.Background(), pngHeader, "image/png", "stylesync/u1/uploads")
	require.NoError(t, err)
	assert.Equal(t, "https://res.test/x.png", up.URL)
	assert.Equal(t, "stylesync/u1/uploads/x", up.PublicID)
}

func cloudinaryError(message string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"` + message + `"}}`))
	}))
}

func TestCloudinaryUpload_PresetHint(t *testing.T) {
	srv := cloudinaryError("Upload preset not found")
	defer srv.Close()

	c, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo", UploadPreset: "stylesync_unsigned", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), pngHeader, "image/png", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
	assert.Contains(t, err.Error(), `unsigned upload preset named "stylesync_unsigned"`)
}

func TestCloudinaryUpload_OtherErrorHasNoHint(t *testing.T) {
	srv := cloudinaryError("File size too large")
	defer srv.Close()

	c, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo", UploadPreset: "p", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), pngHeader, "image/png", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File size too large")
	assert.NotContains(t, err.Error(), "preset")
}

func TestCloudinaryUpload_RequiresCloudName(t *testing.T) {
	c, err := NewCloudinaryUploader(CloudinaryConfig{UploadPreset: "p"})
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), pngHeader, "image/png", "")
	assert.ErrorContains(t, err, "CLOUDINARY_CLOUD_NAME")
}

func TestCloudinaryDelete(t *testing.T) {
	c, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo"})
	require.NoError(t, err)
	assert.ErrorIs(t, c.Delete(context.Background(), "x"), ErrDeleteUnsupported)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/demo/image/destroy"), r.URL.Path)
		assert.Equal(t, "abc", r.FormValue("public_id"))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.NotEmpty(t, r.FormValue("signature"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	c, err = NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret", BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, c.Delete(context.Background(), "abc"))
}

func TestCloudinaryDelete_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"not found"}`))
	}))
	defer srv.Close()

	c, err := NewCloudinaryUploader(CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.ErrorContains(t, c.Delete(context.Background(), "gone"), "not found")
}
