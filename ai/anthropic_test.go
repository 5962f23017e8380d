package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicModel_Generate(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"` + "```json\\n{\\\"ok\\\":true}\\n```" + `"}]}`))
	}))
	defer srv.Close()

	m := NewAnthropicModel("test-key", "claude-test").WithBaseURL(srv.URL)
	text, err := m.Generate(context.Background(), "describe", Image{MIMEType: "image/png", Data: []byte{1, 2, 3}})
	require.NoError(t, err)

	var out map[string]bool
	require.NoError(t, DecodeJSON(text, &out))
	assert.True(t, out["ok"])

	require.Len(t, got.Messages, 1)
	blocks := got.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "image", blocks[0].Type)
	assert.Equal(t, "image/png", blocks[0].Source.MediaType)
	assert.Equal(t, "text", blocks[1].Type)
	assert.Equal(t, "claude-test", got.Model)
}

func TestAnthropicModel_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad image"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicModel("k", "m").WithBaseURL(srv.URL).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad image")
}

func TestMissingCredential(t *testing.T) {
	_, err := NewAnthropicModel("", "m").Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = NewGatewayModel("", "", "m").Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMissingCredential)

	g, err := NewGeminiModel(context.Background(), "", "m")
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = NewReadyPlayerMe("", "").CreateAvatar(context.Background(), AvatarRequest{})
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestReadyPlayerMe_CreateAvatar(t *testing.T) {
	var saved bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rpm-key", r.Header.Get("X-API-Key"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/avatars":
			var body rpmCreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "app-1", body.Data.ApplicationID)
			assert.Equal(t, "fullbody", body.Data.BodyType)
			assert.NotEmpty(t, body.Data.Base64Image)
			_, _ = w.Write([]byte(`{"data":{"id":"av123"}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/v2/avatars/av123":
			saved = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	rpm := NewReadyPlayerMe("rpm-key", "app-1").WithBaseURLs(srv.URL, "https://models.test")
	res, err := rpm.CreateAvatar(context.Background(), AvatarRequest{FaceImage: Image{Data: []byte("face")}})
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, "https://models.test/av123.glb", res.ModelURL)
	assert.Equal(t, "https://models.test/av123.png", res.ThumbnailURL)
}
