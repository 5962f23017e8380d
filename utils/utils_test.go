package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.GenerateToken("u1")
	require.NoError(t, err)

	uid, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.GenerateToken("u1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken("u1")
	require.NoError(t, err)
	_, err = m.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("", time.Hour).GenerateToken("u1")
	assert.Error(t, err)
}

func TestRespondError(t *testing.T) {
	var log strings.Builder
	rec := httptest.NewRecorder()
	RespondError(rec, &log, "Image data is required", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Image data is required", body["error"])
	assert.Contains(t, log.String(), "Image data is required;")
}

func TestResolveShortenedURL(t *testing.T) {
	AllowPrivateNetworks(true)
	t.Cleanup(func() { AllowPrivateNetworks(false) })

	var final string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/s" {
			http.Redirect(w, r, "/product/42", http.StatusMovedPermanently)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	final = srv.URL + "/product/42"

	got, err := ResolveShortenedURL(t.Context(), srv.URL+"/s")
	require.NoError(t, err)
	assert.Equal(t, final, got)
}
