package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raushankrgupta/stylesync/config"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

var googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuthConfig builds the OAuth2 client config, or nil when Google
// sign-in is not configured.
func GoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil
	}
	return &oauth2.Config{
		RedirectURL:  cfg.GoogleRedirectURL,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleLoginHandler handles the login request by redirecting to Google
func (h *Handler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Google Login API]")

	if h.OAuth == nil {
		utils.RespondError(w, &logMessageBuilder, "Google sign-in is not configured", http.StatusServiceUnavailable)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	utils.AddToLogMessage(&logMessageBuilder, "Redirecting to Google Auth")
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallbackHandler exchanges the code, then signs the user in,
// creating the account on first login.
func (h *Handler) GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Google Callback API]")

	if h.OAuth == nil {
		utils.RespondError(w, &logMessageBuilder, "Google sign-in is not configured", http.StatusServiceUnavailable)
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.FormValue("state") {
		utils.RespondError(w, &logMessageBuilder, "State invalid", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth/google", MaxAge: -1})

	code := r.FormValue("code")
	if code == "" {
		utils.RespondError(w, &logMessageBuilder, "Code not found", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	token, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to exchange token: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to exchange token", http.StatusBadGateway)
		return
	}

	resp, err := h.OAuth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to get user info: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Failed to get user info", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&info) != nil || info.Email == "" {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Unusable user info response: %d", resp.StatusCode))
		utils.RespondError(w, &logMessageBuilder, "Failed to read user info", http.StatusBadGateway)
		return
	}
	if !info.VerifiedEmail {
		utils.RespondError(w, &logMessageBuilder, "Google account email is not verified", http.StatusForbidden)
		return
	}

	email := normalizeEmail(info.Email)
	user, err := h.userByEmail(ctx, email)
	var uid string
	switch {
	case err == nil:
		uid = user.ID
	case store.IsNotFound(err):
		uid, err = h.Store.Add(ctx, store.Users, models.User{
			Name:     info.Name,
			Email:    email,
			Provider: models.ProviderGoogle,
			Picture:  info.Picture,
		})
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create user: %v", err))
			utils.RespondError(w, &logMessageBuilder, "Failed to create user", http.StatusInternalServerError)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, "Created user from Google account")
	default:
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	h.respondSignedIn(ctx, w, &logMessageBuilder, uid)
}
