// Package api is the HTTP surface: authenticated JSON routes for the
// closet, body scans, profiles, social graph and calendar, plus the
// callable-function endpoint and the auth flows.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/raushankrgupta/stylesync/functions"
	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/metrics"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/notify"
	"github.com/raushankrgupta/stylesync/outfits"
	"github.com/raushankrgupta/stylesync/scrapers"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
	"golang.org/x/oauth2"
)

// RateLimiter counts AI calls per user. cache.RedisCache implements it.
type RateLimiter interface {
	AllowAICall(ctx context.Context, userID string, limit int, window time.Duration) (bool, error)
}

// Deps are the collaborators of the HTTP handlers. Store, Media and Tokens
// are required; everything else has a usable default.
type Deps struct {
	Store     store.Store
	Media     media.Uploader
	Tokens    *utils.TokenManager
	Functions *functions.Registry
	Service   *functions.Service
	Limiter   RateLimiter
	Notifier  notify.Notifier
	OAuth     *oauth2.Config
	Limits    outfits.Limits

	MediaRoot      string
	AICallsPerHour int
	// MaxBodyBytes caps request bodies. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Importer reads a shop product link. Defaults to scrapers.Import.
	Importer func(ctx context.Context, url string) (*models.ProductPreview, error)
}

// DefaultMaxBodyBytes fits three base64 images of media.MaxImageBytes each.
const DefaultMaxBodyBytes = 64 << 20

type Handler struct {
	Deps
	now func() time.Time
}

func NewHandler(d Deps) *Handler {
	if d.Notifier == nil {
		d.Notifier = notify.LogNotifier{}
	}
	if d.Importer == nil {
		d.Importer = scrapers.Import
	}
	if d.Limits == (outfits.Limits{}) {
		d.Limits = outfits.DefaultLimits
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if d.MediaRoot == "" {
		d.MediaRoot = "stylesync"
	}
	return &Handler{Deps: d, now: time.Now}
}

// Routes builds the router. Every route is wrapped with CORS and metrics;
// /api and /functions additionally require a bearer token.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	public := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(pattern, corsMiddleware(h.limitBody(fn))))
	}
	private := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(pattern, corsMiddleware(h.requireAuth(h.limitBody(fn)))))
	}

	public("/health", h.HealthHandler)
	mux.Handle("/metrics", metrics.Handler())

	public("/auth/signup", h.SignupHandler)
	public("/auth/login", h.LoginHandler)
	public("/auth/google/login", h.GoogleLoginHandler)
	public("/auth/google/callback", h.GoogleCallbackHandler)

	private("/api/upload-image", h.UploadImageHandler)
	private("/api/delete-image", h.DeleteImageHandler)
	private("/api/analyze-body", h.AnalyzeBodyHandler)
	private("/api/body-scan", h.BodyScanHandler)
	private("/api/analyze-closet-item", h.limitAI(h.AnalyzeClosetItemHandler, false))
	private("/api/import-item", h.ImportItemHandler)
	private("/api/get-items", h.GetItemsHandler)
	private("/api/items/{id}", h.ItemHandler)
	private("/api/items/{id}/tags", h.AddTagHandler)
	private("/api/items/{id}/tags/{tag}", h.RemoveTagHandler)
	private("/api/generate-outfits", h.GenerateOutfitsHandler)
	private("/api/get-profile", h.GetProfileHandler)
	private("/api/save-profile", h.SaveProfileHandler)
	private("/api/avatar", h.AvatarHandler)
	private("/api/friend-requests", h.FriendRequestsHandler)
	private("/api/friend-requests/{id}/reject", h.RejectFriendRequestHandler)
	private("/api/friends", h.FriendsHandler)
	private("/api/calendar", h.CalendarHandler)
	private("/api/calendar/{id}", h.DeleteCalendarEventHandler)
	private("/functions/{name}", h.limitAI(h.FunctionHandler, true))

	return mux
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
