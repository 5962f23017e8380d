package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/stylesync/ai"
	"github.com/raushankrgupta/stylesync/functions"
	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/metrics"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
)

// tinyPNG is the 8-byte PNG signature as a data URL.
const tinyPNG = "data:image/png;base64,iVBORw0KGgo="

type fakeUploader struct {
	mu      sync.Mutex
	n       int
	folders []string
	deleted []string
	fail    bool
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, _ string, folder string) (*media.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("cdn down")
	}
	f.n++
	f.folders = append(f.folders, folder)
	id := fmt.Sprintf("%s/img%d", folder, f.n)
	return &media.Upload{URL: "https://cdn.test/" + id + ".png", PublicID: id}, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

type fakeModel struct {
	reply string
	err   error
}

func (f *fakeModel) Generate(context.Context, string, ...ai.Image) (string, error) {
	return f.reply, f.err
}

type fakeLimiter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeLimiter) AllowAICall(_ context.Context, uid string, limit int, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[uid]++
	return f.calls[uid] <= limit, nil
}

type testEnv struct {
	h      *Handler
	routes http.Handler
	store  *store.MemoryStore
	media  *fakeUploader
	model  *fakeModel
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	st := store.NewMemoryStoreWithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	model := &fakeModel{}
	svc := functions.NewService(st, model, nil,
		functions.WithImageLoader(func(context.Context, string) ([]byte, string, error) {
			return []byte("img"), "image/jpeg", nil
		}),
		functions.WithTimeout(time.Second),
	)
	up := &fakeUploader{}
	h := NewHandler(Deps{
		Store:     st,
		Media:     up,
		Tokens:    utils.NewTokenManager("test-secret", time.Hour),
		Functions: functions.NewRegistry(svc),
		Service:   svc,
		MediaRoot: "stylesync",
	})
	return &testEnv{h: h, routes: h.Routes(), store: st, media: up, model: model}
}

func (e *testEnv) do(t *testing.T, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		token, err := e.h.Tokens.GenerateToken(uid)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.routes.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) addItem(t *testing.T, uid, category string) string {
	t.Helper()
	id, err := e.store.Add(context.Background(), store.ClosetItems, models.ClosetItem{
		UserID: uid, Name: category, Category: category, ImageURL: "https://cdn.test/x.png",
	})
	require.NoError(t, err)
	return id
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/get-items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/get-items", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	env.routes.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decode[map[string]string](t, rec)["error"])
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodOptions, "/api/upload-image", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/upload-image", "u1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decode[map[string]string](t, rec)["error"])
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/upload-image", "u1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Image data is required"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/upload-image", "u1", map[string]string{"image": tinyPNG})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	up := decode[media.Upload](t, rec)
	assert.Equal(t, "stylesync/u1/uploads/img1", up.PublicID)
	assert.NotEmpty(t, up.URL)

	env.media.fail = true
	rec = env.do(t, http.MethodPost, "/api/upload-image", "u1", map[string]string{"image": tinyPNG})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestBodyLimit(t *testing.T) {
	env := newTestEnv(t)
	env.h.MaxBodyBytes = 1024

	big := "data:image/png;base64," + strings.Repeat("A", 2048)
	rec := env.do(t, http.MethodPost, "/api/upload-image", "u1", map[string]string{"image": big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, env.media.n)

	rec = env.do(t, http.MethodPost, "/api/upload-image", "u1", map[string]string{"image": tinyPNG})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteImage_OnlyOwnFolder(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/delete-image", "u1", map[string]string{"publicId": "stylesync/u2/closet/img1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/delete-image", "u1", map[string]string{"publicId": "stylesync/u1/closet/img1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"stylesync/u1/closet/img1"}, env.media.deleted)
}

func TestAnalyzeBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/analyze-body", "u1", map[string]any{"frontImage": tinyPNG, "sideImage": tinyPNG})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/body-scan", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/analyze-body", "u1", map[string]any{
		"frontImage": tinyPNG, "sideImage": tinyPNG, "faceImage": tinyPNG, "height": 170, "weight": 62,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	scan := decode[models.BodyScan](t, rec)
	assert.Equal(t, models.ScanStatusPending, scan.Status)
	assert.Equal(t, "u1", scan.UserID)
	assert.NotEmpty(t, scan.FrontImageURL)
	assert.NotEmpty(t, scan.SideImageURL)
	assert.NotEmpty(t, scan.FaceImageURL)
	assert.Equal(t, 3, env.media.n)
	for _, f := range env.media.folders {
		assert.Equal(t, "stylesync/u1/body-scans", f)
	}

	rec = env.do(t, http.MethodGet, "/api/body-scan", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, scan.ID, decode[models.BodyScan](t, rec).ID)
}

func TestAnalyzeBody_UploadFailureSavesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.media.fail = true

	rec := env.do(t, http.MethodPost, "/api/analyze-body", "u1", map[string]any{
		"frontImage": tinyPNG, "sideImage": tinyPNG, "faceImage": tinyPNG,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var scans []models.BodyScan
	require.NoError(t, env.store.List(context.Background(), store.BodyScans, store.Query{}, &scans))
	assert.Empty(t, scans)
}

func TestAnalyzeClosetItem_RemapsFencedAnalysis(t *testing.T) {
	env := newTestEnv(t)
	env.model.reply = "```json\n{\"item_type\":\"bag\",\"name\":\"Leather tote\",\"colors\":[\"tan\"],\"formality_level\":7,\"tags\":[\"leather\"]}\n```"

	rec := env.do(t, http.MethodPost, "/api/analyze-closet-item", "u1", map[string]any{
		"imageUrl": "https://cdn.test/tote.png", "category": "bags",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[AnalyzeClosetItemResponse](t, rec)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, models.CategoryBags, resp.Analysis.Category)
	assert.Equal(t, 5, resp.Analysis.FormalityLevel)

	var item models.ClosetItem
	require.NoError(t, env.store.Get(context.Background(), store.ClosetItems, resp.ItemID, &item))
	assert.Equal(t, "Leather tote", item.Name)
	assert.Equal(t, "tan", item.Color)
	assert.Equal(t, []string{"leather"}, item.AITags)
	assert.Equal(t, 0, item.WearCount)
}

func TestAnalyzeClosetItem_SavesWithoutAI(t *testing.T) {
	env := newTestEnv(t)
	env.model.err = errors.New("upstream 500")

	rec := env.do(t, http.MethodPost, "/api/analyze-closet-item", "u1", map[string]any{
		"imageUrl": "https://cdn.test/shirt.png", "category": "tops", "name": "White shirt",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string]any](t, rec)
	assert.NotEmpty(t, resp["itemId"])
	assert.NotContains(t, resp, "analysis")
}

func TestAnalyzeClosetItem_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/analyze-closet-item", "u1", map[string]any{"category": "tops"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "imageUrl is required", decode[map[string]string](t, rec)["error"])

	rec = env.do(t, http.MethodPost, "/api/analyze-closet-item", "u1", map[string]any{"imageUrl": "https://x", "category": "hats"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetItems(t *testing.T) {
	env := newTestEnv(t)
	env.addItem(t, "u1", models.CategoryTops)
	env.addItem(t, "u1", models.CategoryShoes)
	env.addItem(t, "u2", models.CategoryTops)

	rec := env.do(t, http.MethodGet, "/api/get-items", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[struct {
		Items []models.ClosetItem `json:"items"`
		Total int                 `json:"total"`
	}](t, rec)
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, models.CategoryShoes, all.Items[0].Category, "newest first")

	rec = env.do(t, http.MethodGet, "/api/get-items?category=tops", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, rec)["total"])
}

func TestItemEditTagsAndDelete(t *testing.T) {
	env := newTestEnv(t)
	id := env.addItem(t, "u1", models.CategoryTops)

	rec := env.do(t, http.MethodPut, "/api/items/"+id, "u2", map[string]any{"name": "stolen"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/items/"+id, "u1", map[string]any{"formalityLevel": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/items/"+id, "u1", map[string]any{"name": "Linen shirt", "pricePaid": 40})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decode[models.ClosetItem](t, rec)
	assert.Equal(t, "Linen shirt", item.Name)
	assert.Equal(t, 40.0, item.PricePaid)
	assert.Nil(t, item.CostPerWear)

	env.do(t, http.MethodPost, "/api/items/"+id+"/tags", "u1", map[string]string{"tag": "Summer"})
	rec = env.do(t, http.MethodPost, "/api/items/"+id+"/tags", "u1", map[string]string{"tag": "summer"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"summer"}, decode[models.ClosetItem](t, rec).Tags)

	rec = env.do(t, http.MethodDelete, "/api/items/"+id+"/tags/summer", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.ClosetItem](t, rec).Tags)

	rec = env.do(t, http.MethodDelete, "/api/items/"+id, "u1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	err := env.store.Get(context.Background(), store.ClosetItems, id, &models.ClosetItem{})
	assert.True(t, store.IsNotFound(err))
}

func TestAddTag_ConcurrentEditsKeepEveryTag(t *testing.T) {
	env := newTestEnv(t)
	id := env.addItem(t, "u1", models.CategoryTops)
	token, err := env.h.Tokens.GenerateToken("u1")
	require.NoError(t, err)

	const n = 12
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := strings.NewReader(fmt.Sprintf(`{"tag":"tag%d"}`, i))
			req := httptest.NewRequest(http.MethodPost, "/api/items/"+id+"/tags", body)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			env.routes.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()

	var item models.ClosetItem
	require.NoError(t, env.store.Get(context.Background(), store.ClosetItems, id, &item))
	assert.Len(t, item.Tags, n)
}

func TestGenerateOutfits(t *testing.T) {
	env := newTestEnv(t)
	for _, c := range []string{"tops", "tops", "tops", "bottoms", "bottoms", "dresses", "dresses"} {
		env.addItem(t, "u1", c)
	}
	env.addItem(t, "u2", "tops")

	rec := env.do(t, http.MethodPost, "/api/generate-outfits", "u1", map[string]string{"occasion": "work"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[GenerateOutfitsResponse](t, rec)
	assert.Equal(t, 7, resp.TotalItems)
	require.Len(t, resp.Outfits, 5)
	for _, o := range resp.Outfits {
		assert.NotNil(t, o.Top)
		assert.NotNil(t, o.Bottom)
		assert.Nil(t, o.Dress)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/generate-outfits", nil)
	token, _ := env.h.Tokens.GenerateToken("u3")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	env.routes.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "empty body is allowed")
	assert.JSONEq(t, `{"outfits":[],"totalItems":0}`, rec.Body.String())
}

func TestSaveProfile_IsIdempotentUpsert(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/get-profile", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/save-profile", "u1", map[string]any{"displayName": "Amal", "occupation": "Architect"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/save-profile", "u1", map[string]any{"stylingPreference": "veiled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[models.Profile](t, rec)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "Amal", p.DisplayName)
	assert.Equal(t, "Architect", p.Occupation)
	assert.Equal(t, models.StylingVeiled, p.StylingPreference)

	env.do(t, http.MethodPost, "/api/save-profile", "u1", map[string]any{"displayName": "Amal"})
	var profiles []models.Profile
	require.NoError(t, env.store.List(context.Background(), store.Profiles, store.Query{Where: map[string]any{"userId": "u1"}}, &profiles))
	assert.Len(t, profiles, 1)

	rec = env.do(t, http.MethodPost, "/api/save-profile", "u1", map[string]any{"stylingPreference": "casual"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "stylingPreference must be one of: veiled, unveiled", decode[map[string]string](t, rec)["error"])

	rec = env.do(t, http.MethodGet, "/api/get-profile", "u1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAvatarNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/avatar", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFriendRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Set(ctx, store.Users, "u1", models.User{Name: "Amal", Email: "amal@example.com"}, false))
	require.NoError(t, env.store.Set(ctx, store.Users, "u2", models.User{Name: "Sara", Email: "sara@example.com"}, false))

	rec := env.do(t, http.MethodPost, "/api/friend-requests", "u1", map[string]string{"receiverId": "u1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/friend-requests", "u1", map[string]string{"receiverId": "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/friend-requests", "u1", map[string]string{"receiverId": "u2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fr := decode[models.FriendRequest](t, rec)
	assert.Equal(t, models.FriendRequestPending, fr.Status)

	rec = env.do(t, http.MethodPost, "/api/friend-requests", "u1", map[string]string{"receiverId": "u2"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/friend-requests", "u2", map[string]string{"receiverId": "u1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/friend-requests", "u2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]models.FriendRequest](t, rec)["requests"]
	require.Len(t, list, 1)
	assert.Equal(t, fr.ID, list[0].ID)

	rec = env.do(t, http.MethodPost, "/api/friend-requests/"+fr.ID+"/reject", "u1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/friend-requests/"+fr.ID+"/reject", "u2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/friend-requests/"+fr.ID+"/reject", "u2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptFriendRequestThroughFunctions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Set(ctx, store.Users, "u2", models.User{Name: "Sara"}, false))

	rec := env.do(t, http.MethodPost, "/api/friend-requests", "u1", map[string]string{"receiverId": "u2"})
	require.Equal(t, http.StatusOK, rec.Code)
	fr := decode[models.FriendRequest](t, rec)

	rec = env.do(t, http.MethodPost, "/functions/acceptFriendRequest", "u2", map[string]any{"data": map[string]string{"requestId": fr.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/friends", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decode[map[string][]models.Friendship](t, rec)["friends"]
	require.Len(t, friends, 1)
	assert.Equal(t, "u2", friends[0].FriendID)

	rec = env.do(t, http.MethodPost, "/functions/acceptFriendRequest", "u2", map[string]any{"data": map[string]string{"requestId": fr.ID}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failed-precondition", decode[callableErrorBody](t, rec).Error.Code)

	rec = env.do(t, http.MethodPost, "/api/friend-requests", "u1", map[string]string{"receiverId": "u2"})
	assert.Equal(t, http.StatusConflict, rec.Code, "already friends")
}

type callableErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestFunctionEndpoint(t *testing.T) {
	env := newTestEnv(t)
	id := env.addItem(t, "u1", models.CategoryTops)

	rec := env.do(t, http.MethodPost, "/functions/updateWearCount", "u1", map[string]any{"data": map[string]any{"itemIds": []string{id, "missing"}}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, fmt.Sprintf(`{"result":{"updated":[%q],"failed":["missing"]}}`, id), rec.Body.String())

	rec = env.do(t, http.MethodPost, "/functions/doesNotExist", "u1", map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not-found", decode[callableErrorBody](t, rec).Error.Code)

	rec = env.do(t, http.MethodPost, "/functions/updateWearCount", "u1", map[string]any{"data": map[string]any{"itemIds": []string{}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid-argument", decode[callableErrorBody](t, rec).Error.Code)

	rec = env.do(t, http.MethodPost, "/functions/updateWearCount", "", map[string]any{"data": map[string]any{}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFunctionEndpoint_MissingCredential(t *testing.T) {
	env := newTestEnv(t)
	env.model.err = ai.ErrMissingCredential

	rec := env.do(t, http.MethodPost, "/functions/analyzeClosetItem", "u1", map[string]any{"data": map[string]string{"imageUrl": "https://cdn.test/a.png"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "failed-precondition", decode[callableErrorBody](t, rec).Error.Code)
}

func TestAIRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.h.Limiter = &fakeLimiter{calls: map[string]int{}}
	env.h.AICallsPerHour = 1
	env.routes = env.h.Routes()
	env.model.reply = `{"item_type":"shirt"}`

	body := map[string]any{"data": map[string]string{"imageUrl": "https://cdn.test/a.png"}}
	rec := env.do(t, http.MethodPost, "/functions/analyzeClosetItem", "u1", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/functions/analyzeClosetItem", "u1", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "resource-exhausted", decode[callableErrorBody](t, rec).Error.Code)

	rec = env.do(t, http.MethodPost, "/api/analyze-closet-item", "u1", map[string]any{"imageUrl": "https://x", "category": "tops"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = env.do(t, http.MethodPost, "/functions/analyzeClosetItem", "u2", body)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per user")
}

func TestUnknownFunction_SkipsLimiterAndSharesLabel(t *testing.T) {
	env := newTestEnv(t)
	limiter := &fakeLimiter{calls: map[string]int{}}
	env.h.Limiter = limiter
	env.h.AICallsPerHour = 1

	unknown := metrics.FunctionCalls.WithLabelValues("unknown", "not-found")
	before := testutil.ToFloat64(unknown)
	seriesBefore := testutil.CollectAndCount(metrics.FunctionCalls)

	for i := range 3 {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/functions/made-up-%d", i), "u1", map[string]any{"data": map[string]any{}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Zero(t, limiter.calls["u1"], "unknown names do not spend the AI budget")
	assert.Equal(t, before+3, testutil.ToFloat64(unknown))
	assert.Equal(t, seriesBefore, testutil.CollectAndCount(metrics.FunctionCalls))

	rec := env.do(t, http.MethodPost, "/functions/analyzeClosetItem", "u1", map[string]any{"data": map[string]string{"imageUrl": "https://cdn.test/a.png"}})
	assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
}

func TestCalendar(t *testing.T) {
	env := newTestEnv(t)
	top := env.addItem(t, "u1", models.CategoryTops)
	other := env.addItem(t, "u2", models.CategoryTops)

	rec := env.do(t, http.MethodPost, "/api/calendar", "u1", map[string]any{"date": "01/05/2025", "itemIds": []string{top}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/calendar", "u1", map[string]any{"date": "2025-05-01", "itemIds": []string{other}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var ids []string
	for _, d := range []string{"2025-05-03", "2025-05-01", "2025-06-10"} {
		rec = env.do(t, http.MethodPost, "/api/calendar", "u1", map[string]any{"date": d, "itemIds": []string{top}, "occasion": "work"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		ids = append(ids, decode[models.CalendarEvent](t, rec).ID)
	}

	rec = env.do(t, http.MethodGet, "/api/calendar?from=2025-05-01&to=2025-05-31", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[map[string][]models.CalendarEvent](t, rec)["events"]
	require.Len(t, events, 2)
	assert.Equal(t, "2025-05-01", events[0].Date)
	assert.Equal(t, "2025-05-03", events[1].Date)

	rec = env.do(t, http.MethodDelete, "/api/calendar/"+ids[0], "u2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/calendar/"+ids[0], "u1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestImportItem(t *testing.T) {
	env := newTestEnv(t)
	env.h.Importer = func(_ context.Context, url string) (*models.ProductPreview, error) {
		return &models.ProductPreview{
			URL:               url,
			Title:             "Pleated skirt",
			Images:            []string{tinyPNG},
			SuggestedCategory: models.CategoryBottoms,
		}, nil
	}

	rec := env.do(t, http.MethodPost, "/api/import-item", "u1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/import-item", "u1", map[string]string{"url": "https://shop.test/p/1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[models.ProductPreview](t, rec)
	assert.Equal(t, models.CategoryBottoms, p.SuggestedCategory)
	assert.True(t, strings.HasPrefix(p.ImageURL, "https://cdn.test/stylesync/u1/closet/"))
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"name": "Amal", "email": "bad", "password": "longenough"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"name": "Amal", "email": "Amal@Example.com", "password": "longenough"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	signup := decode[AuthResponse](t, rec)
	assert.Equal(t, "amal@example.com", signup.User.Email)
	assert.NotContains(t, rec.Body.String(), "password\":")
	uid, err := env.h.Tokens.ValidateToken(signup.Token)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, uid)

	rec = env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"name": "Amal", "email": "amal@example.com", "password": "longenough"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "amal@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "AMAL@example.com", "password": "longenough"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uid, decode[AuthResponse](t, rec).User.ID)
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/auth/google/login", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
