package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/fridgekeep/internal/catalog"
	"github.com/vbonduro/fridgekeep/internal/db"
	"github.com/vbonduro/fridgekeep/internal/recipes"
	"github.com/vbonduro/fridgekeep/internal/service"
	"github.com/vbonduro/fridgekeep/internal/store"
	"github.com/vbonduro/fridgekeep/internal/vision"
)

type stubClassifier struct {
	detection vision.Detection
	err       error
}

func (s *stubClassifier) Classify(_ context.Context, _ io.Reader, _ string) (vision.Detection, error) {
	return s.detection, s.err
}

type memPhotoStore struct {
	saved map[string][]byte
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{saved: make(map[string][]byte)}
}

func (s *memPhotoStore) Save(_ context.Context, label, _ string, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	key := label + ".jpg"
	s.saved[key] = data
	return key, nil
}

func (s *memPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := s.saved[key]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

func (s *memPhotoStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

type stubGenerator struct {
	drafts []recipes.Draft
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, _ []recipes.SnapshotEntry, _ int) ([]recipes.Draft, error) {
	return g.drafts, g.err
}

type testEnv struct {
	server *Server
	db     *sql.DB
	photos *memPhotoStore
}

func newTestEnv(t *testing.T, classifier vision.Classifier, generator recipes.Generator) *testEnv {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.Default()
	types := store.NewFoodTypeStore(d)
	items := store.NewFoodItemStore(d)
	photos := newMemPhotoStore()

	inventory := service.NewInventoryService(
		catalog.New(types, catalog.LoadDefaults()), types, items, classifier, photos, logger)
	recipeSvc := service.NewRecipeService(items, generator, logger)

	return &testEnv{
		server: NewServer(inventory, recipeSvc, photos, logger),
		db:     d,
		photos: photos,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAddAndListItems(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodPost, "/items", map[string]any{
		"name": "Milk", "quantity": 2, "unit": "bottle", "storage": "fridge",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeBody(t, rec)
	assert.Equal(t, "milk", created["name"])
	assert.Equal(t, "dairy", created["category"])
	assert.NotNil(t, created["expiration_date"])

	rec = env.do(t, http.MethodGet, "/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "milk", item["name"])
	assert.NotEmpty(t, item["status"])
}

func TestAddItemRejectsBadBody(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemValidationErrors(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty name", map[string]any{"name": "", "quantity": 1, "storage": "fridge"}},
		{"zero quantity", map[string]any{"name": "milk", "quantity": 0, "storage": "fridge"}},
		{"bad storage", map[string]any{"name": "milk", "quantity": 1, "storage": "pantry"}},
		{"bad date", map[string]any{"name": "milk", "quantity": 1, "storage": "fridge", "expiration_date": "01/02/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListItemsStorageFilter(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.do(t, http.MethodPost, "/items", map[string]any{"name": "milk", "quantity": 1, "storage": "fridge"})
	env.do(t, http.MethodPost, "/items", map[string]any{"name": "peas", "quantity": 1, "storage": "freezer"})

	rec := env.do(t, http.MethodGet, "/items?storage=freezer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "peas", items[0].(map[string]any)["name"])
}

func TestConsumeUpdatesQuantity(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.do(t, http.MethodPost, "/items", map[string]any{"name": "milk", "quantity": 3, "storage": "fridge"})

	rec := env.do(t, http.MethodPost, "/consume", map[string]any{"name": "milk", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "updated", body["result"])
	assert.Equal(t, 2.0, body["remaining"])
}

func TestConsumeDeletesOnExactQuantity(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.do(t, http.MethodPost, "/items", map[string]any{"name": "milk", "quantity": 1, "storage": "fridge"})

	rec := env.do(t, http.MethodPost, "/consume", map[string]any{"name": "milk", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "deleted", decodeBody(t, rec)["result"])

	rec = env.do(t, http.MethodGet, "/items", nil)
	assert.Empty(t, decodeBody(t, rec)["items"])
}

func TestConsumeUnknownItemReturnsNotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodPost, "/consume", map[string]any{"name": "caviar", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsumeAmbiguousReturnsConflictWithCandidates(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.do(t, http.MethodPost, "/items", map[string]any{"name": "milk", "quantity": 1, "storage": "fridge"})
	env.do(t, http.MethodPost, "/items", map[string]any{"name": "milk", "quantity": 2, "storage": "fridge"})

	rec := env.do(t, http.MethodPost, "/consume", map[string]any{"name": "milk", "quantity": 1})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	candidates := body["candidate_ids"].([]any)
	assert.Len(t, candidates, 2)
}

func TestConsumeInsufficientReturnsConflict(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.do(t, http.MethodPost, "/items", map[string]any{"name": "milk", "quantity": 1, "storage": "fridge"})

	rec := env.do(t, http.MethodPost, "/consume", map[string]any{"name": "milk", "quantity": 5})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExpiringWithin(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	today := time.Now().UTC().Format("2006-01-02")
	env.do(t, http.MethodPost, "/items", map[string]any{
		"name": "milk", "quantity": 1, "storage": "fridge", "expiration_date": today,
	})
	env.do(t, http.MethodPost, "/items", map[string]any{
		"name": "cheese", "quantity": 1, "storage": "fridge", "shelf_life_days": 30,
	})

	rec := env.do(t, http.MethodGet, "/items/expiring?days=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "milk", items[0].(map[string]any)["name"])
}

func TestExpiringRejectsBadDays(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodGet, "/items/expiring?days=soon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemFromPhoto(t *testing.T) {
	classifier := &stubClassifier{detection: vision.Detection{Label: "banana", Confidence: 0.92}}
	env := newTestEnv(t, classifier, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "fridge.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("quantity", "2"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/items/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "banana", body["name"])
	assert.Equal(t, "camera", body["added_by"])
	assert.Equal(t, 2.0, body["quantity"])
	assert.NotEmpty(t, env.photos.saved)
}

func TestAddItemFromPhotoRequiresFile(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("quantity", "1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/items/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPhoto(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.photos.saved["banana.jpg"] = []byte("jpegdata")

	rec := env.do(t, http.MethodGet, "/photos/banana.jpg", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "jpegdata", rec.Body.String())
}

func TestGetPhotoNotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodGet, "/photos/nope.jpg", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipesEndpoint(t *testing.T) {
	generator := &stubGenerator{drafts: []recipes.Draft{
		{Title: "Chicken Stir Fry", Ingredients: []string{"chicken"}, Steps: []string{"cook it"}},
	}}
	env := newTestEnv(t, nil, generator)

	env.do(t, http.MethodPost, "/items", map[string]any{"name": "chicken", "quantity": 1, "storage": "fridge"})

	rec := env.do(t, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["recipes"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "Chicken Stir Fry", list[0].(map[string]any)["title"])
}

func TestRecipesEmptyFridge(t *testing.T) {
	env := newTestEnv(t, nil, &stubGenerator{})

	rec := env.do(t, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody(t, rec)["recipes"])
}

func TestResetClearsInventory(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.do(t, http.MethodPost, "/items", map[string]any{"name": "milk", "quantity": 1, "storage": "fridge"})

	rec := env.do(t, http.MethodPost, "/reset", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/items", nil)
	assert.Empty(t, decodeBody(t, rec)["items"])
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodGet, "/items", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
