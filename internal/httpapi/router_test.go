package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	goerrors "github.com/goliatone/go-errors"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-category-cache/cache"
	"github.com/goliatone/go-category-cache/category"
	"github.com/goliatone/go-category-cache/hierarchy"
	"github.com/goliatone/go-category-cache/source"
	"github.com/goliatone/go-category-cache/store"
)

func ptr[T any](v T) *T { return &v }

var fixture = []category.WireRecord{
	{ID: "a", Name: "Maison", Slug: "maison", Order: ptr(1.0)},
	{ID: "b", Name: "Cuisine", Slug: "cuisine", ParentID: ptr("a"), Order: ptr(2.0)},
	{ID: "c", Name: "Salon", Slug: "salon", ParentID: ptr("a"), Order: ptr(1.0)},
	{ID: "d", Name: "Ustensiles", Slug: "ustensiles", ParentID: ptr("b")},
	{ID: "e", Name: "Électronique", Slug: "electronique", Order: ptr(0.0)},
	{ID: "p", Name: "Soldes", Slug: "soldes", Type: ptr("promo"), Order: ptr(9.0)},
}

type testAPI struct {
	engine *gin.Engine
	store  *store.Store
}

func newTestAPI(t *testing.T, src store.Source, opts Options) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := logtest.NewNullLogger()
	st, err := store.New(src,
		store.WithConfig(cache.DefaultConfig().WithTTL(time.Minute)),
		store.WithLogger(logger),
	)
	require.NoError(t, err)

	if opts.Logger == nil {
		opts.Logger = logger
	}
	engine := NewRouter(
		NewCategoryHandler(st, hierarchy.New(st), logger),
		NewCacheHandler(st, logger),
		opts,
	)
	return &testAPI{engine: engine, store: st}
}

func (a *testAPI) do(t *testing.T, method, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Data  T   `json:"data"`
	Count int `json:"count"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out.Data
}

type errorBody struct {
	Error struct {
		Category  goerrors.Category `json:"category"`
		Code      int               `json:"code"`
		TextCode  string            `json:"text_code"`
		RequestID string            `json:"request_id"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func recordIDs(list []category.Record) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func TestList(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	w := api.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]category.Record](t, w), len(fixture))
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.Empty(t, w.Header().Get("X-Category-Degraded"))
}

func TestList_NotModified(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	first := api.do(t, http.MethodGet, "/api/categories", nil)
	etag := first.Header().Get("ETag")

	w := api.do(t, http.MethodGet, "/api/categories", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestList_Degraded(t *testing.T) {
	src := source.Func(func(context.Context) ([]category.WireRecord, error) {
		return nil, errors.New("upstream down")
	})
	api := newTestAPI(t, src, Options{})

	w := api.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Category-Degraded"))
	assert.Empty(t, decode[[]category.Record](t, w))
}

func TestMain_OneLevel(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	w := api.do(t, http.MethodGet, "/api/categories/main", nil)
	require.Equal(t, http.StatusOK, w.Code)

	nodes := decode[[]hierarchy.Node](t, w)
	require.Len(t, nodes, 3)
	assert.Equal(t, "e", nodes[0].ID)
	assert.Equal(t, "a", nodes[1].ID)
	require.Len(t, nodes[1].Children, 2)
	assert.Equal(t, "c", nodes[1].Children[0].ID)
	assert.Empty(t, nodes[1].Children[1].Children)
}

func TestTreeAndPromo(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	tree := decode[[]hierarchy.Node](t, api.do(t, http.MethodGet, "/api/categories/tree", nil))
	require.Len(t, tree, 3)
	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, "d", tree[1].Children[1].Children[0].ID)

	promo := decode[[]category.Record](t, api.do(t, http.MethodGet, "/api/categories/promo", nil))
	assert.Equal(t, []string{"p"}, recordIDs(promo))
}

func TestSearch(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	got := decode[[]category.Record](t, api.do(t, http.MethodGet, "/api/categories/search?q=elec", nil))
	assert.Equal(t, []string{"e"}, recordIDs(got))

	empty := decode[[]category.Record](t, api.do(t, http.MethodGet, "/api/categories/search?q=", nil))
	assert.Empty(t, empty)
}

func TestStats(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	st := decode[hierarchy.Stats](t, api.do(t, http.MethodGet, "/api/categories/stats", nil))
	assert.Equal(t, hierarchy.Stats{Total: 6, Main: 3, Sub: 3, Active: 6, Promo: 1}, st)
}

func TestLookups(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	byID := decode[category.Record](t, api.do(t, http.MethodGet, "/api/categories/by-id/b", nil))
	assert.Equal(t, "Cuisine", byID.Name)

	bySlug := decode[category.Record](t, api.do(t, http.MethodGet, "/api/categories/by-slug/salon", nil))
	assert.Equal(t, "c", bySlug.ID)

	children := decode[[]category.Record](t, api.do(t, http.MethodGet, "/api/categories/by-id/a/children", nil))
	assert.Equal(t, []string{"c", "b"}, recordIDs(children))

	path := decode[[]category.Record](t, api.do(t, http.MethodGet, "/api/categories/by-id/d/path", nil))
	assert.Equal(t, []string{"a", "b", "d"}, recordIDs(path))

	desc := decode[[]string](t, api.do(t, http.MethodGet, "/api/categories/by-id/a/descendants", nil))
	assert.ElementsMatch(t, []string{"b", "c", "d"}, desc)
}

func TestLookups_NotFound(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})

	for _, path := range []string{
		"/api/categories/by-id/missing",
		"/api/categories/by-slug/missing",
		"/api/categories/by-id/missing/path",
	} {
		w := api.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, w.Code, path)

		body := decodeError(t, w)
		assert.Equal(t, goerrors.CategoryNotFound, body.Error.Category)
		assert.Equal(t, http.StatusNotFound, body.Error.Code)
		assert.Equal(t, "CATEGORY_NOT_FOUND", body.Error.TextCode)
		assert.NotEmpty(t, body.Error.RequestID)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{})
	id := "0b3c5f3e-8a5e-4d8f-9c1a-2f6f4e1b7d21"

	w := api.do(t, http.MethodGet, "/health", http.Header{"X-Request-Id": {id}})
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))

	w = api.do(t, http.MethodGet, "/health", http.Header{"X-Request-Id": {"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCacheControl(t *testing.T) {
	var calls int32
	src := source.Func(func(context.Context) ([]category.WireRecord, error) {
		atomic.AddInt32(&calls, 1)
		return fixture, nil
	})
	api := newTestAPI(t, src, Options{RateLimitLimit: 100, RateLimitPeriod: time.Minute})

	api.do(t, http.MethodGet, "/api/categories", nil)
	api.do(t, http.MethodGet, "/api/categories", nil)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	status := decode[store.Status](t, api.do(t, http.MethodGet, "/api/cache/categories/status", nil))
	assert.Equal(t, len(fixture), status.Records)
	assert.True(t, status.Fresh)

	w := api.do(t, http.MethodPost, "/api/cache/categories/invalidate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(1), decode[store.Status](t, w).Generation)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "invalidate does not fetch")

	w = api.do(t, http.MethodPost, "/api/cache/categories/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}

func TestRefresh_UpstreamFailure(t *testing.T) {
	src := source.Func(func(context.Context) ([]category.WireRecord, error) {
		return nil, errors.New("connection refused")
	})
	api := newTestAPI(t, src, Options{})

	w := api.do(t, http.MethodPost, "/api/cache/categories/refresh", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	body := decodeError(t, w)
	assert.Equal(t, goerrors.CategoryExternal, body.Error.Category)
	assert.Equal(t, "CATEGORY_FETCH_FAILED", body.Error.TextCode)
}

func TestRateLimit(t *testing.T) {
	api := newTestAPI(t, source.Static(fixture...), Options{RateLimitLimit: 2, RateLimitPeriod: time.Minute})

	for i := 0; i < 2; i++ {
		w := api.do(t, http.MethodPost, "/api/cache/categories/invalidate", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := api.do(t, http.MethodPost, "/api/cache/categories/invalidate", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// reads are not limited
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/cache/categories/status", nil).Code)
}
