package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/infrastructure/lieuxapi"
	"ExploreTg-App/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeExploreUseCase struct {
	gotSel   model.Selection
	gotKey   string
	gotToken string
	failed   bool
	err      error
}

func (f *fakeExploreUseCase) LoadSnapshot(ctx context.Context) (*model.PlaceSnapshot, error) {
	return &model.PlaceSnapshot{Status: model.StatusReady}, f.err
}

func (f *fakeExploreUseCase) Explore(ctx context.Context, sel model.Selection, clientKey string) (*model.ExploreView, error) {
	f.gotSel, f.gotKey = sel, clientKey
	f.gotToken = session.TokenFromContext(ctx)
	if f.err != nil {
		return nil, f.err
	}
	if f.failed {
		return &model.ExploreView{Status: model.StatusFailed, Message: "connexion refusée", Items: []model.PlaceCard{}, Page: 1, TotalPages: 1}, nil
	}
	return &model.ExploreView{Status: model.StatusReady, Items: []model.PlaceCard{}, Page: sel.Page, FilterKey: sel.Key()}, nil
}

func (f *fakeExploreUseCase) Map(ctx context.Context, sel model.Selection) (*geojson.FeatureCollection, error) {
	f.gotSel = sel
	if f.err != nil {
		return nil, f.err
	}
	return geojson.NewFeatureCollection(), nil
}

func (f *fakeExploreUseCase) Stats(ctx context.Context) (*model.PlaceStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.PlaceStats{Total: 3}, nil
}

func (f *fakeExploreUseCase) Detail(ctx context.Context, id model.PlaceID) (*model.PlaceDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.PlaceDetail{ID: id, Name: "Hôtel du Lac"}, nil
}

type fakeLikesUseCase struct {
	err error
}

func (f *fakeLikesUseCase) List(ctx context.Context) ([]model.PlaceID, error) {
	if session.TokenFromContext(ctx) == "" {
		return nil, model.ErrUnauthorized
	}
	return []model.PlaceID{"1", "4"}, f.err
}

func (f *fakeLikesUseCase) Like(ctx context.Context, id model.PlaceID) error   { return f.err }
func (f *fakeLikesUseCase) Unlike(ctx context.Context, id model.PlaceID) error { return f.err }

type fakeAuthUseCase struct {
	result *model.LoginResult
	err    error
}

func (f *fakeAuthUseCase) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	return f.result, f.err
}

type testRouter struct {
	engine  *gin.Engine
	explore *fakeExploreUseCase
	likes   *fakeLikesUseCase
	auth    *fakeAuthUseCase
	health  *HealthHandler
}

func newTestRouter(qps float64, burst int) *testRouter {
	tr := &testRouter{
		explore: &fakeExploreUseCase{},
		likes:   &fakeLikesUseCase{},
		auth:    &fakeAuthUseCase{result: &model.LoginResult{AccessToken: "jwt", User: map[string]interface{}{"role": "admin"}}},
		health:  NewHealthHandler(),
	}
	tr.engine = NewRouter(RouterConfig{
		Explore:        NewExploreHandler(tr.explore),
		Likes:          NewLikesHandler(tr.likes),
		Auth:           NewAuthHandler(tr.auth, false),
		Health:         tr.health,
		RateLimitQPS:   qps,
		RateLimitBurst: burst,
	})
	return tr
}

func (tr *testRouter) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	tr.engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	tr := newTestRouter(0, 0)

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

type fakeSnapshotReporter struct{}

func (fakeSnapshotReporter) LastResult() (time.Time, int, error) {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), 42, nil
}

func TestHealth_ChecksAndSnapshot(t *testing.T) {
	tr := newTestRouter(0, 0)
	tr.health.SetSnapshot(fakeSnapshotReporter{})
	tr.health.AddCheck("postgres", func(context.Context) error { return nil })

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, map[string]interface{}{"postgres": "ok"}, body["checks"])
	snapshot := body["snapshot"].(map[string]interface{})
	assert.Equal(t, float64(42), snapshot["lieux"])
	assert.Equal(t, "2026-01-02T03:04:05Z", snapshot["last_run"])

	tr.health.AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })
	rec = tr.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decodeBody(t, rec)["status"])
}

func TestRequestID_Propagated(t *testing.T) {
	tr := newTestRouter(0, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := tr.do(req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestGetExplore_ParsesQuery(t *testing.T) {
	tr := newTestRouter(0, 0)

	req := httptest.NewRequest(http.MethodGet,
		"/api/explore?q=+lac+&type=hotels&region=Maritime&region=Plateaux&images=with&page=3&filterKey=abc", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: "user-token"})
	rec := tr.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	sel := tr.explore.gotSel
	assert.Equal(t, "lac", sel.Search)
	assert.Equal(t, model.ImagesWith, sel.Images)
	assert.Equal(t, 3, sel.Page)
	assert.Equal(t, []string{"hotels"}, sel.Values(model.LevelType).Sorted())
	assert.Equal(t, []string{"Maritime", "Plateaux"}, sel.Values(model.LevelRegion).Sorted())
	assert.Equal(t, "abc", tr.explore.gotKey)
	assert.Equal(t, "user-token", tr.explore.gotToken)
}

func TestGetExplore_InvalidPageIsFirstPage(t *testing.T) {
	tr := newTestRouter(0, 0)

	for _, page := range []string{"0", "-2", "abc"} {
		rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/explore?page="+page, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, tr.explore.gotSel.Page, page)
	}
}

func TestExplore_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		path     string
		wantCode int
		wantErr  string
	}{
		{"未認証", model.ErrUnauthorized, "/api/explore", http.StatusUnauthorized, "unauthorized"},
		{"存在しない", model.ErrPlaceNotFound, "/api/explore/42", http.StatusNotFound, "not_found"},
		{"外部APIの4xx", &lieuxapi.APIError{Status: http.StatusForbidden, Message: "Accès refusé"}, "/api/explore/stats", http.StatusForbidden, "upstream_error"},
		{"外部APIの5xx", &lieuxapi.APIError{Status: http.StatusInternalServerError}, "/api/explore/map", http.StatusBadGateway, "upstream_error"},
		{"その他", context.DeadlineExceeded, "/api/explore", http.StatusBadGateway, "upstream_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRouter(0, 0)
			tr.explore.err = tt.err

			rec := tr.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeBody(t, rec)["error"])
		})
	}
}

func TestGetExplore_FailedSnapshot(t *testing.T) {
	tr := newTestRouter(0, 0)
	tr.explore.failed = true

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/explore", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "connexion refusée", body["message"])
	assert.Empty(t, body["items"])
}

func TestExplore_ClosedViewWritesNothing(t *testing.T) {
	tr := newTestRouter(0, 0)
	tr.explore.err = model.ErrViewClosed

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/explore", nil))
	assert.Equal(t, 499, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetMap_GeoJSON(t *testing.T) {
	tr := newTestRouter(0, 0)

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/explore/map?region=Maritime", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/geo+json")
	assert.Equal(t, "FeatureCollection", decodeBody(t, rec)["type"])
	assert.True(t, tr.explore.gotSel.Values(model.LevelRegion).Has("Maritime"))
}

func TestGetDetail(t *testing.T) {
	tr := newTestRouter(0, 0)

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/explore/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "7", body["id"])
	assert.Equal(t, "Hôtel du Lac", body["name"])
}

func TestLikes(t *testing.T) {
	tr := newTestRouter(0, 0)

	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/likes", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/likes", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec = tr.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"1", "4"}, decodeBody(t, rec)["liked"])

	rec = tr.do(httptest.NewRequest(http.MethodPost, "/api/explore/4/likes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["liked"])

	rec = tr.do(httptest.NewRequest(http.MethodDelete, "/api/explore/4/likes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["liked"])
}

func TestLogin(t *testing.T) {
	t.Run("成功でCookieを設定", func(t *testing.T) {
		tr := newTestRouter(0, 0)

		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"agent@tourisme.tg","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := tr.do(req)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "jwt", body["token"])

		cookies := map[string]*http.Cookie{}
		for _, c := range rec.Result().Cookies() {
			cookies[c.Name] = c
		}
		require.Contains(t, cookies, session.TokenCookie)
		require.Contains(t, cookies, session.UserDataCookie)
		assert.Equal(t, "jwt", cookies[session.TokenCookie].Value)
		assert.True(t, cookies[session.TokenCookie].HttpOnly)
	})

	t.Run("不正なボディ", func(t *testing.T) {
		tr := newTestRouter(0, 0)

		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"pas-un-email"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := tr.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_request", decodeBody(t, rec)["error"])
	})

	t.Run("認証APIのエラーをそのまま返す", func(t *testing.T) {
		tr := newTestRouter(0, 0)
		tr.auth.err = &lieuxapi.APIError{Status: http.StatusBadRequest, Message: "Identifiants invalides"}

		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"agent@tourisme.tg","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := tr.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "login_failed", body["error"])
		assert.Equal(t, "Identifiants invalides", body["message"])
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestLogout_ClearsCookies(t *testing.T) {
	tr := newTestRouter(0, 0)

	rec := tr.do(httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.True(t, c.MaxAge < 0, c.Name)
	}
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestRateLimit(t *testing.T) {
	tr := newTestRouter(0.001, 2)

	for i := 0; i < 2; i++ {
		rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/explore/stats", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := tr.do(httptest.NewRequest(http.MethodGet, "/api/explore/stats", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decodeBody(t, rec)["error"])

	// health は制限の対象外
	rec = tr.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
