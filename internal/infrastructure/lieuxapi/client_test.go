package lieuxapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/session"
)

func withToken(token string) context.Context {
	return session.NewContext(context.Background(), session.StaticProvider{TokenValue: token})
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second, "service-token")
}

func TestClient_ListPlaces(t *testing.T) {
	var gotAuth string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/lieux", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": [
			{"id": 1, "type": "hotels", "etabNom": "A", "etabImages": [{"0":"a",  "1":".jpg"}], "geometry": "POINT(6 1)"},
			{"id": "2", "type": "parcs", "etabNom": "B", "etabImages": null}
		]}`))
	})

	t.Run("ユーザートークンを優先", func(t *testing.T) {
		places, err := client.ListPlaces(withToken("user-token"))
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, "Bearer user-token", gotAuth)
		assert.Equal(t, model.PlaceID("1"), places[0].ID)
		assert.Equal(t, "a.jpg", places[0].Images[0].Path())
		assert.Empty(t, places[1].Images)
	})

	t.Run("セッションが無ければサービストークン", func(t *testing.T) {
		_, err := client.ListPlaces(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer service-token", gotAuth)
	})
}

func TestClient_ListPlaces_Failures(t *testing.T) {
	t.Run("success=false は message 付きのエラー", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false, "message": "Base indisponible"}`))
		})
		_, err := client.ListPlaces(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Base indisponible", apiErr.Message)
	})

	t.Run("401 は ErrUnauthorized", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message": "Token invalide"}`))
		})
		_, err := client.ListPlaces(context.Background())
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("5xx はステータス付き", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := client.ListPlaces(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	})

	t.Run("壊れたJSON", func(t *testing.T) {
		client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		})
		_, err := client.ListPlaces(context.Background())
		assert.Error(t, err)
	})
}

func TestClient_GetPlace(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/lieux/42" {
			w.Write([]byte(`{"success": true, "data": {"id": 42, "type": "marches", "etabNom": "Marché"}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "message": "Lieu introuvable"}`))
	})

	place, err := client.GetPlace(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Marché", place.Name)

	_, err = client.GetPlace(context.Background(), "404")
	assert.ErrorIs(t, err, model.ErrPlaceNotFound)
}

func TestClient_Likes(t *testing.T) {
	var calls []string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		if r.URL.Path == "/api/likes" {
			w.Write([]byte(`{"success": true, "data": [{"lieuId": 3}, {"id": "7"}, {"lieuId": null}]}`))
			return
		}
		w.Write([]byte(`{"success": true}`))
	})

	ctx := withToken("user-token")
	ids, err := client.ListLikes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.PlaceID{"3", "7"}, ids)

	require.NoError(t, client.Like(ctx, "3"))
	require.NoError(t, client.Unlike(ctx, "3"))
	assert.Equal(t, []string{"GET /api/likes", "POST /api/lieux/3/likes", "DELETE /api/lieux/3/likes"}, calls)
}

func TestClient_Likes_RequireUserToken(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("トークン無しで外部APIを呼んではいけない: %s", r.URL.Path)
	})

	_, err := client.ListLikes(context.Background())
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	assert.ErrorIs(t, client.Like(context.Background(), "1"), model.ErrUnauthorized)
	assert.ErrorIs(t, client.Unlike(context.Background(), "1"), model.ErrUnauthorized)
}

func TestClient_Login(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Password {
		case "ok":
			w.Write([]byte(`{"accessToken": "jwt", "user": {"role": "admin"}}`))
		case "no-token":
			w.Write([]byte(`{"user": {"role": "admin"}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message": "Identifiants invalides"}`))
		}
	})

	result, err := client.Login(context.Background(), &model.LoginRequest{Email: "a@b.tg", Password: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "jwt", result.AccessToken)
	assert.Equal(t, "admin", result.Role())

	_, err = client.Login(context.Background(), &model.LoginRequest{Email: "a@b.tg", Password: "no-token"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	_, err = client.Login(context.Background(), &model.LoginRequest{Email: "a@b.tg", Password: "bad"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Identifiants invalides", apiErr.Message)
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": []}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListPlaces(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
