package lieuxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/infrastructure/metrics"
	"ExploreTg-App/internal/session"
)

// APIError 外部APIが成功以外を返したときのエラー
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lieux APIエラー (status %d)", e.Status)
	}
	return fmt.Sprintf("lieux APIエラー (status %d): %s", e.Status, e.Message)
}

// Client lieux REST API のクライアント
// トークンはリクエストの context に載った session.Provider から取り、無ければサービストークンを使う
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

// NewClient 新しいクライアントを作成
func NewClient(baseURL string, timeout time.Duration, serviceToken string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// envelope 外部APIの共通レスポンス形式 {success, data, message}
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// likeEntry /api/likes の要素。lieuId が無い実装もあるので id も見る
type likeEntry struct {
	LieuID model.PlaceID `json:"lieuId"`
	ID     model.PlaceID `json:"id"`
}

// ListPlaces GET /api/lieux
func (c *Client) ListPlaces(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	if err := c.getEnvelope(ctx, "list_places", "/api/lieux", &places); err != nil {
		return nil, err
	}
	if places == nil {
		places = []model.Place{}
	}
	return places, nil
}

// GetPlace GET /api/lieux/:id
func (c *Client) GetPlace(ctx context.Context, id model.PlaceID) (*model.Place, error) {
	var place model.Place
	err := c.getEnvelope(ctx, "get_place", "/api/lieux/"+url.PathEscape(id.String()), &place)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, model.ErrPlaceNotFound
		}
		return nil, err
	}
	return &place, nil
}

// ListLikes GET /api/likes（ユーザートークン必須）
func (c *Client) ListLikes(ctx context.Context) ([]model.PlaceID, error) {
	if session.TokenFromContext(ctx) == "" {
		return nil, model.ErrUnauthorized
	}
	var entries []likeEntry
	if err := c.getEnvelope(ctx, "list_likes", "/api/likes", &entries); err != nil {
		return nil, err
	}

	ids := make([]model.PlaceID, 0, len(entries))
	for _, e := range entries {
		id := e.LieuID
		if id == "" {
			id = e.ID
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Like POST /api/lieux/:id/likes
func (c *Client) Like(ctx context.Context, id model.PlaceID) error {
	return c.toggleLike(ctx, http.MethodPost, id)
}

// Unlike DELETE /api/lieux/:id/likes
func (c *Client) Unlike(ctx context.Context, id model.PlaceID) error {
	return c.toggleLike(ctx, http.MethodDelete, id)
}

func (c *Client) toggleLike(ctx context.Context, method string, id model.PlaceID) error {
	if session.TokenFromContext(ctx) == "" {
		return model.ErrUnauthorized
	}
	path := "/api/lieux/" + url.PathEscape(id.String()) + "/likes"
	_, err := c.do(ctx, "like_"+strings.ToLower(method), method, path, nil, c.userToken(ctx))
	return err
}

// Login POST /auth/login
func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ログインリクエストの作成に失敗: %w", err)
	}

	data, err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, "")
	if err != nil {
		return nil, err
	}

	var result model.LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("ログインレスポンスのパースに失敗: %w", err)
	}
	if result.AccessToken == "" {
		return nil, &APIError{Status: http.StatusInternalServerError, Message: "Token manquant dans la réponse."}
	}
	return &result, nil
}

// getEnvelope GET して {success, data, message} の data を out にデコードする
func (c *Client) getEnvelope(ctx context.Context, operation, path string, out interface{}) error {
	data, err := c.do(ctx, operation, http.MethodGet, path, nil, c.requestToken(ctx))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Erreur inconnue"
		}
		return &APIError{Status: http.StatusOK, Message: msg}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("dataのパースに失敗: %w", err)
	}
	return nil
}

// do リクエストを実行し、2xx ならボディを返す
func (c *Client) do(ctx context.Context, operation, method, path string, body []byte, token string) ([]byte, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
		metrics.UpstreamDurationMs.WithLabelValues(operation).Observe(float64(time.Since(start).Milliseconds()))
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み込みに失敗: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		outcome = "unauthorized"
		return nil, fmt.Errorf("%w: %s", model.ErrUnauthorized, errorMessage(data, resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = strconv.Itoa(resp.StatusCode)
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	outcome = "ok"
	return data, nil
}

// requestToken 読み取り系はユーザートークンが無ければサービストークンで呼ぶ
func (c *Client) requestToken(ctx context.Context) string {
	if token := session.TokenFromContext(ctx); token != "" {
		return token
	}
	return c.serviceToken
}

// userToken 書き込み系はユーザートークンのみ
func (c *Client) userToken(ctx context.Context) string {
	return session.TokenFromContext(ctx)
}

// errorMessage エラーレスポンスの message を取り出す。無ければステータス文言
func errorMessage(data []byte, status int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(status)
}
