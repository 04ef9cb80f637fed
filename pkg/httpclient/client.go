package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nao1215/scheduling/pkg/event"
)

// APIのパス。
const (
	eventsPath     = "/api/v1/scheduling/events"
	listEventsPath = "/api/v1/scheduling/events/list"
)

// StatusError はサーバーが2xx以外のステータスを返したことを表す。
type StatusError struct {
	// Code はHTTPステータスコード。
	Code int
	// Body はレスポンスボディ。
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.Code, e.Body)
}

// Client はスケジューリングサービスのHTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サービスのベースURL。
	baseURL string
}

// New は新しいクライアントを生成する。
// baseURLには接続先サービスのベースURL（例: "http://localhost:8080"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// CreateEvent はイベントを作成し、サーバーが返す確認メッセージを返す。
func (c *Client) CreateEvent(ctx context.Context, e event.Event) (string, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, eventsPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// ListEvents は全イベントをスロット順に取得する。
func (c *Client) ListEvents(ctx context.Context) ([]event.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, listEventsPath, nil)
	if err != nil {
		return nil, err
	}
	var records []event.Record
	if err := json.Unmarshal(resp, &records); err != nil {
		return nil, fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	return records, nil
}

// ListEventsText は全イベントを旧形式のテキストで取得する。
func (c *Client) ListEventsText(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, listEventsPath+"?format=text", nil)
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// do はHTTPリクエストを実行し、レスポンスボディを返す共通処理。
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
