package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// testPolicy はテスト用の資格情報付きCORSポリシー。
var testPolicy = CORSPolicy{
	AllowAnyOrigin:   true,
	AllowCredentials: true,
	AllowHeaders:     []string{"content-type", "Origin"},
	AllowMethods:     []string{"POST", "GET", "HEAD", "OPTIONS"},
}

// setupCORSRouter はCORSミドルウェア付きのテスト用ルーターを構築するヘルパー関数。
// 後続のハンドラが呼ばれたかどうかをcalledで返す。
func setupCORSRouter(p CORSPolicy, called *bool) *gin.Engine {
	router := gin.New()
	cors := CORS(p)
	handler := func(c *gin.Context) {
		*called = true
		c.String(http.StatusOK, "ok")
	}
	router.GET("/test", cors, handler)
	router.OPTIONS("/test", cors, handler)
	return router
}

// TestCORS はCORSミドルウェアの通常リクエストに対する振る舞いを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("任意のオリジンが許可されオリジンがそのまま返ること", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(testPolicy, &called)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if !called {
			t.Error("ハンドラが呼ばれなかった")
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://anywhere.example")
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, "true")
		}
		if got := w.Header().Get("Vary"); got != "Origin" {
			t.Errorf("Vary = %q, want %q", got, "Origin")
		}
	})

	t.Run("資格情報を許可しないポリシーではAllow-Credentialsが付与されないこと", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(CORSPolicy{AllowAnyOrigin: true, AllowMethods: []string{"GET"}}, &called)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want empty string", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("許可されていないオリジンにはCORSヘッダーが設定されないこと", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(CORSPolicy{AllowedOrigins: []string{"http://localhost:3000"}}, &called)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty string", got)
		}
	})

	t.Run("Originヘッダーが無いリクエストにCORSヘッダーが設定されないこと", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(testPolicy, &called)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if !called {
			t.Error("ハンドラが呼ばれなかった")
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty string", got)
		}
	})
}

// TestCORSPreflight はCORSミドルウェアのプリフライト処理を検証する。
func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	preflight := func(router *gin.Engine, method, headers string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		if method != "" {
			req.Header.Set("Access-Control-Request-Method", method)
		}
		if headers != "" {
			req.Header.Set("Access-Control-Request-Headers", headers)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("許可されたメソッドとヘッダーのプリフライトに204が返ること", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(testPolicy, &called)

		w := preflight(router, "POST", "Content-Type, origin")

		if w.Code != http.StatusNoContent {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
		if called {
			t.Error("プリフライトで後続のハンドラが呼ばれた")
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST, GET, HEAD, OPTIONS" {
			t.Errorf("Access-Control-Allow-Methods = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "content-type, Origin" {
			t.Errorf("Access-Control-Allow-Headers = %q", got)
		}
		if got := w.Header().Get("Access-Control-Max-Age"); got != "" {
			t.Errorf("Access-Control-Max-Age = %q, want empty string", got)
		}
	})

	t.Run("許可されていないメソッドのプリフライトは403になること", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(testPolicy, &called)

		if w := preflight(router, "DELETE", ""); w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("許可されていないヘッダーのプリフライトは403になること", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(testPolicy, &called)

		if w := preflight(router, "POST", "content-type, Authorization"); w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("ヘッダー許可リストが空の場合ヘッダーを要求するプリフライトは403になること", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(CORSPolicy{AllowAnyOrigin: true, AllowMethods: []string{"GET"}}, &called)

		if w := preflight(router, "GET", "content-type"); w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
		if w := preflight(router, "GET", ""); w.Code != http.StatusNoContent {
			t.Errorf("ヘッダー要求なし: ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
	})

	t.Run("許可されていないオリジンのプリフライトは403になること", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(CORSPolicy{AllowedOrigins: []string{"https://example.com"}, AllowMethods: []string{"GET"}}, &called)

		if w := preflight(router, "GET", ""); w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("MaxAgeが設定されている場合は秒数で返ること", func(t *testing.T) {
		t.Parallel()

		var called bool
		p := testPolicy
		p.MaxAge = 24 * time.Hour
		router := setupCORSRouter(p, &called)

		w := preflight(router, "GET", "")
		if got := w.Header().Get("Access-Control-Max-Age"); got != "86400" {
			t.Errorf("Access-Control-Max-Age = %q, want %q", got, "86400")
		}
	})

	t.Run("Originヘッダーが無いOPTIONSリクエストは204で中断されること", func(t *testing.T) {
		t.Parallel()

		var called bool
		router := setupCORSRouter(testPolicy, &called)

		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
		if called {
			t.Error("後続のハンドラが呼ばれた")
		}
	})
}
