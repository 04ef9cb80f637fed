package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSPolicy はルートに適用するクロスオリジンリクエストの許可設定。
type CORSPolicy struct {
	// AllowAnyOrigin がtrueの場合、すべてのオリジンを許可する。
	AllowAnyOrigin bool
	// AllowedOrigins は許可するオリジンの一覧。AllowAnyOriginがtrueの場合は無視される。
	AllowedOrigins []string
	// AllowCredentials がtrueの場合、資格情報付きリクエストを許可する。
	AllowCredentials bool
	// AllowHeaders はプリフライトで許可するリクエストヘッダー。大文字小文字は区別しない。
	// 空の場合、ヘッダーを要求するプリフライトはすべて拒否される。
	AllowHeaders []string
	// AllowMethods は許可するHTTPメソッド。
	AllowMethods []string
	// MaxAge はプリフライト結果のキャッシュ期間。0の場合はヘッダーを付与しない。
	MaxAge time.Duration
}

// CORS はポリシーに従ってクロスオリジンリクエストを処理するGinミドルウェアを返す。
// OPTIONSリクエストはプリフライトとしてこのミドルウェアが応答し、後続のハンドラは呼ばれない。
func CORS(p CORSPolicy) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(p.AllowedOrigins))
	for _, o := range p.AllowedOrigins {
		origins[o] = struct{}{}
	}
	headers := make(map[string]struct{}, len(p.AllowHeaders))
	for _, h := range p.AllowHeaders {
		headers[strings.ToLower(h)] = struct{}{}
	}
	methods := make(map[string]struct{}, len(p.AllowMethods))
	for _, m := range p.AllowMethods {
		methods[strings.ToUpper(m)] = struct{}{}
	}
	allowMethods := strings.Join(p.AllowMethods, ", ")
	allowHeaders := strings.Join(p.AllowHeaders, ", ")

	originAllowed := func(origin string) bool {
		if p.AllowAnyOrigin {
			return true
		}
		_, ok := origins[origin]
		return ok
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		if !originAllowed(origin) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
		if p.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		// プリフライト
		if m := c.GetHeader("Access-Control-Request-Method"); m != "" {
			if _, ok := methods[strings.ToUpper(m)]; !ok {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			for _, h := range strings.Split(requested, ",") {
				h = strings.ToLower(strings.TrimSpace(h))
				if h == "" {
					continue
				}
				if _, ok := headers[h]; !ok {
					c.AbortWithStatus(http.StatusForbidden)
					return
				}
			}
		}

		c.Header("Access-Control-Allow-Methods", allowMethods)
		if allowHeaders != "" {
			c.Header("Access-Control-Allow-Headers", allowHeaders)
		}
		if p.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", strconv.Itoa(int(p.MaxAge.Seconds())))
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}
