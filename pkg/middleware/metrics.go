package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver はHTTPリクエストの結果を受け取る。
type RequestObserver interface {
	ObserveRequest(route, method string, code int, d time.Duration)
}

// Metrics はリクエストごとのルート・メソッド・ステータスコード・所要時間を記録するGinミドルウェアを返す。
// ルートが一致しなかったリクエストは "unmatched" として記録する。
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
