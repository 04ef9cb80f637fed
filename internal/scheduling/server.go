package scheduling

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/scheduling/internal/eventstore"
	"github.com/nao1215/scheduling/pkg/metrics"
	"github.com/nao1215/scheduling/pkg/middleware"
)

// healthTimeout はヘルスチェックでストアへ問い合わせる際のタイムアウト。
const healthTimeout = 2 * time.Second

// Server はスケジューリングサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// addr はサーバーのリッスンアドレス。
	addr string
	// store はイベントの永続化先。
	store eventstore.Store
	// metrics はリクエストとストア操作のメトリクス。
	metrics *metrics.Metrics
	// httpServer はRunで起動したHTTPサーバー。
	httpServer *http.Server
}

// NewServer は新しいスケジューリングサーバーを生成する。
// storeの各操作はメトリクスに記録される。
func NewServer(addr string, store eventstore.Store, m *metrics.Metrics) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.Metrics(m))

	s := &Server{
		router:  router,
		addr:    addr,
		store:   eventstore.Instrument(store, m),
		metrics: m,
	}
	s.setupRoutes()

	return s
}

// Handler はルーティング済みのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルに停止する。
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("スケジューリングサービスを停止します")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	createCORS := middleware.CORS(createEventPolicy)
	listCORS := middleware.CORS(listEventsPolicy)

	api := s.router.Group("/api/v1/scheduling")
	{
		events := api.Group("/events")
		{
			// イベントの作成
			events.POST("", createCORS, s.handleCreateEvent())
			events.OPTIONS("", createCORS)
			// イベント一覧の取得
			events.GET("/list", listCORS, s.handleListEvents())
			events.HEAD("/list", listCORS, s.handleListEvents())
			events.POST("/list", listCORS, s.handleListEvents())
			events.OPTIONS("/list", listCORS)
		}
	}

	// ヘルスチェック
	s.router.GET("/health", s.handleHealth())
	// Prometheusメトリクス
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// handleHealth はストアへの疎通を含むヘルスチェックを処理するハンドラを返す。
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := s.store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "scheduling"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "scheduling"})
	}
}
