// スケジューリングイベント記録サービスのエントリポイント。
// イベント（主催者・名前・日付）を受け付けて外部ストアに保存し、一覧を返す。
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/scheduling/internal/config"
	"github.com/nao1215/scheduling/internal/eventstore"
	"github.com/nao1215/scheduling/internal/scheduling"
	"github.com/nao1215/scheduling/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := eventstore.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("イベントストアの初期化に失敗: %v", err)
	}
	defer store.Close()

	server := scheduling.NewServer(cfg.ListenAddr(), store, metrics.New())

	log.Printf("スケジューリングサービスを起動します: %s (store=%s)", cfg.ListenAddr(), cfg.Store.Backend)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("スケジューリングサービスの起動に失敗: %v", err)
	}
}
