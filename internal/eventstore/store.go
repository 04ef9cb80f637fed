package eventstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/scheduling/internal/config"
	"github.com/nao1215/scheduling/pkg/event"
)

// ErrStoreUnavailable は外部ストアへの接続または操作に失敗したことを表す。
// バックエンドが返すすべてのエラーはこのエラーをラップする。
var ErrStoreUnavailable = errors.New("イベントストアを利用できません")

// Store はイベントストアの操作を定義する。
type Store interface {
	// Append は最初の空きスロットにイベントを保存し、保存したレコードを返す。
	Append(ctx context.Context, e event.Event) (event.Record, error)
	// ListAll は保存済みの全レコードをスロット昇順で返す。レコードが無い場合は空スライスを返す。
	ListAll(ctx context.Context) ([]event.Record, error)
	// Ping は外部ストアへ到達できるかを確認する。
	Ping(ctx context.Context) error
	// Close は外部ストアとの接続を解放する。
	Close() error
}

// unavailable はバックエンドのエラーをErrStoreUnavailableでラップする。
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// Open は設定に従ってバックエンドを選択し、イベントストアを開く。
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return NewRedisStore(cfg.Redis), nil
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("未知のストアバックエンドです: %q", cfg.Backend)
	}
}
