package eventstore

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nao1215/scheduling/pkg/event"
	"github.com/nao1215/scheduling/pkg/migration"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore はSQLiteのテーブルにイベントを保存するStore。
// スロット番号をeventsテーブルの主キーとして扱う。
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore はSQLiteデータベースを開き、マイグレーションを適用する。
// pathに":memory:"を指定するとインメモリデータベースになる。
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// 書き込みを直列化する。インメモリDBは接続ごとに別のDBになるため1接続に固定する。
	db.SetMaxOpenConns(1)

	if err := migration.Run(ctx, db, migrationsFS, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append は最大スロット番号の次にイベントを保存する。
// スロットは隙間なく埋まるため、最大値+1は最初の空きスロットと一致する。
func (s *SQLiteStore) Append(ctx context.Context, e event.Event) (event.Record, error) {
	r := event.NewRecord(e)

	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO events (slot, id, organizer, event, date)
		SELECT COALESCE(MAX(slot), 0) + 1, ?, ?, ?, ? FROM events
		RETURNING slot
	`, r.ID, r.Organizer, r.Event, r.Date).Scan(&r.Slot)
	if err != nil {
		return event.Record{}, unavailable("append", err)
	}
	return r, nil
}

// ListAll はスロット昇順で全レコードを返す。スロットに隙間がある場合はその手前までを返す。
func (s *SQLiteStore) ListAll(ctx context.Context) ([]event.Record, error) {
	records := []event.Record{}
	if err := s.db.SelectContext(ctx, &records,
		"SELECT slot, id, organizer, event, date FROM events ORDER BY slot"); err != nil {
		return nil, unavailable("list_all", err)
	}

	for i, r := range records {
		if r.Slot != int64(i+1) {
			return records[:i], nil
		}
	}
	return records, nil
}

// Ping はデータベースへ到達できるかを確認する。
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
