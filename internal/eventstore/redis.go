package eventstore

import (
	"context"

	"github.com/nao1215/scheduling/internal/config"
	"github.com/nao1215/scheduling/pkg/event"
	"github.com/redis/go-redis/v9"
)

// nextSlotKey は次に試すスロット番号のヒントを保持するキー。
// ヒントが無い・古い場合でもスクリプトは線形探索で正しい空きスロットにたどり着く。
const nextSlotKey = "event:next"

// listBatchSize は一覧取得で1回のパイプラインにまとめるHGETALLの数。
const listBatchSize = 32

// appendScript はスロットの探索と書き込みをRedis上で1つの操作として実行する。
// 探索と書き込みの間に他の追記が割り込まないため、並行した追記が同じスロットを奪い合うことはない。
//
// スクリプトはKEYSで宣言していないスロットキーにも触れるため、単一ノードのRedisを前提とする。
//
// KEYS[1]: ヒントキー
// ARGV[1]: スロットキーの接頭辞, ARGV[2..5]: organizer, event, date, id
var appendScript = redis.NewScript(`
local prefix = ARGV[1]
local n = 1
local hint = redis.call('GET', KEYS[1])
if hint then
  n = tonumber(hint) or 1
end
if n < 1 then
  n = 1
end
if n > 1 and redis.call('HEXISTS', prefix .. tostring(n - 1), 'organizer') == 0 then
  n = 1
end
while redis.call('HEXISTS', prefix .. tostring(n), 'organizer') == 1 do
  n = n + 1
end
redis.call('HSET', prefix .. tostring(n), 'organizer', ARGV[2], 'event', ARGV[3], 'date', ARGV[4], 'id', ARGV[5])
redis.call('SET', KEYS[1], tostring(n + 1))
return n
`)

// RedisStore はRedisのハッシュにイベントを保存するStore。
// クライアントは内部にコネクションプールを持ち、呼び出しごとに接続を借りて返す。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore は設定に従ってRedisStoreを生成する。接続は最初の操作時に確立される。
func NewRedisStore(cfg config.Redis) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:        cfg.Addr,
			DB:          cfg.DB,
			PoolSize:    cfg.PoolSize,
			DialTimeout: cfg.DialTimeout,
		}),
	}
}

// Append は最初の空きスロットにイベントを保存する。
func (s *RedisStore) Append(ctx context.Context, e event.Event) (event.Record, error) {
	r := event.NewRecord(e)

	slot, err := appendScript.Run(ctx, s.client,
		[]string{nextSlotKey},
		event.SlotKeyPrefix, r.Organizer, r.Event, r.Date, r.ID,
	).Int64()
	if err != nil {
		return event.Record{}, unavailable("append", err)
	}
	r.Slot = slot
	return r, nil
}

// ListAll はスロット1から順にレコードを読み出し、最初の空きスロットで終了する。
func (s *RedisStore) ListAll(ctx context.Context) ([]event.Record, error) {
	records := []event.Record{}

	for start := int64(1); ; start += listBatchSize {
		pipe := s.client.Pipeline()
		cmds := make([]*redis.MapStringStringCmd, listBatchSize)
		for i := range cmds {
			cmds[i] = pipe.HGetAll(ctx, event.SlotKey(start+int64(i)))
		}
		// エラーはコマンドごとに確認する。終端より後ろのスロットの失敗は無視する。
		_, _ = pipe.Exec(ctx)

		for i, cmd := range cmds {
			slot := start + int64(i)
			if err := cmd.Err(); err != nil {
				return nil, unavailable("list_all", err)
			}
			r, err := event.RecordFromFields(slot, cmd.Val())
			if err != nil {
				// 最初の空きスロットが一覧の終端
				return records, nil
			}
			records = append(records, r)
		}
	}
}

// Ping はRedisへ到達できるかを確認する。
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close はコネクションプールを閉じる。
func (s *RedisStore) Close() error {
	return s.client.Close()
}
