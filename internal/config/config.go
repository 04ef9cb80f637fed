// Package config はスケジューリングサービスの設定を読み込む。
//
// 設定は環境変数から読み込む。CONFIG_FILEが指定された場合はYAMLファイルを
// 先に読み込み、環境変数で上書きする。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPort はPORTが未指定または解釈できない場合のリッスンポート。
const DefaultPort = 8080

// ストアのバックエンド名。
const (
	// BackendRedis はRedisのハッシュをストアとして使う。
	BackendRedis = "redis"
	// BackendSQLite はSQLiteのテーブルをストアとして使う。
	BackendSQLite = "sqlite"
)

// Redis はRedisバックエンドの接続設定。
type Redis struct {
	// Addr は接続先アドレス（host:port）。
	Addr string `yaml:"addr"`
	// DB は使用するデータベース番号。
	DB int `yaml:"db"`
	// PoolSize はコネクションプールの最大接続数。0の場合はクライアントの既定値を使う。
	PoolSize int `yaml:"pool_size"`
	// DialTimeout は接続確立のタイムアウト。
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// SQLite はSQLiteバックエンドの設定。
type SQLite struct {
	// Path はデータベースファイルのパス。
	Path string `yaml:"path"`
}

// Store はイベントストアの設定。
type Store struct {
	// Backend はバックエンド名（redis または sqlite）。
	Backend string `yaml:"backend"`
	Redis   Redis  `yaml:"redis"`
	SQLite  SQLite `yaml:"sqlite"`
}

// Config はサービス全体の設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。全インターフェースにバインドする。
	Port  int   `yaml:"port"`
	Store Store `yaml:"store"`
}

// Default は既定値で埋めた設定を返す。
func Default() Config {
	return Config{
		Port: DefaultPort,
		Store: Store{
			Backend: BackendRedis,
			Redis: Redis{
				Addr:        "127.0.0.1:6379",
				DialTimeout: 5 * time.Second,
			},
			SQLite: SQLite{
				Path: "scheduling.db",
			},
		},
	}
}

// Load は設定を読み込む。
func Load() (Config, error) {
	return load(os.Getenv)
}

// load はgetenvで与えられた環境から設定を組み立てる。
func load(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	// PORTは解釈できない値でもエラーにせず既定値で起動する
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			port = DefaultPort
		}
		cfg.Port = port
	}
	if v := getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_DBが不正です: %q", v)
		}
		cfg.Store.Redis.DB = db
	}
	if v := getenv("SQLITE_PATH"); v != "" {
		cfg.Store.SQLite.Path = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile はYAMLファイルの内容を設定に上書きする。
// ファイルに書かれていない項目は既定値のまま残る。
func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("設定ファイルのパースに失敗: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = DefaultPort
	}
	return nil
}

// Validate は設定値の整合性を検証する。
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("Redisの接続先アドレスが空です")
		}
	case BackendSQLite:
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("SQLiteのパスが空です")
		}
	default:
		return fmt.Errorf("未知のストアバックエンドです: %q", c.Store.Backend)
	}
	return nil
}

// ListenAddr は全インターフェースにバインドするリッスンアドレスを返す。
func (c Config) ListenAddr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
