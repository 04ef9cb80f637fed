// Package eventstore はスケジューリングイベントの永続化を提供する。
//
// イベントはスロット番号付きのキー（event:1, event:2, ...）に1件ずつ格納される。
// スロットは1から隙間なく埋まり、削除は存在しないため、
// 一覧取得は1から順にたどって最初の空きスロットで終了する。
//
// 主な機能:
//   - イベントの追記（Append）: 最初の空きスロットを確保してidを生成し、全フィールドを一括で書き込む
//   - 全イベントの取得（ListAll）: スロット昇順で全レコードを返す
//
// バックエンドはRedis（ハッシュ）とSQLite（テーブル）の2種類。
package eventstore
