// Package scheduling はスケジューリングイベント記録サービスのHTTP APIを提供する。
//
// 主な機能:
//   - イベントの作成（POST /api/v1/scheduling/events）
//   - 全イベントの一覧取得（GET /api/v1/scheduling/events/list）
//
// 各ルートには個別のCORSポリシーを適用する。永続化はeventstoreパッケージに委譲する。
package scheduling
