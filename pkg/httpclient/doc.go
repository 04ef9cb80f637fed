// Package httpclient はスケジューリングサービスのHTTP APIを呼び出すクライアントを提供する。
//
// イベントの作成と一覧取得をGoの関数として扱えるようにする。
package httpclient
