// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// ルート単位のCORSポリシー、パニックリカバリ、リクエストメトリクスなど、
// 全ルートで共通して使用するミドルウェアを含む。
package middleware
