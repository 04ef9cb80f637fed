// Package event はスケジューリングイベントのデータモデルを提供する。
//
// クライアントから受け取るEvent（organizer, name, date）と、
// ストアに永続化されるRecord（スロット番号とidを含む）の2つの形を持つ。
package event
