package event

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// NewID はURLセーフなランダム識別子を生成する。
func NewID() string {
	return uuid.New().String()
}

// NewRecord はイベントから保存用のレコードを生成する。
// idはここで一度だけ生成され、以後変更されない。スロット番号はストアが割り当てる。
func NewRecord(e Event) Record {
	return Record{
		ID:        NewID(),
		Organizer: e.Organizer,
		Event:     e.Name,
		Date:      e.Date,
	}
}

// Confirmation はイベント作成時に返す確認メッセージを生成する。
func Confirmation(e Event) string {
	return "Organizer: " + quote(e.Organizer) +
		" Event: " + quote(e.Name) +
		" Date " + quote(e.Date)
}

// RenderDebug はレコード一覧を旧形式のデバッグテキストで描画する。
// 各レコードはフィールド名と値を交互に並べた文字列リストになる。
//
//	[["organizer", "Alice", "event", "Standup", "date", "2024-01-01", "id", "..."]]
func RenderDebug(records []Record) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for j, f := range r.Fields() {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quote(f.Name))
			b.WriteString(", ")
			b.WriteString(quote(f.Value))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// quote は文字列を二重引用符で囲み、旧形式のテキストと同じ規則でエスケープする。
// 表示できない文字は \u{7f} のように16進のコードポイントで書き出す。
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if unicode.IsGraphic(r) {
				b.WriteRune(r)
				continue
			}
			b.WriteString(`\u{`)
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte('}')
		}
	}
	b.WriteByte('"')
	return b.String()
}
