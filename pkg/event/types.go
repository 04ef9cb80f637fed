package event

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotKeyPrefix はストア上のレコードキーの接頭辞。
const SlotKeyPrefix = "event:"

// 永続化されるレコードのフィールド名。
const (
	// FieldOrganizer は主催者のフィールド名。スロットの占有判定にも使う。
	FieldOrganizer = "organizer"
	// FieldEvent はイベント名のフィールド名。
	FieldEvent = "event"
	// FieldDate は日付のフィールド名。
	FieldDate = "date"
	// FieldID は生成された識別子のフィールド名。
	FieldID = "id"
)

// fieldOrder はレコードを書き込む・描画する際のフィールド順序。
var fieldOrder = []string{FieldOrganizer, FieldEvent, FieldDate, FieldID}

// Event はクライアントが送信するスケジューリングイベント。
type Event struct {
	// Organizer はイベントの主催者。
	Organizer string `json:"organizer"`
	// Name はイベント名。
	Name string `json:"name"`
	// Date はイベントの日付。自由形式の文字列で、暦としての解釈は行わない。
	Date string `json:"date"`
}

// Record はストアに永続化された1件のイベント。
type Record struct {
	// Slot はレコードが格納されているスロット番号（1始まり）。
	Slot int64 `json:"-" db:"slot"`
	// ID は保存時に生成された一意識別子。
	ID string `json:"-" db:"id"`
	// Organizer はイベントの主催者。
	Organizer string `json:"organizer" db:"organizer"`
	// Event はイベント名。
	Event string `json:"event" db:"event"`
	// Date はイベントの日付。
	Date string `json:"date" db:"date"`
}

// Field はレコードの1フィールド（名前と値の組）。
type Field struct {
	Name  string
	Value string
}

// SlotKey はスロット番号nに対応するストアキー（event:<n>）を返す。
func SlotKey(n int64) string {
	return SlotKeyPrefix + strconv.FormatInt(n, 10)
}

// ParseSlotKey はストアキーからスロット番号を取り出す。
func ParseSlotKey(key string) (int64, error) {
	s, ok := strings.CutPrefix(key, SlotKeyPrefix)
	if !ok {
		return 0, fmt.Errorf("スロットキーの形式が不正です: %q", key)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("スロット番号が不正です: %q", key)
	}
	return n, nil
}

// Occupied はフィールドマップがスロット占有レコードかを判定する。
// organizerフィールドを持つ場合のみ占有とみなす。
func Occupied(fields map[string]string) bool {
	_, ok := fields[FieldOrganizer]
	return ok
}

// Fields はレコードを永続化用のフィールド列に変換する。
func (r Record) Fields() []Field {
	values := map[string]string{
		FieldOrganizer: r.Organizer,
		FieldEvent:     r.Event,
		FieldDate:      r.Date,
		FieldID:        r.ID,
	}
	fields := make([]Field, 0, len(fieldOrder))
	for _, name := range fieldOrder {
		fields = append(fields, Field{Name: name, Value: values[name]})
	}
	return fields
}

// RecordFromFields はストアから読み出したフィールドマップをRecordに変換する。
// 占有判定を満たさないマップはエラーになる。
func RecordFromFields(slot int64, fields map[string]string) (Record, error) {
	if !Occupied(fields) {
		return Record{}, fmt.Errorf("スロット %d は空です", slot)
	}
	return Record{
		Slot:      slot,
		ID:        fields[FieldID],
		Organizer: fields[FieldOrganizer],
		Event:     fields[FieldEvent],
		Date:      fields[FieldDate],
	}, nil
}
