package eventstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nao1215/scheduling/pkg/event"
)

// storeFactory はテストごとに独立した空のStoreを生成する。
type storeFactory func(t *testing.T) Store

// appendAll はイベントを順に追記するヘルパー関数。
func appendAll(t *testing.T, s Store, events ...event.Event) []event.Record {
	t.Helper()

	records := make([]event.Record, 0, len(events))
	for _, e := range events {
		r, err := s.Append(context.Background(), e)
		if err != nil {
			t.Fatalf("Append(%+v)でエラーが発生: %v", e, err)
		}
		records = append(records, r)
	}
	return records
}

// listAll は全レコードを取得するヘルパー関数。
func listAll(t *testing.T, s Store) []event.Record {
	t.Helper()

	records, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll()でエラーが発生: %v", err)
	}
	return records
}

// runStoreSuite はバックエンドに依存しないStoreの振る舞いを検証する。
func runStoreSuite(t *testing.T, newStore storeFactory) {
	t.Run("追記が無い場合は空の一覧が返ること", func(t *testing.T) {
		t.Parallel()

		records := listAll(t, newStore(t))
		if records == nil {
			t.Error("ListAll()がnilを返した。空スライスが期待される")
		}
		if len(records) != 0 {
			t.Errorf("件数 = %d, want 0", len(records))
		}
	})

	t.Run("2件追記すると順序通りに2件返り、idが異なること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		appended := appendAll(t, s,
			event.Event{Organizer: "Alice", Name: "Standup", Date: "2024-01-01"},
			event.Event{Organizer: "Bob", Name: "Retro", Date: "2024-01-02"},
		)
		if appended[0].Slot != 1 || appended[1].Slot != 2 {
			t.Errorf("スロット = [%d %d], want [1 2]", appended[0].Slot, appended[1].Slot)
		}

		records := listAll(t, s)
		if len(records) != 2 {
			t.Fatalf("件数 = %d, want 2", len(records))
		}
		if records[0].Organizer != "Alice" || records[0].Event != "Standup" || records[0].Date != "2024-01-01" {
			t.Errorf("1件目 = %+v", records[0])
		}
		if records[1].Organizer != "Bob" || records[1].Event != "Retro" || records[1].Date != "2024-01-02" {
			t.Errorf("2件目 = %+v", records[1])
		}
		if records[0].ID == "" || records[1].ID == "" {
			t.Error("idが空")
		}
		if records[0].ID == records[1].ID {
			t.Errorf("idが重複している: %q", records[0].ID)
		}
		if records[0].ID != appended[0].ID || records[1].ID != appended[1].ID {
			t.Error("保存時のidと一覧のidが一致しない")
		}
	})

	t.Run("N件目の追記が一覧のN番目に現れること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		const n = 70 // Redisのパイプライン境界をまたぐ件数
		for i := range n {
			appendAll(t, s, event.Event{Organizer: fmt.Sprintf("org-%d", i+1), Name: "e", Date: "d"})
		}

		records := listAll(t, s)
		if len(records) != n {
			t.Fatalf("件数 = %d, want %d", len(records), n)
		}
		for i, r := range records {
			if r.Slot != int64(i+1) {
				t.Errorf("records[%d].Slot = %d, want %d", i, r.Slot, i+1)
			}
			if want := fmt.Sprintf("org-%d", i+1); r.Organizer != want {
				t.Errorf("records[%d].Organizer = %q, want %q", i, r.Organizer, want)
			}
		}
	})

	t.Run("追記を挟まない2回の一覧取得が同じ結果になること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		appendAll(t, s,
			event.Event{Organizer: "Alice", Name: "Standup", Date: "2024-01-01"},
			event.Event{Organizer: "Bob", Name: "Retro", Date: "2024-01-02"},
			event.Event{Organizer: "Carol", Name: "Planning", Date: "2024-01-03"},
		)

		first := listAll(t, s)
		second := listAll(t, s)
		if len(first) != len(second) {
			t.Fatalf("件数が異なる: %d, %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Errorf("records[%d]が異なる: %+v, %+v", i, first[i], second[i])
			}
		}
	})

	t.Run("任意の文字列が保存時のまま読み出せること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		inputs := []event.Event{
			{Organizer: "", Name: "", Date: ""},
			{Organizer: `"quoted"`, Name: "with, comma", Date: "next tuesday"},
			{Organizer: "山田太郎", Name: "定例会議", Date: "2024年1月1日"},
			{Organizer: "organizer", Name: "event", Date: "id"},
		}
		appendAll(t, s, inputs...)

		records := listAll(t, s)
		if len(records) != len(inputs) {
			t.Fatalf("件数 = %d, want %d", len(records), len(inputs))
		}
		for i, in := range inputs {
			r := records[i]
			if r.Organizer != in.Organizer || r.Event != in.Name || r.Date != in.Date {
				t.Errorf("records[%d] = %+v, want %+v", i, r, in)
			}
		}
	})

	t.Run("並行した追記がすべて別々のスロットに保存されること", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		const n = 20

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Append(context.Background(), event.Event{Organizer: fmt.Sprintf("org-%d", i), Name: "e", Date: "d"})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("並行Append()でエラーが発生: %v", err)
			}
		}

		records := listAll(t, s)
		if len(records) != n {
			t.Fatalf("件数 = %d, want %d", len(records), n)
		}
		organizers := make(map[string]struct{}, n)
		for i, r := range records {
			if r.Slot != int64(i+1) {
				t.Errorf("records[%d].Slot = %d, want %d", i, r.Slot, i+1)
			}
			organizers[r.Organizer] = struct{}{}
		}
		if len(organizers) != n {
			t.Errorf("上書きされたイベントがある: 異なるorganizerの数 = %d, want %d", len(organizers), n)
		}
	})

	t.Run("Pingが成功すること", func(t *testing.T) {
		t.Parallel()

		if err := newStore(t).Ping(context.Background()); err != nil {
			t.Errorf("Ping()でエラーが発生: %v", err)
		}
	})
}
