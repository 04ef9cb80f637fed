package eventstore

import (
	"context"
	"time"

	"github.com/nao1215/scheduling/pkg/event"
)

// Observer はストア操作の結果を受け取る。
type Observer interface {
	ObserveStoreOp(op string, err error, d time.Duration)
}

// instrumented はStoreの各操作の所要時間と結果をObserverへ報告する。
type instrumented struct {
	Store
	obs Observer
}

// Instrument はStoreをラップし、各操作の結果をobsへ報告する。
func Instrument(s Store, obs Observer) Store {
	return &instrumented{Store: s, obs: obs}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	s.obs.ObserveStoreOp(op, err, time.Since(start))
}

func (s *instrumented) Append(ctx context.Context, e event.Event) (event.Record, error) {
	start := time.Now()
	r, err := s.Store.Append(ctx, e)
	s.observe("append", start, err)
	return r, err
}

func (s *instrumented) ListAll(ctx context.Context) ([]event.Record, error) {
	start := time.Now()
	records, err := s.Store.ListAll(ctx)
	s.observe("list_all", start, err)
	return records, err
}

func (s *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.Store.Ping(ctx)
	s.observe("ping", start, err)
	return err
}
