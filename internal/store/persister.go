package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"multivendor-client/internal/models"
	"multivendor-client/internal/persist"
	"multivendor-client/internal/reducers"
	"multivendor-client/internal/util"
)

// Persister writes the durable subset of the state tree to storage after
// state changes. With a debounce window, the first change opens the window
// and the latest snapshot at its end is written. Unchanged snapshots are
// never rewritten.
type Persister struct {
	storage  persist.Storage
	key      string
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	latest  []byte
	pending []byte
	timer   *time.Timer
	gen     uint64

	writeMu sync.Mutex
}

func NewPersister(storage persist.Storage, key string, debounce time.Duration) *Persister {
	return &Persister{
		storage:  storage,
		key:      key,
		debounce: debounce,
		logger:   util.GetLogger(),
	}
}

// Attach subscribes the persister to s
func (p *Persister) Attach(s *Store) func() {
	return s.Subscribe(p.Observe)
}

// Observe is the store listener
func (p *Persister) Observe(state reducers.State, _ models.Event) {
	data, err := json.Marshal(state.Durable())
	if err != nil {
		util.PersistFailuresTotal.WithLabelValues("encode").Inc()
		p.logger.Error("Failed to encode state snapshot", zap.Error(err))
		return
	}

	p.mu.Lock()
	if bytes.Equal(data, p.latest) {
		p.mu.Unlock()
		util.PersistSkippedTotal.Inc()
		return
	}
	p.latest = data
	gen := p.gen

	if p.debounce <= 0 {
		p.mu.Unlock()
		p.write(context.Background(), data, gen)
		return
	}

	p.pending = data
	if p.timer == nil {
		p.timer = time.AfterFunc(p.debounce, p.fire)
	}
	p.mu.Unlock()
}

func (p *Persister) fire() {
	p.mu.Lock()
	data, gen := p.pending, p.gen
	p.pending = nil
	p.timer = nil
	p.mu.Unlock()

	if data != nil {
		p.write(context.Background(), data, gen)
	}
}

// Flush writes any pending snapshot now
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	data, gen := p.pending, p.gen
	p.pending = nil
	p.mu.Unlock()

	if data == nil {
		return nil
	}
	return p.write(ctx, data, gen)
}

// Clear drops any pending write and removes the stored snapshot. The current
// state counts as seen, so only a later change is written again.
func (p *Persister) Clear(ctx context.Context) error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pending = nil
	p.gen++
	p.mu.Unlock()

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if err := p.storage.Remove(ctx, p.key); err != nil {
		util.PersistFailuresTotal.WithLabelValues("remove").Inc()
		p.logger.Error("Failed to remove persisted state", zap.Error(err))
		return err
	}
	return nil
}

// Load reads the persisted snapshot
func (p *Persister) Load(ctx context.Context) (models.Snapshot, error) {
	return persist.LoadSnapshot(ctx, p.storage, p.key)
}

func (p *Persister) write(ctx context.Context, data []byte, gen uint64) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	stale := gen != p.gen
	p.mu.Unlock()
	if stale {
		return nil
	}

	start := time.Now()
	err := p.storage.Save(ctx, p.key, data)
	util.PersistLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.PersistFailuresTotal.WithLabelValues("save").Inc()
		p.logger.Error("Failed to persist state", zap.Error(err))

		// let the next change retry
		p.mu.Lock()
		if bytes.Equal(p.latest, data) {
			p.latest = nil
		}
		p.mu.Unlock()
		return err
	}

	util.PersistWritesTotal.Inc()
	return nil
}
