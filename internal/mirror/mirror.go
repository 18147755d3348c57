// Package mirror maintains a best-effort replica of the local store in
// a cloud Postgres database. It listens for store change signals, marks
// the written keys dirty, and flushes them in batches on a ticker. The
// mirror never reads back into the store; the local data stays the
// source of truth.
package mirror

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/MahounanRomain/barflowbj-22-sub000/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is one mirrored store blob. The whole collection for a key
// is replaced on every flush, matching the store's write semantics.
type Snapshot struct {
	Key       string `gorm:"primaryKey;size:64"`
	Payload   string `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (Snapshot) TableName() string {
	return "store_snapshots"
}

type Mirror struct {
	db       *gorm.DB
	store    *store.Store
	interval time.Duration

	mu    sync.Mutex
	dirty map[string]bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New migrates the snapshot table and subscribes to store changes.
// Flushing does not begin until Start is called.
func New(db *gorm.DB, s *store.Store, interval time.Duration) (*Mirror, error) {
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, err
	}

	m := &Mirror{
		db:       db,
		store:    s,
		interval: interval,
		dirty:    make(map[string]bool),
		done:     make(chan struct{}),
	}

	// Everything already on disk counts as dirty so a fresh mirror
	// catches up on the first flush.
	for _, key := range s.Keys() {
		m.dirty[key] = true
	}

	s.Subscribe(m.markDirty)
	return m, nil
}

func (m *Mirror) markDirty(key string) {
	m.mu.Lock()
	m.dirty[key] = true
	m.mu.Unlock()
}

// Start launches the flush loop. Call Stop to flush once more and shut
// the loop down.
func (m *Mirror) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	go m.run(ctx)
}

func (m *Mirror) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Mirror) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Flush(ctx)
		case <-ctx.Done():
			// Final flush so a clean shutdown leaves nothing behind.
			m.Flush(context.Background())
			return
		}
	}
}

// Flush pushes every dirty key's current blob upstream. Keys that fail
// stay dirty and are retried on the next tick.
func (m *Mirror) Flush(ctx context.Context) {
	m.mu.Lock()
	if len(m.dirty) == 0 {
		m.mu.Unlock()
		return
	}
	keys := make([]string, 0, len(m.dirty))
	for key := range m.dirty {
		keys = append(keys, key)
	}
	m.dirty = make(map[string]bool)
	m.mu.Unlock()

	dump := m.store.Dump()
	for _, key := range keys {
		blob, ok := dump[key]
		if !ok {
			// Deleted locally since the signal fired.
			if err := m.db.WithContext(ctx).Delete(&Snapshot{}, "key = ?", key).Error; err != nil {
				log.Printf("mirror: delete %s: %v", key, err)
				m.markDirty(key)
			}
			continue
		}

		snap := Snapshot{Key: key, Payload: string(blob), UpdatedAt: time.Now()}
		err := m.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&snap).Error
		if err != nil {
			log.Printf("mirror: push %s: %v", key, err)
			m.markDirty(key)
		}
	}
}
