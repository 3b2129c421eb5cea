package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/omrozmn/x-ear-sub010/internal/bus"
	"github.com/omrozmn/x-ear-sub010/internal/logger"
	"github.com/omrozmn/x-ear-sub010/internal/metrics"
	"github.com/omrozmn/x-ear-sub010/internal/model"
	"github.com/omrozmn/x-ear-sub010/internal/repository/snapshot"
)

// Notifier receives a reason tag after every successful mutation.
type Notifier interface {
	Notify(reason bus.Reason)
}

// Canonicalizer normalizes snapshot entries read back at startup; older
// snapshots may carry legacy field shapes.
type Canonicalizer interface {
	Canonicalize(raw map[string]any) *model.InventoryRecord
}

// Mirror is the local authoritative copy of inventory records: an ordered
// identifier→record mapping, persisted as a full snapshot after every
// mutation. All writes funnel through the mutation pipeline; no other
// component touches the record sequence directly.
//
// Insertion order is the only supported order; display sorting belongs to the
// view layer. Notifications are enqueued while the write lock is held so the
// bus observes mutations in apply order.
type Mirror struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*model.InventoryRecord

	store    snapshot.Store
	notifier Notifier
	canon    Canonicalizer
}

func New(store snapshot.Store, notifier Notifier, canon Canonicalizer) *Mirror {
	return &Mirror{
		records:  make(map[string]*model.InventoryRecord),
		store:    store,
		notifier: notifier,
		canon:    canon,
	}
}

// Load seeds the mirror from the durable snapshot. A missing snapshot is a
// normal first run. Entries pass through the canonicalizer on the way in.
func (m *Mirror) Load(ctx context.Context) error {
	const op = "mirror.Load"

	data, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoSnapshot) {
			logger.Info(ctx, "no durable snapshot, starting empty")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var raws []map[string]any
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("%s: decode snapshot: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = m.order[:0]
	m.records = make(map[string]*model.InventoryRecord, len(raws))
	for _, raw := range raws {
		rec := m.canon.Canonicalize(raw)
		if rec == nil || rec.ID == "" {
			continue
		}
		if _, exists := m.records[rec.ID]; !exists {
			m.order = append(m.order, rec.ID)
		}
		m.records[rec.ID] = rec
	}

	logger.Info(ctx, "mirror seeded from snapshot", logger.Int("records", len(m.order)))
	return nil
}

// Get returns a copy of the record, if present.
func (m *Mirror) Get(id string) (*model.InventoryRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// List returns copies of all records in insertion order.
func (m *Mirror) List() []*model.InventoryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.InventoryRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id].Clone())
	}
	return out
}

func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Upsert replaces the record with the same identifier, keeping its position,
// or appends a new one.
func (m *Mirror) Upsert(ctx context.Context, rec *model.InventoryRecord, reason bus.Reason) error {
	if rec == nil || rec.ID == "" {
		return model.ErrValidation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.records[rec.ID] = rec.Clone()

	m.persistLocked(ctx)
	m.notifyLocked(reason)
	return nil
}

// UpsertMany applies a batch of upserts with a single snapshot write and a
// single notification. Used by the query layer when ingesting a remote page.
func (m *Mirror) UpsertMany(ctx context.Context, recs []*model.InventoryRecord, reason bus.Reason) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	for _, rec := range recs {
		if rec == nil || rec.ID == "" {
			continue
		}
		if _, exists := m.records[rec.ID]; !exists {
			m.order = append(m.order, rec.ID)
		}
		m.records[rec.ID] = rec.Clone()
		changed = true
	}
	if !changed {
		return nil
	}

	m.persistLocked(ctx)
	m.notifyLocked(reason)
	return nil
}

// Remove deletes the record. model.ErrRecordNotFound when absent.
func (m *Mirror) Remove(ctx context.Context, id string, reason bus.Reason) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return model.ErrRecordNotFound
	}

	delete(m.records, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	m.persistLocked(ctx)
	m.notifyLocked(reason)
	return nil
}

// ReplaceAll swaps the entire record sequence, preserving the order of the
// given slice. Used after a full remote reload and to restore a pre-delete
// snapshot at the records' original positions.
func (m *Mirror) ReplaceAll(ctx context.Context, recs []*model.InventoryRecord, reason bus.Reason) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = m.order[:0]
	m.records = make(map[string]*model.InventoryRecord, len(recs))
	for _, rec := range recs {
		if rec == nil || rec.ID == "" {
			continue
		}
		if _, exists := m.records[rec.ID]; !exists {
			m.order = append(m.order, rec.ID)
		}
		m.records[rec.ID] = rec.Clone()
	}

	m.persistLocked(ctx)
	m.notifyLocked(reason)
	return nil
}

// Swap replaces the record stored under oldID with rec, keeping the list
// position. This is the temporary→permanent identifier exchange: the record is
// replaced in place, never duplicated.
func (m *Mirror) Swap(ctx context.Context, oldID string, rec *model.InventoryRecord, reason bus.Reason) error {
	if rec == nil || rec.ID == "" {
		return model.ErrValidation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[oldID]; !ok {
		return model.ErrRecordNotFound
	}

	// A page fetch may have ingested the permanent record before the
	// confirmation arrived; its old slot goes so the identifier stays unique.
	if rec.ID != oldID {
		if _, dup := m.records[rec.ID]; dup {
			for i, oid := range m.order {
				if oid == rec.ID {
					m.order = append(m.order[:i], m.order[i+1:]...)
					break
				}
			}
		}
	}

	delete(m.records, oldID)
	m.records[rec.ID] = rec.Clone()
	for i, oid := range m.order {
		if oid == oldID {
			m.order[i] = rec.ID
			break
		}
	}

	m.persistLocked(ctx)
	m.notifyLocked(reason)
	return nil
}

// persistLocked overwrites the durable snapshot with the full record list.
// Persistence failures never fail the mutation: the in-memory state is
// authoritative and the next successful write heals the snapshot.
func (m *Mirror) persistLocked(ctx context.Context) {
	recs := make([]*model.InventoryRecord, 0, len(m.order))
	for _, id := range m.order {
		recs = append(recs, m.records[id])
	}

	data, err := json.Marshal(recs)
	if err != nil {
		metrics.RecordSnapshotWrite(false)
		logger.Error(ctx, "encode snapshot", logger.ErrorF(err))
		return
	}

	if err := m.store.Save(ctx, data); err != nil {
		metrics.RecordSnapshotWrite(false)
		logger.Error(ctx, "persist snapshot", logger.ErrorF(err))
		return
	}
	metrics.RecordSnapshotWrite(true)
}

func (m *Mirror) notifyLocked(reason bus.Reason) {
	if m.notifier != nil {
		m.notifier.Notify(reason)
	}
}
