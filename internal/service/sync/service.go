package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/omrozmn/x-ear-sub010/internal/bus"
	"github.com/omrozmn/x-ear-sub010/internal/canonical"
	"github.com/omrozmn/x-ear-sub010/internal/logger"
	"github.com/omrozmn/x-ear-sub010/internal/metrics"
	"github.com/omrozmn/x-ear-sub010/internal/model"
)

// Mirror is the local record collection the pipeline mutates. All writes go
// through these primitives; nothing else touches the record sequence.
type Mirror interface {
	Get(id string) (*model.InventoryRecord, bool)
	List() []*model.InventoryRecord
	Len() int
	Upsert(ctx context.Context, rec *model.InventoryRecord, reason bus.Reason) error
	Remove(ctx context.Context, id string, reason bus.Reason) error
	ReplaceAll(ctx context.Context, recs []*model.InventoryRecord, reason bus.Reason) error
	Swap(ctx context.Context, oldID string, rec *model.InventoryRecord, reason bus.Reason) error
}

// RemoteGateway dispatches mutations to the remote inventory service. It
// reports model.ErrQueued when the call could not be dispatched at all
// (offline) and model.ErrRemoteFailure when the service rejected it.
type RemoteGateway interface {
	Create(ctx context.Context, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, id string, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, id string) error
}

type Canonicalizer interface {
	Canonicalize(raw map[string]any) *model.InventoryRecord
}

// service is the optimistic mutation pipeline. Every mutation follows the same
// three phases: apply to the mirror synchronously (views repaint immediately),
// dispatch the remote call, then reconcile the outcome: swap in the server's
// record on create, keep optimistic state or roll back on update/delete.
type service struct {
	mirror Mirror
	remote RemoteGateway
	canon  Canonicalizer
	now    func() time.Time
}

func NewSyncService(mirror Mirror, remote RemoteGateway, canon Canonicalizer) *service {
	return &service{
		mirror: mirror,
		remote: remote,
		canon:  canon,
		now:    time.Now,
	}
}

// Create applies a new record optimistically under a temporary identifier and
// swaps in the server's version once confirmed.
//
// A create whose remote call fails outright is NOT rolled back: the temporary
// record usually represents something the user will retry, so it stays visible
// and the error propagates for the UI to report. An offline dispatch is the
// Queued soft-success instead.
func (s *service) Create(ctx context.Context, raw map[string]any) (*model.MutationResult, error) {
	const op = "sync.service.Create"

	rec := s.canon.Canonicalize(raw)
	if rec == nil {
		return nil, fmt.Errorf("%s: nil record: %w", op, model.ErrValidation)
	}

	if rec.ID == "" {
		rec.ID = model.NewTemporaryID()
	}
	log := logger.With(logger.String("record_id", rec.ID))

	// Precondition, before any local or remote effect.
	if err := s.checkBarcode(rec); err != nil {
		metrics.RecordMutation("create", metrics.OutcomeRejected)
		log.Warn(ctx, "create rejected", logger.String("barcode", rec.Barcode))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	if rec.CreatedAt == nil {
		rec.CreatedAt = &now
	}
	if rec.UpdatedAt == nil {
		rec.UpdatedAt = &now
	}

	// Phase 1: apply locally.
	if err := s.mirror.Upsert(ctx, rec, bus.ReasonCreate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Phase 2: dispatch.
	resp, err := s.remote.Create(ctx, recordPayload(rec))

	// Phase 3: reconcile.
	switch {
	case err == nil:
		final := s.canon.Canonicalize(resp)
		if final == nil || final.ID == "" {
			metrics.RecordMutation("create", metrics.OutcomeSuccess)
			log.Warn(ctx, "server confirmation without identifier, keeping temporary record")
			return &model.MutationResult{Record: rec}, nil
		}
		if err := s.finalizeCreate(ctx, rec.ID, final); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics.RecordMutation("create", metrics.OutcomeSuccess)
		return &model.MutationResult{Record: final}, nil

	case errors.Is(err, model.ErrQueued):
		metrics.RecordMutation("create", metrics.OutcomeQueued)
		log.Warn(ctx, "create queued for offline dispatch")
		return &model.MutationResult{Record: rec, Queued: true}, nil

	default:
		// No rollback: the temporary record stays visible.
		metrics.RecordMutation("create", metrics.OutcomeFailed)
		log.Error(ctx, "remote create failed, temporary record kept", logger.ErrorF(err))
		return &model.MutationResult{Record: rec}, fmt.Errorf("%s: %w", op, err)
	}
}

// Update merges a change set over the existing record, shows the result
// immediately and restores the pre-mutation snapshot if the remote call fails
// for any reason other than offline queueing.
func (s *service) Update(ctx context.Context, id string, changes map[string]any) (*model.MutationResult, error) {
	const op = "sync.service.Update"
	log := logger.With(logger.String("record_id", id))

	prev, ok := s.mirror.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, id, model.ErrRecordNotFound)
	}

	next, err := s.applyChanges(prev, changes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Phase 1.
	if err := s.mirror.Upsert(ctx, next, bus.ReasonUpdate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Phase 2.
	_, err = s.remote.Update(ctx, id, recordPayload(next))

	// Phase 3.
	switch {
	case err == nil:
		metrics.RecordMutation("update", metrics.OutcomeSuccess)
		return &model.MutationResult{Record: next}, nil

	case errors.Is(err, model.ErrQueued):
		metrics.RecordMutation("update", metrics.OutcomeQueued)
		log.Warn(ctx, "update queued for offline dispatch")
		return &model.MutationResult{Record: next, Queued: true}, nil

	default:
		// Visible rollback: restore the snapshot and re-signal the bus.
		metrics.RecordMutation("update", metrics.OutcomeFailed)
		metrics.RecordRollback("update")
		if rbErr := s.mirror.Upsert(ctx, prev, bus.ReasonRollback); rbErr != nil {
			log.Error(ctx, "rollback after failed update", logger.ErrorF(rbErr))
		}
		log.Error(ctx, "remote update failed, local state reverted", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
}

// Delete removes the record optimistically. The entire pre-mutation list is
// snapshotted so a failed remote call reinstates the record at its original
// position, not at the end.
func (s *service) Delete(ctx context.Context, id string) (*model.MutationResult, error) {
	const op = "sync.service.Delete"
	log := logger.With(logger.String("record_id", id))

	prev, ok := s.mirror.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, id, model.ErrRecordNotFound)
	}

	before := s.mirror.List()

	// Phase 1.
	if err := s.mirror.Remove(ctx, id, bus.ReasonDelete); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Phase 2.
	err := s.remote.Delete(ctx, id)

	// Phase 3.
	switch {
	case err == nil:
		metrics.RecordMutation("delete", metrics.OutcomeSuccess)
		return &model.MutationResult{Record: prev}, nil

	case errors.Is(err, model.ErrQueued):
		metrics.RecordMutation("delete", metrics.OutcomeQueued)
		log.Warn(ctx, "delete queued for offline dispatch")
		return &model.MutationResult{Record: prev, Queued: true}, nil

	default:
		metrics.RecordMutation("delete", metrics.OutcomeFailed)
		metrics.RecordRollback("delete")
		if rbErr := s.mirror.ReplaceAll(ctx, before, bus.ReasonRollback); rbErr != nil {
			log.Error(ctx, "rollback after failed delete", logger.ErrorF(rbErr))
		}
		log.Error(ctx, "remote delete failed, record reinstated", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
}

// AdjustStock changes the available quantity by a signed delta. Subtraction
// clamps at zero rather than going negative.
func (s *service) AdjustStock(ctx context.Context, id string, delta int64) (*model.MutationResult, error) {
	const op = "sync.service.AdjustStock"

	prev, ok := s.mirror.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, id, model.ErrRecordNotFound)
	}

	quantity := prev.Quantity + delta
	if quantity < 0 {
		quantity = 0
	}

	return s.Update(ctx, id, map[string]any{"availableQuantity": quantity})
}

// ConfirmCreate performs the temporary→permanent swap for an out-of-band
// confirmation, correlated by the temporary identifier rather than by the
// originating call's return value. Idempotent when the swap already happened.
func (s *service) ConfirmCreate(ctx context.Context, temporaryID string, finalRaw map[string]any) error {
	const op = "sync.service.ConfirmCreate"
	log := logger.With(logger.String("temporary_id", temporaryID))

	final := s.canon.Canonicalize(finalRaw)
	if final == nil || final.ID == "" {
		return fmt.Errorf("%s: confirmation without record identifier: %w", op, model.ErrValidation)
	}

	if err := s.finalizeCreate(ctx, temporaryID, final); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordConfirmation()
	log.Info(ctx, "temporary record confirmed", logger.String("record_id", final.ID))
	return nil
}

// finalizeCreate re-reads the mirror by identifier; the phase-1 snapshot may
// be stale by the time the confirmation arrives.
func (s *service) finalizeCreate(ctx context.Context, temporaryID string, final *model.InventoryRecord) error {
	if _, ok := s.mirror.Get(temporaryID); ok {
		return s.mirror.Swap(ctx, temporaryID, final, bus.ReasonConfirm)
	}

	if _, ok := s.mirror.Get(final.ID); ok {
		// Already swapped by an earlier delivery of the same confirmation.
		return nil
	}

	// The temporary record is gone (mirror reloaded meanwhile); keep the
	// confirmed record rather than dropping it.
	return s.mirror.Upsert(ctx, final, bus.ReasonConfirm)
}

// BulkCreate runs one create per row, sequentially, tallying failures instead
// of aborting. Queued rows count as accepted.
func (s *service) BulkCreate(ctx context.Context, rows []map[string]any) model.BulkResult {
	var res model.BulkResult
	for i, row := range rows {
		if _, err := s.Create(ctx, row); err != nil {
			res.Fail(strconv.Itoa(i), err)
			continue
		}
		res.OK()
	}
	return res
}

// BulkAdjustStock applies sequential per-record stock deltas.
func (s *service) BulkAdjustStock(ctx context.Context, adjustments []model.StockAdjustment) model.BulkResult {
	var res model.BulkResult
	for _, adj := range adjustments {
		if _, err := s.AdjustStock(ctx, adj.ID, adj.Delta); err != nil {
			res.Fail(adj.ID, err)
			continue
		}
		res.OK()
	}
	return res
}

// BulkUpdatePrice applies sequential per-record price updates.
func (s *service) BulkUpdatePrice(ctx context.Context, updates []model.PriceUpdate) model.BulkResult {
	var res model.BulkResult
	for _, upd := range updates {
		if _, err := s.Update(ctx, upd.ID, map[string]any{"unitPrice": upd.UnitPrice}); err != nil {
			res.Fail(upd.ID, err)
			continue
		}
		res.OK()
	}
	return res
}

// FlushPending retries the create of every record still carrying a temporary
// identifier. Wired to the connectivity-restored trigger; records that are
// still offline stay pending without counting as failures.
func (s *service) FlushPending(ctx context.Context) model.BulkResult {
	const op = "sync.service.FlushPending"

	var res model.BulkResult
	for _, rec := range s.mirror.List() {
		if !rec.HasTemporaryID() {
			continue
		}

		resp, err := s.remote.Create(ctx, recordPayload(rec))
		switch {
		case err == nil:
			final := s.canon.Canonicalize(resp)
			if final == nil || final.ID == "" {
				res.Fail(rec.ID, fmt.Errorf("%s: confirmation without identifier: %w", op, model.ErrRemoteFailure))
				continue
			}
			if err := s.finalizeCreate(ctx, rec.ID, final); err != nil {
				res.Fail(rec.ID, err)
				continue
			}
			res.OK()

		case errors.Is(err, model.ErrQueued):
			// Still offline; leave it pending.

		default:
			res.Fail(rec.ID, err)
		}
	}

	if res.Succeeded > 0 || res.Failed > 0 {
		logger.Info(ctx, "pending creates flushed",
			logger.Int("succeeded", res.Succeeded),
			logger.Int("failed", res.Failed),
		)
	}
	return res
}

// checkBarcode enforces barcode uniqueness among mirrored records.
func (s *service) checkBarcode(rec *model.InventoryRecord) error {
	if rec.Barcode == "" {
		return nil
	}
	for _, existing := range s.mirror.List() {
		if existing.ID != rec.ID && existing.Barcode == rec.Barcode {
			return fmt.Errorf("barcode %q already on record %s: %w",
				rec.Barcode, existing.ID, model.ErrDuplicateBarcode)
		}
	}
	return nil
}

// applyChanges overlays a change set (in any known alias spelling) onto the
// canonical form of the existing record. The identifier is immutable.
func (s *service) applyChanges(prev *model.InventoryRecord, changes map[string]any) (*model.InventoryRecord, error) {
	base := recordPayload(prev)
	for key, value := range changes {
		name, ok := canonical.CanonicalKey(key)
		if !ok {
			continue
		}
		base[name] = value
	}
	base["id"] = prev.ID

	next := s.canon.Canonicalize(base)
	if next == nil {
		return nil, model.ErrValidation
	}

	if next.CreatedAt == nil {
		next.CreatedAt = prev.CreatedAt
	}
	now := s.now()
	next.UpdatedAt = &now

	return next, nil
}

// recordPayload renders a record as the loose map shape the remote API and the
// canonicalizer both speak.
func recordPayload(rec *model.InventoryRecord) map[string]any {
	data, err := json.Marshal(rec)
	if err != nil {
		return map[string]any{"id": rec.ID}
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return map[string]any{"id": rec.ID}
	}
	return payload
}
