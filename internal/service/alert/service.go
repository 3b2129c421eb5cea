package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/omrozmn/x-ear-sub010/internal/logger"
	"github.com/omrozmn/x-ear-sub010/internal/metrics"
	"github.com/omrozmn/x-ear-sub010/internal/model"
)

type Mirror interface {
	List() []*model.InventoryRecord
}

type Producer interface {
	Send(ctx context.Context, key, value []byte) error
}

type lowStockAlert struct {
	RecordID         string    `json:"recordId"`
	Name             string    `json:"name"`
	Quantity         int64     `json:"quantity"`
	ReorderThreshold int64     `json:"reorderThreshold"`
	At               time.Time `json:"at"`
}

// service watches the mirror for records at or below their reorder threshold
// and emits one alert per record to the low-stock topic. The alert re-arms
// once stock recovers above the threshold, so a record alarms again on the
// next dip instead of spamming on every notification in between.
type service struct {
	mirror   Mirror
	producer Producer
	now      func() time.Time

	mu      sync.Mutex
	alerted map[string]bool
}

func NewAlertService(mirror Mirror, producer Producer) *service {
	return &service{
		mirror:   mirror,
		producer: producer,
		now:      time.Now,
		alerted:  make(map[string]bool),
	}
}

// Scan re-reads the mirror and emits alerts for newly low records. Records
// with no threshold configured never alert.
func (s *service) Scan(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for _, rec := range s.mirror.List() {
		seen[rec.ID] = true

		low := rec.ReorderThreshold > 0 && rec.Quantity <= rec.ReorderThreshold
		if !low {
			delete(s.alerted, rec.ID)
			continue
		}
		if s.alerted[rec.ID] {
			continue
		}

		alert := lowStockAlert{
			RecordID:         rec.ID,
			Name:             rec.Name,
			Quantity:         rec.Quantity,
			ReorderThreshold: rec.ReorderThreshold,
			At:               s.now().UTC(),
		}
		value, err := json.Marshal(alert)
		if err != nil {
			logger.Error(ctx, "encode low-stock alert", logger.ErrorF(err))
			continue
		}

		if err := s.producer.Send(ctx, []byte(rec.ID), value); err != nil {
			logger.Error(ctx, "send low-stock alert",
				logger.String("record_id", rec.ID),
				logger.ErrorF(err),
			)
			continue
		}

		s.alerted[rec.ID] = true
		metrics.RecordLowStockAlert()
	}

	// Deleted records must not block a future alert if they come back.
	for id := range s.alerted {
		if !seen[id] {
			delete(s.alerted, id)
		}
	}
}
