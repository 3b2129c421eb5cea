package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/omrozmn/x-ear-sub010/internal/model"
	"github.com/omrozmn/x-ear-sub010/internal/service/mocks"
)

type staticMirror struct {
	records []*model.InventoryRecord
}

func (m *staticMirror) List() []*model.InventoryRecord { return m.records }

func TestAlertScanEmitsOncePerLowRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := &staticMirror{records: []*model.InventoryRecord{
		{ID: "low-1", Name: "Size 13", Quantity: 2, ReorderThreshold: 5},
		{ID: "ok-1", Quantity: 50, ReorderThreshold: 5},
		{ID: "no-threshold", Quantity: 0, ReorderThreshold: 0},
	}}
	producer := mocks.NewMockProducer(t)
	producer.
		On("Send", mock.Anything, []byte("low-1"), mock.MatchedBy(func(value []byte) bool {
			var alert struct {
				RecordID string `json:"recordId"`
				Quantity int64  `json:"quantity"`
			}
			require.NoError(t, json.Unmarshal(value, &alert))
			return alert.RecordID == "low-1" && alert.Quantity == 2
		})).
		Return(nil).
		Once()

	svc := NewAlertService(m, producer)

	svc.Scan(ctx)
	// Repeated scans with unchanged stock stay quiet.
	svc.Scan(ctx)
	svc.Scan(ctx)
}

func TestAlertRearmsAfterRecovery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rec := &model.InventoryRecord{ID: "r", Name: "Pure 312", Quantity: 2, ReorderThreshold: 5}
	m := &staticMirror{records: []*model.InventoryRecord{rec}}

	producer := mocks.NewMockProducer(t)
	producer.
		On("Send", mock.Anything, []byte("r"), mock.Anything).
		Return(nil).
		Twice()

	svc := NewAlertService(m, producer)

	svc.Scan(ctx) // first alert

	rec.Quantity = 20
	svc.Scan(ctx) // recovered, re-arms

	rec.Quantity = 1
	svc.Scan(ctx) // second dip alerts again
}

func TestAlertSendFailureRetriesNextScan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := &staticMirror{records: []*model.InventoryRecord{
		{ID: "r", Quantity: 1, ReorderThreshold: 5},
	}}

	producer := mocks.NewMockProducer(t)
	producer.
		On("Send", mock.Anything, []byte("r"), mock.Anything).
		Return(errors.New("broker unavailable")).
		Once()
	producer.
		On("Send", mock.Anything, []byte("r"), mock.Anything).
		Return(nil).
		Once()

	svc := NewAlertService(m, producer)

	svc.Scan(ctx) // fails, stays unarmed
	svc.Scan(ctx) // retried

	assert.True(t, producer.AssertExpectations(t))
}
