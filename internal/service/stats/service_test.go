package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

type staticMirror struct {
	records []*model.InventoryRecord
}

func (m *staticMirror) List() []*model.InventoryRecord { return m.records }

func TestStatsRecompute(t *testing.T) {
	t.Parallel()

	m := &staticMirror{records: []*model.InventoryRecord{
		{ID: "1", Brand: "Signia", Supplier: "HearCo", Category: "RIC", Quantity: 10, ReorderThreshold: 3, UnitPrice: 100},
		{ID: "2", Brand: "Widex", Supplier: "HearCo", Category: "RIC", Quantity: 2, ReorderThreshold: 5, UnitPrice: 250},
		{ID: "3", Brand: "Rayovac", Supplier: "BatteryWorld", Category: "battery", Quantity: 200, ReorderThreshold: 50, UnitPrice: 1.5},
	}}

	svc := NewStatsService(m)
	svc.Recompute()

	sum := svc.Current()
	assert.Equal(t, 3, sum.TotalRecords)
	assert.Equal(t, int64(212), sum.TotalUnits)
	assert.InDelta(t, 10*100+2*250+200*1.5, sum.StockValue, 0.001)
	assert.Equal(t, 1, sum.LowStock)
	assert.Equal(t, map[string]int{"RIC": 2, "battery": 1}, sum.Categories)

	opts := svc.Options()
	assert.Equal(t, []string{"RIC", "battery"}, opts.Categories)
	assert.Equal(t, []string{"Rayovac", "Signia", "Widex"}, opts.Brands)
	assert.Equal(t, []string{"BatteryWorld", "HearCo"}, opts.Suppliers)
}

func TestStatsEmptyMirror(t *testing.T) {
	t.Parallel()

	svc := NewStatsService(&staticMirror{})
	svc.Recompute()

	sum := svc.Current()
	assert.Zero(t, sum.TotalRecords)
	assert.Zero(t, sum.TotalUnits)
	assert.Empty(t, sum.Categories)

	opts := svc.Options()
	assert.Empty(t, opts.Categories)
	assert.Empty(t, opts.Brands)
}

func TestStatsCurrentReturnsCopy(t *testing.T) {
	t.Parallel()

	svc := NewStatsService(&staticMirror{records: []*model.InventoryRecord{
		{ID: "1", Category: "RIC", Quantity: 1},
	}})
	svc.Recompute()

	got := svc.Current()
	got.Categories["RIC"] = 99

	assert.Equal(t, 1, svc.Current().Categories["RIC"])
}
