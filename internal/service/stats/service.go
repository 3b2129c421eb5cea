package service

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/omrozmn/x-ear-sub010/internal/bus"
	"github.com/omrozmn/x-ear-sub010/internal/model"
)

type Mirror interface {
	List() []*model.InventoryRecord
}

// Summary is the aggregate the dashboard reads.
type Summary struct {
	TotalRecords int
	TotalUnits   int64
	StockValue   float64
	LowStock     int
	Categories   map[string]int
}

// FilterOptions are the facet lists the filter panel repopulates from.
type FilterOptions struct {
	Categories []string
	Brands     []string
	Suppliers  []string
}

// service re-derives dashboard statistics and filter facets from the mirror on
// every notification. It subscribes debounced: a bulk import fires many
// notifications back to back and one recomputation at the end is enough.
type service struct {
	mirror Mirror

	mu      sync.RWMutex
	summary Summary
	options FilterOptions
}

func NewStatsService(mirror Mirror) *service {
	return &service{
		mirror:  mirror,
		summary: Summary{Categories: map[string]int{}},
	}
}

// OnChange is the bus handler. The reason tag is ignored: the whole view is
// re-derived from the mirror, never patched from event payloads.
func (s *service) OnChange(_ bus.Reason) {
	s.Recompute()
}

func (s *service) Recompute() {
	records := s.mirror.List()

	summary := Summary{
		TotalRecords: len(records),
		Categories:   make(map[string]int, 8),
	}
	for _, rec := range records {
		summary.TotalUnits += rec.Quantity
		summary.StockValue += float64(rec.Quantity) * rec.UnitPrice
		if rec.Quantity <= rec.ReorderThreshold {
			summary.LowStock++
		}
		if rec.Category != "" {
			summary.Categories[rec.Category]++
		}
	}

	options := FilterOptions{
		Categories: facet(records, func(r *model.InventoryRecord) string { return r.Category }),
		Brands:     facet(records, func(r *model.InventoryRecord) string { return r.Brand }),
		Suppliers:  facet(records, func(r *model.InventoryRecord) string { return r.Supplier }),
	}

	s.mu.Lock()
	s.summary = summary
	s.options = options
	s.mu.Unlock()
}

func (s *service) Current() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.summary
	out.Categories = lo.Assign(map[string]int{}, s.summary.Categories)
	return out
}

func (s *service) Options() FilterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return FilterOptions{
		Categories: append([]string(nil), s.options.Categories...),
		Brands:     append([]string(nil), s.options.Brands...),
		Suppliers:  append([]string(nil), s.options.Suppliers...),
	}
}

func facet(records []*model.InventoryRecord, pick func(*model.InventoryRecord) string) []string {
	values := lo.FilterMap(records, func(r *model.InventoryRecord, _ int) (string, bool) {
		v := pick(r)
		return v, v != ""
	})
	values = lo.Uniq(values)
	sort.Strings(values)
	return values
}
