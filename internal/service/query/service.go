package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/omrozmn/x-ear-sub010/internal/bus"
	"github.com/omrozmn/x-ear-sub010/internal/logger"
	"github.com/omrozmn/x-ear-sub010/internal/metrics"
	"github.com/omrozmn/x-ear-sub010/internal/model"
)

const (
	defaultPerPage = 20
	reloadPerPage  = 200
)

type Mirror interface {
	List() []*model.InventoryRecord
	UpsertMany(ctx context.Context, recs []*model.InventoryRecord, reason bus.Reason) error
	ReplaceAll(ctx context.Context, recs []*model.InventoryRecord, reason bus.Reason) error
}

type RemoteSource interface {
	FetchPage(ctx context.Context, filter model.RecordFilter, page, perPage int) ([]map[string]any, model.PageInfo, error)
}

type Canonicalizer interface {
	Canonicalize(raw map[string]any) *model.InventoryRecord
}

// service answers paginated reads. Remote first; on any remote failure it
// slices the local mirror with the same page arithmetic, so the caller sees
// identical pageInfo semantics either way and only a logged warning tells the
// paths apart.
type service struct {
	mirror Mirror
	remote RemoteSource
	canon  Canonicalizer
}

func NewQueryService(mirror Mirror, remote RemoteSource, canon Canonicalizer) *service {
	return &service{
		mirror: mirror,
		remote: remote,
		canon:  canon,
	}
}

// FetchPage returns one page of records. Remote rows are canonicalized and
// ingested into the mirror so the local copy keeps converging on server state.
func (s *service) FetchPage(
	ctx context.Context,
	filter model.RecordFilter,
	page, perPage int,
) (*model.RecordPage, error) {
	const op = "query.service.FetchPage"

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	rows, info, err := s.remote.FetchPage(ctx, filter, page, perPage)
	if err != nil {
		logger.Warn(ctx, "remote page fetch failed, serving from local mirror",
			logger.Int("page", page),
			logger.Int("per_page", perPage),
			logger.ErrorF(err),
		)
		metrics.RecordLocalFallbackPage()
		return s.localPage(filter, page, perPage), nil
	}

	recs := make([]*model.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		if rec := s.canon.Canonicalize(row); rec != nil && rec.ID != "" {
			recs = append(recs, rec)
		}
	}

	if err := s.mirror.UpsertMany(ctx, recs, bus.ReasonReload); err != nil {
		return nil, fmt.Errorf("%s: ingest page: %w", op, err)
	}

	return &model.RecordPage{Records: recs, PageInfo: info}, nil
}

// Reload pulls every remote page and replaces the mirror wholesale. On remote
// failure the mirror stands as-is.
func (s *service) Reload(ctx context.Context) error {
	const op = "query.service.Reload"

	var all []*model.InventoryRecord
	for page := 1; ; page++ {
		rows, info, err := s.remote.FetchPage(ctx, model.RecordFilter{}, page, reloadPerPage)
		if err != nil {
			logger.Warn(ctx, "reload failed, keeping local mirror", logger.ErrorF(err))
			return fmt.Errorf("%s: %w", op, err)
		}

		for _, row := range rows {
			if rec := s.canon.Canonicalize(row); rec != nil && rec.ID != "" {
				all = append(all, rec)
			}
		}

		if !info.HasNext || info.TotalPages <= page {
			break
		}
	}

	if err := s.mirror.ReplaceAll(ctx, all, bus.ReasonReload); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info(ctx, "mirror reloaded from remote", logger.Int("records", len(all)))
	return nil
}

// localPage slices the mirror. Unlike the degraded remote path, each filter
// facet matches its own field here.
func (s *service) localPage(filter model.RecordFilter, page, perPage int) *model.RecordPage {
	all := lo.Filter(s.mirror.List(), func(rec *model.InventoryRecord, _ int) bool {
		return matchRecord(rec, filter)
	})

	total := len(all)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	var records []*model.InventoryRecord
	if start < total {
		if end > total {
			end = total
		}
		records = all[start:end]
	}

	return &model.RecordPage{
		Records: records,
		PageInfo: model.PageInfo{
			Page:        page,
			PerPage:     perPage,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}
}

func matchRecord(rec *model.InventoryRecord, filter model.RecordFilter) bool {
	if filter.Empty() {
		return true
	}

	if filter.Search != "" && !matchesSearch(rec, filter.Search) {
		return false
	}
	if filter.Category != "" && !strings.EqualFold(rec.Category, filter.Category) {
		return false
	}
	if filter.Brand != "" && !strings.EqualFold(rec.Brand, filter.Brand) {
		return false
	}
	for _, want := range filter.Features {
		if !lo.Contains(rec.Features, want) {
			return false
		}
	}

	return true
}

func matchesSearch(rec *model.InventoryRecord, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}

	haystacks := append([]string{
		rec.Name,
		rec.Brand,
		rec.Supplier,
		rec.Barcode,
		rec.Category,
	}, rec.Features...)

	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
