package model

// RecordFilter narrows a page fetch. The remote API only exposes a single
// free-text search parameter, so brand and feature facets are collapsed into
// it on the remote path; the local fallback matches each facet on its own.
type RecordFilter struct {
	Search   string
	Category string
	Brand    string
	Features []string
}

func (f RecordFilter) Empty() bool {
	return f.Search == "" &&
		f.Category == "" &&
		f.Brand == "" &&
		len(f.Features) == 0
}

// PageInfo has identical semantics whether the page was served remotely or
// sliced from the local mirror.
type PageInfo struct {
	Page        int  `json:"page"`
	PerPage     int  `json:"perPage"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

type RecordPage struct {
	Records  []*InventoryRecord
	PageInfo PageInfo
}
