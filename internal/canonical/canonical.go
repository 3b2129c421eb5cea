package canonical

import (
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

// Alias tables: for every canonical field, the ordered list of source keys the
// canonicalizer tries. The canonical name always comes first so canonicalizing
// an already-canonical payload is a no-op.
var (
	idKeys        = []string{"id", "inventoryId", "code", "_id"}
	nameKeys      = []string{"name", "deviceName", "productName", "itemName"}
	brandKeys     = []string{"brand", "manufacturer", "make"}
	categoryKeys  = []string{"category", "deviceType", "type"}
	barcodeKeys   = []string{"barcode", "barCode", "upc", "ean"}
	quantityKeys  = []string{"availableQuantity", "quantity", "stock", "qty"}
	reorderKeys   = []string{"reorderThreshold", "reorderLevel", "minStock", "minQuantity"}
	priceKeys     = []string{"unitPrice", "price", "salePrice", "cost"}
	supplierKeys  = []string{"supplier", "supplierName", "vendor"}
	serialKeys    = []string{"serialNumbers", "serials", "serialNumber", "serialNo"}
	featureKeys   = []string{"features", "featureTags", "tags"}
	createdAtKeys = []string{"createdAt", "created_at", "dateAdded"}
	updatedAtKeys = []string{"updatedAt", "updated_at", "lastModified", "modifiedAt"}
)

// Canonicalizer turns raw records of heterogeneous shape into the one
// canonical form. It is a pure transformation with no dependencies beyond the
// optional category normalizer collaborator.
type Canonicalizer struct {
	categories CategoryNormalizer
}

// NewCanonicalizer builds a canonicalizer. A nil normalizer means category
// values pass through verbatim.
func NewCanonicalizer(categories CategoryNormalizer) *Canonicalizer {
	return &Canonicalizer{categories: categories}
}

// Canonicalize maps a raw record onto the canonical field set. It returns nil
// only for nil input; every missing source field gets a deterministic default.
// Idempotent: canonicalizing an already-canonical payload yields an equal
// record.
func (c *Canonicalizer) Canonicalize(raw map[string]any) *model.InventoryRecord {
	if raw == nil {
		return nil
	}

	rec := &model.InventoryRecord{
		ID:               stringField(raw, idKeys),
		Name:             stringField(raw, nameKeys),
		Brand:            stringField(raw, brandKeys),
		Category:         stringField(raw, categoryKeys),
		Barcode:          stringField(raw, barcodeKeys),
		Quantity:         intField(raw, quantityKeys),
		ReorderThreshold: intField(raw, reorderKeys),
		UnitPrice:        floatField(raw, priceKeys),
		Supplier:         stringField(raw, supplierKeys),
		SerialNumbers:    serialNumbersField(raw, serialKeys),
		Features:         featuresField(raw, featureKeys),
		CreatedAt:        timeField(raw, createdAtKeys),
		UpdatedAt:        timeField(raw, updatedAtKeys),
		Raw:              raw,
	}

	if c.categories != nil {
		rec.Category = c.categories.Normalize(rec.Category)
	}

	// Quantities never go negative, whatever the source claimed.
	if rec.Quantity < 0 {
		rec.Quantity = 0
	}
	if rec.ReorderThreshold < 0 {
		rec.ReorderThreshold = 0
	}
	if rec.UnitPrice < 0 {
		rec.UnitPrice = 0
	}

	return rec
}

func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(raw map[string]any, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return ""
	}

	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

func intField(raw map[string]any, keys []string) int64 {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func floatField(raw map[string]any, keys []string) float64 {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}

	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// serialNumbersField always yields a sequence: comma-separated strings are
// split, trimmed and stripped of empty segments; sequences pass through;
// anything else becomes the empty sequence.
func serialNumbersField(raw map[string]any, keys []string) []string {
	v, ok := lookup(raw, keys)
	if !ok {
		return []string{}
	}

	switch s := v.(type) {
	case string:
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []string:
		return append([]string{}, s...)
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
		return out
	default:
		return []string{}
	}
}

// featuresField keeps insertion order and suppresses duplicates
// case-sensitively at the point of entry.
func featuresField(raw map[string]any, keys []string) []string {
	tags := serialNumbersField(raw, keys)
	return lo.Uniq(tags)
}

func timeField(raw map[string]any, keys []string) *time.Time {
	v, ok := lookup(raw, keys)
	if !ok {
		return nil
	}

	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &parsed
	case float64:
		// Epoch milliseconds, the legacy local-sample format.
		parsed := time.UnixMilli(int64(t)).UTC()
		return &parsed
	default:
		return nil
	}
}
