package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TemporaryIDPrefix marks client-assigned identifiers of records that have not
// been confirmed by the remote inventory service yet.
const TemporaryIDPrefix = "tmp_"

// NewTemporaryID returns a fresh client-side placeholder identifier.
func NewTemporaryID() string {
	return TemporaryIDPrefix + uuid.NewString()
}

// InventoryRecord is the canonical shape of one inventory item, regardless of
// the source it arrived from (form submit, CSV row, remote page, confirmation
// payload). The JSON tags define the canonical field names used by the durable
// snapshot and accepted back by the canonicalizer.
type InventoryRecord struct {
	// Identifier of the record. Immutable once assigned by the server; may
	// carry the temporary prefix before confirmation.
	ID string `json:"id"`
	// Human-readable device name.
	Name string `json:"name"`
	// Manufacturer brand.
	Brand string `json:"brand"`
	// Category normalized to the clinic's fixed vocabulary.
	Category string `json:"category"`
	// Optional barcode, unique among records when present.
	Barcode string `json:"barcode,omitempty"`
	// Units currently in stock. Never negative.
	Quantity int64 `json:"availableQuantity"`
	// Stock level at or below which the item needs reordering.
	ReorderThreshold int64 `json:"reorderThreshold"`
	// Unit price. Never negative.
	UnitPrice float64 `json:"unitPrice"`
	// Supplier name.
	Supplier string `json:"supplier"`
	// Serial numbers of individual units. Always a sequence, never nil.
	SerialNumbers []string `json:"serialNumbers"`
	// Feature tags in insertion order, duplicates suppressed case-sensitively.
	Features []string `json:"features"`
	// Timestamp when the record was created.
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	// Timestamp of the last modification.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	// Original untransformed payload, kept for diagnostics only. Business
	// logic never reads it.
	Raw map[string]any `json:"-"`
}

// HasTemporaryID reports whether the record still awaits server confirmation.
func (r *InventoryRecord) HasTemporaryID() bool {
	return strings.HasPrefix(r.ID, TemporaryIDPrefix)
}

// Clone returns a copy safe to hand out; slice fields are duplicated so the
// caller cannot mutate the stored record through them.
func (r *InventoryRecord) Clone() *InventoryRecord {
	if r == nil {
		return nil
	}

	cp := *r
	cp.SerialNumbers = append([]string(nil), r.SerialNumbers...)
	if cp.SerialNumbers == nil {
		cp.SerialNumbers = []string{}
	}
	cp.Features = append([]string(nil), r.Features...)
	if cp.Features == nil {
		cp.Features = []string{}
	}
	if r.CreatedAt != nil {
		t := *r.CreatedAt
		cp.CreatedAt = &t
	}
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		cp.UpdatedAt = &t
	}

	return &cp
}
