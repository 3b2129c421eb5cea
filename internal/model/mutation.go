package model

// MutationResult reports the outcome of a single optimistic mutation. Queued
// marks the soft-success state: the record stands locally while the remote
// dispatch is deferred by the offline transport.
type MutationResult struct {
	Record *InventoryRecord
	Queued bool
}

// CreateConfirmation is the out-of-band event that finalizes a previously
// created temporary record, correlated by the temporary identifier.
type CreateConfirmation struct {
	TemporaryID string         `json:"temporaryId"`
	FinalRecord map[string]any `json:"finalRecord"`
}

// StockAdjustment changes the available quantity of one record by a signed
// delta. Subtraction clamps at zero.
type StockAdjustment struct {
	ID    string
	Delta int64
}

// PriceUpdate sets the unit price of one record.
type PriceUpdate struct {
	ID        string
	UnitPrice float64
}

// BulkItemError ties a per-item failure to the row or identifier it concerns.
type BulkItemError struct {
	Ref string
	Err error
}

// BulkResult aggregates a batch of sequential single-item mutations. Batches
// never abort on the first failure; failures are tallied instead.
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    []BulkItemError
}

// Fail records a per-item failure.
func (r *BulkResult) Fail(ref string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, BulkItemError{Ref: ref, Err: err})
}

// OK records a per-item success.
func (r *BulkResult) OK() {
	r.Succeeded++
}
