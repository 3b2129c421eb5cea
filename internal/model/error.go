package model

import "errors"

var (
	// ErrDuplicateBarcode rejects a create whose barcode is already taken.
	// Checked synchronously before any local or remote effect.
	ErrDuplicateBarcode = errors.New("duplicate barcode")
	// ErrRecordNotFound means the referenced identifier is absent from the mirror.
	ErrRecordNotFound = errors.New("record not found")
	// ErrRemoteFailure means the remote inventory service rejected or failed
	// the dispatched call.
	ErrRemoteFailure = errors.New("remote inventory service failure")
	// ErrQueued means the call could not be dispatched because the client is
	// offline; the mutation stands locally and is retried later.
	ErrQueued = errors.New("queued for offline dispatch")
	// ErrNoSnapshot means no durable snapshot has been written yet.
	ErrNoSnapshot = errors.New("no snapshot stored")
	// ErrValidation means the input could not be interpreted as a record.
	ErrValidation = errors.New("validation error")
)
