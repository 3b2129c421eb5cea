package snapshot

import "context"

// Store holds the durable snapshot of the mirror: a single key carrying the
// serialized full record list, overwritten on every mutation. Record counts
// are small and writes are human-paced, so full-overwrite beats a log.
type Store interface {
	// Save overwrites the snapshot.
	Save(ctx context.Context, data []byte) error
	// Load reads the snapshot; model.ErrNoSnapshot when none was written yet.
	Load(ctx context.Context) ([]byte, error)
}
