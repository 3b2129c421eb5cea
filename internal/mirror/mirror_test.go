package mirror

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omrozmn/x-ear-sub010/internal/bus"
	"github.com/omrozmn/x-ear-sub010/internal/canonical"
	"github.com/omrozmn/x-ear-sub010/internal/model"
	"github.com/omrozmn/x-ear-sub010/internal/repository/snapshot"
)

type recordingNotifier struct {
	reasons []bus.Reason
}

func (n *recordingNotifier) Notify(reason bus.Reason) {
	n.reasons = append(n.reasons, reason)
}

func newRecord(id, name string) *model.InventoryRecord {
	return &model.InventoryRecord{
		ID:            id,
		Name:          name,
		SerialNumbers: []string{},
		Features:      []string{},
	}
}

func newTestMirror() (*Mirror, *snapshot.Memory, *recordingNotifier) {
	store := snapshot.NewMemory()
	notifier := &recordingNotifier{}
	canon := canonical.NewCanonicalizer(canonical.NewCategoryNormalizer())
	return New(store, notifier, canon), store, notifier
}

func TestMirrorUpsertKeepsInsertionOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _, notifier := newTestMirror()

	require.NoError(t, m.Upsert(ctx, newRecord("a", "first"), bus.ReasonCreate))
	require.NoError(t, m.Upsert(ctx, newRecord("b", "second"), bus.ReasonCreate))
	require.NoError(t, m.Upsert(ctx, newRecord("c", "third"), bus.ReasonCreate))

	// Replacing an existing record must not move it.
	require.NoError(t, m.Upsert(ctx, newRecord("b", "second v2"), bus.ReasonUpdate))

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "second v2", list[1].Name)
	assert.Equal(t, "c", list[2].ID)

	assert.Equal(t,
		[]bus.Reason{bus.ReasonCreate, bus.ReasonCreate, bus.ReasonCreate, bus.ReasonUpdate},
		notifier.reasons,
	)
}

func TestMirrorUpsertRejectsEmptyID(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMirror()

	err := m.Upsert(context.Background(), newRecord("", "nameless"), bus.ReasonCreate)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Zero(t, m.Len())
}

func TestMirrorRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _, _ := newTestMirror()
	require.NoError(t, m.Upsert(ctx, newRecord("a", "first"), bus.ReasonCreate))
	require.NoError(t, m.Upsert(ctx, newRecord("b", "second"), bus.ReasonCreate))

	require.NoError(t, m.Remove(ctx, "a", bus.ReasonDelete))
	assert.Equal(t, 1, m.Len())
	_, ok := m.Get("a")
	assert.False(t, ok)

	err := m.Remove(ctx, "missing", bus.ReasonDelete)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestMirrorSwapKeepsPosition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _, notifier := newTestMirror()
	require.NoError(t, m.Upsert(ctx, newRecord("a", "first"), bus.ReasonCreate))
	require.NoError(t, m.Upsert(ctx, newRecord("tmp_1", "optimistic"), bus.ReasonCreate))
	require.NoError(t, m.Upsert(ctx, newRecord("c", "third"), bus.ReasonCreate))

	require.NoError(t, m.Swap(ctx, "tmp_1", newRecord("srv_99", "confirmed"), bus.ReasonConfirm))

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "srv_99", list[1].ID)
	assert.Equal(t, "confirmed", list[1].Name)
	assert.Equal(t, "c", list[2].ID)

	_, ok := m.Get("tmp_1")
	assert.False(t, ok)

	assert.Equal(t, bus.ReasonConfirm, notifier.reasons[len(notifier.reasons)-1])

	err := m.Swap(ctx, "tmp_1", newRecord("srv_100", "again"), bus.ReasonConfirm)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestMirrorSwapAbsorbsAlreadyIngestedPermanentID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _, _ := newTestMirror()
	require.NoError(t, m.Upsert(ctx, newRecord("a", "first"), bus.ReasonCreate))
	require.NoError(t, m.Upsert(ctx, newRecord("tmp_1", "optimistic"), bus.ReasonCreate))
	// A page fetch ingested the permanent record before the confirmation.
	require.NoError(t, m.Upsert(ctx, newRecord("srv_99", "ingested"), bus.ReasonReload))

	require.NoError(t, m.Swap(ctx, "tmp_1", newRecord("srv_99", "confirmed"), bus.ReasonConfirm))

	// Exactly one record per identifier, at the optimistic record's position.
	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "srv_99", list[1].ID)
	assert.Equal(t, "confirmed", list[1].Name)
	assert.Equal(t, 2, m.Len())

	_, ok := m.Get("tmp_1")
	assert.False(t, ok)
}

func TestMirrorReplaceAllPreservesGivenOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _, _ := newTestMirror()
	require.NoError(t, m.Upsert(ctx, newRecord("x", "old"), bus.ReasonCreate))

	require.NoError(t, m.ReplaceAll(ctx, []*model.InventoryRecord{
		newRecord("b", "second"),
		newRecord("a", "first"),
		newRecord("c", "third"),
	}, bus.ReasonRollback))

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
	_, ok := m.Get("x")
	assert.False(t, ok)
}

func TestMirrorReturnsDefensiveCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _, _ := newTestMirror()
	rec := newRecord("a", "original")
	rec.SerialNumbers = []string{"SN-1"}
	require.NoError(t, m.Upsert(ctx, rec, bus.ReasonCreate))

	got, ok := m.Get("a")
	require.True(t, ok)
	got.Name = "mutated"
	got.SerialNumbers[0] = "SN-666"

	fresh, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "original", fresh.Name)
	assert.Equal(t, []string{"SN-1"}, fresh.SerialNumbers)
}

func TestMirrorPersistsAndReloadsSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, store, _ := newTestMirror()
	require.NoError(t, m.Upsert(ctx, newRecord("a", "first"), bus.ReasonCreate))
	require.NoError(t, m.Upsert(ctx, newRecord("b", "second"), bus.ReasonCreate))
	require.NoError(t, m.Remove(ctx, "a", bus.ReasonDelete))

	// A second mirror over the same store must come up with identical state.
	canon := canonical.NewCanonicalizer(canonical.NewCategoryNormalizer())
	reloaded := New(store, &recordingNotifier{}, canon)
	require.NoError(t, reloaded.Load(ctx))

	list := reloaded.List()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "second", list[0].Name)
}

func TestMirrorLoadMissingSnapshotStartsEmpty(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestMirror()
	require.NoError(t, m.Load(context.Background()))
	assert.Zero(t, m.Len())
}

func TestMirrorLoadCanonicalizesLegacyEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := snapshot.NewMemory()
	legacy, err := json.Marshal([]map[string]any{
		{"inventoryId": "inv-1", "deviceName": "Moment 440", "qty": 5},
	})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, legacy))

	canon := canonical.NewCanonicalizer(canonical.NewCategoryNormalizer())
	m := New(store, &recordingNotifier{}, canon)
	require.NoError(t, m.Load(ctx))

	rec, ok := m.Get("inv-1")
	require.True(t, ok)
	assert.Equal(t, "Moment 440", rec.Name)
	assert.Equal(t, int64(5), rec.Quantity)
}
