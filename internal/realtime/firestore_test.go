package realtime

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/types"
)

// newEmulatorStore connects to a local Firestore emulator, skipping when
// none is configured.
func newEmulatorStore(t *testing.T) *FirestoreStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "demo-listboard")
	require.NoError(t, err)

	s := NewFirestoreStoreFromClient(client, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFirestoreStore_UpdateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newEmulatorStore(t)
	user := types.UserID("u" + NewKey())

	require.NoError(t, s.Update(ctx, Updates{
		RecordPath(user, Tasks, "t1"): record{ID: "t1", Content: "A", Order: 0},
		RecordPath(user, Tasks, "t2"): record{ID: "t2", Content: "B", Order: 1},
	}))
	require.NoError(t, s.Update(ctx, Updates{
		FieldPath(user, Tasks, "t1", "order"): 1,
		FieldPath(user, Tasks, "t2", "order"): 0,
		FieldPath(user, Tasks, "gone", "order"): 5,
	}))

	snap, err := s.Get(ctx, CollectionPath(user, Tasks))
	require.NoError(t, err)
	all, err := DecodeAll[record](snap)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].Order)
	assert.Equal(t, 0, all[1].Order)

	require.NoError(t, s.Remove(ctx, CollectionPath(user, Tasks)))
	snap, err = s.Get(ctx, CollectionPath(user, Tasks))
	require.NoError(t, err)
	assert.False(t, snap.Exists())
}

func TestFirestoreStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s := newEmulatorStore(t)
	user := types.UserID("u" + NewKey())

	sizes := make(chan int, 10)
	unsub, err := s.Subscribe(ctx, CollectionPath(user, Columns), func(snap Snapshot) {
		sizes <- len(snap.Records)
	})
	require.NoError(t, err)
	defer unsub()

	select {
	case n := <-sizes:
		assert.Equal(t, 0, n)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, s.Set(ctx, RecordPath(user, Columns, "c1"), record{ID: "c1", Title: "Todo"}))
	select {
	case n := <-sizes:
		assert.Equal(t, 1, n)
	case <-time.After(5 * time.Second):
		t.Fatal("no change snapshot")
	}
}
