package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"toytopia_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyKV compte les accès au magasin durable
type spyKV struct {
	KV
	gets int
}

func (s *spyKV) Get(ctx context.Context, key string) (string, error) {
	s.gets++
	return s.KV.Get(ctx, key)
}

func snapshotFavorites(t *testing.T, kv KV) []models.FavoriteEntry {
	t.Helper()
	raw, err := kv.Get(context.Background(), FavoritesKey)
	require.NoError(t, err)
	if raw == "" {
		return nil
	}
	var entries []models.FavoriteEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	return entries
}

func TestAddToFavoritesPersistsEntry(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-1"))

	entries := snapshotFavorites(t, kv)
	require.Len(t, entries, 1)
	assert.Equal(t, "toy-1", entries[0].ToyID)
	assert.Equal(t, "user-1", entries[0].UserID)
	assert.False(t, entries[0].Date.IsZero())
}

func TestAddToFavoritesRejectsDuplicate(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-1"))
	assert.False(t, s.AddToFavorites(ctx, "user-1", "toy-1"))

	// Le snapshot n'a pas grossi
	assert.Len(t, snapshotFavorites(t, kv), 1)
}

func TestSameToyFavoritedByTwoUsers(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-1"))
	require.True(t, s.AddToFavorites(ctx, "user-2", "toy-1"))

	assert.Len(t, snapshotFavorites(t, kv), 2)
	assert.Len(t, s.LoadFavorites(ctx, "user-1"), 1)
	assert.Len(t, s.LoadFavorites(ctx, "user-2"), 1)
}

func TestRemoveFromFavoritesIsIdempotent(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-1"))
	assert.True(t, s.RemoveFromFavorites(ctx, "user-1", "toy-1"))

	// Retirer une entrée absente réussit quand même
	assert.True(t, s.RemoveFromFavorites(ctx, "user-1", "toy-1"))
	assert.Empty(t, snapshotFavorites(t, kv))
}

func TestRemoveOnlyTouchesOwnEntry(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-1"))
	require.True(t, s.AddToFavorites(ctx, "user-2", "toy-1"))
	require.True(t, s.RemoveFromFavorites(ctx, "user-1", "toy-1"))

	entries := snapshotFavorites(t, kv)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-2", entries[0].UserID)
}

func TestLoadFavoritesWithoutSessionSkipsStore(t *testing.T) {
	spy := &spyKV{KV: NewMemoryKV()}
	s := New(spy)

	entries := s.LoadFavorites(context.Background(), "")

	assert.Empty(t, entries)
	assert.Zero(t, spy.gets)
}

func TestMalformedSnapshotReadsAsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), FavoritesKey, "{pas du json"))

	s := New(kv)
	entries := s.LoadFavorites(context.Background(), "user-1")

	assert.Empty(t, entries)
}

func TestMalformedEntriesAreDropped(t *testing.T) {
	kv := NewMemoryKV()
	raw, err := json.Marshal([]models.FavoriteEntry{
		{ToyID: "toy-1", UserID: "user-1", Date: time.Now()},
		{ToyID: "", UserID: "user-1"}, // entrée sans jouet, écartée
	})
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), FavoritesKey, string(raw)))

	s := New(kv)
	entries := s.LoadFavorites(context.Background(), "user-1")

	require.Len(t, entries, 1)
	assert.Equal(t, "toy-1", entries[0].ToyID)
}

func TestIsFavoriteUsesCurrentViewUntilResync(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	// Deux stores partageant le même magasin durable, comme deux onglets
	local := New(kv)
	remote := New(kv)

	local.LoadFavorites(ctx, "user-1")
	require.True(t, remote.AddToFavorites(ctx, "user-1", "toy-1"))

	// La vue locale ne voit pas encore l'écriture distante
	assert.False(t, local.IsFavorite(ctx, "user-1", "toy-1"))

	local.Resync(ctx, "user-1")
	assert.True(t, local.IsFavorite(ctx, "user-1", "toy-1"))
}

func TestStartSyncPropagatesRemoteWrites(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	local := New(kv)
	remote := New(kv)

	stop := local.StartSync(ctx)
	defer stop()

	local.LoadFavorites(ctx, "user-1")
	require.True(t, remote.AddToFavorites(ctx, "user-1", "toy-1"))

	assert.Eventually(t, func() bool {
		return local.IsFavorite(ctx, "user-1", "toy-1")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClearViewForgetsMemoryNotSnapshot(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-1"))
	s.ClearView("user-1")

	// Le snapshot durable survit à la déconnexion
	assert.Len(t, snapshotFavorites(t, kv), 1)
	assert.Len(t, s.LoadFavorites(ctx, "user-1"), 1)
}

func TestConcurrentAddsAllPersist(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	// Chaque requête gin arrive sur sa propre goroutine : aucun ajout
	// acquitté ne doit être écrasé par un autre cycle lecture-écriture
	const n = 200
	acked := make([]bool, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			acked[i] = s.AddToFavorites(ctx, "user-1", fmt.Sprintf("toy-%d", i))
		}(i)
	}
	wg.Wait()

	for i, ok := range acked {
		assert.True(t, ok, "ajout %d refusé", i)
	}
	assert.Len(t, snapshotFavorites(t, kv), n)
}

func TestConcurrentAddsTwoUsersKeepOnePerPair(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s.AddToFavorites(ctx, "user-1", fmt.Sprintf("toy-%d", i))
		}(i)
		go func(i int) {
			defer wg.Done()
			s.AddToFavorites(ctx, "user-2", fmt.Sprintf("toy-%d", i))
		}(i)
	}
	wg.Wait()

	entries := snapshotFavorites(t, kv)
	assert.Len(t, entries, 2*n)

	// Au plus une entrée par couple (toyId, userId)
	seen := make(map[string]bool)
	for _, e := range entries {
		key := e.UserID + "/" + e.ToyID
		assert.False(t, seen[key], "couple dupliqué: %s", key)
		seen[key] = true
	}
}

func TestFavoriteToyIDs(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv)
	ctx := context.Background()

	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-1"))
	require.True(t, s.AddToFavorites(ctx, "user-1", "toy-2"))

	assert.Equal(t, []string{"toy-1", "toy-2"}, s.FavoriteToyIDs(ctx, "user-1"))
}
