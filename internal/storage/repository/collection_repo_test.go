package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckwise/deck-advisor/internal/storage"
)

func TestCollectionAdjustQuantity(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewCollectionRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.CreateCollection(ctx, "col-1", "Main"))

	qty, err := repo.AdjustQuantity(ctx, "col-1", "elf-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)

	qty, err = repo.AdjustQuantity(ctx, "col-1", "elf-1", -1)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	owned, err := repo.ListOwnedCards(ctx, "col-1")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "elf-1", owned[0].CardID)
	assert.Equal(t, 3, owned[0].Quantity)
}

func TestCollectionAdjustQuantityClampsAtZero(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewCollectionRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.CreateCollection(ctx, "col-1", "Main"))

	qty, err := repo.AdjustQuantity(ctx, "col-1", "elf-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	// Removing more copies than owned clamps at zero.
	qty, err = repo.AdjustQuantity(ctx, "col-1", "elf-1", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	owned, err := repo.ListOwnedCards(ctx, "col-1")
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestCollectionHistoryRecorded(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewCollectionRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.CreateCollection(ctx, "col-1", "Main"))

	_, err := repo.AdjustQuantity(ctx, "col-1", "elf-1", 4)
	require.NoError(t, err)
	_, err = repo.AdjustQuantity(ctx, "col-1", "elf-1", -10)
	require.NoError(t, err)

	rows, err := db.Conn().Query(
		`SELECT delta, quantity_after FROM collection_history WHERE collection_id = ? ORDER BY id`,
		"col-1")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	type change struct{ delta, after int }
	var history []change
	for rows.Next() {
		var c change
		require.NoError(t, rows.Scan(&c.delta, &c.after))
		history = append(history, c)
	}
	require.NoError(t, rows.Err())

	// The recorded delta is the requested one even when clamped.
	assert.Equal(t, []change{{4, 4}, {-10, 0}}, history)
}

func TestCollectionListOwnedCardsEmpty(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewCollectionRepository(db.Conn())

	owned, err := repo.ListOwnedCards(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, owned)
}
