package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckwise/deck-advisor/internal/deck"
	"github.com/deckwise/deck-advisor/internal/storage"
)

func newTestDeck() *deck.Deck {
	return &deck.Deck{
		ID:            "deck-1",
		Name:          "Mono Green Stompy",
		Format:        "standard",
		CollectionID:  "col-1",
		ColorIdentity: []string{"G"},
		Strategy:      "aggro",
	}
}

func TestDeckRepositoryCreateAndGet(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.CreateDeck(ctx, newTestDeck()))
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "elf-1", 4, deck.RoleMainboard))
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "forest-1", 20, deck.RoleMainboard))
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "veil-1", 2, deck.RoleSideboard))

	got, err := repo.GetDeck(ctx, "deck-1")
	require.NoError(t, err)

	assert.Equal(t, "Mono Green Stompy", got.Name)
	assert.Equal(t, "standard", got.Format)
	assert.Equal(t, "col-1", got.CollectionID)
	assert.Equal(t, []string{"G"}, got.ColorIdentity)
	assert.Equal(t, "aggro", got.Strategy)
	assert.Equal(t, 24, got.MainboardSize())
	assert.Equal(t, 2, got.SideboardSize())
}

func TestDeckRepositoryGetDeckNotFound(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewDeckRepository(db.Conn())

	_, err := repo.GetDeck(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeckRepositoryApplyCardChange(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.CreateDeck(ctx, newTestDeck()))
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "elf-1", 4, deck.RoleMainboard))

	// Quantity changes overwrite, they do not accumulate.
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "elf-1", 2, deck.RoleMainboard))

	got, err := repo.GetDeck(ctx, "deck-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.QuantityOf("elf-1"))

	// Zero removes the entry entirely.
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "elf-1", 0, deck.RoleMainboard))

	got, err = repo.GetDeck(ctx, "deck-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.QuantityOf("elf-1"))
	assert.Empty(t, got.Cards)
}

func TestDeckRepositoryRolesAreIndependent(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	require.NoError(t, repo.CreateDeck(ctx, newTestDeck()))
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "shock-1", 4, deck.RoleMainboard))
	require.NoError(t, repo.ApplyCardChange(ctx, "deck-1", "shock-1", 2, deck.RoleSideboard))

	got, err := repo.GetDeck(ctx, "deck-1")
	require.NoError(t, err)

	// Sideboard copies are tracked separately and never count toward
	// the mainboard quantity.
	assert.Equal(t, 4, got.QuantityOf("shock-1"))
	assert.Equal(t, 2, got.SideboardSize())
	assert.Len(t, got.Cards, 2)
}

func TestDeckRepositoryListAndDelete(t *testing.T) {
	db := storage.NewTestDB(t)
	repo := NewDeckRepository(db.Conn())
	ctx := context.Background()

	first := newTestDeck()
	second := newTestDeck()
	second.ID = "deck-2"
	second.Name = "Azorius Control"
	second.ColorIdentity = []string{"W", "U"}

	require.NoError(t, repo.CreateDeck(ctx, first))
	require.NoError(t, repo.CreateDeck(ctx, second))

	decks, err := repo.ListDecks(ctx)
	require.NoError(t, err)
	assert.Len(t, decks, 2)

	require.NoError(t, repo.DeleteDeck(ctx, "deck-1"))

	decks, err = repo.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "deck-2", decks[0].ID)

	_, err = repo.GetDeck(ctx, "deck-1")
	assert.Error(t, err)
}
