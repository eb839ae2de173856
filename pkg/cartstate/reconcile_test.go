package cartstate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteProduct(id string, cents int) *RemoteProduct {
	return &RemoteProduct{
		ID:         id,
		Title:      "Product " + id,
		Slug:       "product-" + id,
		PriceCents: cents,
		InStock:    true,
	}
}

func TestMapWishlistDropsNullProducts(t *testing.T) {
	entries := []RemoteWishlistEntry{
		{Product: remoteProduct("A", 1200)},
		{Product: nil},
		{Product: remoteProduct("B", 800)},
	}

	items := MapWishlistEntries(entries)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, "B", items[1].ID)
	assert.True(t, items[0].Price.Equal(decimal.New(1200, -2)))
}

func TestMapWishlistDropsPartialAndDuplicateProducts(t *testing.T) {
	entries := []RemoteWishlistEntry{
		{Product: &RemoteProduct{Title: "no id"}},
		{Product: remoteProduct("A", 100)},
		{Product: remoteProduct("A", 100)},
	}

	items := MapWishlistEntries(entries)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ID)
}

func TestMapCartDropsMalformedRows(t *testing.T) {
	entries := []RemoteCartEntry{
		{ProductID: "A", Quantity: 2, Product: remoteProduct("A", 1500)},
		{ProductID: "B", Quantity: 1, Product: nil},
		{ProductID: "C", Quantity: 0, Product: remoteProduct("C", 700)},
	}

	items := MapCartEntries(entries)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ProductID)
	assert.Equal(t, 2, items[0].Amount)
}

func TestMapCartCollapsesDuplicateProducts(t *testing.T) {
	entries := []RemoteCartEntry{
		{ProductID: "A", Quantity: 2, Product: remoteProduct("A", 1500)},
		{ProductID: "A", Quantity: 3, Product: remoteProduct("A", 1500)},
	}

	items := MapCartEntries(entries)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Amount)
}

func TestMappedEntriesInstallCleanly(t *testing.T) {
	store := NewStore()
	store.SetCart(MapCartEntries([]RemoteCartEntry{
		{ProductID: "A", Quantity: 2, Product: remoteProduct("A", 1000)},
		{ProductID: "B", Quantity: 4, Product: remoteProduct("B", 250)},
	}))

	assert.Equal(t, 6, store.AllQuantity())
	assert.True(t, store.Snapshot().CartTotal().Equal(decimal.New(3000, -2)))
}
