package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashionhub/internal/catalog"
)

var (
	boots = catalog.Product{ID: "1", Title: "Boots", Price: 79.99, Thumbnail: "boots.jpg"}
	scarf = catalog.Product{ID: "2", Title: "Scarf", Price: 12.5}
)

// checkInvariants asserts the cart-level totals always equal the sums over
// the line items.
func checkInvariants(t *testing.T, s *Store) {
	t.Helper()

	qty, price := 0, 0.0
	for _, item := range s.Items() {
		require.GreaterOrEqual(t, item.Quantity, 1, "no line holds quantity below one")
		assert.InDelta(t, item.UnitPrice*float64(item.Quantity), item.LineTotal, 1e-9)
		qty += item.Quantity
		price += item.LineTotal
	}
	assert.Equal(t, qty, s.TotalQuantity())
	assert.InDelta(t, price, s.TotalPrice(), 1e-9)
	assert.GreaterOrEqual(t, s.TotalQuantity(), 0)
	assert.GreaterOrEqual(t, s.TotalPrice(), 0.0)
}

func TestAddToCart(t *testing.T) {
	s := NewStore()

	s.AddToCart(boots)
	checkInvariants(t, s)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 1, s.TotalQuantity())
	assert.InDelta(t, 79.99, s.TotalPrice(), 1e-9)

	s.AddToCart(boots)
	checkInvariants(t, s)
	require.Len(t, s.Items(), 1, "repeat add grows the existing line")
	assert.Equal(t, 2, s.Items()[0].Quantity)

	s.AddToCart(scarf)
	checkInvariants(t, s)
	require.Len(t, s.Items(), 2)
	assert.Equal(t, 3, s.TotalQuantity())
}

func TestIncreaseDecreaseQuantity(t *testing.T) {
	s := NewStore()
	s.AddToCart(boots)
	s.IncreaseQuantity("1")
	checkInvariants(t, s)
	assert.Equal(t, 2, s.Items()[0].Quantity)

	s.DecreaseQuantity("1")
	checkInvariants(t, s)
	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestDecreaseToZeroRemovesLine(t *testing.T) {
	s := NewStore()
	s.AddToCart(boots)
	s.DecreaseQuantity("1")

	checkInvariants(t, s)
	assert.Empty(t, s.Items(), "quantity one decremented removes the line")
	assert.Zero(t, s.TotalQuantity())
	assert.Zero(t, s.TotalPrice(), "totals return to the pre-add state")
}

func TestRemoveFromCartSubtractsWholeLine(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		s.AddToCart(boots)
	}
	s.AddToCart(scarf)

	s.RemoveFromCart("1")
	checkInvariants(t, s)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "2", s.Items()[0].ProductID)
	assert.Equal(t, 1, s.TotalQuantity())
	assert.InDelta(t, 12.5, s.TotalPrice(), 1e-9)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s := NewStore()
	s.AddToCart(boots)
	before := s.Snapshot()

	s.IncreaseQuantity("nope")
	s.DecreaseQuantity("nope")
	s.RemoveFromCart("nope")

	assert.Equal(t, before, s.Snapshot())
	checkInvariants(t, s)
}

func TestUnitPriceSnapshottedAtAddTime(t *testing.T) {
	s := NewStore()
	s.AddToCart(boots)

	repriced := boots
	repriced.Price = 100
	s.AddToCart(repriced)

	item := s.Items()[0]
	assert.Equal(t, 79.99, item.UnitPrice)
	// Each add contributes the price it was called with.
	assert.InDelta(t, 179.99, item.LineTotal, 1e-9)
}

func TestInvariantsHoldAcrossMixedSequence(t *testing.T) {
	s := NewStore()
	ops := []func(){
		func() { s.AddToCart(boots) },
		func() { s.AddToCart(scarf) },
		func() { s.IncreaseQuantity("1") },
		func() { s.AddToCart(boots) },
		func() { s.DecreaseQuantity("2") },
		func() { s.IncreaseQuantity("2") },
		func() { s.DecreaseQuantity("1") },
		func() { s.RemoveFromCart("1") },
		func() { s.DecreaseQuantity("2") },
	}
	for _, op := range ops {
		op()
		checkInvariants(t, s)
	}
}

func TestRestoreClampsNegativeTotals(t *testing.T) {
	s := NewStore()
	s.Restore(Snapshot{TotalQuantity: -2, TotalPrice: -10})
	assert.Zero(t, s.TotalQuantity())
	assert.Zero(t, s.TotalPrice())
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	s := NewStore()
	var seen []Snapshot
	s.OnChange(func(snap Snapshot) { seen = append(seen, snap) })

	s.AddToCart(boots)
	s.AddToCart(boots)
	s.RemoveFromCart("1")

	require.Len(t, seen, 3)
	assert.Equal(t, 1, seen[0].TotalQuantity)
	assert.Equal(t, 2, seen[1].TotalQuantity)
	assert.Zero(t, seen[2].TotalQuantity)
}
