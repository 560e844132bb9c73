package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMovementType_Valid(t *testing.T) {
	assert.True(t, MovementIn.Valid())
	assert.True(t, MovementOut.Valid())
	assert.True(t, MovementAdjustment.Valid())
	assert.False(t, MovementType("TRANSFER").Valid())
	assert.False(t, MovementType("").Valid())
}

func TestStockMovement_Apply(t *testing.T) {
	balance := qty("10.000")

	in := StockMovement{MovementType: MovementIn, Quantity: qty("2.500")}
	assert.True(t, in.Apply(balance).Equal(qty("12.500")))

	out := StockMovement{MovementType: MovementOut, Quantity: qty("4.000")}
	assert.True(t, out.Apply(balance).Equal(qty("6.000")))

	adjustment := StockMovement{MovementType: MovementAdjustment, Quantity: qty("99.000")}
	assert.True(t, adjustment.Apply(balance).Equal(qty("99.000")))
}

func TestReplayBalance_MatchesSequentialApplication(t *testing.T) {
	movements := []StockMovement{
		{MovementType: MovementIn, Quantity: qty("100")},
		{MovementType: MovementOut, Quantity: qty("30")},
		{MovementType: MovementIn, Quantity: qty("5.250")},
		{MovementType: MovementOut, Quantity: qty("0.250")},
	}

	assert.True(t, ReplayBalance(movements).Equal(qty("75")))
}

func TestReplayBalance_AdjustmentOverridesHistory(t *testing.T) {
	movements := []StockMovement{
		{MovementType: MovementIn, Quantity: qty("100")},
		{MovementType: MovementOut, Quantity: qty("40")},
		{MovementType: MovementAdjustment, Quantity: qty("10")},
		{MovementType: MovementIn, Quantity: qty("2")},
	}

	// Everything before the adjustment is superseded by its absolute value.
	assert.True(t, ReplayBalance(movements).Equal(qty("12")))
}

func TestReplayBalance_EmptyLedgerIsZero(t *testing.T) {
	assert.True(t, ReplayBalance(nil).IsZero())
}

func TestReplayBalance_CanGoNegativeWhenReplayingRawEntries(t *testing.T) {
	// The write path rejects overdrafts, but replay itself is a pure fold and
	// reports whatever the entries say.
	movements := []StockMovement{
		{MovementType: MovementOut, Quantity: qty("5")},
	}

	assert.True(t, ReplayBalance(movements).Equal(qty("-5")))
}
