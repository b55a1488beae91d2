package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("59.90")
	require.NoError(t, err)
	assert.Equal(t, "59.90", d.StringFixed(2))

	_, err = Parse("-1.00")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = Parse("nineteen")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestLineAndSum(t *testing.T) {
	unit := decimal.RequireFromString("19.99")

	line := Line(unit, 3)
	assert.Equal(t, "59.97", line.StringFixed(2))

	total := Sum(line, decimal.RequireFromString("0.03"))
	assert.Equal(t, "60.00", total.StringFixed(2))

	assert.True(t, Sum().IsZero())
}

func TestLine_NoFloatDrift(t *testing.T) {
	// 0.1 * 3 is the classic binary float trap; decimals stay exact.
	line := Line(decimal.RequireFromString("0.10"), 3)
	assert.True(t, line.Equal(decimal.RequireFromString("0.30")))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(5990), MinorUnits(decimal.RequireFromString("59.90")))
	assert.Equal(t, int64(100), MinorUnits(decimal.RequireFromString("0.999")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}

func TestFromMinorUnits(t *testing.T) {
	d := FromMinorUnits(11980)
	assert.Equal(t, "119.80", d.StringFixed(2))

	roundTrip := MinorUnits(FromMinorUnits(4990))
	assert.Equal(t, int64(4990), roundTrip)
}
