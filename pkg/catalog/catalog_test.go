package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/quaylabs/shopsync/pkg/errors"
)

func TestRowMatchKey(t *testing.T) {
	withSKU := Row{EntityKey: "Mug-01", VariantKey: "MUG-RED"}
	assert.Equal(t, "MUG-RED", withSKU.MatchKey())

	defaultVariant := Row{EntityKey: "Mug-01"}
	assert.Equal(t, "mug-01", defaultVariant.MatchKey())
}

func TestRowKeyRequiresChannel(t *testing.T) {
	row := Row{EntityKey: "mug-01", VariantKey: "MUG-RED", ChannelKey: "retail"}
	key, ok := row.Key()
	assert.True(t, ok)
	assert.Equal(t, Key{Match: "MUG-RED", Channel: "retail"}, key)

	_, ok = Row{EntityKey: "mug-01"}.Key()
	assert.False(t, ok)
}

func TestRowIdentity(t *testing.T) {
	assert.Equal(t, "MUG-RED/retail", Row{EntityKey: "Mug-01", VariantKey: "MUG-RED", ChannelKey: "retail"}.Identity())
	assert.Equal(t, "mug-01/retail", Row{EntityKey: "Mug-01", ChannelKey: "retail"}.Identity())
	assert.Equal(t, "mug-01", Row{EntityKey: "Mug-01"}.Identity())
}

func TestChannelMatches(t *testing.T) {
	ch := Channel{ID: "Q2g6MQ==", Name: "Retail Store", Key: "retail"}
	assert.True(t, ch.Matches("Retail Store"))
	assert.True(t, ch.Matches("retail"))
	assert.False(t, ch.Matches("Retail"))
	assert.False(t, ch.Matches(""))
}

func TestEntityNormalizedKey(t *testing.T) {
	assert.Equal(t, "mug-01", Entity{Key: "MUG-01"}.NormalizedKey())
}

func TestParseLoose(t *testing.T) {
	assert.True(t, ParseLoose("12.50").Equal(decimal.RequireFromString("12.5")))
	assert.True(t, ParseLoose("").IsZero())
	assert.True(t, ParseLoose("abc").IsZero())
	assert.True(t, ParseLoose("  9.99 ").Equal(decimal.RequireFromString("9.99")))
}

func TestComparablePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"9.99", 10},
		{"9.49", 9},
		{"9.5", 10}, // half rounds up, not to even
		{"10", 10},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComparablePrice(tt.in), "price %q", tt.in)
	}
}

func TestPriceText(t *testing.T) {
	got, err := PriceText("12")
	assert.NoError(t, err)
	assert.Equal(t, "12.00", got)

	got, err = PriceText("15.5")
	assert.NoError(t, err)
	assert.Equal(t, "15.50", got)

	for _, bad := range []string{"0", "-5", "abc", ""} {
		_, err := PriceText(bad)
		assert.Error(t, err, "price %q", bad)
		assert.True(t, errors.IsValidation(err), "price %q", bad)
	}
}
