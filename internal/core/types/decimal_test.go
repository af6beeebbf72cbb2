package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityParse(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"0", 0},
		{"1", 10_000},
		{"100", 1_000_000},
		{"2.5", 25_000},
		{"0.0001", 1},
		{"-3.25", -32_500},
		{"40.00004", 400_000}, // extra digits truncated
		{"+7", 70_000},
	}

	for _, tt := range tests {
		got, err := NewQuantityFromString(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestQuantityParseInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3"} {
		_, err := NewQuantityFromString(in)
		assert.Error(t, err, in)
	}
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "2.5000", Quantity(25_000).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
	assert.Equal(t, "-3.2500", Quantity(-32_500).String())
	assert.Equal(t, "100.0000", Quantity(1_000_000).String())
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	q := Quantity(123_456) // 12.3456

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "12.3456", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)

	// String form accepted too
	require.NoError(t, json.Unmarshal([]byte(`"12.3456"`), &back))
	assert.Equal(t, q, back)

	// null is zero
	require.NoError(t, json.Unmarshal([]byte(`null`), &back))
	assert.Equal(t, Quantity(0), back)
}

func TestQuantityDecimalBridge(t *testing.T) {
	q := Quantity(25_000) // 2.5
	price := MustMoney("4.20")

	total := price.Mul(q.Decimal())
	assert.Equal(t, "10.5", total.String())
}
