package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"1500", NewMoney(1500, 0)},
		{"1500.5", NewMoney(1500, 50)},
		{"1,500.50", NewMoney(1500, 50)},
		{" 0.07 ", 7},
		{".25", 25},
		{"-12.30", -1230},
		{"7.", 700},
		{"92233720368547757.99", Money(math.MaxInt64 - 8)},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "abc", "1.234", "12.x", ".", "-", "1.-5", "1.+5", "+1", "--3", "1e3", "1 000"} {
		_, err := ParseMoney(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseMoney_Overflow(t *testing.T) {
	for _, in := range []string{"92233720368547758", "100000000000000000", "-100000000000000000", "99999999999999999999"} {
		_, err := ParseMoney(in)
		assert.ErrorIs(t, err, ErrMoneyOverflow, in)
	}
}

func TestMoney_Times(t *testing.T) {
	got, err := NewMoney(1500, 0).Times(3)
	require.NoError(t, err)
	assert.Equal(t, NewMoney(4500, 0), got)

	got, err = NewMoney(1500, 0).Times(0)
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = NewMoney(92233720368547757, 0).Times(60)
	assert.ErrorIs(t, err, ErrMoneyOverflow)

	got, err = MaxSeatPrice.Times(1000)
	require.NoError(t, err)
	assert.Equal(t, NewMoney(10_000_000_000, 0), got)
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "1500.00", NewMoney(1500, 0).String())
	assert.Equal(t, "RWF 10,000.00", NewMoney(10000, 0).Format())
	assert.Equal(t, "RWF 1,234,567.05", NewMoney(1234567, 5).Format())
	assert.Equal(t, "RWF 999.99", NewMoney(999, 99).Format())
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{NewMoney(2500, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"2500.05"}`, string(b))

	var in struct {
		A Money  `json:"a"`
		B Money  `json:"b"`
		C *Money `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1,000.50","b":1200,"c":null}`), &in))
	assert.Equal(t, NewMoney(1000, 50), in.A)
	assert.Equal(t, NewMoney(1200, 0), in.B)
	assert.Nil(t, in.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"1.999"}`), &in))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan(int64(350000)))
	assert.Equal(t, NewMoney(3500, 0), m)
	require.NoError(t, m.Scan([]byte("125")))
	assert.Equal(t, Money(125), m)
	assert.Error(t, m.Scan(true))

	v, err := NewMoney(12, 34).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), v)
}
