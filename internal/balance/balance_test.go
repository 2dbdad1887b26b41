package balance

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBalance(t *testing.T) {
	b, err := ParseBalance("340282366920938463463374607431768211455") // 2^128-1
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211455", b.String())

	_, err = ParseBalance("340282366920938463463374607431768211456")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseBalance("12a")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFromBig(t *testing.T) {
	b, err := FromBig(big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, New(42), b)

	_, err = FromBig(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = FromBig(new(big.Int).Lsh(big.NewInt(1), 128))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAddOverflow(t *testing.T) {
	max, err := ParseBalance("340282366920938463463374607431768211455")
	require.NoError(t, err)

	_, err = max.Add(New(1))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	sum, err := New(2).Add(New(3))
	require.NoError(t, err)
	assert.Equal(t, "5", sum.String())
}

func TestSub(t *testing.T) {
	diff, neg := New(10).Sub(New(4))
	assert.False(t, neg)
	assert.Equal(t, "6", diff.String())

	diff, neg = New(4).Sub(New(10))
	assert.True(t, neg)
	assert.Equal(t, "6", diff.String())
}

func TestBalanceJSON(t *testing.T) {
	big128, err := ParseBalance("340282366920938463463374607431768211455")
	require.NoError(t, err)

	data, err := json.Marshal(big128)
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211455", string(data))

	var back Balance
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 0, big128.Cmp(back))

	require.NoError(t, json.Unmarshal([]byte(`"7"`), &back))
	assert.Equal(t, New(7), back)
}
