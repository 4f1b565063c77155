package decoder

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/internal/testutil"
)

func encoded(data []int, ecLevel int) []int {
	body := append([]int{len(data) + 1}, data...)
	return append(body, testutil.ECCodewords(body, ecLevel)...)
}

func TestFieldInverse(t *testing.T) {
	for a := 1; a < modulus; a++ {
		require.Equal(t, 1, gf.mul(a, gf.inv(a)), "a=%d", a)
	}
	assert.Panics(t, func() { gf.inv(0) })
}

func TestPolyArithmetic(t *testing.T) {
	p := newPoly(0, 0, 3, 1)
	assert.Equal(t, 1, p.degree())
	assert.Equal(t, "3x + 1", p.String())
	assert.Equal(t, 3*5+1, p.eval(5))

	q := p.mul(newPoly(1, 2))
	assert.Equal(t, poly{3, 7, 2}, q)
	assert.True(t, q.sub(q).isZero())
	assert.Equal(t, poly{6, 14, 4, 0}, q.scale(1, 2))
	assert.Equal(t, "0", newPoly().String())
}

func TestCorrectErrorsCleanInput(t *testing.T) {
	received := encoded([]int{1, 2, 3, 4, 5}, 1)
	want := append([]int(nil), received...)
	n, err := CorrectErrors(received, 4)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, want, received)
}

func TestCorrectErrorsRepairsSubstitutions(t *testing.T) {
	want := encoded([]int{453, 178, 121, 236, 900, 900}, 2)
	require.Equal(t, []int{117, 738, 876, 500, 65, 449, 613, 819}, want[7:])
	received := append([]int(nil), want...)
	received[0] = 100
	received[3] = 0
	received[7] = 928
	received[len(received)-1] = 820

	n, err := CorrectErrors(received, 8)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, want, received)
}

func TestCorrectErrorsBadCount(t *testing.T) {
	_, err := CorrectErrors([]int{1, 2}, 2)
	assert.ErrorIs(t, err, zxcore.ErrChecksum)
}

func TestCorrectErrorsRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("up to numEC/2 substitutions are repaired", prop.ForAll(
		func(seed int64, ecLevel int) bool {
			rnd := rand.New(rand.NewSource(seed))
			data := make([]int, 1+rnd.Intn(30))
			for i := range data {
				data[i] = rnd.Intn(modulus)
			}
			want := encoded(data, ecLevel)
			numEC := 2 << ecLevel

			received := append([]int(nil), want...)
			errs := rnd.Intn(numEC/2 + 1)
			for _, pos := range rnd.Perm(len(received))[:min(errs, len(received))] {
				received[pos] = (received[pos] + 1 + rnd.Intn(modulus-1)) % modulus
			}
			n, err := CorrectErrors(received, numEC)
			if err != nil || n != min(errs, len(received)) {
				return false
			}
			for i := range want {
				if want[i] != received[i] {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 3),
	))
	properties.TestingRun(t)
}
