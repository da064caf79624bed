package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCostKnownCodes(t *testing.T) {
	cases := []struct {
		code string
		want float64
	}{
		{"D1110", 120.0},
		{"D0150", 110.0},
		{"D0274", 85.0},
		{"D2331", 180.0},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			code, cost, err := EstimateCost(tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.want, cost)
		})
	}
}

func TestEstimateCostNormalizesCase(t *testing.T) {
	code, cost, err := EstimateCost("d1110")
	require.NoError(t, err)
	assert.Equal(t, "D1110", code)
	assert.Equal(t, 120.0, cost)
}

func TestEstimateCostUnknown(t *testing.T) {
	_, _, err := EstimateCost("D9999")
	assert.ErrorIs(t, err, ErrUnknownProcedure)

	_, _, err = EstimateCost("")
	assert.ErrorIs(t, err, ErrUnknownProcedure)
}
