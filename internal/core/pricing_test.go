package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() *Rates {
	return &Rates{
		BWSingleA4:    2,
		BWDuplexA4:    3,
		ColorSingleA4: 10,
		ColorDuplexA4: 15,
		MinCharge:     20,
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		spec JobSpec
		want float64
	}{
		{
			name: "bw single A4",
			spec: JobSpec{Pages: 30, Copies: 1, Color: ColorBW, Sides: SidesSingle, Size: SizeA4},
			want: 60,
		},
		{
			name: "color duplex A4 with copies",
			spec: JobSpec{Pages: 4, Copies: 2, Color: ColorColor, Sides: SidesDuplex, Size: SizeA4},
			want: 120,
		},
		{
			name: "A3 doubles the A4 rate",
			spec: JobSpec{Pages: 10, Copies: 1, Color: ColorBW, Sides: SidesSingle, Size: SizeA3},
			want: 40,
		},
		{
			name: "small job floors at minimum charge",
			spec: JobSpec{Pages: 1, Copies: 1, Color: ColorBW, Sides: SidesSingle, Size: SizeA4},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.spec, testRates())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPriceRejectsIncompleteRates(t *testing.T) {
	r := testRates()
	r.ColorDuplexA4 = 0

	_, err := Price(JobSpec{Pages: 1, Copies: 1, Color: ColorColor, Sides: SidesDuplex, Size: SizeA4}, r)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestPriceNilRates(t *testing.T) {
	_, err := Price(JobSpec{Pages: 1, Copies: 1, Color: ColorBW, Sides: SidesSingle, Size: SizeA4}, nil)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
