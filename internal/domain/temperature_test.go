package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTemperature_Formulas(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		from, to Scale
		want     float64
	}{
		{"boiling C to F", 100, Celsius, Fahrenheit, 212},
		{"freezing F to C", 32, Fahrenheit, Celsius, 0},
		{"zero C to K", 0, Celsius, Kelvin, 273.15},
		{"zero K to C", 0, Kelvin, Celsius, -273.15},
		{"body temp F to K", 98.6, Fahrenheit, Kelvin, 310.15},
		{"absolute zero K to F", 0, Kelvin, Fahrenheit, -459.67},
		{"minus forty meets", -40, Celsius, Fahrenheit, -40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertTemperature(tt.v, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvertTemperature_Identity(t *testing.T) {
	for _, s := range []Scale{Celsius, Fahrenheit, Kelvin} {
		got, err := ConvertTemperature(21.123456789, s, s)
		require.NoError(t, err)
		assert.Equal(t, 21.123456789, got, s.String())
	}
}

func TestConvertTemperature_RoundTrip(t *testing.T) {
	scales := []Scale{Celsius, Fahrenheit, Kelvin}
	for _, from := range scales {
		for _, to := range scales {
			if from == to {
				continue
			}
			for _, v := range []float64{-40, 0, 37.5, 451, 1e4} {
				there, err := ConvertTemperature(v, from, to)
				require.NoError(t, err)
				back, err := ConvertTemperature(there, to, from)
				require.NoError(t, err)
				assert.InDelta(t, v, back, 1e-9, "%s -> %s -> %s for %g", from, to, from, v)
			}
		}
	}
}

func TestConvertTemperature_UndefinedPair(t *testing.T) {
	_, err := ConvertTemperature(1, Celsius, Scale(42))
	require.Error(t, err)

	var convErr *InvalidConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, Celsius, convErr.From)
	assert.Equal(t, Scale(42), convErr.To)
	assert.Equal(t, KindInvalidConversion, KindOf(err))
	assert.Equal(t, "invalid temperature conversion celsius -> unknown", err.Error())
}

func TestConvertTemperature_UnknownScaleToItself(t *testing.T) {
	_, err := ConvertTemperature(1, Scale(0), Scale(0))
	assert.Equal(t, KindInvalidConversion, KindOf(err))
}
