package domain

// Scale identifies a temperature unit independent of its display label.
type Scale int

const (
	Celsius Scale = iota + 1
	Fahrenheit
	Kelvin
)

func (s Scale) String() string {
	switch s {
	case Celsius:
		return "celsius"
	case Fahrenheit:
		return "fahrenheit"
	case Kelvin:
		return "kelvin"
	default:
		return "unknown"
	}
}

const absoluteZeroOffset = 273.15

func celsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }
func fahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }
func celsiusToKelvin(c float64) float64     { return c + absoluteZeroOffset }
func kelvinToCelsius(k float64) float64     { return k - absoluteZeroOffset }
func fahrenheitToKelvin(f float64) float64  { return celsiusToKelvin(fahrenheitToCelsius(f)) }
func kelvinToFahrenheit(k float64) float64  { return celsiusToFahrenheit(kelvinToCelsius(k)) }

type scalePair struct{ from, to Scale }

var temperatureFormulas = map[scalePair]func(float64) float64{
	{Celsius, Fahrenheit}: celsiusToFahrenheit,
	{Fahrenheit, Celsius}: fahrenheitToCelsius,
	{Celsius, Kelvin}:     celsiusToKelvin,
	{Kelvin, Celsius}:     kelvinToCelsius,
	{Fahrenheit, Kelvin}:  fahrenheitToKelvin,
	{Kelvin, Fahrenheit}:  kelvinToFahrenheit,
}

// ConvertTemperature converts v from one scale to another. Converting a
// known scale to itself returns v unchanged; any pair without a formula is an
// *InvalidConversionError.
func ConvertTemperature(v float64, from, to Scale) (float64, error) {
	if from == to && from.valid() {
		return v, nil
	}
	formula, ok := temperatureFormulas[scalePair{from, to}]
	if !ok {
		return 0, &InvalidConversionError{From: from, To: to}
	}
	return formula(v), nil
}

func (s Scale) valid() bool {
	return s == Celsius || s == Fahrenheit || s == Kelvin
}
