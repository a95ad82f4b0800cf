package domain

import "math"

// ConvertLinear converts value between two units of a linear category given
// their scale factors. toFactor comes from the unit table and is never zero.
func ConvertLinear(value, fromFactor, toFactor float64) float64 {
	return value * fromFactor / toFactor
}

// Converter dispatches conversion requests against a unit table.
type Converter struct {
	table *UnitTable
}

// NewConverter creates a Converter over table. A nil table selects DefaultTable.
func NewConverter(table *UnitTable) *Converter {
	if table == nil {
		table = DefaultTable()
	}
	return &Converter{table: table}
}

// Table returns the unit table the converter reads from.
func (c *Converter) Table() *UnitTable { return c.table }

// Convert converts value from fromUnit to toUnit within category.
//
// Unknown categories or units yield a *ConfigError and a non-finite value an
// *InvalidInputError. When fromUnit equals toUnit the value is returned as is,
// without any arithmetic.
func (c *Converter) Convert(value float64, fromUnit, toUnit, category string) (float64, error) {
	if !isFinite(value) {
		return 0, &InvalidInputError{Reason: "value must be a finite number"}
	}

	cat, err := c.table.Category(category)
	if err != nil {
		return 0, err
	}
	for _, unit := range []string{fromUnit, toUnit} {
		if !cat.Has(unit) {
			return 0, &ConfigError{Category: category, Unit: unit, Reason: "unknown unit"}
		}
	}

	if fromUnit == toUnit {
		return value, nil
	}

	switch cat := cat.(type) {
	case *TemperatureCategory:
		from, _ := cat.Scale(fromUnit)
		to, _ := cat.Scale(toUnit)
		result, err := ConvertTemperature(value, from, to)
		if err != nil {
			return 0, err
		}
		return checkRange(result)
	case *LinearCategory:
		fromFactor, _ := cat.Factor(fromUnit)
		toFactor, _ := cat.Factor(toUnit)
		return checkRange(ConvertLinear(value, fromFactor, toFactor))
	default:
		return 0, &ConfigError{Category: category, Reason: "unsupported category kind"}
	}
}

// checkRange rejects results that overflowed float64 so every returned value
// stays encodable.
func checkRange(result float64) (float64, error) {
	if !isFinite(result) {
		return 0, &InvalidInputError{Reason: "value out of range"}
	}
	return result, nil
}

var defaultConverter = NewConverter(nil)

// Convert converts value using the reference unit table.
func Convert(value float64, fromUnit, toUnit, category string) (float64, error) {
	return defaultConverter.Convert(value, fromUnit, toUnit, category)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
