package domain

import "sync"

// TemperatureCategoryName is the only category dispatched to the temperature formulas.
const TemperatureCategoryName = "Temperature"

// CategoryKind distinguishes linear categories from temperature.
type CategoryKind string

const (
	CategoryLinear      CategoryKind = "linear"
	CategoryTemperature CategoryKind = "temperature"
)

// Category is a closed set of mutually convertible units. It is implemented
// only by *LinearCategory and *TemperatureCategory.
type Category interface {
	Name() string
	Kind() CategoryKind
	// Units returns the unit labels in display order.
	Units() []string
	Has(unit string) bool

	sealed()
}

// LinearUnit is a unit defined by how many base units make up one of it.
type LinearUnit struct {
	Label  string
	Factor float64
}

// LinearCategory holds units related by scale factors.
type LinearCategory struct {
	name    string
	units   []LinearUnit
	factors map[string]float64
}

// NewLinearCategory builds a linear category with units in display order.
func NewLinearCategory(name string, units ...LinearUnit) *LinearCategory {
	c := &LinearCategory{
		name:    name,
		units:   units,
		factors: make(map[string]float64, len(units)),
	}
	for _, u := range units {
		c.factors[u.Label] = u.Factor
	}
	return c
}

func (c *LinearCategory) Name() string       { return c.name }
func (c *LinearCategory) Kind() CategoryKind { return CategoryLinear }
func (c *LinearCategory) sealed()            {}

func (c *LinearCategory) Units() []string {
	labels := make([]string, len(c.units))
	for i, u := range c.units {
		labels[i] = u.Label
	}
	return labels
}

// Entries returns the units with their factors in display order.
func (c *LinearCategory) Entries() []LinearUnit {
	out := make([]LinearUnit, len(c.units))
	copy(out, c.units)
	return out
}

func (c *LinearCategory) Has(unit string) bool {
	_, ok := c.factors[unit]
	return ok
}

// Factor returns the scale factor of unit.
func (c *LinearCategory) Factor(unit string) (float64, error) {
	f, ok := c.factors[unit]
	if !ok {
		return 0, &ConfigError{Category: c.name, Unit: unit, Reason: "unknown unit"}
	}
	return f, nil
}

// TemperatureUnit pairs a display label with its scale.
type TemperatureUnit struct {
	Label string
	Scale Scale
}

// TemperatureCategory holds units converted by piecewise formulas.
type TemperatureCategory struct {
	name   string
	units  []TemperatureUnit
	scales map[string]Scale
}

// NewTemperatureCategory builds a temperature category with units in display order.
func NewTemperatureCategory(name string, units ...TemperatureUnit) *TemperatureCategory {
	c := &TemperatureCategory{
		name:   name,
		units:  units,
		scales: make(map[string]Scale, len(units)),
	}
	for _, u := range units {
		c.scales[u.Label] = u.Scale
	}
	return c
}

func (c *TemperatureCategory) Name() string       { return c.name }
func (c *TemperatureCategory) Kind() CategoryKind { return CategoryTemperature }
func (c *TemperatureCategory) sealed()            {}

func (c *TemperatureCategory) Units() []string {
	labels := make([]string, len(c.units))
	for i, u := range c.units {
		labels[i] = u.Label
	}
	return labels
}

// Entries returns the units with their scales in display order.
func (c *TemperatureCategory) Entries() []TemperatureUnit {
	out := make([]TemperatureUnit, len(c.units))
	copy(out, c.units)
	return out
}

func (c *TemperatureCategory) Has(unit string) bool {
	_, ok := c.scales[unit]
	return ok
}

// Scale returns the scale tag of unit.
func (c *TemperatureCategory) Scale(unit string) (Scale, error) {
	s, ok := c.scales[unit]
	if !ok {
		return 0, &ConfigError{Category: c.name, Unit: unit, Reason: "unknown unit"}
	}
	return s, nil
}

// UnitTable maps category names to categories. It is read-only after
// construction and safe for concurrent use.
type UnitTable struct {
	order      []string
	categories map[string]Category
}

// NewUnitTable builds a table from categories, keeping their order.
// A later category with a duplicate name replaces the earlier one.
func NewUnitTable(categories ...Category) *UnitTable {
	t := &UnitTable{categories: make(map[string]Category, len(categories))}
	for _, c := range categories {
		if _, dup := t.categories[c.Name()]; !dup {
			t.order = append(t.order, c.Name())
		}
		t.categories[c.Name()] = c
	}
	return t
}

// Categories returns category names in display order.
func (t *UnitTable) Categories() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Category returns the named category.
func (t *UnitTable) Category(name string) (Category, error) {
	c, ok := t.categories[name]
	if !ok {
		return nil, &ConfigError{Category: name, Reason: "unknown category"}
	}
	return c, nil
}

// Lookup returns the unit labels of a category in display order.
func (t *UnitTable) Lookup(category string) ([]string, error) {
	c, err := t.Category(category)
	if err != nil {
		return nil, err
	}
	return c.Units(), nil
}

// FactorOf returns the scale factor of a unit in a linear category.
func (t *UnitTable) FactorOf(category, unit string) (float64, error) {
	c, err := t.Category(category)
	if err != nil {
		return 0, err
	}
	lc, ok := c.(*LinearCategory)
	if !ok {
		return 0, &ConfigError{Category: category, Unit: unit, Reason: "category has no scale factors"}
	}
	return lc.Factor(unit)
}

// DefaultTable returns the process-wide reference unit table.
var DefaultTable = sync.OnceValue(func() *UnitTable {
	return NewUnitTable(
		NewLinearCategory("Length",
			LinearUnit{"Meters (m)", 1.0},
			LinearUnit{"Kilometers (km)", 1000.0},
			LinearUnit{"Centimeters (cm)", 0.01},
			LinearUnit{"Millimeters (mm)", 0.001},
			LinearUnit{"Miles (mi)", 1609.34},
			LinearUnit{"Yards (yd)", 0.9144},
			LinearUnit{"Feet (ft)", 0.3048},
			LinearUnit{"Inches (in)", 0.0254},
		),
		NewLinearCategory("Mass",
			LinearUnit{"Kilograms (kg)", 1.0},
			LinearUnit{"Grams (g)", 0.001},
			LinearUnit{"Milligrams (mg)", 1e-6},
			LinearUnit{"Metric Tonnes (t)", 1000.0},
			LinearUnit{"Pounds (lb)", 0.453592},
			LinearUnit{"Ounces (oz)", 0.0283495},
		),
		NewTemperatureCategory(TemperatureCategoryName,
			TemperatureUnit{"Celsius (°C)", Celsius},
			TemperatureUnit{"Fahrenheit (°F)", Fahrenheit},
			TemperatureUnit{"Kelvin (K)", Kelvin},
		),
		NewLinearCategory("Time",
			LinearUnit{"Seconds (s)", 1.0},
			LinearUnit{"Minutes (min)", 60.0},
			LinearUnit{"Hours (hr)", 3600.0},
			LinearUnit{"Days (d)", 86400.0},
			LinearUnit{"Weeks (wk)", 604800.0},
		),
		NewLinearCategory("Area",
			LinearUnit{"Square Meters (m²)", 1.0},
			LinearUnit{"Square Kilometers (km²)", 1e6},
			LinearUnit{"Square Miles (mi²)", 2.59e6},
			LinearUnit{"Acres (ac)", 4046.86},
			LinearUnit{"Hectares (ha)", 10000.0},
			LinearUnit{"Square Feet (ft²)", 0.092903},
			LinearUnit{"Square Inches (in²)", 0.00064516},
		),
		NewLinearCategory("Volume",
			LinearUnit{"Cubic Meters (m³)", 1.0},
			LinearUnit{"Liters (L)", 0.001},
			LinearUnit{"Milliliters (mL)", 1e-6},
			LinearUnit{"Gallons (US gal)", 0.00378541},
			LinearUnit{"Quarts (US qt)", 0.000946353},
			LinearUnit{"Pints (US pt)", 0.000473176},
			LinearUnit{"Cups (US cup)", 0.000236588},
			LinearUnit{"Fluid Ounces (US fl oz)", 2.95735e-5},
			LinearUnit{"Cubic Feet (ft³)", 0.0283168},
			LinearUnit{"Cubic Inches (in³)", 1.63871e-5},
		),
		NewLinearCategory("Speed",
			LinearUnit{"Meters per second (m/s)", 1.0},
			LinearUnit{"Kilometers per hour (km/h)", 0.277778},
			LinearUnit{"Miles per hour (mph)", 0.44704},
			LinearUnit{"Feet per second (ft/s)", 0.3048},
			LinearUnit{"Knots (kn)", 0.514444},
		),
	)
})
