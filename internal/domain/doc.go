// Package domain holds the unit conversion engine and the records callers
// build around it.
//
// # Unit Table
//
// Seven categories ship with the service: Length, Mass, Temperature, Time,
// Area, Volume and Speed. Every category except Temperature is linear: each
// unit carries a scale factor meaning "1 unit = factor base-units", and the
// base unit of the category has factor 1.0:
//
//	Length: Meters (m)            Mass:   Kilograms (kg)
//	Time:   Seconds (s)           Area:   Square Meters (m²)
//	Volume: Cubic Meters (m³)     Speed:  Meters per second (m/s)
//
// The factors are reference constants, not derived values. 1 mile is
// 1609.34 m rather than the statute 1609.344 m, and 1 km/h is 0.277778 m/s.
// Results must agree with these constants exactly, so they are never
// "corrected".
//
// # Linear Conversion
//
// Converting A to B goes through the implicit base unit:
//
//	result = value * factor(A) / factor(B)
//
// # Temperature
//
// Temperature is affine, so it has no factors. Its units carry a [Scale] tag
// and dispatch to one of six directional formulas:
//
//	C → F   v·9/5 + 32         F → C   (v−32)·5/9
//	C → K   v + 273.15         K → C   v − 273.15
//	F → K   via Celsius        K → F   via Celsius
//
// # Dispatch
//
// [Convert] validates the value and both unit labels, returns the value
// untouched when source and target are the same unit, and otherwise routes
// by category kind. The engine never rounds, logs or mutates shared state;
// display rounding (4 decimals, grouped thousands) lives in [FormatValue].
//
// # Errors
//
// Failures are one of three kinds, see [ErrorKind]:
//
//	InvalidInputError       value unparsable or not finite (user error)
//	ConfigError             category or unit missing from the table (caller bug)
//	InvalidConversionError  temperature pair with no formula (unreachable safety net)
package domain
