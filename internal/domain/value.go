package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// displayPrinter groups thousands the way the form displayed results: 1,234.5000.
var displayPrinter = message.NewPrinter(language.English)

// ParseValue parses user-entered text as a finite number. Surrounding
// whitespace is ignored. Anything else is an *InvalidInputError.
func ParseValue(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, &InvalidInputError{Input: text, Reason: "value is required"}
	}
	s, ok := normalizeNumber(s)
	if !ok {
		return 0, &InvalidInputError{Input: text, Reason: "not a number"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, &InvalidInputError{Input: text, Reason: "value out of range", Err: err}
		}
		return 0, &InvalidInputError{Input: text, Reason: "not a number", Err: err}
	}
	if !isFinite(v) {
		return 0, &InvalidInputError{Input: text, Reason: "value must be a finite number"}
	}
	return v, nil
}

// normalizeNumber restricts input to decimal literals. Hex floats are rejected
// and underscores are allowed only between two digits ("1_000"), then dropped.
func normalizeNumber(s string) (string, bool) {
	if strings.ContainsAny(s, "xX") {
		return "", false
	}
	if !strings.Contains(s, "_") {
		return s, true
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return strings.ReplaceAll(s, "_", ""), true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// FormatValue renders v with four decimals and grouped thousands.
func FormatValue(v float64) string {
	return displayPrinter.Sprintf("%.4f", v)
}

// FormatFactor renders a scale factor the way the reference table writes it:
// integral factors keep a trailing ".0" and very small ones use exponent form.
func FormatFactor(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Calculation returns the formula caption for a completed conversion:
//
//	Calculation: (1.0000 Kilometers (km) * 1000.0) / 1.0 ≈ 1,000.0000 Meters (m)
//
// Only linear conversions between different units have a caption. Temperature
// has no single factor to show, and identity conversions never ran the formula.
func (c *Converter) Calculation(value, result float64, fromUnit, toUnit, category string) (string, bool) {
	if fromUnit == toUnit {
		return "", false
	}
	cat, err := c.table.Category(category)
	if err != nil {
		return "", false
	}
	lc, ok := cat.(*LinearCategory)
	if !ok {
		return "", false
	}
	fromFactor, err := lc.Factor(fromUnit)
	if err != nil {
		return "", false
	}
	toFactor, err := lc.Factor(toUnit)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("Calculation: (%s %s * %s) / %s ≈ %s %s",
		FormatValue(value), fromUnit, FormatFactor(fromFactor), FormatFactor(toFactor),
		FormatValue(result), toUnit,
	), true
}
