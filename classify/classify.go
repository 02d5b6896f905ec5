// Package classify infers the data type of raw cell content.
//
// Classification is purely lexical: no locale data, no calendar math, just
// pattern recognition over the trimmed string. Types are checked in a fixed
// priority order so that content matching several families resolves the same
// way every time: empty, then number, then date, then boolean, with text as
// the fallback.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/tablesense/model"
)

// Config holds configuration for the classifier.
type Config struct {
	// NumericBooleans treats bare "0" and "1" as booleans rather than
	// numbers. Enabled by default; flag data stored as 0/1 columns is far
	// more common in extracted tables than single-digit measurements.
	NumericBooleans bool
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{
		NumericBooleans: true,
	}
}

// Classifier detects cell data types.
type Classifier struct {
	config Config
}

// New creates a classifier with default configuration.
func New() *Classifier {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a classifier with custom configuration.
func NewWithConfig(config Config) *Classifier {
	return &Classifier{config: config}
}

// Detect returns the data type of the given cell content.
func (c *Classifier) Detect(content string) model.DataType {
	trimmed := strings.TrimSpace(content)

	if trimmed == "" {
		return model.TypeEmpty
	}

	// Bare 0/1 would otherwise parse as numbers, so they are decided
	// before the numeric checks.
	if c.config.NumericBooleans && (trimmed == "0" || trimmed == "1") {
		return model.TypeBoolean
	}

	if isNumeric(trimmed) {
		return model.TypeNumber
	}

	if isDate(trimmed) {
		return model.TypeDate
	}

	if isBoolean(trimmed) {
		return model.TypeBoolean
	}

	return model.TypeText
}

// isNumeric reports whether text is a number in any recognized shape:
// a plain float, currency, a percentage, or a comma-grouped number.
// Scientific notation parses directly as a float.
func isNumeric(text string) bool {
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return true
	}
	if isCurrency(text) {
		return true
	}
	if isPercentage(text) {
		return true
	}
	return isFormattedNumber(text)
}

// currencySymbols are matched as prefixes or suffixes of a numeric token.
var currencySymbols = []string{"$", "€", "¥", "£", "₹", "₽", "₩", "₪", "₦", "₡"}

// currencyCodes are matched as a separate word next to a numeric token.
var currencyCodes = []string{"USD", "EUR", "GBP", "JPY", "CNY", "INR", "RUB", "KRW"}

func isCurrency(text string) bool {
	for _, symbol := range currencySymbols {
		if strings.HasPrefix(text, symbol) || strings.HasSuffix(text, symbol) {
			numberPart := strings.TrimRight(strings.TrimLeft(text, symbol), symbol)
			numberPart = strings.ReplaceAll(numberPart, ",", "")
			if _, err := strconv.ParseFloat(numberPart, 64); err == nil {
				return true
			}
		}
	}

	for _, code := range currencyCodes {
		if !strings.HasPrefix(text, code) && !strings.HasSuffix(text, code) {
			continue
		}
		parts := strings.Fields(text)
		if len(parts) != 2 {
			continue
		}
		if parts[0] == code {
			if _, err := strconv.ParseFloat(parts[1], 64); err == nil {
				return true
			}
		}
		if parts[1] == code {
			if _, err := strconv.ParseFloat(parts[0], 64); err == nil {
				return true
			}
		}
	}

	return false
}

func isPercentage(text string) bool {
	if !strings.HasSuffix(text, "%") {
		return false
	}
	numberPart := strings.TrimRight(text, "%")
	_, err := strconv.ParseFloat(numberPart, 64)
	return err == nil
}

// formattedNumberPattern requires strict three-digit grouping, so "1,234"
// is a number but "12,34" is not.
var formattedNumberPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

func isFormattedNumber(text string) bool {
	return formattedNumberPattern.MatchString(text)
}

// isBoolean reports whether text is a boolean-like token. Matching is
// case-insensitive and covers checkbox glyphs and a few common
// non-English vocabularies.
func isBoolean(text string) bool {
	switch strings.ToLower(text) {
	case "true", "false", "yes", "no":
		return true
	case "✓", "✗", "☑", "☐", "x", "o":
		return true
	case "是", "否", "有", "無", "oui", "non", "да", "нет":
		return true
	}
	return false
}
