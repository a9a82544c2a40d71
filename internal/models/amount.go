package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyStripper removes currency symbols and whitespace (including
// non-breaking spaces, which spreadsheet exports are fond of).
var currencyStripper = strings.NewReplacer(
	"€", "", "$", "", "£", "",
	" ", "", " ", "", "\t", "",
)

// ParseAmount parses a human-entered amount into a decimal, disambiguating
// European and American separator conventions:
//
//   - both "," and "." present: whichever appears last is the decimal
//     separator, the other is a thousands separator and is removed.
//   - only "," present: a comma followed by 1-2 digits is a decimal
//     separator ("1500,5"); otherwise it is a thousands separator ("1,500").
//   - only "." present: plain decimal notation.
//
// Unparseable or empty input yields zero. Sign is preserved; callers decide
// whether to trust it.
func ParseAmount(value string) decimal.Decimal {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero
	}

	cleaned := currencyStripper.Replace(s)

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// European: 1.500,00
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			// American: 1,500.00
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		last := strings.LastIndex(cleaned, ",")
		afterComma := cleaned[last+1:]
		if len(afterComma) == 1 || len(afterComma) == 2 {
			// European decimal: 1500,5 or 1500,50
			cleaned = strings.ReplaceAll(cleaned[:last], ",", "") + "." + afterComma
		} else {
			// American thousands: 1,500
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
