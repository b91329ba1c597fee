package scraper

import (
	"regexp"
	"strconv"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// parsePrice strips every non-digit character from a price label and parses
// the remainder as an integer. Labels without digits (empty cells, dashes,
// "sold out" markers) report ok=false and are skipped by the caller.
func parsePrice(text string) (int, bool) {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0, false
	}

	price, err := strconv.Atoi(digits)
	if err != nil || price == 0 {
		return 0, false
	}
	return price, true
}
