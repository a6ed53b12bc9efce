package main

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCents renders a cent amount as dollars, e.g. 38000 -> "$380.00".
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// parsePrice converts a dollar string like "100" or "99.50" to cents.
func parsePrice(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0, fmt.Errorf("price is required")
	}

	whole, frac, _ := strings.Cut(s, ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	cents := dollars * 100
	if frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q: at most two decimal places", s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		cents += c
	}
	return cents, nil
}

// truncate shortens a string to max runes, appending an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
