package billing

import "strings"

// NormalizePlate uppercases and trims a plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// NormalizeCategory lowercases and trims a vehicle category or rate unit.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
