package utils

import "strings"

// DeduplicateStrings removes blank entries and repeated values while preserving order.
func DeduplicateStrings(values []string) []string {
	encounteredValues := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if trimmedValue == "" {
			continue
		}
		if _, exists := encounteredValues[trimmedValue]; exists {
			continue
		}
		encounteredValues[trimmedValue] = struct{}{}
		result = append(result, trimmedValue)
	}
	return result
}
