package mods

import (
	"errors"
	"slices"
	"strings"
)

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// sortNames deduplicates and sorts display names case-insensitively.
func sortNames(names []string) []string {
	slices.SortFunc(names, func(a, b string) int {
		if n := strings.Compare(strings.ToLower(a), strings.ToLower(b)); n != 0 {
			return n
		}
		return strings.Compare(a, b)
	})
	return slices.Compact(names)
}
