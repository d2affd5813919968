package detect

import "github.com/just-josh-inc/extguard/pkg/catalog"

// Filter returns the display names that are both detected and unwanted,
// ordered by catalog position regardless of the order of the unwanted
// list. It is a pure function: no probing, no state, and the same inputs
// always produce the same output. Unwanted names that are not in the
// catalog are ignored.
func Filter(cat catalog.Catalog, detected map[string]struct{}, unwanted []string) []string {
	matches := make([]string, 0, len(unwanted))
	if len(detected) == 0 || len(unwanted) == 0 {
		return matches
	}

	unwantedSet := make(map[string]struct{}, len(unwanted))
	for _, name := range unwanted {
		unwantedSet[name] = struct{}{}
	}

	for _, d := range cat {
		if _, ok := detected[d.DisplayName]; !ok {
			continue
		}
		if _, ok := unwantedSet[d.DisplayName]; !ok {
			continue
		}
		matches = append(matches, d.DisplayName)
	}

	return matches
}
