// Package catalog defines the set of browser extensions extguard knows
// how to probe for. A catalog is an immutable input: it is validated once
// at construction and only ever read afterwards.
package catalog

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Descriptor identifies a single probeable browser extension.
type Descriptor struct {
	// ID is the extension's store identifier (the host part of its
	// chrome-extension:// origin).
	ID string

	// ProbePath is the path of a web-accessible resource the extension
	// is known to expose, relative to its origin.
	ProbePath string

	// DisplayName is the human-readable name. It must be unique within a
	// catalog; callers reference extensions by this name.
	DisplayName string
}

// Catalog is an ordered collection of extension descriptors. Ordering is
// significant: filtered match lists follow catalog order.
type Catalog []Descriptor

// Validate checks the catalog for empty fields and duplicate identities.
func (c Catalog) Validate() error {
	names := make(map[string]struct{}, len(c))
	ids := make(map[string]struct{}, len(c))

	for i, d := range c {
		if d.ID == "" {
			return fmt.Errorf("descriptor %d: extension id cannot be empty", i)
		}
		if d.ProbePath == "" {
			return fmt.Errorf("descriptor %d (%s): probe path cannot be empty", i, d.ID)
		}
		if d.DisplayName == "" {
			return fmt.Errorf("descriptor %d (%s): display name cannot be empty", i, d.ID)
		}
		if _, dup := names[d.DisplayName]; dup {
			return fmt.Errorf("duplicate display name: %s", d.DisplayName)
		}
		if _, dup := ids[d.ID]; dup {
			return fmt.Errorf("duplicate extension id: %s", d.ID)
		}
		names[d.DisplayName] = struct{}{}
		ids[d.ID] = struct{}{}
	}

	return nil
}

// DisplayNames returns all display names in catalog order.
func (c Catalog) DisplayNames() []string {
	names := make([]string, 0, len(c))
	for _, d := range c {
		names = append(names, d.DisplayName)
	}
	return names
}

// Lookup returns the descriptor with the given display name.
func (c Catalog) Lookup(displayName string) (Descriptor, bool) {
	for _, d := range c {
		if d.DisplayName == displayName {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Expand matches glob patterns against catalog display names and returns
// the matching names in catalog order, deduplicated. A literal name is a
// valid pattern and matches itself.
func (c Catalog) Expand(patterns []string) ([]string, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	names := make([]string, 0, len(c))
	seen := make(map[string]struct{}, len(c))
	for _, d := range c {
		for _, g := range globs {
			if !g.Match(d.DisplayName) {
				continue
			}
			if _, dup := seen[d.DisplayName]; !dup {
				seen[d.DisplayName] = struct{}{}
				names = append(names, d.DisplayName)
			}
			break
		}
	}

	return names, nil
}
