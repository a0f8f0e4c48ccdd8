// Package collection holds the fixed, ordered set of document collections
// that participate in backup and restore. The set is deploy-time
// configuration: backup always scans it in order, which keeps artifact
// output deterministic. Restore deliberately does not consult it and follows
// the artifact's own keys instead.
package collection

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultNames is the platform's collection set.
var defaultNames = []string{
	"trips",
	"hotels",
	"users",
	"bookings",
	"reviews",
	"categories",
	"ratings",
}

// Set is an ordered, immutable list of collection names.
type Set struct {
	names []string
}

// DefaultSet returns the built-in collection set.
func DefaultSet() *Set {
	return &Set{names: defaultNames}
}

// LoadFile reads a collection set from a YAML file of the form:
//
//	collections:
//	  - trips
//	  - hotels
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collections file: %w", err)
	}
	var doc struct {
		Collections []string `yaml:"collections"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse collections file %s: %w", path, err)
	}
	if len(doc.Collections) == 0 {
		return nil, fmt.Errorf("collections file %s lists no collections", path)
	}
	return &Set{names: doc.Collections}, nil
}

// Load returns the set from path when non-empty, the default set otherwise.
func Load(path string) (*Set, error) {
	if path == "" {
		return DefaultSet(), nil
	}
	return LoadFile(path)
}

// Names returns the collection names in their fixed order. The returned
// slice is a copy.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of collections in the set.
func (s *Set) Len() int {
	return len(s.names)
}
