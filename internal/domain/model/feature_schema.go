package model

import (
	"fmt"
	"strings"
)

// FeatureSchema is the ordered list of feature names a trained model expects.
// Position i of every FeatureVector built for the schema holds Names()[i].
type FeatureSchema struct {
	names []string
	index map[string]int
}

// NewFeatureSchema copies names and rejects empty or duplicate entries.
func NewFeatureSchema(names []string) (*FeatureSchema, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("feature schema is empty")
	}

	s := &FeatureSchema{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("feature %d has an empty name", i)
		}
		if _, dup := s.index[name]; dup {
			return nil, fmt.Errorf("duplicate feature %q", name)
		}
		s.names[i] = name
		s.index[name] = i
	}
	return s, nil
}

// Names returns a copy of the ordered feature names.
func (s *FeatureSchema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *FeatureSchema) Len() int { return len(s.names) }

// Name returns the feature at position i.
func (s *FeatureSchema) Name(i int) string { return s.names[i] }

// Contains reports whether name is part of the schema.
func (s *FeatureSchema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Equal reports whether both schemas list the same names in the same order.
func (s *FeatureSchema) Equal(other *FeatureSchema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.names) != len(other.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != other.names[i] {
			return false
		}
	}
	return true
}
