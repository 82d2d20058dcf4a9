package model

import (
	"fmt"
	"math"
)

// FeatureVector is a dense numeric vector tied to the schema it was built for.
type FeatureVector struct {
	schema *FeatureSchema
	values []float64
}

// NewFeatureVector checks that values match the schema length and are finite.
func NewFeatureVector(schema *FeatureSchema, values []float64) (FeatureVector, error) {
	if schema == nil {
		return FeatureVector{}, fmt.Errorf("feature vector requires a schema")
	}
	if len(values) != schema.Len() {
		return FeatureVector{}, fmt.Errorf("feature vector has %d values, schema has %d features", len(values), schema.Len())
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureVector{}, fmt.Errorf("feature %q is not finite: %v", schema.Name(i), v)
		}
	}

	cp := make([]float64, len(values))
	copy(cp, values)
	return FeatureVector{schema: schema, values: cp}, nil
}

func (v FeatureVector) Schema() *FeatureSchema { return v.schema }

// Values returns a copy of the vector in schema order.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

func (v FeatureVector) Len() int { return len(v.values) }

// Named returns the vector as name/value pairs in schema order.
func (v FeatureVector) Named() []FeatureValue {
	out := make([]FeatureValue, len(v.values))
	for i, val := range v.values {
		out[i] = FeatureValue{Name: v.schema.Name(i), Value: val}
	}
	return out
}

// FeatureValue is one named element of a FeatureVector.
type FeatureValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
