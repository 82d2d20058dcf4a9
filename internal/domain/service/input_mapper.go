package service

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/kushwaha-yash/loan-risk/internal/domain/model"
)

// InputMapper turns loosely typed questionnaire answers into a FeatureVector.
type InputMapper struct {
	logger *slog.Logger
}

// NewInputMapper creates an InputMapper.
func NewInputMapper(logger *slog.Logger) *InputMapper {
	return &InputMapper{logger: logger}
}

// Prepare pulls every schema feature out of raw, in schema order.
//
// It fails on the first missing feature with *MissingFeatureError and on the
// first value that is not a finite number with *InvalidFeatureValueError.
// Keys in raw that the schema does not name are ignored.
func (m *InputMapper) Prepare(raw map[string]any, schema *model.FeatureSchema) (model.FeatureVector, error) {
	values := make([]float64, schema.Len())
	for i := range values {
		name := schema.Name(i)
		v, ok := raw[name]
		if !ok {
			return model.FeatureVector{}, &MissingFeatureError{Feature: name}
		}
		f, ok := toFloat(v)
		if !ok {
			return model.FeatureVector{}, &InvalidFeatureValueError{Feature: name, Value: v}
		}
		values[i] = f
	}

	vector, err := model.NewFeatureVector(schema, values)
	if err != nil {
		return model.FeatureVector{}, err
	}

	m.logger.Debug("prepared model input", slog.Any("features", vector.Named()))

	return vector, nil
}

// toFloat accepts numbers, numeric strings, json.Number and booleans.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case json.Number:
		parsed, ok := parseDecimal(string(n))
		if !ok {
			return 0, false
		}
		f = parsed
	case string:
		parsed, ok := parseDecimal(strings.TrimSpace(n))
		if !ok {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseDecimal accepts plain decimal literals with an optional exponent.
// Hex floats and digit separators, which strconv also parses, are refused.
func parseDecimal(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
