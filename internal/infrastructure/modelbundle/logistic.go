package modelbundle

import (
	"context"
	"fmt"
	"math"
	"slices"
)

// LogisticClassifier is a fitted binary logistic regression. The linear score
// is the log-odds of classes[1].
type LogisticClassifier struct {
	classes      [2]int
	coefficients []float64
	intercept    float64
	positive     int
}

// NewLogisticClassifier resolves positiveClass to its index in classes.
func NewLogisticClassifier(classes []int, positiveClass int, coefficients []float64, intercept float64) (*LogisticClassifier, error) {
	if len(classes) != 2 || classes[0] == classes[1] {
		return nil, fmt.Errorf("logistic regression needs two distinct classes, got %v", classes)
	}
	idx := slices.Index(classes, positiveClass)
	if idx < 0 {
		return nil, fmt.Errorf("positive class %d is not one of the model classes %v", positiveClass, classes)
	}
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("logistic regression has no coefficients")
	}
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("intercept is not finite")
	}

	return &LogisticClassifier{
		classes:      [2]int{classes[0], classes[1]},
		coefficients: clone(coefficients),
		intercept:    intercept,
		positive:     idx,
	}, nil
}

// PredictProba returns probabilities ordered like the model's classes.
func (c *LogisticClassifier) PredictProba(ctx context.Context, x []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(x) != len(c.coefficients) {
		return nil, widthError("logistic regression", len(c.coefficients), len(x))
	}

	z := c.intercept
	for i, v := range x {
		z += c.coefficients[i] * v
	}
	p1 := sigmoid(z)

	return []float64{1 - p1, p1}, nil
}

func (c *LogisticClassifier) PositiveClassIndex() int { return c.positive }

// Classes returns the class labels in probability order.
func (c *LogisticClassifier) Classes() []int { return []int{c.classes[0], c.classes[1]} }

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
