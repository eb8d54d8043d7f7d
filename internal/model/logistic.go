package model

import "math"

// Logistic is a binary logistic-regression classifier over standardized
// features. Immutable once trained; safe for concurrent use.
type Logistic struct {
	weights [4]float64
	bias    float64
	mean    [4]float64
	scale   [4]float64
}

func (l *Logistic) PredictProba(features [4]float64) [2]float64 {
	z := l.bias
	for i, v := range features {
		z += l.weights[i] * (v - l.mean[i]) / l.scale[i]
	}
	p1 := sigmoid(z)
	return [2]float64{1 - p1, p1}
}

func (l *Logistic) Predict(features [4]float64) int {
	p := l.PredictProba(features)
	if p[1] >= p[0] {
		return 1
	}
	return 0
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
