package model

import (
	"errors"
	"math"
)

const (
	trainEpochs       = 300
	trainLearningRate = 0.5
)

// Train fits a logistic regression to ds with full-batch gradient descent on
// standardized features. Deterministic for a given dataset.
func Train(ds Dataset, epochs int, learningRate float64) (*Logistic, error) {
	n := len(ds.X)
	if n == 0 {
		return nil, errors.New("train: empty dataset")
	}
	if n != len(ds.Y) {
		return nil, errors.New("train: feature/label length mismatch")
	}

	l := &Logistic{}
	for i := range l.mean {
		var sum float64
		for _, x := range ds.X {
			sum += x[i]
		}
		l.mean[i] = sum / float64(n)

		var varSum float64
		for _, x := range ds.X {
			d := x[i] - l.mean[i]
			varSum += d * d
		}
		l.scale[i] = math.Sqrt(varSum / float64(n))
		if l.scale[i] == 0 {
			l.scale[i] = 1
		}
	}

	std := make([][4]float64, n)
	for j, x := range ds.X {
		for i := range x {
			std[j][i] = (x[i] - l.mean[i]) / l.scale[i]
		}
	}

	for epoch := 0; epoch < epochs; epoch++ {
		var gradW [4]float64
		var gradB float64
		for j, x := range std {
			z := l.bias
			for i, v := range x {
				z += l.weights[i] * v
			}
			residual := sigmoid(z) - float64(ds.Y[j])
			for i, v := range x {
				gradW[i] += residual * v
			}
			gradB += residual
		}
		for i := range l.weights {
			l.weights[i] -= learningRate * gradW[i] / float64(n)
		}
		l.bias -= learningRate * gradB / float64(n)
	}
	return l, nil
}

// TrainSynthetic fits the default provider: a logistic regression over a
// deterministic synthetic dataset. Called once per process; the returned
// model is reused for every request.
func TrainSynthetic(samples int, seed int64) (*Logistic, error) {
	return Train(Synthetic(samples, seed), trainEpochs, trainLearningRate)
}
