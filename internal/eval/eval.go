// Package eval computes model-quality metrics over a labeled holdout. The
// store only persists the scalars it is handed; the computation lives here.
package eval

import "github.com/sanjubaaba/loanserve/internal/model"

// Report holds the standard binary-classification metrics, with the
// approved class (1) as positive.
type Report struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// Measurement is one named scalar ready to persist.
type Measurement struct {
	Name  string
	Value float64
}

// Named returns the report as ModelPerformance row name/value pairs, in a
// stable order.
func (r Report) Named() []Measurement {
	return []Measurement{
		{"Accuracy", r.Accuracy},
		{"Precision", r.Precision},
		{"Recall", r.Recall},
		{"F1", r.F1},
	}
}

// Evaluate scores every sample in ds with p and tallies the confusion
// counts. Metrics with a zero denominator report as 0.
func Evaluate(p model.Provider, ds model.Dataset) Report {
	var tp, tn, fp, fn float64
	for i, x := range ds.X {
		predicted := p.Predict(x)
		switch {
		case predicted == 1 && ds.Y[i] == 1:
			tp++
		case predicted == 0 && ds.Y[i] == 0:
			tn++
		case predicted == 1 && ds.Y[i] == 0:
			fp++
		default:
			fn++
		}
	}

	var r Report
	if total := tp + tn + fp + fn; total > 0 {
		r.Accuracy = (tp + tn) / total
	}
	if tp+fp > 0 {
		r.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		r.Recall = tp / (tp + fn)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	return r
}
