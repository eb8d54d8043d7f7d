// Package model provides the loan-approval classifier behind the serving
// pipeline. The pipeline depends only on the Provider contract; where the
// coefficients come from (the in-process synthetic fit, or a loaded
// artifact) is opaque to it.
package model

// Provider scores a fixed-shape feature vector
// (age, income, credit score, loan amount).
type Provider interface {
	// Predict returns the class label, 0 (denied) or 1 (approved).
	Predict(features [4]float64) int
	// PredictProba returns [P(denied), P(approved)]; the two values are
	// non-negative and sum to 1, and Predict returns their argmax.
	PredictProba(features [4]float64) [2]float64
}
