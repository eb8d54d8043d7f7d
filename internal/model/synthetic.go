package model

import "math/rand"

// Dataset is a labeled sample set: X[i] is (age, income, credit score,
// loan amount), Y[i] the approval label.
type Dataset struct {
	X [][4]float64
	Y []int
}

// Synthetic generates a deterministic labeled dataset for the given seed.
// Applicants are drawn from the documented plausible ranges (age 18-100,
// credit score 300-850, bounded positive income and loan amount); the label
// follows a noisy linear rule dominated by credit score and the
// income-to-loan relationship, so the fit has real signal to recover.
func Synthetic(n int, seed int64) Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := Dataset{
		X: make([][4]float64, 0, n),
		Y: make([]int, 0, n),
	}
	for i := 0; i < n; i++ {
		age := 18 + rng.Float64()*82
		income := 15000 + rng.Float64()*135000
		credit := 300 + rng.Float64()*550
		loan := 1000 + rng.Float64()*49000

		z := 3.0*(credit-575)/275 +
			1.2*(income-82500)/67500 -
			1.6*(loan-25500)/24500 +
			0.2*(age-59)/41
		z += rng.NormFloat64() * 0.4

		label := 0
		if z > 0 {
			label = 1
		}
		ds.X = append(ds.X, [4]float64{age, income, credit, loan})
		ds.Y = append(ds.Y, label)
	}
	return ds
}
