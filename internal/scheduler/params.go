package scheduler

import "time"

// Rating is the four-grade review outcome for memory-model items
type Rating int

const (
	RatingAgain Rating = 1 // forgotten
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Valid reports whether the rating is in the accepted 1-4 domain
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Params holds every tuning constant for both scheduling policies so the
// curves can be adjusted without touching the state transitions.
type Params struct {
	// BaseInterval is the geometric seed and reset interval
	BaseInterval time.Duration
	// MaxGeometricInterval caps the doubling interval; 0 disables the cap
	MaxGeometricInterval time.Duration

	// Weights is the FSRS v4 parameter vector:
	// w0-w3 initial stability per grade, w4-w6 difficulty, w7 mean
	// reversion, w8-w10 recall stability growth, w11-w14 post-lapse
	// stability, w15 hard penalty, w16 easy bonus.
	Weights [17]float64
	// TargetRetention is the retrievability threshold the next interval
	// is solved for
	TargetRetention float64
	// Decay and Factor shape the forgetting curve R(t) = (1 + Factor*t/S)^Decay
	Decay  float64
	Factor float64
	// MaxIntervalDays caps the memory-model interval
	MaxIntervalDays float64
}

// DefaultParams returns the published FSRS v4 defaults and a 15 minute
// geometric base interval.
func DefaultParams() Params {
	return Params{
		BaseInterval:         15 * time.Minute,
		MaxGeometricInterval: 0,
		Weights: [17]float64{
			0.4072, 1.1829, 3.1262, 15.4722, 7.2102, 0.5316, 1.0651,
			0.0234, 1.616, 0.1544, 1.0824, 1.9813, 0.0953, 0.2975,
			2.2042, 0.2407, 2.9466,
		},
		TargetRetention: 0.9,
		Decay:           -0.5,
		Factor:          19.0 / 81.0,
		MaxIntervalDays: 365,
	}
}
