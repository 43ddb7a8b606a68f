package f1sustain

import "math"

// average returns the mean of the finite values, or 0 when there are none.
func average(values []float64) float64 {
	total := 0.0
	count := 0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// sampleStdDev uses n-1 in the denominator over the finite values, the same
// set average uses. It returns NaN for fewer than two finite values.
func sampleStdDev(values []float64, mean float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		d := v - mean
		sum += d * d
		count++
	}
	if count < 2 {
		return math.NaN()
	}
	return math.Sqrt(sum / float64(count-1))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func floatPtr(v float64) *float64 {
	return &v
}
