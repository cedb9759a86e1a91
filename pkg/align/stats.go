package align

import "math"

// Correlation is Pearson's r over two equal-length sequences. It returns 0
// for mismatched lengths, fewer than two points, or a zero-variance input.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 || constant(x) || constant(y) {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	nf := float64(n)
	numerator := nf*sumXY - sumX*sumY
	denominator := math.Sqrt((nf*sumX2 - sumX*sumX) * (nf*sumY2 - sumY*sumY))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}
	return numerator / denominator
}

// constant reports whether every value equals the first. The sum formula
// does not cancel exactly for such inputs.
func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Stats summarizes one column
type Stats struct {
	Count int
	Sum   float64
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Describe computes count, sum, mean, sample standard deviation, min and max.
// Std is 0 with fewer than two values.
func Describe(values []float64) Stats {
	s := Stats{Count: len(values)}
	if s.Count == 0 {
		return s
	}

	s.Min, s.Max = values[0], values[0]
	for _, v := range values {
		s.Sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = s.Sum / float64(s.Count)

	if s.Count > 1 {
		var sq float64
		for _, v := range values {
			d := v - s.Mean
			sq += d * d
		}
		s.Std = math.Sqrt(sq / float64(s.Count-1))
	}
	return s
}

// Strength labels the magnitude of a correlation coefficient
func Strength(r float64) string {
	switch a := math.Abs(r); {
	case a > 0.7:
		return "Strong"
	case a > 0.4:
		return "Moderate"
	default:
		return "Weak"
	}
}

// Direction labels the sign of a correlation coefficient
func Direction(r float64) string {
	if r > 0 {
		return "positive"
	}
	return "negative"
}
