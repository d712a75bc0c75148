// Package metrics holds the pure arithmetic behind the analytics engines.
// Every function is total: empty inputs and zero denominators yield 0.
package metrics

import (
	"math"
	"time"
)

const hoursPerDay = 24

// Ratio returns num/den, or 0 when den is not positive
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	r := num / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ConversionRate is the share of all opportunities that were won, in [0,1]
func ConversionRate(total, won int64) float64 {
	return clampUnit(Ratio(float64(won), float64(total)))
}

// WinRate is the share of closed opportunities that were won, in [0,1]
func WinRate(won, lost int64) float64 {
	return clampUnit(Ratio(float64(won), float64(won+lost)))
}

// AverageDealSize is the mean value of won deals
func AverageDealSize(sumWon float64, countWon int64) float64 {
	return Ratio(sumWon, float64(countWon))
}

// WeightedForecast is the probability-weighted value of a deal.
// Probability is a percentage and is clamped to 0..100.
func WeightedForecast(amount float64, probability int) float64 {
	if probability < 0 {
		probability = 0
	}
	if probability > 100 {
		probability = 100
	}
	return amount * float64(probability) / 100
}

// SalesCycleDays returns the whole days between creation and close.
// The second result is false when there is no close date, so the
// cycle can be left out of averages.
func SalesCycleDays(createdAt time.Time, closeDate *time.Time) (int, bool) {
	if closeDate == nil {
		return 0, false
	}
	return DaysBetween(createdAt, *closeDate), true
}

// DaysBetween returns floor((to-from) in days). Negative spans give
// negative results.
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / hoursPerDay))
}

// Average returns the arithmetic mean of values
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampUnit(v float64) float64 {
	return Clamp(v, 0, 1)
}
