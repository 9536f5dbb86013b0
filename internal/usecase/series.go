package usecase

import (
	"math"

	"github.com/marvin-fritz/webapi/internal/domain/models"
)

// maxRatio caps buy/sell and breadth ratios so a zero denominator cannot
// produce an unbounded value on the wire.
const maxRatio = 999.99

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// indicatorSeries computes the trailing-window buy percentage for every day
// in the bucket sequence and returns the last n points. A window with no
// counted buys or sells yields exactly 50.0.
func indicatorSeries(buckets []models.DailyBucket, window, n int) []models.IndicatorPoint {
	if len(buckets) == 0 || window <= 0 {
		return nil
	}

	points := make([]models.IndicatorPoint, 0, len(buckets))
	for i := range buckets {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var buys, sells, total int
		for _, b := range buckets[start : i+1] {
			buys += b.Buys
			sells += b.Sells
			total += b.Total
		}

		value := 50.0
		if buys+sells > 0 {
			value = round2(100 * float64(buys) / float64(buys+sells))
		}
		points = append(points, models.IndicatorPoint{
			Date:         buckets[i].Date,
			Value:        value,
			Buys:         buys,
			Sells:        sells,
			Transactions: total,
		})
	}
	return tail(points, n)
}

// barometerSeries computes the deviation of the indicator from its own
// trailing long-window average. Requires at least refPeriod days of
// indicator history; returns an empty series otherwise, which callers must
// treat as "not yet computable".
func barometerSeries(buckets []models.DailyBucket, window, refPeriod, n int) []models.BarometerPoint {
	full := indicatorSeries(buckets, window, len(buckets))
	if len(full) < refPeriod {
		return nil
	}

	points := make([]models.BarometerPoint, len(full))
	raw := make([]float64, len(full))
	maxDeviation := 0.0
	for i, p := range full {
		start := i - refPeriod
		if start < 0 {
			start = 0
		}
		avg := 50.0
		if i > 0 {
			sum := 0.0
			for _, q := range full[start:i] {
				sum += q.Value
			}
			avg = sum / float64(i-start)
		}
		raw[i] = p.Value - avg
		if math.Abs(raw[i]) > maxDeviation {
			maxDeviation = math.Abs(raw[i])
		}
		points[i] = models.BarometerPoint{
			Date:             p.Date,
			Value:            round2(raw[i]),
			CurrentIndicator: p.Value,
			Average12M:       round2(avg),
		}
	}

	if maxDeviation > 0 {
		for i := range points {
			points[i].Normalized = round2(100 * raw[i] / maxDeviation)
		}
	}
	return tail(points, n)
}

// activitySeries computes the trailing average daily transaction count with
// a long-window baseline deviation and a series-max normalization.
func activitySeries(buckets []models.DailyBucket, window, refPeriod, n int) []models.ActivityPoint {
	if len(buckets) == 0 || window <= 0 {
		return nil
	}

	points := make([]models.ActivityPoint, 0, len(buckets))
	maxValue := 0.0
	for i := range buckets {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		total := 0
		for _, b := range buckets[start : i+1] {
			total += b.Total
		}
		days := i + 1 - start
		value := round2(float64(total) / float64(days))
		if value > maxValue {
			maxValue = value
		}
		points = append(points, models.ActivityPoint{
			Date:              buckets[i].Date,
			Value:             value,
			TotalTransactions: total,
			WindowDays:        days,
		})
	}

	if len(points) >= refPeriod {
		for i := range points {
			start := i - refPeriod
			if start < 0 {
				start = 0
			}
			avg := points[i].Value
			if i > 0 {
				sum := 0.0
				for _, q := range points[start:i] {
					sum += q.Value
				}
				avg = sum / float64(i-start)
			}
			points[i].Average12M = round2(avg)
			if avg > 0 {
				points[i].DeviationPercent = round2(100 * (points[i].Value - avg) / avg)
			}
		}
	}

	if maxValue > 0 {
		for i := range points {
			points[i].Normalized = round2(100 * points[i].Value / maxValue)
		}
	}
	return tail(points, n)
}

func tail[T any](points []T, n int) []T {
	if n <= 0 || n >= len(points) {
		return points
	}
	return points[len(points)-n:]
}

// Interpretation buckets for the current-values snapshot.

func interpretIndicator(value float64) string {
	switch {
	case value >= 60:
		return "bullish"
	case value >= 45:
		return "slightly_bullish"
	case value >= 40:
		return "neutral"
	case value >= 30:
		return "slightly_bearish"
	default:
		return "bearish"
	}
}

func interpretBarometer(normalized float64) string {
	switch {
	case normalized >= 50:
		return "strong_bullish"
	case normalized >= 20:
		return "bullish"
	case normalized >= -20:
		return "neutral"
	case normalized >= -50:
		return "bearish"
	default:
		return "strong_bearish"
	}
}

func interpretActivity(deviationPercent float64) string {
	switch {
	case deviationPercent >= 50:
		return "very_high"
	case deviationPercent >= 20:
		return "high"
	case deviationPercent >= -20:
		return "normal"
	default:
		return "low"
	}
}
