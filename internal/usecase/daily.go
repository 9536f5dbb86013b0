package usecase

import (
	"sort"
	"time"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	"github.com/marvin-fritz/webapi/pkg/util"
)

// buildDailyBuckets reduces raw transactions to one bucket per calendar day
// (UTC) between from and to inclusive, with zero-filled gaps. Same-person
// same-stock same-day filings collapse to a single record so duplicate
// filings cannot double-count; records are ordered by transaction date then
// UID first, so "first seen" is deterministic.
func buildDailyBuckets(trades []*models.Transaction, from, to time.Time) []models.DailyBucket {
	from = util.Day(from)
	to = util.Day(to)
	if to.Before(from) {
		return nil
	}

	sorted := make([]*models.Transaction, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].TransactionDate.Equal(sorted[j].TransactionDate) {
			return sorted[i].TransactionDate.Before(sorted[j].TransactionDate)
		}
		return sorted[i].UID < sorted[j].UID
	})

	type dayKey struct {
		day     time.Time
		insider string
		isin    string
	}
	seen := make(map[dayKey]struct{}, len(sorted))
	byDay := make(map[time.Time]*models.DailyBucket)

	for _, t := range sorted {
		day := util.Day(t.TransactionDate)
		if day.Before(from) || day.After(to) {
			continue
		}
		k := dayKey{day: day, insider: t.InsiderName, isin: t.ISIN}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		b := byDay[day]
		if b == nil {
			b = &models.DailyBucket{Date: day}
			byDay[day] = b
		}
		b.Total++
		if models.CountsTowardSentiment(t.TransactionMethod) {
			switch {
			case t.IsBuy():
				b.Buys++
			case t.IsSell():
				b.Sells++
			}
		}
	}

	days := util.DaysBetween(from, to)
	buckets := make([]models.DailyBucket, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if b, ok := byDay[d]; ok {
			buckets = append(buckets, *b)
		} else {
			buckets = append(buckets, models.DailyBucket{Date: d})
		}
	}
	return buckets
}
