package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	"github.com/marvin-fritz/webapi/pkg/config"
	"github.com/marvin-fritz/webapi/pkg/logger"
	"github.com/marvin-fritz/webapi/pkg/util"
)

// Fixed lookback windows compared by the trends endpoint, in days.
var trendWindows = []int{7, 28, 90, 365}

// SentimentUseCase computes rolling insider-sentiment indicators from the
// raw trade history. Every call recomputes; nothing is persisted.
type SentimentUseCase struct {
	store   domrepo.TradeStore
	metrics domrepo.Metrics
	log     *logger.Logger
	cfg     config.Analytics
	now     func() time.Time
}

func NewSentimentUseCase(store domrepo.TradeStore, metrics domrepo.Metrics, log *logger.Logger, cfg config.Analytics) *SentimentUseCase {
	return &SentimentUseCase{
		store:   store,
		metrics: metrics,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// CalculateSentiment returns the three indicator series, the current
// snapshot and market statistics for the requested number of days.
func (uc *SentimentUseCase) CalculateSentiment(ctx context.Context, days int, jurisdiction string) *models.SentimentResponse {
	w := uc.cfg.IndicatorWindowDays
	r := uc.cfg.ReferencePeriodDays
	if days > uc.cfg.MaxHistoryDays {
		days = uc.cfg.MaxHistoryDays
	}

	// The lookback extends past the requested range so even the oldest
	// returned point has a full indicator window and reference period
	// behind it.
	buckets := uc.fetchBuckets(ctx, days+w+r, jurisdiction)

	resp := &models.SentimentResponse{
		Meta: models.SentimentMeta{
			GeneratedAt:  uc.now().UTC(),
			Days:         days,
			WindowDays:   w,
			Jurisdiction: jurisdiction,
		},
		Current:   uc.currentValues(buckets),
		Indicator: indicatorSeries(buckets, w, days),
		Barometer: barometerSeries(buckets, w, r, days),
		Activity:  activitySeries(buckets, w, r, days),
		Stats:     marketStats(tail(buckets, days)),
	}
	resp.Meta.DataPoints = len(resp.Indicator)
	return resp
}

// CurrentSentiment returns only the latest readings with interpretations.
func (uc *SentimentUseCase) CurrentSentiment(ctx context.Context, jurisdiction string) *models.CurrentSentimentResponse {
	w := uc.cfg.IndicatorWindowDays
	buckets := uc.fetchBuckets(ctx, w+uc.cfg.ReferencePeriodDays, jurisdiction)

	return &models.CurrentSentimentResponse{
		Meta: models.SentimentMeta{
			GeneratedAt:  uc.now().UTC(),
			Days:         w,
			WindowDays:   w,
			Jurisdiction: jurisdiction,
			DataPoints:   len(buckets),
		},
		Current: uc.currentValues(buckets),
	}
}

// CalculateTrends compares short-aggregation indicator averages across the
// fixed lookback windows and derives momentum between adjacent windows.
// The four window computations run concurrently; each makes its own fetch.
func (uc *SentimentUseCase) CalculateTrends(ctx context.Context, jurisdiction string) *models.TrendsResponse {
	w := uc.cfg.IndicatorWindowDays
	short := uc.cfg.ShortTermWindow

	type result struct {
		days   int
		window models.TrendWindow
	}
	ch := make(chan result, len(trendWindows))
	var wg sync.WaitGroup

	for _, days := range trendWindows {
		wg.Add(1)
		go func(days int) {
			defer wg.Done()
			buckets := uc.fetchBuckets(ctx, days+w, jurisdiction)
			ch <- result{days: days, window: trendWindow(buckets, w, short, days)}
		}(days)
	}
	go func() { wg.Wait(); close(ch) }()

	windows := make(map[int]models.TrendWindow, len(trendWindows))
	for res := range ch {
		windows[res.days] = res.window
	}

	momentum := deriveMomentum(windows)
	return &models.TrendsResponse{
		Meta: models.SentimentMeta{
			GeneratedAt:  uc.now().UTC(),
			WindowDays:   w,
			Jurisdiction: jurisdiction,
			DataPoints:   len(windows),
		},
		Windows:        windows,
		Momentum:       momentum,
		Interpretation: interpretMomentum(momentum),
	}
}

// fetchBuckets loads the trade history for the lookback window and reduces
// it to daily buckets. A store failure is absorbed into an empty history;
// dashboards stay available on neutral defaults.
func (uc *SentimentUseCase) fetchBuckets(ctx context.Context, lookbackDays int, jurisdiction string) []models.DailyBucket {
	to := util.Day(uc.now().UTC())
	from := to.AddDate(0, 0, -(lookbackDays - 1))

	start := time.Now()
	trades, err := uc.store.Query(ctx, domrepo.TradeFilter{
		From:         from,
		Jurisdiction: jurisdiction,
	})
	uc.metrics.RecordQueryDuration("sentiment_fetch", time.Since(start).Seconds())
	if err != nil {
		uc.log.Error("sentiment trade fetch failed, using empty history",
			logger.Error(err), logger.Int("lookbackDays", lookbackDays))
		uc.metrics.RecordError("sentiment_fetch")
		trades = nil
	}
	return buildDailyBuckets(trades, from, to)
}

// currentValues recomputes the series with the short window as result
// length and takes the final point of each.
func (uc *SentimentUseCase) currentValues(buckets []models.DailyBucket) models.CurrentValues {
	w := uc.cfg.IndicatorWindowDays
	r := uc.cfg.ReferencePeriodDays

	if !hasActivity(buckets) {
		return neutralCurrentValues()
	}

	cur := models.CurrentValues{}

	if ind := indicatorSeries(buckets, w, w); len(ind) > 0 {
		last := ind[len(ind)-1]
		cur.Indicator = models.IndicatorSnapshot{
			Value:          last.Value,
			Interpretation: interpretIndicator(last.Value),
		}
	} else {
		cur.Indicator = models.IndicatorSnapshot{Value: 50.0, Interpretation: "neutral"}
	}

	if bar := barometerSeries(buckets, w, r, w); len(bar) > 0 {
		last := bar[len(bar)-1]
		cur.Barometer = models.BarometerSnapshot{
			Value:          last.Value,
			Normalized:     last.Normalized,
			Average12M:     last.Average12M,
			Interpretation: interpretBarometer(last.Normalized),
		}
	} else {
		cur.Barometer = models.BarometerSnapshot{Average12M: 50.0, Interpretation: "neutral"}
	}

	if act := activitySeries(buckets, w, r, w); len(act) > 0 {
		last := act[len(act)-1]
		cur.Activity = models.ActivitySnapshot{
			Value:            last.Value,
			DeviationPercent: last.DeviationPercent,
			Interpretation:   interpretActivity(last.DeviationPercent),
		}
	} else {
		cur.Activity = models.ActivitySnapshot{Interpretation: "low"}
	}

	return cur
}

func hasActivity(buckets []models.DailyBucket) bool {
	for _, b := range buckets {
		if b.Total > 0 {
			return true
		}
	}
	return false
}

func neutralCurrentValues() models.CurrentValues {
	return models.CurrentValues{
		Indicator: models.IndicatorSnapshot{Value: 50.0, Interpretation: "neutral"},
		Barometer: models.BarometerSnapshot{Average12M: 50.0, Interpretation: "neutral"},
		Activity:  models.ActivitySnapshot{Interpretation: "low"},
	}
}

// marketStats summarizes raw daily activity over the returned slice.
func marketStats(buckets []models.DailyBucket) models.MarketStats {
	stats := models.MarketStats{}
	for _, b := range buckets {
		stats.TotalBuys += b.Buys
		stats.TotalSells += b.Sells
		stats.TotalTransactions += b.Total
		if b.Total > 0 {
			stats.ActiveDays++
		}
	}
	stats.DaysWithoutActivity = len(buckets) - stats.ActiveDays

	if len(buckets) > 0 {
		stats.AvgDailyTransactions = round2(float64(stats.TotalTransactions) / float64(len(buckets)))
	}

	switch {
	case stats.TotalSells > 0:
		ratio := float64(stats.TotalBuys) / float64(stats.TotalSells)
		if ratio > maxRatio {
			ratio = maxRatio
		}
		stats.BuySellRatio = round2(ratio)
	case stats.TotalBuys > 0:
		stats.BuySellRatio = maxRatio
	default:
		stats.BuySellRatio = 1.0
	}

	activeFraction := 0.0
	if len(buckets) > 0 {
		activeFraction = float64(stats.ActiveDays) / float64(len(buckets))
	}
	stats.QualityScore = round2(100 * activeFraction)

	switch {
	case activeFraction > 0.7 && stats.TotalTransactions > 50:
		stats.DataQuality = "excellent"
	case activeFraction > 0.5 && stats.TotalTransactions > 20:
		stats.DataQuality = "good"
	case activeFraction > 0.3 || stats.TotalTransactions > 10:
		stats.DataQuality = "moderate"
	default:
		stats.DataQuality = "limited"
	}
	return stats
}

// trendWindow summarizes one fixed lookback window: the average of the last
// few indicator points plus their summed buy and sell counts.
func trendWindow(buckets []models.DailyBucket, window, short, days int) models.TrendWindow {
	tw := models.TrendWindow{Days: days, AvgIndicator: 50.0, Sentiment: "neutral"}

	points := indicatorSeries(buckets, window, short)
	if len(points) == 0 {
		return tw
	}

	sum := 0.0
	for _, p := range points {
		sum += p.Value
		tw.Buys += p.Buys
		tw.Sells += p.Sells
	}
	tw.AvgIndicator = round2(sum / float64(len(points)))
	tw.Sentiment = interpretIndicator(tw.AvgIndicator)
	tw.Available = true
	return tw
}

func deriveMomentum(windows map[int]models.TrendWindow) models.Momentum {
	m := models.Momentum{}
	delta := func(a, b int) *float64 {
		wa, oka := windows[a]
		wb, okb := windows[b]
		if !oka || !okb || !wa.Available || !wb.Available {
			return nil
		}
		d := round2(wa.AvgIndicator - wb.AvgIndicator)
		return &d
	}
	m.ShortTerm = delta(7, 28)
	m.MediumTerm = delta(28, 90)
	m.LongTerm = delta(90, 365)
	return m
}

func interpretMomentum(m models.Momentum) string {
	if m.ShortTerm == nil || m.MediumTerm == nil {
		return "neutral"
	}
	st, mt := *m.ShortTerm, *m.MediumTerm
	switch {
	case st > 5 && mt > 0:
		return "accelerating_bullish"
	case st > 0 && mt > 0:
		return "bullish"
	case st < -5 && mt < 0:
		return "accelerating_bearish"
	case st < 0 && mt < 0:
		return "bearish"
	default:
		return "mixed"
	}
}
