package usecase

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	"github.com/marvin-fritz/webapi/pkg/util"
)

func TestBuildDailyBucketsZeroFill(t *testing.T) {
	from := day(2025, 3, 1)
	to := day(2025, 3, 10)
	trades := []*models.Transaction{
		buyTrade("a", "DE0001", "Alice", day(2025, 3, 2), 1000),
		sellTrade("b", "DE0001", "Bob", day(2025, 3, 7), 2000),
	}

	buckets := buildDailyBuckets(trades, from, to)
	want := util.DaysBetween(from, to)
	if len(buckets) != want {
		t.Fatalf("expected %d buckets, got %d", want, len(buckets))
	}
	for i := 1; i < len(buckets); i++ {
		if !buckets[i].Date.After(buckets[i-1].Date) {
			t.Fatalf("dates not strictly increasing at %d", i)
		}
		if buckets[i].Date.Sub(buckets[i-1].Date) != 24*time.Hour {
			t.Fatalf("gap at %d", i)
		}
	}
}

func TestBuildDailyBucketsDedup(t *testing.T) {
	d := day(2025, 3, 3)
	trades := []*models.Transaction{
		buyTrade("a2", "DE0001", "Alice", d.Add(14*time.Hour), 500),
		buyTrade("a1", "DE0001", "Alice", d.Add(9*time.Hour), 1000),
		buyTrade("c", "DE0001", "Carol", d, 700),
		buyTrade("a3", "DE0001", "Alice", d.AddDate(0, 0, 1), 300),
	}

	buckets := buildDailyBuckets(trades, d, d.AddDate(0, 0, 1))
	if buckets[0].Buys != 2 {
		t.Fatalf("expected same-day duplicate collapsed, got %d buys", buckets[0].Buys)
	}
	if buckets[1].Buys != 1 {
		t.Fatalf("next-day trade must count, got %d buys", buckets[1].Buys)
	}
}

func TestBuildDailyBucketsExcludesNonTrade(t *testing.T) {
	d := day(2025, 3, 3)
	trades := []*models.Transaction{
		trade("g", "DE0001", "Alice", models.TypeBuy, "AWARD", d, 1000),
		trade("h", "DE0002", "Bob", models.TypeSell, "gift", d, 1000),
		buyTrade("i", "DE0003", "Carol", d, 1000),
	}

	buckets := buildDailyBuckets(trades, d, d)
	b := buckets[0]
	if b.Total != 3 {
		t.Fatalf("non-trade records still count toward total, got %d", b.Total)
	}
	if b.Buys != 1 || b.Sells != 0 {
		t.Fatalf("non-trade records must not count as buys/sells, got %d/%d", b.Buys, b.Sells)
	}
}

func TestIndicatorBounds(t *testing.T) {
	buckets := make([]models.DailyBucket, 60)
	for i := range buckets {
		buckets[i] = models.DailyBucket{
			Date:  day(2025, 1, 1).AddDate(0, 0, i),
			Buys:  i % 5,
			Sells: (i * 3) % 7,
		}
		buckets[i].Total = buckets[i].Buys + buckets[i].Sells
	}

	for _, p := range indicatorSeries(buckets, 28, 60) {
		if p.Value < 0 || p.Value > 100 {
			t.Fatalf("indicator out of bounds: %v", p.Value)
		}
	}

	empty := make([]models.DailyBucket, 10)
	for i := range empty {
		empty[i].Date = day(2025, 1, 1).AddDate(0, 0, i)
	}
	for _, p := range indicatorSeries(empty, 28, 10) {
		if p.Value != 50.0 {
			t.Fatalf("empty window must yield exactly 50.0, got %v", p.Value)
		}
	}
}

func TestIndicatorWindowScenario(t *testing.T) {
	buckets := []models.DailyBucket{
		{Date: day(2025, 3, 1), Buys: 3, Sells: 1, Total: 4},
		{Date: day(2025, 3, 2)},
		{Date: day(2025, 3, 3), Buys: 2, Sells: 2, Total: 4},
	}

	points := indicatorSeries(buckets, 3, 3)
	got := points[len(points)-1].Value
	if got != 62.5 {
		t.Fatalf("expected 62.5, got %v", got)
	}
}

func TestBarometerInsufficientHistory(t *testing.T) {
	buckets := make([]models.DailyBucket, 200)
	for i := range buckets {
		buckets[i] = models.DailyBucket{Date: day(2025, 1, 1).AddDate(0, 0, i), Buys: 1, Total: 1}
	}
	if got := barometerSeries(buckets, 28, 365, 90); len(got) != 0 {
		t.Fatalf("expected empty series below reference period, got %d points", len(got))
	}
}

func TestBarometerNormalizedBounds(t *testing.T) {
	buckets := make([]models.DailyBucket, 400)
	for i := range buckets {
		b := models.DailyBucket{Date: day(2024, 1, 1).AddDate(0, 0, i)}
		// Mostly balanced, with a strong buying streak near the end.
		if i >= 380 {
			b.Buys = 5
		} else if i%2 == 0 {
			b.Buys = 1
		} else {
			b.Sells = 1
		}
		b.Total = b.Buys + b.Sells
		buckets[i] = b
	}

	points := barometerSeries(buckets, 28, 365, 400)
	if len(points) == 0 {
		t.Fatal("expected points")
	}

	maxAbs, maxNorm := 0.0, 0.0
	for _, p := range points {
		if p.Normalized < -100 || p.Normalized > 100 {
			t.Fatalf("normalized out of bounds: %v", p.Normalized)
		}
		if math.Abs(p.Value) > maxAbs {
			maxAbs = math.Abs(p.Value)
			maxNorm = math.Abs(p.Normalized)
		}
	}
	if math.Abs(maxNorm-100) > 0.02 {
		t.Fatalf("largest deviation should normalize to 100, got %v", maxNorm)
	}
}

func TestActivitySeriesWindow(t *testing.T) {
	buckets := make([]models.DailyBucket, 10)
	for i := range buckets {
		buckets[i] = models.DailyBucket{Date: day(2025, 3, 1).AddDate(0, 0, i), Total: 4}
	}

	points := activitySeries(buckets, 7, 365, 10)
	first, last := points[0], points[len(points)-1]
	if first.WindowDays != 1 || last.WindowDays != 7 {
		t.Fatalf("window sizes wrong: %d, %d", first.WindowDays, last.WindowDays)
	}
	if last.Value != 4.0 {
		t.Fatalf("expected trailing mean 4.0, got %v", last.Value)
	}
	if last.TotalTransactions != 28 {
		t.Fatalf("expected window sum 28, got %d", last.TotalTransactions)
	}
	if last.Normalized != 100 {
		t.Fatalf("max point normalizes to 100, got %v", last.Normalized)
	}
}

func TestInterpretationThresholds(t *testing.T) {
	indicator := map[float64]string{
		60: "bullish", 59.99: "slightly_bullish", 45: "slightly_bullish",
		44: "neutral", 40: "neutral", 39: "slightly_bearish", 30: "slightly_bearish",
		29: "bearish",
	}
	for v, want := range indicator {
		if got := interpretIndicator(v); got != want {
			t.Errorf("indicator %v: got %s, want %s", v, got, want)
		}
	}

	barometer := map[float64]string{
		50: "strong_bullish", 20: "bullish", 0: "neutral", -20: "neutral",
		-21: "bearish", -50: "bearish", -51: "strong_bearish",
	}
	for v, want := range barometer {
		if got := interpretBarometer(v); got != want {
			t.Errorf("barometer %v: got %s, want %s", v, got, want)
		}
	}

	activity := map[float64]string{50: "very_high", 20: "high", 0: "normal", -21: "low"}
	for v, want := range activity {
		if got := interpretActivity(v); got != want {
			t.Errorf("activity %v: got %s, want %s", v, got, want)
		}
	}
}

func TestMarketStatsRatios(t *testing.T) {
	empty := marketStats([]models.DailyBucket{{Date: day(2025, 3, 1)}})
	if empty.BuySellRatio != 1.0 {
		t.Fatalf("no activity defaults ratio to 1.0, got %v", empty.BuySellRatio)
	}
	if empty.DataQuality != "limited" {
		t.Fatalf("expected limited quality, got %s", empty.DataQuality)
	}

	buysOnly := marketStats([]models.DailyBucket{{Date: day(2025, 3, 1), Buys: 4, Total: 4}})
	if buysOnly.BuySellRatio != 999.99 {
		t.Fatalf("zero sells caps ratio at 999.99, got %v", buysOnly.BuySellRatio)
	}
}

func TestMarketStatsQualityLabels(t *testing.T) {
	buckets := make([]models.DailyBucket, 10)
	for i := range buckets {
		buckets[i] = models.DailyBucket{Date: day(2025, 3, 1).AddDate(0, 0, i), Buys: 6, Sells: 1, Total: 7}
	}
	stats := marketStats(buckets)
	if stats.DataQuality != "excellent" {
		t.Fatalf("all-active high-volume window is excellent, got %s", stats.DataQuality)
	}
	if stats.QualityScore != 100 {
		t.Fatalf("expected score 100, got %v", stats.QualityScore)
	}
	if stats.ActiveDays != 10 || stats.DaysWithoutActivity != 0 {
		t.Fatalf("active day counts wrong: %d/%d", stats.ActiveDays, stats.DaysWithoutActivity)
	}
}

func TestCalculateSentimentFullLookback(t *testing.T) {
	now := time.Date(2025, 6, 12, 12, 0, 0, 0, time.UTC)
	old := buyTrade("b1", "DE0001", "Alice", now.AddDate(0, 0, -740), 1000)

	// The store honors the From bound like the real one would, so a
	// lookback shorter than days + window + reference drops the trade.
	store := &fakeStore{queryFn: func(f domrepo.TradeFilter) ([]*models.Transaction, error) {
		if old.TransactionDate.Before(f.From) {
			return nil, nil
		}
		return []*models.Transaction{old}, nil
	}}
	uc := NewSentimentUseCase(store, &fakeMetrics{}, testLogger(), testAnalytics())
	uc.now = func() time.Time { return now }

	resp := uc.CalculateSentiment(context.Background(), 730, "")
	if len(resp.Indicator) != 730 {
		t.Fatalf("expected 730 indicator points, got %d", len(resp.Indicator))
	}
	first := resp.Indicator[0]
	if first.Buys != 1 || first.Value != 100.0 {
		t.Fatalf("oldest point's window must include the 740-day-old buy, got buys=%d value=%v (date %s)",
			first.Buys, first.Value, first.Date.Format("2006-01-02"))
	}
}

func TestCalculateSentimentStoreFailure(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("clickhouse down")}
	m := &fakeMetrics{}
	uc := NewSentimentUseCase(store, m, testLogger(), testAnalytics())

	resp := uc.CalculateSentiment(context.Background(), 30, "")
	if resp.Current.Indicator.Value != 50.0 || resp.Current.Indicator.Interpretation != "neutral" {
		t.Fatalf("store failure must yield neutral defaults, got %+v", resp.Current.Indicator)
	}
	if resp.Current.Activity.Interpretation != "low" {
		t.Fatalf("expected low activity, got %s", resp.Current.Activity.Interpretation)
	}
	if m.errors == 0 {
		t.Fatal("expected fetch error recorded")
	}
}

func TestCurrentSentimentNoData(t *testing.T) {
	uc := NewSentimentUseCase(&fakeStore{}, &fakeMetrics{}, testLogger(), testAnalytics())

	resp := uc.CurrentSentiment(context.Background(), "DE")
	if resp.Current.Indicator.Value != 50.0 {
		t.Fatalf("expected neutral indicator, got %v", resp.Current.Indicator.Value)
	}
	if resp.Current.Barometer.Average12M != 50.0 || resp.Current.Barometer.Value != 0.0 {
		t.Fatalf("expected neutral barometer, got %+v", resp.Current.Barometer)
	}
}

func TestTrendWindowDefaults(t *testing.T) {
	tw := trendWindow(nil, 28, 7, 7)
	if tw.Available || tw.AvgIndicator != 50.0 || tw.Sentiment != "neutral" {
		t.Fatalf("empty window must default to neutral, got %+v", tw)
	}
}

func TestMomentumInterpretation(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	cases := []struct {
		m    models.Momentum
		want string
	}{
		{models.Momentum{}, "neutral"},
		{models.Momentum{ShortTerm: f(6), MediumTerm: f(1)}, "accelerating_bullish"},
		{models.Momentum{ShortTerm: f(3), MediumTerm: f(1)}, "bullish"},
		{models.Momentum{ShortTerm: f(-6), MediumTerm: f(-1)}, "accelerating_bearish"},
		{models.Momentum{ShortTerm: f(-2), MediumTerm: f(-1)}, "bearish"},
		{models.Momentum{ShortTerm: f(3), MediumTerm: f(-1)}, "mixed"},
	}
	for _, tc := range cases {
		if got := interpretMomentum(tc.m); got != tc.want {
			t.Errorf("momentum %+v: got %s, want %s", tc.m, got, tc.want)
		}
	}
}

func TestCalculateTrendsAllWindows(t *testing.T) {
	now := time.Now().UTC()
	var trades []*models.Transaction
	for i := 0; i < 30; i++ {
		trades = append(trades, buyTrade(fmt.Sprintf("b%d", i), "DE0001", fmt.Sprintf("P%d", i), now.AddDate(0, 0, -i), 1000))
	}
	uc := NewSentimentUseCase(&fakeStore{trades: trades}, &fakeMetrics{}, testLogger(), testAnalytics())

	resp := uc.CalculateTrends(context.Background(), "")
	if len(resp.Windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(resp.Windows))
	}
	for _, days := range []int{7, 28, 90, 365} {
		if _, ok := resp.Windows[days]; !ok {
			t.Fatalf("missing window %d", days)
		}
	}
	if resp.Momentum.ShortTerm == nil || resp.Momentum.MediumTerm == nil || resp.Momentum.LongTerm == nil {
		t.Fatal("expected all momentum deltas present")
	}
}
