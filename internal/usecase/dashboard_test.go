package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
)

func newDashboardUC(store *fakeStore, now time.Time) *DashboardUseCase {
	uc := NewDashboardUseCase(store, &fakeMetrics{}, testLogger(), testAnalytics())
	uc.now = func() time.Time { return now }
	return uc
}

func TestQuickTrend(t *testing.T) {
	cases := []struct {
		previous, current int
		want              string
	}{
		{0, 0, "neutral"},
		{0, 5, "up"},
		{100, 111, "up"},
		{100, 110, "neutral"},
		{100, 90, "neutral"},
		{100, 89, "down"},
	}
	for _, c := range cases {
		if got := quickTrend(c.previous, c.current); got != c.want {
			t.Errorf("quickTrend(%d, %d) = %s, want %s", c.previous, c.current, got, c.want)
		}
	}
}

func TestStatsEmptyWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	resp := newDashboardUC(&fakeStore{}, now).Stats(context.Background(), 24, "UTC", true)

	if resp.TotalTrades != 0 || resp.UniqueStocks != 0 {
		t.Fatalf("expected empty counts, got %+v", resp)
	}
	if resp.TopTickers == nil || resp.VolumeByCcy == nil || resp.HourlyActivity == nil {
		t.Fatal("slices must be non-nil in the empty shape")
	}
	if resp.Extended == nil || resp.Extended.TopInsiders == nil {
		t.Fatal("extended shape must be populated when requested")
	}
}

func TestStatsInvalidTimezoneFallsBackToUTC(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	resp := newDashboardUC(&fakeStore{}, now).Stats(context.Background(), 24, "Mars/Olympus", false)
	if resp.Timezone != "UTC" {
		t.Fatalf("expected UTC fallback, got %s", resp.Timezone)
	}
}

func TestStatsCounts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txDate := now.Add(-5 * time.Hour)
	store := &fakeStore{trades: []*models.Transaction{
		buyTrade("1", "DE0001", "Alice", txDate, 1000),
		buyTrade("2", "DE0001", "Bob", txDate, 2000),
		sellTrade("3", "DE0002", "Carol", txDate, 500),
		trade("4", "DE0001", "Dan", models.TypeBuy, "AWARD", txDate, 300),
	}}

	resp := newDashboardUC(store, now).Stats(context.Background(), 24, "UTC", true)

	if resp.TotalTrades != 4 {
		t.Fatalf("expected 4 trades, got %d", resp.TotalTrades)
	}
	if resp.BuyCount != 2 || resp.SellCount != 1 {
		t.Fatalf("award must not count as a buy: buys %d sells %d", resp.BuyCount, resp.SellCount)
	}
	if resp.UniqueStocks != 2 {
		t.Fatalf("expected 2 unique stocks, got %d", resp.UniqueStocks)
	}
	// The award stays out of the ticker, currency and insider aggregates.
	if len(resp.TopTickers) == 0 || resp.TopTickers[0].ISIN != "DE0001" || resp.TopTickers[0].Count != 2 {
		t.Fatalf("expected DE0001 with 2 trades on top, got %+v", resp.TopTickers)
	}
	if len(resp.VolumeByCcy) != 1 || resp.VolumeByCcy[0].Count != 3 {
		t.Fatalf("unexpected currency volumes: %+v", resp.VolumeByCcy)
	}

	ext := resp.Extended
	if ext == nil {
		t.Fatal("extended stats missing")
	}
	if ext.AvgTradesStock != 2.0 {
		t.Errorf("avg trades per stock: got %v, want 2.0", ext.AvgTradesStock)
	}
	// 2 buys of 3 counted trades.
	if ext.BuyPercentage != 66.67 {
		t.Errorf("buy percentage: got %v, want 66.67", ext.BuyPercentage)
	}
	if ext.MostActiveHour == nil {
		t.Error("most active hour missing")
	}
	if len(ext.TopInsiders) != 3 {
		t.Errorf("expected 3 insiders, got %d", len(ext.TopInsiders))
	}
	for _, is := range ext.TopInsiders {
		if is.Name == "Dan" {
			t.Error("award-only insider must not appear in top insiders")
		}
	}
}

func TestQuickStatsWindows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	windowStart := now.Add(-24 * time.Hour)

	currentWindow := []*models.Transaction{
		buyTrade("c1", "DE0001", "Alice", now.Add(-6*time.Hour), 1000),
		buyTrade("c2", "DE0001", "Bob", now.Add(-7*time.Hour), 1000),
		sellTrade("c3", "DE0002", "Carol", now.Add(-8*time.Hour), 500),
	}
	previousWindow := []*models.Transaction{
		buyTrade("p1", "DE0003", "Dan", windowStart.Add(-6*time.Hour), 100),
	}

	store := &fakeStore{queryFn: func(f domrepo.TradeFilter) ([]*models.Transaction, error) {
		if f.FiledFrom.Before(windowStart) {
			return previousWindow, nil
		}
		return currentWindow, nil
	}}

	resp := newDashboardUC(store, now).QuickStats(context.Background(), 24)

	if resp.TotalTrades != 3 || resp.PreviousTotal != 1 {
		t.Fatalf("window totals: got %d/%d, want 3/1", resp.TotalTrades, resp.PreviousTotal)
	}
	if resp.Trend != "up" {
		t.Fatalf("expected trend up, got %s", resp.Trend)
	}
	if resp.Buys != 2 || resp.Sells != 1 {
		t.Fatalf("buys/sells: got %d/%d", resp.Buys, resp.Sells)
	}
	if resp.TopTicker == "" {
		t.Fatal("top ticker missing")
	}
	if resp.BuyPercentage != 66.67 {
		t.Fatalf("buy percentage: got %v", resp.BuyPercentage)
	}
}

func TestQuickStatsBoundaryFiling(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	windowStart := now.Add(-24 * time.Hour)

	boundary := buyTrade("b1", "DE0001", "Alice", windowStart.Add(-2*time.Hour), 1000)
	boundary.FilingDate = windowStart
	earlier := sellTrade("p1", "DE0002", "Bob", windowStart.Add(-8*time.Hour), 500)
	earlier.FilingDate = windowStart.Add(-6 * time.Hour)
	all := []*models.Transaction{boundary, earlier}

	store := &fakeStore{queryFn: func(f domrepo.TradeFilter) ([]*models.Transaction, error) {
		var out []*models.Transaction
		for _, tr := range all {
			if tr.FilingDate.Before(f.FiledFrom) {
				continue
			}
			if f.FiledBefore.IsZero() {
				if tr.FilingDate.After(f.FiledTo) {
					continue
				}
			} else if !tr.FilingDate.Before(f.FiledBefore) {
				continue
			}
			out = append(out, tr)
		}
		return out, nil
	}}

	resp := newDashboardUC(store, now).QuickStats(context.Background(), 24)

	// A filing at the exact window boundary belongs to the current window only.
	if resp.TotalTrades != 1 || resp.PreviousTotal != 1 {
		t.Fatalf("window totals: got %d/%d, want 1/1", resp.TotalTrades, resp.PreviousTotal)
	}
	if resp.Buys != 1 || resp.Sells != 0 {
		t.Fatalf("buys/sells: got %d/%d, want 1/0", resp.Buys, resp.Sells)
	}
}

func TestQuickStatsStoreFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{err: context.DeadlineExceeded}
	resp := newDashboardUC(store, now).QuickStats(context.Background(), 24)
	if resp.TotalTrades != 0 || resp.Trend != "neutral" {
		t.Fatalf("failure must yield the empty shape, got %+v", resp)
	}
}
