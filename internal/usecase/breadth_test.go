package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/marvin-fritz/webapi/internal/domain/models"
)

func newBreadthUC(store *fakeStore) *BreadthUseCase {
	return NewBreadthUseCase(store, &fakeMetrics{}, testLogger(), testAnalytics())
}

func TestBuyRatioDefault(t *testing.T) {
	if got := buyRatio(0, 0); got != 50.0 {
		t.Fatalf("no buys or sells defaults to 50, got %v", got)
	}
	if got := buyRatio(3, 1); got != 75.0 {
		t.Fatalf("expected 75.0, got %v", got)
	}
}

func TestMarketBreadthRatioCaps(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -1)

	// All-bullish universe: bearish count 0, bullish > 0.
	store := &fakeStore{trades: []*models.Transaction{
		buyTrade("1", "DE0001", "Alice", now, 1000),
		buyTrade("2", "DE0001", "Bob", now, 1000),
		buyTrade("3", "DE0002", "Carol", now, 1000),
	}}
	resp := newBreadthUC(store).MarketBreadth(context.Background(), 30, "")
	if resp.Metrics.BreadthRatio != 999.99 {
		t.Fatalf("bullish-only breadth ratio caps at 999.99, got %v", resp.Metrics.BreadthRatio)
	}

	// No qualifying stocks at all.
	empty := newBreadthUC(&fakeStore{}).MarketBreadth(context.Background(), 30, "")
	if empty.Metrics.BreadthRatio != 1.0 {
		t.Fatalf("empty universe breadth ratio defaults to 1.0, got %v", empty.Metrics.BreadthRatio)
	}
}

func TestMarketBreadthSentimentLabels(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -1)
	store := &fakeStore{trades: []*models.Transaction{
		// DE0001: 3 buys, 0 sells -> bullish.
		buyTrade("1", "DE0001", "A", now, 100),
		buyTrade("2", "DE0001", "B", now, 100),
		buyTrade("3", "DE0001", "C", now, 100),
		// DE0002: 0 buys, 2 sells -> bearish.
		sellTrade("4", "DE0002", "D", now, 100),
		sellTrade("5", "DE0002", "E", now, 100),
		// DE0003: 1 buy, 1 sell -> neutral.
		buyTrade("6", "DE0003", "F", now, 100),
		sellTrade("7", "DE0003", "G", now, 100),
	}}
	resp := newBreadthUC(store).MarketBreadth(context.Background(), 30, "")

	m := resp.Metrics
	if m.BullishCompanies != 1 || m.BearishCompanies != 1 || m.NeutralCompanies != 1 {
		t.Fatalf("unexpected split: %+v", m)
	}
	if m.BreadthRatio != 1.0 {
		t.Fatalf("1 bullish / 1 bearish is 1.0, got %v", m.BreadthRatio)
	}

	for _, s := range resp.TopStocks {
		switch s.ISIN {
		case "DE0001":
			if s.Sentiment != "bullish" {
				t.Errorf("DE0001: got %s", s.Sentiment)
			}
		case "DE0002":
			if s.Sentiment != "bearish" {
				t.Errorf("DE0002: got %s", s.Sentiment)
			}
		case "DE0003":
			if s.Sentiment != "neutral" {
				t.Errorf("DE0003: got %s", s.Sentiment)
			}
		}
	}
}

func TestMarketBreadthExcludesNonTrade(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -1)
	store := &fakeStore{trades: []*models.Transaction{
		trade("1", "DE0001", "Alice", models.TypeBuy, "AWARD", now, 100),
	}}
	resp := newBreadthUC(store).MarketBreadth(context.Background(), 30, "")
	if resp.Metrics.TotalCompanies != 0 {
		t.Fatalf("award-only stock must not appear, got %d companies", resp.Metrics.TotalCompanies)
	}
}

func TestTopMoversRanking(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -1)
	var trades []*models.Transaction
	// DE0001: 4 transactions by 1 insider, score 4.
	for i := 0; i < 4; i++ {
		trades = append(trades, buyTrade(fmt.Sprintf("a%d", i), "DE0001", "Alice", now, 100))
	}
	// DE0002: 3 transactions by 3 insiders, score 9.
	for i := 0; i < 3; i++ {
		trades = append(trades, buyTrade(fmt.Sprintf("b%d", i), "DE0002", fmt.Sprintf("P%d", i), now, 100))
	}
	// DE0003: below min transactions.
	trades = append(trades, buyTrade("c0", "DE0003", "Zoe", now, 100))

	resp := newBreadthUC(&fakeStore{trades: trades}).TopMovers(context.Background(), 7, 10, 3, "")
	if len(resp.Movers) != 2 {
		t.Fatalf("expected 2 movers, got %d", len(resp.Movers))
	}
	if resp.Movers[0].ISIN != "DE0002" || resp.Movers[0].ActivityScore != 9 {
		t.Fatalf("expected DE0002 score 9 first, got %+v", resp.Movers[0])
	}
	if resp.Movers[1].ActivityScore != 4 {
		t.Fatalf("expected DE0001 score 4 second, got %+v", resp.Movers[1])
	}
}

func TestMoverSentimentThresholds(t *testing.T) {
	cases := map[float64]string{
		70: "strong_bullish", 69.99: "bullish", 55: "bullish",
		50: "neutral", 45: "neutral", 44: "bearish", 30: "bearish", 29: "strong_bearish",
	}
	for ratio, want := range cases {
		if got := moverSentiment(ratio); got != want {
			t.Errorf("ratio %v: got %s, want %s", ratio, got, want)
		}
	}
}
