package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
)

func recentBuy(uid, isin, insider string, amount float64) *models.Transaction {
	return buyTrade(uid, isin, insider, time.Now().UTC().AddDate(0, 0, -2), amount)
}

func recentSell(uid, isin, insider string, amount float64) *models.Transaction {
	return sellTrade(uid, isin, insider, time.Now().UTC().AddDate(0, 0, -2), amount)
}

func newTickerUC(store *fakeStore) *TickerUseCase {
	return NewTickerUseCase(store, &fakeMetrics{}, testLogger(), testAnalytics())
}

func TestSignalsScenarioClusterPureBuying(t *testing.T) {
	store := &fakeStore{trades: []*models.Transaction{
		recentBuy("1", "DE0001", "Alice", 20000),
		recentBuy("2", "DE0001", "Bob", 20000),
		recentBuy("3", "DE0001", "Carol", 10000),
	}}
	resp := newTickerUC(store).Signals(context.Background(), TickerParams{Days: 30, MinTrades: 1, Limit: 10})

	if len(resp.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(resp.Items))
	}
	item := resp.Items[0]
	if item.UniqueBuyers != 3 {
		t.Fatalf("expected 3 unique buyers, got %d", item.UniqueBuyers)
	}

	has := func(sig string) bool {
		for _, s := range item.Signals {
			if s == sig {
				return true
			}
		}
		return false
	}
	if !has(models.SignalClusterBuying) || !has(models.SignalPureBuying) {
		t.Fatalf("expected CLUSTER_BUYING and PURE_BUYING, got %v", item.Signals)
	}
	if has(models.SignalHighVolume) {
		t.Fatalf("50000 must not trigger HIGH_VOLUME, got %v", item.Signals)
	}
}

func TestSignalsExclusivity(t *testing.T) {
	store := &fakeStore{trades: []*models.Transaction{
		// Pure buying on one stock, dominant buying on another.
		recentBuy("1", "DE0001", "Alice", 30000),
		recentBuy("2", "DE0002", "Bob", 50000),
		recentSell("3", "DE0002", "Carol", 10000),
	}}
	resp := newTickerUC(store).Signals(context.Background(), TickerParams{Days: 30, MinTrades: 1, Limit: 10})

	for _, item := range resp.Items {
		pure, dominant := false, false
		for _, s := range item.Signals {
			if s == models.SignalPureBuying {
				pure = true
			}
			if s == models.SignalDominantBuying {
				dominant = true
			}
		}
		if pure && dominant {
			t.Fatalf("PURE_BUYING and DOMINANT_BUYING co-occur on %s", item.ISIN)
		}
	}
}

func TestSignalsFilterCorrectness(t *testing.T) {
	store := &fakeStore{trades: []*models.Transaction{
		recentBuy("1", "DE0001", "Alice", 5000),
		recentBuy("2", "DE0002", "Bob", 50000),
		recentBuy("3", "DE0002", "Carol", 50000),
		recentBuy("4", "DE0003", "Dave", 200000),
	}}
	resp := newTickerUC(store).Signals(context.Background(),
		TickerParams{Days: 30, MinTrades: 2, MinTotalAmount: 10000, Limit: 10})

	for _, item := range resp.Items {
		if v, _ := item.BuyVolume.Float64(); v < 10000 {
			t.Fatalf("item %s below min volume: %v", item.ISIN, v)
		}
		if item.TradeCount < 2 {
			t.Fatalf("item %s below min trades: %d", item.ISIN, item.TradeCount)
		}
	}
	if len(resp.Items) != 1 || resp.Items[0].ISIN != "DE0002" {
		t.Fatalf("expected only DE0002, got %+v", resp.Items)
	}
}

func TestSignalsSortOrder(t *testing.T) {
	store := &fakeStore{trades: []*models.Transaction{
		// DE0001: one buyer, huge volume. DE0002: three buyers, smaller volume.
		recentBuy("1", "DE0001", "Alice", 900000),
		recentBuy("2", "DE0002", "Bob", 20000),
		recentBuy("3", "DE0002", "Carol", 20000),
		recentBuy("4", "DE0002", "Dave", 20000),
	}}
	resp := newTickerUC(store).Signals(context.Background(), TickerParams{Days: 30, MinTrades: 1, Limit: 10})

	if resp.Items[0].ISIN != "DE0002" {
		t.Fatalf("cluster buying must outrank volume, got %s first", resp.Items[0].ISIN)
	}
}

func TestSignalsStoreFailure(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("clickhouse down")}
	resp := newTickerUC(store).Signals(context.Background(), TickerParams{Days: 30, MinTrades: 1})

	if len(resp.Items) != 0 {
		t.Fatalf("expected empty items on store failure, got %d", len(resp.Items))
	}
	if resp.Meta.Days != 30 {
		t.Fatalf("meta must still be populated, got %+v", resp.Meta)
	}
}

func TestSignalsByISINEmpty(t *testing.T) {
	resp := newTickerUC(&fakeStore{}).SignalsByISIN(context.Background(), "DE0009",
		TickerParams{Days: 30, MinTrades: 1})

	if resp.Items == nil || len(resp.Items) != 0 {
		t.Fatalf("expected empty, non-nil items, got %v", resp.Items)
	}
	if resp.Meta.SingleISIN != "DE0009" {
		t.Fatalf("expected queried identifier in meta, got %q", resp.Meta.SingleISIN)
	}
}

func TestTickerHeadline(t *testing.T) {
	g := &models.TickerAggregate{
		ISIN:        "DE0001",
		CompanyName: "Test AG",
		Currency:    "EUR",
		Buyers:      map[string]struct{}{"Alice": {}, "Bob": {}, "Carol": {}, "Dave": {}},
	}
	g.BuyVolume = decimal.NewFromInt(1234567)

	h := tickerHeadline(g)
	if h != "4 insiders (Alice, Bob and 2 more) bought 1,234,567 EUR of Test AG" {
		t.Fatalf("unexpected headline %q", h)
	}

	g.Buyers = map[string]struct{}{"Alice": {}}
	if h := tickerHeadline(g); !strings.HasPrefix(h, "1 insider (Alice) bought") {
		t.Fatalf("expected singular count prefix, got %q", h)
	}

	g.Buyers = nil
	if h := tickerHeadline(g); !strings.HasPrefix(h, "No insiders bought") {
		t.Fatalf("expected no-buyer fallback, got %q", h)
	}
}

func TestTickerUID(t *testing.T) {
	ts := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	g := &models.TickerAggregate{ISIN: "DE0001", LastTradeAt: ts}
	if got := tickerUID(g); got != "TICKER-DE0001-2025-03-03T10:00:00Z" {
		t.Fatalf("unexpected uid %q", got)
	}

	g2 := &models.TickerAggregate{ISIN: "DE0001"}
	if got := tickerUID(g2); got != "TICKER-DE0001-unknown" {
		t.Fatalf("expected placeholder for missing timestamp, got %q", got)
	}
}
