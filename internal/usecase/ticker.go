package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	"github.com/marvin-fritz/webapi/pkg/config"
	"github.com/marvin-fritz/webapi/pkg/logger"
	"github.com/marvin-fritz/webapi/pkg/util"
)

// TickerParams bounds a ticker query.
type TickerParams struct {
	Days           int
	MinTrades      int
	MinTotalAmount float64
	ISINs          []string
	Source         string
	Limit          int
}

// TickerUseCase ranks stocks by notable open-market insider buying.
type TickerUseCase struct {
	store   domrepo.TradeStore
	metrics domrepo.Metrics
	log     *logger.Logger
	cfg     config.Analytics
	now     func() time.Time
}

func NewTickerUseCase(store domrepo.TradeStore, metrics domrepo.Metrics, log *logger.Logger, cfg config.Analytics) *TickerUseCase {
	return &TickerUseCase{
		store:   store,
		metrics: metrics,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Signals aggregates open-market trades per stock, keeps groups passing the
// volume and trade-count floors, ranks by unique buyers then buy volume and
// tags each retained stock with its trading signals. A store failure yields
// an empty item list with populated metadata, never an error.
func (uc *TickerUseCase) Signals(ctx context.Context, p TickerParams) *models.TickerResponse {
	resp := &models.TickerResponse{
		Meta: models.TickerMeta{
			GeneratedAt:    uc.now().UTC(),
			Days:           p.Days,
			MinTrades:      p.MinTrades,
			MinTotalAmount: p.MinTotalAmount,
			Source:         p.Source,
		},
		Items: []models.TickerItem{},
	}

	to := uc.now().UTC()
	from := to.AddDate(0, 0, -p.Days)

	start := time.Now()
	trades, err := uc.store.Query(ctx, domrepo.TradeFilter{
		From:    from,
		To:      to,
		ISINs:   p.ISINs,
		Source:  p.Source,
		Methods: domrepo.ScopeOpenMarket,
	})
	uc.metrics.RecordQueryDuration("ticker_fetch", time.Since(start).Seconds())
	if err != nil {
		uc.log.Error("ticker trade fetch failed, returning empty items", logger.Error(err))
		uc.metrics.RecordError("ticker_fetch")
		return resp
	}

	groups := aggregateTicker(trades)

	minAmount := decimal.NewFromFloat(p.MinTotalAmount)
	kept := make([]*models.TickerAggregate, 0, len(groups))
	for _, g := range groups {
		if g.BuyVolume.GreaterThanOrEqual(minAmount) && g.TradeCount >= p.MinTrades {
			kept = append(kept, g)
		}
	}

	// Cluster buying outranks raw volume as the primary sort key.
	sort.SliceStable(kept, func(i, j int) bool {
		if len(kept[i].Buyers) != len(kept[j].Buyers) {
			return len(kept[i].Buyers) > len(kept[j].Buyers)
		}
		return kept[i].BuyVolume.GreaterThan(kept[j].BuyVolume)
	})

	resp.Meta.TotalMatched = len(kept)
	if p.Limit > 0 && len(kept) > p.Limit {
		kept = kept[:p.Limit]
	}

	for _, g := range kept {
		resp.Items = append(resp.Items, buildTickerItem(g, uc.cfg.HighVolumeThreshold))
	}
	resp.Meta.Returned = len(resp.Items)
	return resp
}

// SignalsByISIN runs the same aggregation restricted to one stock. An empty
// item list is a valid answer, annotated with the queried identifier.
func (uc *TickerUseCase) SignalsByISIN(ctx context.Context, isin string, p TickerParams) *models.TickerResponse {
	p.ISINs = []string{isin}
	resp := uc.Signals(ctx, p)
	resp.Meta.SingleISIN = isin
	return resp
}

func aggregateTicker(trades []*models.Transaction) map[string]*models.TickerAggregate {
	groups := make(map[string]*models.TickerAggregate)
	for _, t := range trades {
		g := groups[t.ISIN]
		if g == nil {
			g = &models.TickerAggregate{
				ISIN:        t.ISIN,
				CompanyName: t.CompanyName,
				Currency:    t.Currency,
				Buyers:      make(map[string]struct{}),
				Sellers:     make(map[string]struct{}),
			}
			groups[t.ISIN] = g
		}
		g.TradeCount++
		switch {
		case t.IsBuy():
			g.BuyCount++
			g.BuyVolume = g.BuyVolume.Add(t.TotalAmount)
			g.Buyers[t.InsiderName] = struct{}{}
		case t.IsSell():
			g.SellCount++
			g.SellVolume = g.SellVolume.Add(t.TotalAmount)
			g.Sellers[t.InsiderName] = struct{}{}
		}
		if t.TransactionDate.After(g.LastTradeAt) {
			g.LastTradeAt = t.TransactionDate
		}
	}
	return groups
}

func buildTickerItem(g *models.TickerAggregate, highVolume float64) models.TickerItem {
	item := models.TickerItem{
		UID:           tickerUID(g),
		ISIN:          g.ISIN,
		CompanyName:   g.CompanyName,
		Currency:      g.Currency,
		TradeCount:    g.TradeCount,
		BuyCount:      g.BuyCount,
		SellCount:     g.SellCount,
		BuyVolume:     g.BuyVolume,
		SellVolume:    g.SellVolume,
		NetVolume:     g.NetVolume(),
		UniqueBuyers:  len(g.Buyers),
		UniqueSellers: len(g.Sellers),
		Signals:       classifySignals(g, highVolume),
		Headline:      tickerHeadline(g),
	}
	if !g.LastTradeAt.IsZero() {
		last := g.LastTradeAt
		item.LastTradeAt = &last
	}
	return item
}

// classifySignals tags an aggregate. PURE_BUYING and DOMINANT_BUYING are
// mutually exclusive, pure checked first.
func classifySignals(g *models.TickerAggregate, highVolume float64) []string {
	signals := []string{}
	if len(g.Buyers) >= 2 {
		signals = append(signals, models.SignalClusterBuying)
	}
	if g.BuyVolume.GreaterThan(decimal.NewFromFloat(highVolume)) {
		signals = append(signals, models.SignalHighVolume)
	}
	if g.SellVolume.IsZero() && g.BuyVolume.IsPositive() {
		signals = append(signals, models.SignalPureBuying)
	} else if g.BuyVolume.GreaterThan(g.SellVolume.Mul(decimal.NewFromInt(2))) {
		signals = append(signals, models.SignalDominantBuying)
	}
	return signals
}

func tickerHeadline(g *models.TickerAggregate) string {
	names := make([]string, 0, len(g.Buyers))
	for name := range g.Buyers {
		names = append(names, name)
	}
	sort.Strings(names)

	volume, _ := g.BuyVolume.Float64()
	if len(names) == 0 {
		return fmt.Sprintf("No insiders bought %s %s of %s",
			util.FormatThousands(volume), g.Currency, g.CompanyName)
	}

	listed := strings.Join(names[:min(2, len(names))], ", ")
	if len(names) > 2 {
		listed += fmt.Sprintf(" and %d more", len(names)-2)
	}
	noun := "insiders"
	if len(names) == 1 {
		noun = "insider"
	}
	return fmt.Sprintf("%d %s (%s) bought %s %s of %s",
		len(names), noun, listed, util.FormatThousands(volume), g.Currency, g.CompanyName)
}

func tickerUID(g *models.TickerAggregate) string {
	ts := "unknown"
	if !g.LastTradeAt.IsZero() {
		ts = g.LastTradeAt.UTC().Format(time.RFC3339)
	}
	return strings.Join([]string{"TICKER", g.ISIN, ts}, "-")
}
