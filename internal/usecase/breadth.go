package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	"github.com/marvin-fritz/webapi/pkg/config"
	"github.com/marvin-fritz/webapi/pkg/logger"
)

// BreadthUseCase classifies per-stock sentiment across the traded universe.
type BreadthUseCase struct {
	store   domrepo.TradeStore
	metrics domrepo.Metrics
	log     *logger.Logger
	cfg     config.Analytics
	now     func() time.Time
}

func NewBreadthUseCase(store domrepo.TradeStore, metrics domrepo.Metrics, log *logger.Logger, cfg config.Analytics) *BreadthUseCase {
	return &BreadthUseCase{
		store:   store,
		metrics: metrics,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

type stockGroup struct {
	isin         string
	companyName  string
	transactions int
	buys         int
	sells        int
	volume       decimal.Decimal
	insiders     map[string]struct{}
	priceSum     decimal.Decimal
	priceCount   int
}

// MarketBreadth groups the window's trades per stock, classifies each
// stock's sentiment by buy ratio and summarizes the bullish/bearish split.
func (uc *BreadthUseCase) MarketBreadth(ctx context.Context, days int, jurisdiction string) *models.BreadthResponse {
	resp := &models.BreadthResponse{
		GeneratedAt:   uc.now().UTC(),
		Days:          days,
		Jurisdiction:  jurisdiction,
		TopStocks:     []models.StockBreadth{},
		Jurisdictions: []models.JurisdictionBreakdown{},
	}
	resp.Metrics.BreadthRatio = 1.0

	trades := uc.fetch(ctx, days, jurisdiction, "breadth_fetch")
	if len(trades) == 0 {
		return resp
	}

	groups := groupByStock(trades)
	byJurisdiction := make(map[string]*models.JurisdictionBreakdown)
	for _, t := range trades {
		if models.IsNonTrade(t.TransactionMethod) {
			continue
		}
		jb := byJurisdiction[t.Jurisdiction]
		if jb == nil {
			jb = &models.JurisdictionBreakdown{Jurisdiction: t.Jurisdiction}
			byJurisdiction[t.Jurisdiction] = jb
		}
		jb.Transactions++
		switch {
		case t.IsBuy():
			jb.Buys++
		case t.IsSell():
			jb.Sells++
		}
	}

	// Most-traded stocks first; the universe is capped before ranking.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].transactions > groups[j].transactions
	})
	if len(groups) > uc.cfg.BreadthCompanyLimit {
		groups = groups[:uc.cfg.BreadthCompanyLimit]
	}

	stocks := make([]models.StockBreadth, 0, len(groups))
	for _, g := range groups {
		ratio := buyRatio(g.buys, g.sells)
		sentiment := "neutral"
		switch {
		case ratio > 60:
			sentiment = "bullish"
			resp.Metrics.BullishCompanies++
		case ratio < 40:
			sentiment = "bearish"
			resp.Metrics.BearishCompanies++
		default:
			resp.Metrics.NeutralCompanies++
		}
		stocks = append(stocks, models.StockBreadth{
			ISIN:         g.isin,
			CompanyName:  g.companyName,
			Transactions: g.transactions,
			Buys:         g.buys,
			Sells:        g.sells,
			TotalVolume:  g.volume,
			BuyRatio:     ratio,
			Sentiment:    sentiment,
		})
	}
	resp.Metrics.TotalCompanies = len(stocks)

	switch {
	case resp.Metrics.BearishCompanies > 0:
		resp.Metrics.BreadthRatio = round2(float64(resp.Metrics.BullishCompanies) / float64(resp.Metrics.BearishCompanies))
		if resp.Metrics.BreadthRatio > maxRatio {
			resp.Metrics.BreadthRatio = maxRatio
		}
	case resp.Metrics.BullishCompanies > 0:
		resp.Metrics.BreadthRatio = maxRatio
	}

	if len(stocks) > 20 {
		stocks = stocks[:20]
	}
	resp.TopStocks = stocks

	for _, jb := range byJurisdiction {
		resp.Jurisdictions = append(resp.Jurisdictions, *jb)
	}
	sort.SliceStable(resp.Jurisdictions, func(i, j int) bool {
		return resp.Jurisdictions[i].Transactions > resp.Jurisdictions[j].Transactions
	})
	return resp
}

// TopMovers ranks stocks by activity score, transactions times distinct
// insiders, over the window.
func (uc *BreadthUseCase) TopMovers(ctx context.Context, days, limit, minTransactions int, jurisdiction string) *models.TopMoversResponse {
	resp := &models.TopMoversResponse{
		GeneratedAt:     uc.now().UTC(),
		Days:            days,
		MinTransactions: minTransactions,
		Jurisdiction:    jurisdiction,
		Movers:          []models.TopMover{},
	}

	trades := uc.fetch(ctx, days, jurisdiction, "topmovers_fetch")
	if len(trades) == 0 {
		return resp
	}

	groups := groupByStock(trades)
	movers := make([]models.TopMover, 0, len(groups))
	for _, g := range groups {
		if g.transactions < minTransactions {
			continue
		}
		ratio := buyRatio(g.buys, g.sells)
		avgPrice := 0.0
		if g.priceCount > 0 {
			avg, _ := g.priceSum.Div(decimal.NewFromInt(int64(g.priceCount))).Float64()
			avgPrice = round2(avg)
		}
		movers = append(movers, models.TopMover{
			ISIN:           g.isin,
			CompanyName:    g.companyName,
			Transactions:   g.transactions,
			Buys:           g.buys,
			Sells:          g.sells,
			UniqueInsiders: len(g.insiders),
			TotalVolume:    g.volume,
			AvgPrice:       avgPrice,
			BuyRatio:       ratio,
			ActivityScore:  g.transactions * len(g.insiders),
			Sentiment:      moverSentiment(ratio),
		})
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].ActivityScore > movers[j].ActivityScore
	})
	if limit > 0 && len(movers) > limit {
		movers = movers[:limit]
	}
	resp.Movers = movers
	return resp
}

func (uc *BreadthUseCase) fetch(ctx context.Context, days int, jurisdiction, op string) []*models.Transaction {
	to := uc.now().UTC()
	from := to.AddDate(0, 0, -days)

	start := time.Now()
	trades, err := uc.store.Query(ctx, domrepo.TradeFilter{
		From:         from,
		To:           to,
		Jurisdiction: jurisdiction,
	})
	uc.metrics.RecordQueryDuration(op, time.Since(start).Seconds())
	if err != nil {
		uc.log.Error("breadth trade fetch failed, returning empty result",
			logger.Error(err), logger.String("op", op))
		uc.metrics.RecordError(op)
		return nil
	}
	return trades
}

// groupByStock accumulates per-stock counts, excluding non-trade methods.
func groupByStock(trades []*models.Transaction) []*stockGroup {
	byISIN := make(map[string]*stockGroup)
	order := make([]*stockGroup, 0)
	for _, t := range trades {
		if models.IsNonTrade(t.TransactionMethod) {
			continue
		}
		g := byISIN[t.ISIN]
		if g == nil {
			g = &stockGroup{
				isin:        t.ISIN,
				companyName: t.CompanyName,
				insiders:    make(map[string]struct{}),
			}
			byISIN[t.ISIN] = g
			order = append(order, g)
		}
		g.transactions++
		switch {
		case t.IsBuy():
			g.buys++
		case t.IsSell():
			g.sells++
		}
		g.volume = g.volume.Add(t.TotalAmount.Abs())
		g.insiders[t.InsiderName] = struct{}{}
		if t.PricePerShare.IsPositive() {
			g.priceSum = g.priceSum.Add(t.PricePerShare)
			g.priceCount++
		}
	}
	return order
}

// buyRatio returns the buy percentage, defaulting to 50 on no data.
func buyRatio(buys, sells int) float64 {
	if buys+sells == 0 {
		return 50.0
	}
	return round2(100 * float64(buys) / float64(buys+sells))
}

func moverSentiment(ratio float64) string {
	switch {
	case ratio >= 70:
		return "strong_bullish"
	case ratio >= 55:
		return "bullish"
	case ratio >= 45:
		return "neutral"
	case ratio >= 30:
		return "bearish"
	default:
		return "strong_bearish"
	}
}
