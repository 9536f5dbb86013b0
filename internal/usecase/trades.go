package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	"github.com/marvin-fritz/webapi/pkg/logger"
	"github.com/marvin-fritz/webapi/pkg/util"
)

// TradeStats summarizes a stock's activity over a period.
type TradeStats struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Total      int             `json:"total"`
	Buys       int             `json:"buys"`
	Sells      int             `json:"sells"`
	BuyAmount  decimal.Decimal `json:"buyAmount"`
	SellAmount decimal.Decimal `json:"sellAmount"`
	NetAmount  decimal.Decimal `json:"netAmount"`
}

// TradesUseCase is the read API over the raw trade history. Writes belong
// to the ingestion pipeline.
type TradesUseCase struct {
	store domrepo.TradeStore
	log   *logger.Logger
	now   func() time.Time
}

func NewTradesUseCase(store domrepo.TradeStore, log *logger.Logger) *TradesUseCase {
	return &TradesUseCase{store: store, log: log, now: time.Now}
}

func listFilter(req *models.ListTradesRequest) domrepo.TradeFilter {
	f := domrepo.TradeFilter{
		Jurisdiction: req.Jurisdiction,
		Source:       req.Source,
		Type:         req.TransactionType,
		InsiderName:  req.InsiderName,
		MinAmount:    req.MinAmount,
		MaxAmount:    req.MaxAmount,
		Limit:        req.PageSize,
		Offset:       (req.Page - 1) * req.PageSize,
	}
	if req.ISIN != "" {
		f.ISINs = []string{req.ISIN}
	}
	if req.DateFrom != "" {
		f.From = util.ParseTimeDefault(req.DateFrom, time.Time{})
	}
	if req.DateTo != "" {
		f.To = util.ParseTimeDefault(req.DateTo, time.Time{})
	}
	if req.ExcludeNonTrade {
		f.Methods = domrepo.ScopeExcludeNonTrade
	}
	return f
}

// List returns a page of trades plus the total count for the filter.
func (uc *TradesUseCase) List(ctx context.Context, req *models.ListTradesRequest) ([]*models.Transaction, int64, error) {
	f := listFilter(req)

	trades, err := uc.store.Query(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.store.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return trades, total, nil
}

// Count returns the total for the filter without fetching a page.
func (uc *TradesUseCase) Count(ctx context.Context, req *models.ListTradesRequest) (int64, error) {
	f := listFilter(req)
	f.Limit = 0
	f.Offset = 0
	return uc.store.Count(ctx, f)
}

// Get returns a single trade by uid, nil when absent.
func (uc *TradesUseCase) Get(ctx context.Context, uid string) (*models.Transaction, error) {
	trades, err := uc.store.Query(ctx, domrepo.TradeFilter{UID: uid, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, nil
	}
	return trades[0], nil
}

// AggregatedStats sums a stock's buy and sell amounts over the period.
func (uc *TradesUseCase) AggregatedStats(ctx context.Context, isin, jurisdiction string, days int) (*TradeStats, error) {
	to := uc.now().UTC()
	from := to.AddDate(0, 0, -days)

	f := domrepo.TradeFilter{
		From:         from,
		To:           to,
		Jurisdiction: jurisdiction,
	}
	if isin != "" {
		f.ISINs = []string{isin}
	}

	trades, err := uc.store.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	stats := &TradeStats{From: from, To: to, Total: len(trades)}
	for _, t := range trades {
		switch {
		case t.IsBuy():
			stats.Buys++
			stats.BuyAmount = stats.BuyAmount.Add(t.TotalAmount.Abs())
		case t.IsSell():
			stats.Sells++
			stats.SellAmount = stats.SellAmount.Add(t.TotalAmount.Abs())
		}
	}
	stats.NetAmount = stats.BuyAmount.Sub(stats.SellAmount)
	return stats, nil
}
