package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	"github.com/marvin-fritz/webapi/pkg/config"
	"github.com/marvin-fritz/webapi/pkg/logger"
)

type fakeStore struct {
	trades  []*models.Transaction
	err     error
	queryFn func(f domrepo.TradeFilter) ([]*models.Transaction, error)
}

func (s *fakeStore) Query(_ context.Context, f domrepo.TradeFilter) ([]*models.Transaction, error) {
	if s.queryFn != nil {
		return s.queryFn(f)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.trades, nil
}

func (s *fakeStore) Count(_ context.Context, _ domrepo.TradeFilter) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.trades)), nil
}

func (s *fakeStore) InsertBatch(_ context.Context, trades []*models.Transaction) error {
	if s.err != nil {
		return s.err
	}
	s.trades = append(s.trades, trades...)
	return nil
}

func (s *fakeStore) Health(context.Context) error { return s.err }
func (s *fakeStore) Close() error                 { return nil }

type fakeMetrics struct {
	errors int
}

func (m *fakeMetrics) RecordFilingIngested(string)         {}
func (m *fakeMetrics) RecordTradesInserted(int)            {}
func (m *fakeMetrics) RecordError(string)                  { m.errors++ }
func (m *fakeMetrics) RecordCacheRequest(string, string)   {}
func (m *fakeMetrics) RecordQueryDuration(string, float64) {}

func testLogger() *logger.Logger {
	l, _ := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	return l
}

func testAnalytics() config.Analytics {
	return config.DefaultAnalytics()
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func buyTrade(uid, isin, insider string, txDate time.Time, amount float64) *models.Transaction {
	return trade(uid, isin, insider, models.TypeBuy, "OPEN_MARKET_PURCHASE", txDate, amount)
}

func sellTrade(uid, isin, insider string, txDate time.Time, amount float64) *models.Transaction {
	return trade(uid, isin, insider, models.TypeSell, "OPEN_MARKET_SALE", txDate, amount)
}

func trade(uid, isin, insider, txType, method string, txDate time.Time, amount float64) *models.Transaction {
	return &models.Transaction{
		UID:               uid,
		ISIN:              isin,
		CompanyName:       "Test AG",
		InsiderName:       insider,
		TransactionType:   txType,
		TransactionMethod: method,
		TransactionDate:   txDate,
		FilingDate:        txDate.Add(2 * time.Hour),
		TotalAmount:       decimal.NewFromFloat(amount),
		Currency:          "EUR",
		Jurisdiction:      "DE",
		Source:            "bafin",
	}
}
