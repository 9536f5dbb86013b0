package repository

import (
	"context"
	"time"

	"github.com/marvin-fritz/webapi/internal/domain/models"
)

// MethodScope narrows a query to a method classification.
type MethodScope int

const (
	// ScopeAll returns every record regardless of method.
	ScopeAll MethodScope = iota
	// ScopeOpenMarket returns only ordinary market trades.
	ScopeOpenMarket
	// ScopeExcludeNonTrade drops awards, gifts and similar events.
	ScopeExcludeNonTrade
)

// TradeFilter bounds a transaction query. Zero values mean "no filter".
type TradeFilter struct {
	UID          string
	From         time.Time
	To           time.Time
	FiledFrom    time.Time
	FiledTo      time.Time
	FiledBefore  time.Time
	Jurisdiction string
	ISINs        []string
	Source       string
	Type         string
	InsiderName  string
	MinAmount    float64
	MaxAmount    float64
	Methods      MethodScope
	Limit        int
	Offset       int
}

// TradeStore provides access to the insider-trade history.
type TradeStore interface {
	Query(ctx context.Context, f TradeFilter) ([]*models.Transaction, error)
	Count(ctx context.Context, f TradeFilter) (int64, error)
	InsertBatch(ctx context.Context, trades []*models.Transaction) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics abstracts operational instrumentation.
type Metrics interface {
	RecordFilingIngested(source string)
	RecordTradesInserted(n int)
	RecordError(kind string)
	RecordCacheRequest(endpoint, outcome string)
	RecordQueryDuration(op string, seconds float64)
}
