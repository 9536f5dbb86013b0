package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trading signals attached to ticker items.
const (
	SignalClusterBuying  = "CLUSTER_BUYING"
	SignalHighVolume     = "HIGH_VOLUME"
	SignalPureBuying     = "PURE_BUYING"
	SignalDominantBuying = "DOMINANT_BUYING"
)

// TickerAggregate accumulates per-stock activity within a query window.
// Request-scoped; never persisted.
type TickerAggregate struct {
	ISIN        string
	CompanyName string
	Currency    string
	TradeCount  int
	BuyCount    int
	SellCount   int
	BuyVolume   decimal.Decimal
	SellVolume  decimal.Decimal
	Buyers      map[string]struct{}
	Sellers     map[string]struct{}
	LastTradeAt time.Time
}

// NetVolume returns buy volume minus sell volume.
func (a *TickerAggregate) NetVolume() decimal.Decimal {
	return a.BuyVolume.Sub(a.SellVolume)
}

// TickerItem is one ranked entry of the ticker response.
type TickerItem struct {
	UID           string          `json:"uid"`
	ISIN          string          `json:"isin"`
	CompanyName   string          `json:"companyName"`
	Currency      string          `json:"currency"`
	TradeCount    int             `json:"tradeCount"`
	BuyCount      int             `json:"buyCount"`
	SellCount     int             `json:"sellCount"`
	BuyVolume     decimal.Decimal `json:"buyVolume"`
	SellVolume    decimal.Decimal `json:"sellVolume"`
	NetVolume     decimal.Decimal `json:"netVolume"`
	UniqueBuyers  int             `json:"uniqueBuyers"`
	UniqueSellers int             `json:"uniqueSellers"`
	Signals       []string        `json:"signals"`
	Headline      string          `json:"headline"`
	LastTradeAt   *time.Time      `json:"lastTradeAt,omitempty"`
}

// TickerMeta records how a ticker response was produced.
type TickerMeta struct {
	GeneratedAt    time.Time `json:"generatedAt"`
	Days           int       `json:"days"`
	MinTrades      int       `json:"minTrades"`
	MinTotalAmount float64   `json:"minTotalAmount"`
	Source         string    `json:"source,omitempty"`
	SingleISIN     string    `json:"singleIsin,omitempty"`
	TotalMatched   int       `json:"totalMatched"`
	Returned       int       `json:"returned"`
}

// TickerResponse is the ranked list of notable stocks.
type TickerResponse struct {
	Meta  TickerMeta   `json:"meta"`
	Items []TickerItem `json:"items"`
}
