package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickerCount is a stock ranked by trade count.
type TickerCount struct {
	ISIN        string `json:"isin"`
	CompanyName string `json:"companyName"`
	Count       int    `json:"count"`
}

// CurrencyVolume aggregates traded volume per currency.
type CurrencyVolume struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Average  decimal.Decimal `json:"average"`
	Count    int             `json:"count"`
}

// HourlyActivity is one hour of dashboard history.
type HourlyActivity struct {
	Hour         time.Time `json:"hour"`
	Trades       int       `json:"trades"`
	UniqueStocks int       `json:"uniqueStocks"`
}

// JurisdictionStats is the extended per-jurisdiction dashboard line.
type JurisdictionStats struct {
	Jurisdiction string  `json:"jurisdiction"`
	Trades       int     `json:"trades"`
	Buys         int     `json:"buys"`
	Sells        int     `json:"sells"`
	BuyRatio     float64 `json:"buyRatio"`
}

// InsiderStats is one entry of the extended top-insiders ranking.
type InsiderStats struct {
	Name         string          `json:"name"`
	Transactions int             `json:"transactions"`
	Buys         int             `json:"buys"`
	Sells        int             `json:"sells"`
	TotalVolume  decimal.Decimal `json:"totalVolume"`
}

// ExtendedStats holds the optional dashboard extensions.
type ExtendedStats struct {
	Jurisdictions  []JurisdictionStats `json:"jurisdictions"`
	TopInsiders    []InsiderStats      `json:"topInsiders"`
	AvgTradesStock float64             `json:"avgTradesPerStock"`
	BuyPercentage  float64             `json:"buyPercentage"`
	MostActiveHour *time.Time          `json:"mostActiveHour,omitempty"`
}

// DashboardStats is the operational dashboard payload, keyed by filing date.
type DashboardStats struct {
	GeneratedAt    time.Time        `json:"generatedAt"`
	Hours          int              `json:"hours"`
	Timezone       string           `json:"timezone"`
	TotalTrades    int              `json:"totalTrades"`
	UniqueStocks   int              `json:"uniqueStocks"`
	BuyCount       int              `json:"buyCount"`
	SellCount      int              `json:"sellCount"`
	TopTickers     []TickerCount    `json:"topTickers"`
	VolumeByCcy    []CurrencyVolume `json:"volumeByCurrency"`
	HourlyActivity []HourlyActivity `json:"hourlyActivity"`
	Extended       *ExtendedStats   `json:"extended,omitempty"`
}

// QuickStats compares the current window against the preceding one.
type QuickStats struct {
	GeneratedAt   time.Time `json:"generatedAt"`
	Hours         int       `json:"hours"`
	TotalTrades   int       `json:"totalTrades"`
	Buys          int       `json:"buys"`
	Sells         int       `json:"sells"`
	UniqueStocks  int       `json:"uniqueStocks"`
	BuyPercentage float64   `json:"buyPercentage"`
	TopTicker     string    `json:"topTicker,omitempty"`
	PreviousTotal int       `json:"previousTotal"`
	Trend         string    `json:"trend"`
}
