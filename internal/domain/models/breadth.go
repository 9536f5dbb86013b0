package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBreadth is the per-stock line of the market-breadth analysis.
type StockBreadth struct {
	ISIN         string          `json:"isin"`
	CompanyName  string          `json:"companyName"`
	Transactions int             `json:"transactions"`
	Buys         int             `json:"buys"`
	Sells        int             `json:"sells"`
	TotalVolume  decimal.Decimal `json:"totalVolume"`
	BuyRatio     float64         `json:"buyRatio"`
	Sentiment    string          `json:"sentiment"`
}

// JurisdictionBreakdown aggregates activity per reporting jurisdiction.
type JurisdictionBreakdown struct {
	Jurisdiction string `json:"jurisdiction"`
	Transactions int    `json:"transactions"`
	Buys         int    `json:"buys"`
	Sells        int    `json:"sells"`
}

// BreadthMetrics summarizes sentiment distribution across the universe.
type BreadthMetrics struct {
	BullishCompanies int     `json:"bullishCompanies"`
	BearishCompanies int     `json:"bearishCompanies"`
	NeutralCompanies int     `json:"neutralCompanies"`
	TotalCompanies   int     `json:"totalCompanies"`
	BreadthRatio     float64 `json:"breadthRatio"`
}

// BreadthResponse is the market-breadth payload.
type BreadthResponse struct {
	GeneratedAt   time.Time               `json:"generatedAt"`
	Days          int                     `json:"days"`
	Jurisdiction  string                  `json:"jurisdiction,omitempty"`
	Metrics       BreadthMetrics          `json:"metrics"`
	TopStocks     []StockBreadth          `json:"topStocks"`
	Jurisdictions []JurisdictionBreakdown `json:"jurisdictions"`
}

// TopMover is one ranked entry of the top-movers analysis.
type TopMover struct {
	ISIN           string          `json:"isin"`
	CompanyName    string          `json:"companyName"`
	Transactions   int             `json:"transactions"`
	Buys           int             `json:"buys"`
	Sells          int             `json:"sells"`
	UniqueInsiders int             `json:"uniqueInsiders"`
	TotalVolume    decimal.Decimal `json:"totalVolume"`
	AvgPrice       float64         `json:"avgPrice"`
	BuyRatio       float64         `json:"buyRatio"`
	ActivityScore  int             `json:"activityScore"`
	Sentiment      string          `json:"sentiment"`
}

// TopMoversResponse is the ranked most-active-stocks payload.
type TopMoversResponse struct {
	GeneratedAt     time.Time  `json:"generatedAt"`
	Days            int        `json:"days"`
	MinTransactions int        `json:"minTransactions"`
	Jurisdiction    string     `json:"jurisdiction,omitempty"`
	Movers          []TopMover `json:"movers"`
}
