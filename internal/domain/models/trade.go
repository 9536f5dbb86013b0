package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types as reported by the upstream filing scrapers.
const (
	TypeBuy  = "BUY"
	TypeSell = "SELL"
)

// Transaction is a single insider-trade filing record.
type Transaction struct {
	UID               string          `json:"uid"`
	ISIN              string          `json:"isin"`
	CompanyName       string          `json:"companyName"`
	Ticker            string          `json:"ticker,omitempty"`
	InsiderName       string          `json:"insiderName"`
	InsiderRole       string          `json:"insiderRole,omitempty"`
	IsDirector        bool            `json:"isDirector"`
	IsOfficer         bool            `json:"isOfficer"`
	TransactionType   string          `json:"transactionType"`
	TransactionMethod string          `json:"transactionMethod"`
	TransactionDate   time.Time       `json:"transactionDate"`
	FilingDate        time.Time       `json:"filingDate"`
	Shares            decimal.Decimal `json:"shares"`
	PricePerShare     decimal.Decimal `json:"pricePerShare"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Currency          string          `json:"currency"`
	Jurisdiction      string          `json:"jurisdiction"`
	Source            string          `json:"source"`
	OwnershipType     string          `json:"ownershipType,omitempty"`
	SecurityType      string          `json:"securityType,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// IsBuy reports whether the record is a purchase.
func (t *Transaction) IsBuy() bool { return t.TransactionType == TypeBuy }

// IsSell reports whether the record is a disposal.
func (t *Transaction) IsSell() bool { return t.TransactionType == TypeSell }

// Filing is the wire shape of an upstream filing message prior to normalization.
// Amounts arrive as strings to avoid float precision loss on the wire.
type Filing struct {
	UID               string `json:"uid"`
	ISIN              string `json:"isin"`
	CompanyName       string `json:"company_name"`
	Ticker            string `json:"ticker"`
	InsiderName       string `json:"insider_name"`
	InsiderRole       string `json:"insider_role"`
	IsDirector        bool   `json:"is_director"`
	IsOfficer         bool   `json:"is_officer"`
	TransactionType   string `json:"transaction_type"`
	TransactionMethod string `json:"transaction_method"`
	TransactionDate   string `json:"transaction_date"`
	FilingDate        string `json:"filing_date"`
	Shares            string `json:"shares"`
	PricePerShare     string `json:"price_per_share"`
	TotalAmount       string `json:"total_amount"`
	Currency          string `json:"currency"`
	Jurisdiction      string `json:"jurisdiction"`
	Source            string `json:"source"`
	OwnershipType     string `json:"ownership_type"`
	SecurityType      string `json:"security_type"`
}
