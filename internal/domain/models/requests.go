package models

// Requests for analytics HTTP endpoints. Defined in domain for consistency and reuse.

type SentimentRequest struct {
	Days         int    `query:"days" json:"days" default:"90" validate:"gte=1,lte=730"`
	Jurisdiction string `query:"jurisdiction" json:"jurisdiction" validate:"omitempty,oneof=US DE CA"`
}

type CurrentSentimentRequest struct {
	Jurisdiction string `query:"jurisdiction" json:"jurisdiction" validate:"omitempty,oneof=US DE CA"`
}

type BreadthRequest struct {
	Days         int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
	Jurisdiction string `query:"jurisdiction" json:"jurisdiction" validate:"omitempty,oneof=US DE CA"`
}

type TopMoversRequest struct {
	Days            int    `query:"days" json:"days" default:"7" validate:"gte=1,lte=90"`
	Limit           int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
	MinTransactions int    `query:"minTransactions" json:"minTransactions" default:"3" validate:"gte=1"`
	Jurisdiction    string `query:"jurisdiction" json:"jurisdiction" validate:"omitempty,oneof=US DE CA"`
}

type TrendsRequest struct {
	Jurisdiction string `query:"jurisdiction" json:"jurisdiction" validate:"omitempty,oneof=US DE CA"`
}

type TickerRequest struct {
	Days           int     `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
	MinTrades      int     `query:"minTrades" json:"minTrades" default:"1" validate:"gte=1"`
	MinTotalAmount float64 `query:"minTotalAmount" json:"minTotalAmount" default:"10000" validate:"gte=0"`
	ISIN           string  `query:"isin" json:"isin"` // comma-separated list
	Source         string  `query:"source" json:"source" validate:"omitempty,oneof=sec bafin ser"`
	Limit          int     `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=500"`
}

type TickerByISINRequest struct {
	ISIN           string  `param:"isin" json:"isin" validate:"required,min=6,max=20"`
	Days           int     `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
	MinTrades      int     `query:"minTrades" json:"minTrades" default:"1" validate:"gte=1"`
	MinTotalAmount float64 `query:"minTotalAmount" json:"minTotalAmount" default:"0" validate:"gte=0"`
}

type DashboardStatsRequest struct {
	Hours    int    `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=336"`
	Timezone string `query:"timezone" json:"timezone" default:"UTC"`
	Extended bool   `query:"extended" json:"extended"`
}

type QuickStatsRequest struct {
	Hours int `query:"hours" json:"hours" default:"24" validate:"gte=1,lte=168"`
}

type ListTradesRequest struct {
	Page            int     `query:"page" json:"page" default:"1" validate:"gte=1"`
	PageSize        int     `query:"pageSize" json:"pageSize" default:"50" validate:"gte=1,lte=500"`
	ISIN            string  `query:"isin" json:"isin"`
	Jurisdiction    string  `query:"jurisdiction" json:"jurisdiction" validate:"omitempty,oneof=US DE CA"`
	TransactionType string  `query:"transactionType" json:"transactionType" validate:"omitempty,oneof=BUY SELL"`
	Source          string  `query:"source" json:"source" validate:"omitempty,oneof=sec bafin ser"`
	InsiderName     string  `query:"insiderName" json:"insiderName"`
	DateFrom        string  `query:"dateFrom" json:"dateFrom"`
	DateTo          string  `query:"dateTo" json:"dateTo"`
	MinAmount       float64 `query:"minAmount" json:"minAmount" validate:"gte=0"`
	MaxAmount       float64 `query:"maxAmount" json:"maxAmount" validate:"gte=0"`
	ExcludeNonTrade bool    `query:"excludeNonTrade" json:"excludeNonTrade"`
}

type GetTradeRequest struct {
	UID string `param:"uid" json:"uid" validate:"required"`
}

type TradeStatsRequest struct {
	ISIN         string `query:"isin" json:"isin"`
	Jurisdiction string `query:"jurisdiction" json:"jurisdiction" validate:"omitempty,oneof=US DE CA"`
	Days         int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=730"`
}
