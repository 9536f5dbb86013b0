package models

import "time"

// DailyBucket is one calendar day (UTC) of deduplicated insider activity.
// Buckets are request-scoped and never persisted.
type DailyBucket struct {
	Date  time.Time `json:"date"`
	Buys  int       `json:"buys"`
	Sells int       `json:"sells"`
	Total int       `json:"total"`
}

// IndicatorPoint is one point of the insider indicator series. The counts
// are trailing-window sums, not single-day values.
type IndicatorPoint struct {
	Date         time.Time `json:"date"`
	Value        float64   `json:"value"`
	Buys         int       `json:"buys"`
	Sells        int       `json:"sells"`
	Transactions int       `json:"transactions"`
}

// BarometerPoint is one point of the insider barometer series.
type BarometerPoint struct {
	Date             time.Time `json:"date"`
	Value            float64   `json:"value"`
	CurrentIndicator float64   `json:"currentIndicator"`
	Average12M       float64   `json:"average12m"`
	Normalized       float64   `json:"normalized"`
}

// ActivityPoint is one point of the activity indicator series.
type ActivityPoint struct {
	Date              time.Time `json:"date"`
	Value             float64   `json:"value"`
	TotalTransactions int       `json:"totalTransactions"`
	WindowDays        int       `json:"windowDays"`
	Average12M        float64   `json:"average12m,omitempty"`
	DeviationPercent  float64   `json:"deviationPercent,omitempty"`
	Normalized        float64   `json:"normalized"`
}

// IndicatorSnapshot is the latest indicator value with its interpretation.
type IndicatorSnapshot struct {
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
}

// BarometerSnapshot is the latest barometer value with its interpretation.
type BarometerSnapshot struct {
	Value          float64 `json:"value"`
	Normalized     float64 `json:"normalized"`
	Average12M     float64 `json:"average12m"`
	Interpretation string  `json:"interpretation"`
}

// ActivitySnapshot is the latest activity value with its interpretation.
type ActivitySnapshot struct {
	Value            float64 `json:"value"`
	DeviationPercent float64 `json:"deviationPercent"`
	Interpretation   string  `json:"interpretation"`
}

// CurrentValues bundles the three latest readings.
type CurrentValues struct {
	Indicator IndicatorSnapshot `json:"indicator"`
	Barometer BarometerSnapshot `json:"barometer"`
	Activity  ActivitySnapshot  `json:"activity"`
}

// MarketStats summarizes raw activity over the returned slice of days.
type MarketStats struct {
	TotalBuys            int     `json:"totalBuys"`
	TotalSells           int     `json:"totalSells"`
	TotalTransactions    int     `json:"totalTransactions"`
	ActiveDays           int     `json:"activeDays"`
	DaysWithoutActivity  int     `json:"daysWithoutActivity"`
	AvgDailyTransactions float64 `json:"avgDailyTransactions"`
	BuySellRatio         float64 `json:"buySellRatio"`
	DataQuality          string  `json:"dataQuality"`
	QualityScore         float64 `json:"qualityScore"`
}

// SentimentMeta records how a sentiment response was produced.
type SentimentMeta struct {
	GeneratedAt  time.Time `json:"generatedAt"`
	Days         int       `json:"days"`
	WindowDays   int       `json:"windowDays"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	DataPoints   int       `json:"dataPoints"`
}

// SentimentResponse is the full sentiment analysis payload.
type SentimentResponse struct {
	Meta      SentimentMeta    `json:"meta"`
	Current   CurrentValues    `json:"current"`
	Indicator []IndicatorPoint `json:"indicator"`
	Barometer []BarometerPoint `json:"barometer"`
	Activity  []ActivityPoint  `json:"activity"`
	Stats     MarketStats      `json:"stats"`
}

// CurrentSentimentResponse carries only the latest readings.
type CurrentSentimentResponse struct {
	Meta    SentimentMeta `json:"meta"`
	Current CurrentValues `json:"current"`
}

// TrendWindow is one fixed lookback window of the trends comparison.
type TrendWindow struct {
	Days         int     `json:"days"`
	AvgIndicator float64 `json:"avgIndicator"`
	Buys         int     `json:"buys"`
	Sells        int     `json:"sells"`
	Sentiment    string  `json:"sentiment"`
	Available    bool    `json:"available"`
}

// Momentum holds the deltas between adjacent trend windows. A nil field
// means one of its operand windows had no data.
type Momentum struct {
	ShortTerm  *float64 `json:"shortTerm,omitempty"`
	MediumTerm *float64 `json:"mediumTerm,omitempty"`
	LongTerm   *float64 `json:"longTerm,omitempty"`
}

// TrendsResponse compares indicator averages across fixed windows.
type TrendsResponse struct {
	Meta           SentimentMeta       `json:"meta"`
	Windows        map[int]TrendWindow `json:"windows"`
	Momentum       Momentum            `json:"momentum"`
	Interpretation string              `json:"interpretation"`
}
