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

// DashboardUseCase aggregates operational statistics keyed by filing date,
// the moment the data became publicly known, not the trade date.
type DashboardUseCase struct {
	store   domrepo.TradeStore
	metrics domrepo.Metrics
	log     *logger.Logger
	cfg     config.Analytics
	now     func() time.Time
}

func NewDashboardUseCase(store domrepo.TradeStore, metrics domrepo.Metrics, log *logger.Logger, cfg config.Analytics) *DashboardUseCase {
	return &DashboardUseCase{
		store:   store,
		metrics: metrics,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Stats computes the dashboard payload over the trailing hour window.
// A store failure or an empty window yields the empty response shape.
func (uc *DashboardUseCase) Stats(ctx context.Context, hours int, timezone string, extended bool) *models.DashboardStats {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
		timezone = "UTC"
	}

	resp := &models.DashboardStats{
		GeneratedAt:    uc.now().UTC(),
		Hours:          hours,
		Timezone:       timezone,
		TopTickers:     []models.TickerCount{},
		VolumeByCcy:    []models.CurrencyVolume{},
		HourlyActivity: []models.HourlyActivity{},
	}

	to := uc.now().UTC()
	from := to.Add(-time.Duration(hours) * time.Hour)
	trades := uc.fetchFiled(ctx, domrepo.TradeFilter{FiledFrom: from, FiledTo: to}, "dashboard_fetch")
	if len(trades) == 0 {
		if extended {
			resp.Extended = &models.ExtendedStats{
				Jurisdictions: []models.JurisdictionStats{},
				TopInsiders:   []models.InsiderStats{},
			}
		}
		return resp
	}

	resp.TotalTrades = len(trades)

	stocks := make(map[string]struct{})
	tickerCounts := make(map[string]*models.TickerCount)
	byCurrency := make(map[string]*models.CurrencyVolume)
	byHour := make(map[time.Time]map[string]int)

	for _, t := range trades {
		stocks[t.ISIN] = struct{}{}

		hour := hourIn(t.FilingDate, loc)
		if byHour[hour] == nil {
			byHour[hour] = make(map[string]int)
		}
		byHour[hour][t.ISIN]++

		// Awards, option exercises and the like count toward totals and
		// hourly activity but stay out of the trade aggregates.
		if models.IsNonTrade(t.TransactionMethod) {
			continue
		}
		switch {
		case t.IsBuy():
			resp.BuyCount++
		case t.IsSell():
			resp.SellCount++
		}

		tc := tickerCounts[t.ISIN]
		if tc == nil {
			tc = &models.TickerCount{ISIN: t.ISIN, CompanyName: t.CompanyName}
			tickerCounts[t.ISIN] = tc
		}
		tc.Count++

		cv := byCurrency[t.Currency]
		if cv == nil {
			cv = &models.CurrencyVolume{Currency: t.Currency}
			byCurrency[t.Currency] = cv
		}
		cv.Total = cv.Total.Add(t.TotalAmount.Abs())
		cv.Count++
	}
	resp.UniqueStocks = len(stocks)

	for _, tc := range tickerCounts {
		resp.TopTickers = append(resp.TopTickers, *tc)
	}
	sort.SliceStable(resp.TopTickers, func(i, j int) bool {
		return resp.TopTickers[i].Count > resp.TopTickers[j].Count
	})
	if len(resp.TopTickers) > uc.cfg.DashboardTopTickers {
		resp.TopTickers = resp.TopTickers[:uc.cfg.DashboardTopTickers]
	}

	for _, cv := range byCurrency {
		cv.Average = cv.Total.Div(decimal.NewFromInt(int64(cv.Count))).Round(2)
		resp.VolumeByCcy = append(resp.VolumeByCcy, *cv)
	}
	sort.SliceStable(resp.VolumeByCcy, func(i, j int) bool {
		return resp.VolumeByCcy[i].Currency < resp.VolumeByCcy[j].Currency
	})

	var mostActive *models.HourlyActivity
	for hour, counts := range byHour {
		total := 0
		for _, n := range counts {
			total += n
		}
		ha := models.HourlyActivity{Hour: hour, Trades: total, UniqueStocks: len(counts)}
		resp.HourlyActivity = append(resp.HourlyActivity, ha)
	}
	sort.SliceStable(resp.HourlyActivity, func(i, j int) bool {
		return resp.HourlyActivity[i].Hour.Before(resp.HourlyActivity[j].Hour)
	})
	for i := range resp.HourlyActivity {
		if mostActive == nil || resp.HourlyActivity[i].Trades > mostActive.Trades {
			mostActive = &resp.HourlyActivity[i]
		}
	}

	if extended {
		resp.Extended = uc.extendedStats(trades, resp, mostActive)
	}
	return resp
}

func (uc *DashboardUseCase) extendedStats(trades []*models.Transaction, base *models.DashboardStats, mostActive *models.HourlyActivity) *models.ExtendedStats {
	ext := &models.ExtendedStats{
		Jurisdictions: []models.JurisdictionStats{},
		TopInsiders:   []models.InsiderStats{},
	}

	byJurisdiction := make(map[string]*models.JurisdictionStats)
	byInsider := make(map[string]*models.InsiderStats)
	for _, t := range trades {
		if models.IsNonTrade(t.TransactionMethod) {
			continue
		}

		js := byJurisdiction[t.Jurisdiction]
		if js == nil {
			js = &models.JurisdictionStats{Jurisdiction: t.Jurisdiction}
			byJurisdiction[t.Jurisdiction] = js
		}
		js.Trades++

		is := byInsider[t.InsiderName]
		if is == nil {
			is = &models.InsiderStats{Name: t.InsiderName}
			byInsider[t.InsiderName] = is
		}
		is.Transactions++
		is.TotalVolume = is.TotalVolume.Add(t.TotalAmount.Abs())

		switch {
		case t.IsBuy():
			js.Buys++
			is.Buys++
		case t.IsSell():
			js.Sells++
			is.Sells++
		}
	}

	for _, js := range byJurisdiction {
		js.BuyRatio = buyRatio(js.Buys, js.Sells)
		ext.Jurisdictions = append(ext.Jurisdictions, *js)
	}
	sort.SliceStable(ext.Jurisdictions, func(i, j int) bool {
		return ext.Jurisdictions[i].Trades > ext.Jurisdictions[j].Trades
	})

	for _, is := range byInsider {
		ext.TopInsiders = append(ext.TopInsiders, *is)
	}
	sort.SliceStable(ext.TopInsiders, func(i, j int) bool {
		return ext.TopInsiders[i].Transactions > ext.TopInsiders[j].Transactions
	})
	if len(ext.TopInsiders) > uc.cfg.DashboardTopInsiders {
		ext.TopInsiders = ext.TopInsiders[:uc.cfg.DashboardTopInsiders]
	}

	if base.UniqueStocks > 0 {
		ext.AvgTradesStock = round2(float64(base.TotalTrades) / float64(base.UniqueStocks))
	}
	if base.BuyCount+base.SellCount > 0 {
		ext.BuyPercentage = round2(100 * float64(base.BuyCount) / float64(base.BuyCount+base.SellCount))
	}
	if mostActive != nil {
		hour := mostActive.Hour
		ext.MostActiveHour = &hour
	}
	return ext
}

// QuickStats compares the current window against the immediately preceding
// equal-length window to derive a trend direction.
func (uc *DashboardUseCase) QuickStats(ctx context.Context, hours int) *models.QuickStats {
	resp := &models.QuickStats{
		GeneratedAt: uc.now().UTC(),
		Hours:       hours,
		Trend:       "neutral",
	}

	to := uc.now().UTC()
	from := to.Add(-time.Duration(hours) * time.Hour)
	prevFrom := from.Add(-time.Duration(hours) * time.Hour)

	current := uc.fetchFiled(ctx, domrepo.TradeFilter{FiledFrom: from, FiledTo: to}, "quick_fetch")
	// Exclusive upper bound so a filing at the window boundary is not
	// counted in both windows.
	previous := uc.fetchFiled(ctx, domrepo.TradeFilter{FiledFrom: prevFrom, FiledBefore: from}, "quick_fetch")

	resp.TotalTrades = len(current)
	resp.PreviousTotal = len(previous)

	stocks := make(map[string]struct{})
	tickerCounts := make(map[string]int)
	topCompany := ""
	topCount := 0
	for _, t := range current {
		stocks[t.ISIN] = struct{}{}
		tickerCounts[t.ISIN]++
		if tickerCounts[t.ISIN] > topCount {
			topCount = tickerCounts[t.ISIN]
			topCompany = t.CompanyName
		}
		if models.IsNonTrade(t.TransactionMethod) {
			continue
		}
		switch {
		case t.IsBuy():
			resp.Buys++
		case t.IsSell():
			resp.Sells++
		}
	}
	resp.UniqueStocks = len(stocks)
	resp.TopTicker = topCompany
	if resp.Buys+resp.Sells > 0 {
		resp.BuyPercentage = round2(100 * float64(resp.Buys) / float64(resp.Buys+resp.Sells))
	}

	resp.Trend = quickTrend(resp.PreviousTotal, resp.TotalTrades)
	return resp
}

// hourIn truncates t to its wall-clock hour in loc, so half-hour offset
// zones bucket on their own hour boundaries.
func hourIn(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()
	return time.Date(y, m, d, lt.Hour(), 0, 0, 0, loc)
}

// quickTrend labels the change between two equal windows. More than ten
// percent either way moves the needle; a dead previous window with any
// current activity counts as up.
func quickTrend(previous, current int) string {
	if previous == 0 {
		if current > 0 {
			return "up"
		}
		return "neutral"
	}
	change := 100 * float64(current-previous) / float64(previous)
	switch {
	case change > 10:
		return "up"
	case change < -10:
		return "down"
	default:
		return "neutral"
	}
}

func (uc *DashboardUseCase) fetchFiled(ctx context.Context, f domrepo.TradeFilter, op string) []*models.Transaction {
	start := time.Now()
	trades, err := uc.store.Query(ctx, f)
	uc.metrics.RecordQueryDuration(op, time.Since(start).Seconds())
	if err != nil {
		uc.log.Error("dashboard trade fetch failed, returning empty window",
			logger.Error(err), logger.String("op", op))
		uc.metrics.RecordError(op)
		return nil
	}
	return trades
}
