package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	domrepo "github.com/marvin-fritz/webapi/internal/domain/repository"
	pkgkafka "github.com/marvin-fritz/webapi/pkg/kafka"
	"github.com/marvin-fritz/webapi/pkg/logger"
	"github.com/marvin-fritz/webapi/pkg/util"
)

// FilingsHandler consumes filing messages from the scrapers and writes
// normalized transactions to storage in batches.
type FilingsHandler struct {
	topic        string
	store        domrepo.TradeStore
	metrics      domrepo.Metrics
	log          *logger.Logger
	batchSize    int
	batchTimeout time.Duration

	mu      sync.Mutex
	pending []*models.Transaction
	flushed time.Time
}

func NewFilingsHandler(topic string, store domrepo.TradeStore, metrics domrepo.Metrics, log *logger.Logger, batchSize int, batchTimeout time.Duration) *FilingsHandler {
	if batchSize <= 0 {
		batchSize = 100
	}
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}
	return &FilingsHandler{
		topic:        topic,
		store:        store,
		metrics:      metrics,
		log:          log,
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		flushed:      time.Now(),
	}
}

func (h *FilingsHandler) Topic() string { return h.topic }

// Handle normalizes one filing message and buffers it for batch insert.
// A malformed message returns an error so the consumer retries and
// eventually routes it to the DLQ.
func (h *FilingsHandler) Handle(ctx context.Context, b []byte) error {
	var f models.Filing
	if err := json.Unmarshal(b, &f); err != nil {
		h.metrics.RecordError("filing_unmarshal")
		return fmt.Errorf("unmarshal filing: %w", err)
	}

	t, err := normalizeFiling(&f)
	if err != nil {
		h.metrics.RecordError("filing_invalid")
		return err
	}
	h.metrics.RecordFilingIngested(t.Source)

	h.mu.Lock()
	h.pending = append(h.pending, t)
	full := len(h.pending) >= h.batchSize
	stale := time.Since(h.flushed) >= h.batchTimeout
	h.mu.Unlock()

	if full || stale {
		return h.Flush(ctx)
	}
	return nil
}

// Flush writes the buffered batch to storage.
func (h *FilingsHandler) Flush(ctx context.Context) error {
	h.mu.Lock()
	batch := h.pending
	h.pending = nil
	h.flushed = time.Now()
	h.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	start := time.Now()
	err := h.store.InsertBatch(ctx, batch)
	h.metrics.RecordQueryDuration("filings_insert", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("filings_insert")
		h.log.Error("filing batch insert failed",
			logger.Error(err), logger.Int("batch", len(batch)))
		return err
	}
	h.metrics.RecordTradesInserted(len(batch))
	h.log.Debug("inserted filing batch", logger.Int("batch", len(batch)))
	return nil
}

func normalizeFiling(f *models.Filing) (*models.Transaction, error) {
	if f.UID == "" || f.ISIN == "" {
		return nil, fmt.Errorf("filing missing uid or isin")
	}
	if f.TransactionType != models.TypeBuy && f.TransactionType != models.TypeSell {
		return nil, fmt.Errorf("filing %s: unknown transaction type %q", f.UID, f.TransactionType)
	}

	txDate, ok := util.ParseTime(f.TransactionDate)
	if !ok {
		return nil, fmt.Errorf("filing %s: bad transaction date %q", f.UID, f.TransactionDate)
	}
	filingDate, ok := util.ParseTime(f.FilingDate)
	if !ok {
		return nil, fmt.Errorf("filing %s: bad filing date %q", f.UID, f.FilingDate)
	}

	now := time.Now().UTC()
	t := &models.Transaction{
		UID:               f.UID,
		ISIN:              f.ISIN,
		CompanyName:       f.CompanyName,
		Ticker:            f.Ticker,
		InsiderName:       f.InsiderName,
		InsiderRole:       f.InsiderRole,
		IsDirector:        f.IsDirector,
		IsOfficer:         f.IsOfficer,
		TransactionType:   f.TransactionType,
		TransactionMethod: f.TransactionMethod,
		TransactionDate:   txDate.UTC(),
		FilingDate:        filingDate.UTC(),
		Shares:            parseDecimal(f.Shares),
		PricePerShare:     parseDecimal(f.PricePerShare),
		TotalAmount:       parseDecimal(f.TotalAmount),
		Currency:          f.Currency,
		Jurisdiction:      f.Jurisdiction,
		Source:            f.Source,
		OwnershipType:     f.OwnershipType,
		SecurityType:      f.SecurityType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return t, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var _ pkgkafka.MessageHandler = (*FilingsHandler)(nil)
