package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
)

func validFiling(uid string) models.Filing {
	return models.Filing{
		UID:               uid,
		ISIN:              "DE0001234567",
		CompanyName:       "Test AG",
		InsiderName:       "Alice",
		TransactionType:   models.TypeBuy,
		TransactionMethod: "OPEN_MARKET_PURCHASE",
		TransactionDate:   "2025-03-03T10:00:00Z",
		FilingDate:        "2025-03-05T08:30:00Z",
		Shares:            "100",
		PricePerShare:     "12.50",
		TotalAmount:       "1250.00",
		Currency:          "EUR",
		Jurisdiction:      "DE",
		Source:            "bafin",
	}
}

func newFilingsHandler(store *fakeStore, batchSize int) (*FilingsHandler, *fakeMetrics) {
	m := &fakeMetrics{}
	h := NewFilingsHandler("insider.filings", store, m, testLogger(), batchSize, time.Hour)
	return h, m
}

func TestHandleMalformedJSON(t *testing.T) {
	h, m := newFilingsHandler(&fakeStore{}, 10)
	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if m.errors == 0 {
		t.Fatal("expected an error metric")
	}
}

func TestHandleRejectsInvalidFilings(t *testing.T) {
	cases := map[string]func(*models.Filing){
		"missing uid":  func(f *models.Filing) { f.UID = "" },
		"missing isin": func(f *models.Filing) { f.ISIN = "" },
		"bad type":     func(f *models.Filing) { f.TransactionType = "HOLD" },
		"bad tx date":  func(f *models.Filing) { f.TransactionDate = "yesterday" },
		"bad filed at": func(f *models.Filing) { f.FilingDate = "" },
	}
	for name, mutate := range cases {
		f := validFiling("f1")
		mutate(&f)
		b, err := json.Marshal(f)
		if err != nil {
			t.Fatal(err)
		}
		h, _ := newFilingsHandler(&fakeStore{}, 10)
		if err := h.Handle(context.Background(), b); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestNormalizeFilingFields(t *testing.T) {
	f := validFiling("f1")
	tr, err := normalizeFiling(&f)
	if err != nil {
		t.Fatal(err)
	}
	if tr.UID != "f1" || tr.ISIN != "DE0001234567" {
		t.Fatalf("identity fields: %+v", tr)
	}
	if !tr.TransactionDate.Equal(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("transaction date: %v", tr.TransactionDate)
	}
	if !tr.Shares.Equal(decimal.NewFromInt(100)) || !tr.TotalAmount.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("amounts: shares %s total %s", tr.Shares, tr.TotalAmount)
	}
	if tr.CreatedAt.IsZero() || tr.UpdatedAt.IsZero() {
		t.Error("timestamps must be set")
	}
}

func TestHandleFlushesFullBatch(t *testing.T) {
	store := &fakeStore{}
	h, _ := newFilingsHandler(store, 3)

	for i := 0; i < 2; i++ {
		b, _ := json.Marshal(validFiling(fmt.Sprintf("f%d", i)))
		if err := h.Handle(context.Background(), b); err != nil {
			t.Fatal(err)
		}
	}
	if len(store.trades) != 0 {
		t.Fatalf("batch must not flush before it fills, stored %d", len(store.trades))
	}

	b, _ := json.Marshal(validFiling("f2"))
	if err := h.Handle(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	if len(store.trades) != 3 {
		t.Fatalf("expected 3 stored trades after the batch filled, got %d", len(store.trades))
	}
}

func TestFlushEmptyBatchIsNoop(t *testing.T) {
	h, _ := newFilingsHandler(&fakeStore{}, 10)
	if err := h.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestFlushPropagatesStoreError(t *testing.T) {
	store := &fakeStore{err: context.DeadlineExceeded}
	h, m := newFilingsHandler(store, 10)
	b, _ := json.Marshal(validFiling("f1"))
	if err := h.Handle(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	if err := h.Flush(context.Background()); err == nil {
		t.Fatal("expected the insert error to propagate")
	}
	if m.errors == 0 {
		t.Fatal("expected an error metric")
	}
}
