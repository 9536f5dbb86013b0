package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marvin-fritz/webapi/internal/domain/models"
	"github.com/marvin-fritz/webapi/internal/domain/repository"
)

const tradeColumns = "uid, isin, company_name, ticker, insider_name, insider_role, " +
	"is_director, is_officer, transaction_type, transaction_method, transaction_date, " +
	"filing_date, shares, price_per_share, total_amount, currency, jurisdiction, " +
	"source, ownership_type, security_type, created_at, updated_at"

// ClickHouseTradeStore implements TradeStore for ClickHouse.
type ClickHouseTradeStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseTradeStore creates a ClickHouse-backed trade store.
func NewClickHouseTradeStore(db *sql.DB, table string) repository.TradeStore {
	return &ClickHouseTradeStore{db: db, table: table}
}

func (s *ClickHouseTradeStore) Query(ctx context.Context, f repository.TradeFilter) ([]*models.Transaction, error) {
	where, args := buildWhere(f)
	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY transaction_date ASC, uid ASC", tradeColumns, s.table, where)
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
		if f.Offset > 0 {
			q += fmt.Sprintf(" OFFSET %d", f.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *ClickHouseTradeStore) Count(ctx context.Context, f repository.TradeFilter) (int64, error) {
	where, args := buildWhere(f)
	q := fmt.Sprintf("SELECT count() FROM %s%s", s.table, where)

	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}

func (s *ClickHouseTradeStore) InsertBatch(ctx context.Context, trades []*models.Transaction) error {
	if len(trades) == 0 {
		return nil
	}
	// Multi-row VALUES to keep round-trips down; chunked to bound query size.
	const chunkSize = 1000
	for start := 0; start < len(trades); start += chunkSize {
		end := start + chunkSize
		if end > len(trades) {
			end = len(trades)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*22)
		for _, t := range trades[start:end] {
			if t == nil || t.UID == "" || t.ISIN == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			shares, _ := t.Shares.Float64()
			price, _ := t.PricePerShare.Float64()
			amount, _ := t.TotalAmount.Float64()
			args = append(args,
				t.UID, t.ISIN, t.CompanyName, t.Ticker,
				t.InsiderName, t.InsiderRole, t.IsDirector, t.IsOfficer,
				t.TransactionType, t.TransactionMethod, t.TransactionDate, t.FilingDate,
				shares, price, amount, t.Currency,
				t.Jurisdiction, t.Source, t.OwnershipType, t.SecurityType,
				t.CreatedAt, t.UpdatedAt,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, tradeColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert trades: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseTradeStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseTradeStore) Close() error {
	return nil // connection owned by pkg/clickhouse
}

func buildWhere(f repository.TradeFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.UID != "" {
		conds = append(conds, "uid = ?")
		args = append(args, f.UID)
	}
	if !f.From.IsZero() {
		conds = append(conds, "transaction_date >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		conds = append(conds, "transaction_date <= ?")
		args = append(args, f.To)
	}
	if !f.FiledFrom.IsZero() {
		conds = append(conds, "filing_date >= ?")
		args = append(args, f.FiledFrom)
	}
	if !f.FiledTo.IsZero() {
		conds = append(conds, "filing_date <= ?")
		args = append(args, f.FiledTo)
	}
	if !f.FiledBefore.IsZero() {
		conds = append(conds, "filing_date < ?")
		args = append(args, f.FiledBefore)
	}
	if f.Jurisdiction != "" {
		conds = append(conds, "jurisdiction = ?")
		args = append(args, f.Jurisdiction)
	}
	if len(f.ISINs) > 0 {
		ph := strings.TrimSuffix(strings.Repeat("?,", len(f.ISINs)), ",")
		conds = append(conds, fmt.Sprintf("isin IN (%s)", ph))
		for _, isin := range f.ISINs {
			args = append(args, isin)
		}
	}
	if f.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, f.Source)
	}
	if f.Type != "" {
		conds = append(conds, "transaction_type = ?")
		args = append(args, f.Type)
	}
	if f.InsiderName != "" {
		conds = append(conds, "positionCaseInsensitive(insider_name, ?) > 0")
		args = append(args, f.InsiderName)
	}
	if f.MinAmount > 0 {
		conds = append(conds, "total_amount >= ?")
		args = append(args, f.MinAmount)
	}
	if f.MaxAmount > 0 {
		conds = append(conds, "total_amount <= ?")
		args = append(args, f.MaxAmount)
	}

	switch f.Methods {
	case repository.ScopeOpenMarket:
		cond, list := methodPredicate("IN", models.MethodNames(models.KindOpenMarket))
		conds = append(conds, cond)
		args = append(args, list...)
	case repository.ScopeExcludeNonTrade:
		cond, list := methodPredicate("NOT IN", models.MethodNames(models.KindNonTrade))
		conds = append(conds, cond)
		args = append(args, list...)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func methodPredicate(op string, names []string) (string, []interface{}) {
	ph := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]interface{}, len(names))
	for i, n := range names {
		args[i] = n
	}
	return fmt.Sprintf("lowerUTF8(transaction_method) %s (%s)", op, ph), args
}

func scanTransaction(rows *sql.Rows) (*models.Transaction, error) {
	var t models.Transaction
	var shares, price, amount float64
	if err := rows.Scan(
		&t.UID, &t.ISIN, &t.CompanyName, &t.Ticker,
		&t.InsiderName, &t.InsiderRole, &t.IsDirector, &t.IsOfficer,
		&t.TransactionType, &t.TransactionMethod, &t.TransactionDate, &t.FilingDate,
		&shares, &price, &amount, &t.Currency,
		&t.Jurisdiction, &t.Source, &t.OwnershipType, &t.SecurityType,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan trade: %w", err)
	}
	t.Shares = decimal.NewFromFloat(shares)
	t.PricePerShare = decimal.NewFromFloat(price)
	t.TotalAmount = decimal.NewFromFloat(amount)
	return &t, nil
}

// TradeSchema returns DDL statements for the trade table.
func TradeSchema(table string) []string {
	return []string{fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		uid String,
		isin String,
		company_name String,
		ticker String,
		insider_name String,
		insider_role String,
		is_director Bool,
		is_officer Bool,
		transaction_type LowCardinality(String),
		transaction_method LowCardinality(String),
		transaction_date DateTime('UTC'),
		filing_date DateTime('UTC'),
		shares Float64,
		price_per_share Float64,
		total_amount Float64,
		currency LowCardinality(String),
		jurisdiction LowCardinality(String),
		source LowCardinality(String),
		ownership_type LowCardinality(String),
		security_type LowCardinality(String),
		created_at DateTime('UTC') DEFAULT now(),
		updated_at DateTime('UTC') DEFAULT now()
	) ENGINE = ReplacingMergeTree(updated_at)
	PARTITION BY toYYYYMM(transaction_date)
	ORDER BY (isin, transaction_date, uid)`, table)}
}
