package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/trade-history/services/bittrex-importer/internal/database"
	"github.com/trade-history/services/bittrex-importer/internal/models"
)

// TimeLayout is how OpenDate and CloseDate are stored as TEXT.
const TimeLayout = "2006-01-02 15:04:05"

type OrderRepository struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func NewOrderRepository(db *sql.DB, log logrus.FieldLogger) *OrderRepository {
	return &OrderRepository{db: db, log: log}
}

func upsertQuery() string {
	columns := make([]string, len(database.OrderColumns))
	placeholders := make([]string, len(database.OrderColumns))
	for i, c := range database.OrderColumns {
		columns[i] = `"` + c + `"`
		placeholders[i] = "?"
	}
	return fmt.Sprintf(`INSERT OR REPLACE INTO "%s" (%s) VALUES (%s);`,
		database.OrdersTable, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

// UpsertAll writes every order inside one transaction. Rows sharing an Id
// with a stored order replace it entirely. On error nothing is committed.
func (r *OrderRepository) UpsertAll(ctx context.Context, orders []*models.Order) (int, error) {
	query := upsertQuery()
	r.log.WithField("sql", query).Info("Upserting orders")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		var closeDate sql.NullString
		if o.CloseDate != nil {
			closeDate = sql.NullString{String: o.CloseDate.Format(TimeLayout), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			o.ID,
			o.Pair,
			o.Exchange,
			int(o.Type),
			o.Quantity.InexactFloat64(),
			o.Limit.InexactFloat64(),
			o.CommissionPaid.InexactFloat64(),
			o.OpenDate.Format(TimeLayout),
			closeDate,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert order %s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	r.log.Infof("Inserted %d rows", len(orders))
	return len(orders), nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "Orders"`).Scan(&n)
	return n, err
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT "Id", "Pair", "Exchange", "Type", "Quantity", "Limit",
		       "CommissionPaid", "OpenDate", "CloseDate"
		FROM "Orders"
		WHERE "Id" = ?
	`

	var (
		o                           models.Order
		orderType                   int
		quantity, limit, commission float64
		openDate                    string
		closeDate                   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Pair, &o.Exchange, &orderType, &quantity, &limit,
		&commission, &openDate, &closeDate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.Type = models.OrderType(orderType)
	o.Quantity = decimal.NewFromFloat(quantity)
	o.Limit = decimal.NewFromFloat(limit)
	o.CommissionPaid = decimal.NewFromFloat(commission)

	if o.OpenDate, err = time.Parse(TimeLayout, openDate); err != nil {
		return nil, fmt.Errorf("invalid OpenDate %q: %w", openDate, err)
	}
	if closeDate.Valid {
		closed, err := time.Parse(TimeLayout, closeDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid CloseDate %q: %w", closeDate.String, err)
		}
		o.CloseDate = &closed
	}

	return &o, nil
}
