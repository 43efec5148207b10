package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/trade-history/services/bittrex-importer/internal/database"
	"github.com/trade-history/services/bittrex-importer/internal/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "orders.sqlite3")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	db, err := database.NewConnection(ctx, database.Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.EnsureOrdersTable(ctx, db))
	return db
}

func newOrder(id string, closed bool) *models.Order {
	o := &models.Order{
		ID:             id,
		Pair:           "BTC-ETH",
		Exchange:       models.ExchangeBittrex,
		Type:           models.OrderTypeLimitBuy,
		Quantity:       decimal.RequireFromString("1.5"),
		Limit:          decimal.RequireFromString("0.02"),
		CommissionPaid: decimal.RequireFromString("0.0001"),
		OpenDate:       time.Date(2020, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	if closed {
		c := time.Date(2020, 1, 2, 16, 0, 0, 0, time.UTC)
		o.CloseDate = &c
	}
	return o
}

func TestUpsertQuery(t *testing.T) {
	require.Equal(t,
		`INSERT OR REPLACE INTO "Orders" ("Id", "Pair", "Exchange", "Type", "Quantity", "Limit", "CommissionPaid", "OpenDate", "CloseDate") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		upsertQuery())
}

func TestOrderRepository_UpsertAllAndGet(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()
	repo := NewOrderRepository(setupDB(t), logger)

	n, err := repo.UpsertAll(ctx, []*models.Order{newOrder("abc-123", true), newOrder("open-1", false)})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "Inserted 2 rows", hook.LastEntry().Message)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	got, err := repo.GetByID(ctx, "abc-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "BTC-ETH", got.Pair)
	require.Equal(t, "Bittrex", got.Exchange)
	require.Equal(t, models.OrderTypeLimitBuy, got.Type)
	require.True(t, got.Quantity.Equal(decimal.RequireFromString("1.5")))
	require.True(t, got.Limit.Equal(decimal.RequireFromString("0.02")))
	require.True(t, got.CommissionPaid.Equal(decimal.RequireFromString("0.0001")))
	require.Equal(t, time.Date(2020, 1, 2, 15, 4, 5, 0, time.UTC), got.OpenDate)
	require.True(t, got.IsClosed())
	require.Equal(t, time.Date(2020, 1, 2, 16, 0, 0, 0, time.UTC), *got.CloseDate)

	open, err := repo.GetByID(ctx, "open-1")
	require.NoError(t, err)
	require.False(t, open.IsClosed())

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestOrderRepository_UpsertReplacesWholeRow(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	repo := NewOrderRepository(setupDB(t), logger)

	_, err := repo.UpsertAll(ctx, []*models.Order{newOrder("abc-123", true)})
	require.NoError(t, err)

	replacement := newOrder("abc-123", false)
	replacement.Type = models.OrderTypeOther
	replacement.Quantity = decimal.NewFromInt(7)
	_, err = repo.UpsertAll(ctx, []*models.Order{replacement})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	got, err := repo.GetByID(ctx, "abc-123")
	require.NoError(t, err)
	require.Equal(t, models.OrderTypeOther, got.Type)
	require.True(t, got.Quantity.Equal(decimal.NewFromInt(7)))
	require.False(t, got.IsClosed(), "replace must not merge the previous CloseDate")
}

func TestOrderRepository_UpsertAllRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	_, err := db.ExecContext(ctx, `
		CREATE TRIGGER reject_boom BEFORE INSERT ON "Orders"
		WHEN NEW."Id" = 'boom'
		BEGIN SELECT RAISE(ABORT, 'boom rejected'); END`)
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	repo := NewOrderRepository(db, logger)

	_, err = repo.UpsertAll(ctx, []*models.Order{newOrder("ok-1", true), newOrder("boom", true)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestOrderRepository_UpsertAllWithoutTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.sqlite3")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	db, err := database.NewConnection(ctx, database.Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	logger, _ := test.NewNullLogger()
	_, err = NewOrderRepository(db, logger).UpsertAll(ctx, []*models.Order{newOrder("abc-123", true)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to prepare upsert")
}
