package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trade-history/services/bittrex-importer/internal/database"
	"github.com/trade-history/services/bittrex-importer/internal/reader"
	"github.com/trade-history/services/bittrex-importer/internal/repository"
)

type ImportResult struct {
	RowsRead     int
	RowsUpserted int
	StoredTotal  int
}

type ImportService struct {
	log         logrus.FieldLogger
	busyTimeout time.Duration
}

func NewImportService(log logrus.FieldLogger, busyTimeout time.Duration) *ImportService {
	return &ImportService{log: log, busyTimeout: busyTimeout}
}

// Import loads one Bittrex export into dbPath. Either every row of the
// file ends up in Orders or, on any error, none of them do.
func (s *ImportService) Import(ctx context.Context, csvPath, dbPath string) (*ImportResult, error) {
	if err := ValidateInputs(csvPath, dbPath); err != nil {
		return nil, err
	}

	raw, err := reader.NewCSVReader(s.log).ReadFile(csvPath)
	if err != nil {
		return nil, &ParseError{Path: csvPath, Err: err}
	}

	orders, err := ConvertOrders(raw, s.log)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(ctx, database.Config{Path: dbPath, BusyTimeout: s.busyTimeout})
	if err != nil {
		return nil, &DatabaseError{Op: "connect", Err: err}
	}
	defer db.Close()

	s.log.WithField("database", dbPath).Info("Connected")

	if err := database.EnsureOrdersTable(ctx, db); err != nil {
		return nil, &DatabaseError{Op: "create table", Err: err}
	}

	repo := repository.NewOrderRepository(db, s.log)
	upserted, err := repo.UpsertAll(ctx, orders)
	if err != nil {
		return nil, &DatabaseError{Op: "upsert", Err: err}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, &DatabaseError{Op: "count", Err: err}
	}

	s.log.WithFields(logrus.Fields{
		"upserted": upserted,
		"total":    total,
	}).Info("Import complete")

	return &ImportResult{
		RowsRead:     len(raw),
		RowsUpserted: upserted,
		StoredTotal:  total,
	}, nil
}
