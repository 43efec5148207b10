package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/trade-history/services/bittrex-importer/internal/models"
)

// Bittrex timestamps look like "12/14/2017 4:23:34 PM"; single-digit
// month, day and hour are accepted as well as zero padded ones. The
// meridiem is matched case-insensitively.
const bittrexTimeLayout = "1/2/2006 3:04:05 PM"

// ConvertOrders maps raw CSV rows onto Orders column values. The first
// bad field fails the whole batch and no orders are returned.
func ConvertOrders(raw []*models.RawOrder, log logrus.FieldLogger) ([]*models.Order, error) {
	if raw == nil {
		return nil, &TypeError{Msg: "expected a list of raw orders, got nil"}
	}

	log.Info("Converting data...")

	orders := make([]*models.Order, 0, len(raw))
	for i, r := range raw {
		if r == nil {
			return nil, &TypeError{Msg: fmt.Sprintf("raw order at index %d is nil", i)}
		}
		o, err := convertOrder(r)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func convertOrder(r *models.RawOrder) (*models.Order, error) {
	o := &models.Order{
		ID:       r.OrderUUID,
		Pair:     r.Exchange,
		Exchange: models.ExchangeBittrex,
		Type:     models.OrderTypeFromRaw(r.Type),
	}

	var err error
	if o.Quantity, err = parseDecimal(r, "Quantity", r.Quantity); err != nil {
		return nil, err
	}
	if o.Limit, err = parseDecimal(r, "Limit", r.Limit); err != nil {
		return nil, err
	}
	if o.CommissionPaid, err = parseDecimal(r, "CommissionPaid", r.CommissionPaid); err != nil {
		return nil, err
	}
	if o.OpenDate, err = parseTime(r, "Opened", r.Opened); err != nil {
		return nil, err
	}

	// An order still open at export time has no Closed value.
	if strings.TrimSpace(r.Closed) != "" {
		closed, err := parseTime(r, "Closed", r.Closed)
		if err != nil {
			return nil, err
		}
		o.CloseDate = &closed
	}

	return o, nil
}

func parseDecimal(r *models.RawOrder, field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &FormatError{Line: r.Line, Field: field, Value: value, Err: err}
	}
	return d, nil
}

func parseTime(r *models.RawOrder, field, value string) (time.Time, error) {
	t, err := time.Parse(bittrexTimeLayout, strings.ToUpper(strings.TrimSpace(value)))
	if err != nil {
		return time.Time{}, &FormatError{Line: r.Line, Field: field, Value: value, Err: err}
	}
	return t, nil
}
