package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeBittrex is stored in every imported row; the export itself
// carries no venue column.
const ExchangeBittrex = "Bittrex"

// OrderType is persisted as an integer. Only LIMIT_BUY keeps its own
// value; sells, market orders and anything else collapse into OrderTypeOther.
type OrderType int

const (
	OrderTypeLimitBuy OrderType = 1
	OrderTypeOther    OrderType = 2
)

const rawTypeLimitBuy = "LIMIT_BUY"

func OrderTypeFromRaw(raw string) OrderType {
	if raw == rawTypeLimitBuy {
		return OrderTypeLimitBuy
	}
	return OrderTypeOther
}

// RawOrder is one data line of a Bittrex order-history export.
// Exchange holds the market pair (e.g. BTC-ETH), not the venue.
type RawOrder struct {
	Line           int
	OrderUUID      string
	Exchange       string
	Type           string
	Quantity       string
	Limit          string
	CommissionPaid string
	Opened         string
	Closed         string
}

type Order struct {
	ID             string          `db:"Id"`
	Pair           string          `db:"Pair"`
	Exchange       string          `db:"Exchange"`
	Type           OrderType       `db:"Type"`
	Quantity       decimal.Decimal `db:"Quantity"`
	Limit          decimal.Decimal `db:"Limit"`
	CommissionPaid decimal.Decimal `db:"CommissionPaid"`
	OpenDate       time.Time       `db:"OpenDate"`
	CloseDate      *time.Time      `db:"CloseDate"`
}

func (o *Order) IsClosed() bool {
	return o.CloseDate != nil
}
