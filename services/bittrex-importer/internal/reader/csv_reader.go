package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/trade-history/services/bittrex-importer/internal/models"
)

var (
	ErrEmptyFile     = errors.New("csv has no header row")
	ErrMissingColumn = errors.New("required column missing from header")
)

// Bittrex exports are UTF-16 little endian; a leading BOM, when present,
// is consumed by the decoder.
var exportEncoding = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

var requiredColumns = []string{
	"OrderUuid", "Exchange", "Type", "Quantity", "Limit", "CommissionPaid", "Opened", "Closed",
}

type CSVReader struct {
	log logrus.FieldLogger
}

func NewCSVReader(log logrus.FieldLogger) *CSVReader {
	return &CSVReader{log: log}
}

func (r *CSVReader) ReadFile(path string) ([]*models.RawOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	return r.Read(f)
}

// Read decodes a whole export held in src. Every data row must have as
// many fields as the header; columns beyond the required ones are ignored.
func (r *CSVReader) Read(src io.Reader) ([]*models.RawOrder, error) {
	decoder := transform.Chain(&utf16LEValidator{}, exportEncoding.NewDecoder())
	cr := csv.NewReader(transform.NewReader(src, decoder))
	cr.Comma = ','

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	r.log.WithField("columns", header).Infof("Reading %d columns", len(header))

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var orders []*models.RawOrder
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		line, _ := cr.FieldPos(0)
		orders = append(orders, &models.RawOrder{
			Line:           line,
			OrderUUID:      record[index["OrderUuid"]],
			Exchange:       record[index["Exchange"]],
			Type:           record[index["Type"]],
			Quantity:       record[index["Quantity"]],
			Limit:          record[index["Limit"]],
			CommissionPaid: record[index["CommissionPaid"]],
			Opened:         record[index["Opened"]],
			Closed:         record[index["Closed"]],
		})
	}

	r.log.Infof("Read %d rows", len(orders))

	if orders == nil {
		orders = []*models.RawOrder{}
	}
	return orders, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return index, nil
}
