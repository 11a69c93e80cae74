package storage

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/despensa/despensa/internal/codec"
	"github.com/despensa/despensa/internal/sales"
)

const (
	saleHeaderHeader = "id;at"
	saleLineHeader   = "saleId;productId;qty;unitPrice"
)

// SaleHeader is a raw sale header record.
type SaleHeader struct {
	ID string
	At time.Time
}

// SaleLineRow is a raw sale line record. The product reference is an id
// only; resolving it against the live catalog is the hydration layer's
// job.
type SaleLineRow struct {
	SaleID    string
	ProductID string
	Qty       int
	UnitPrice decimal.Decimal
}

// SaleLog stores sales across two append-only files: a header file and a
// line file with one row per sale line. Records are never rewritten or
// deleted; appending the same sale twice duplicates it, so callers append
// each sale exactly once. Delete fails with ErrUnsupported.
//
// The two appends are not atomic; a failure between them can leave a
// header without lines (or the reverse). Readers tolerate both.
type SaleLog struct {
	headersPath string
	linesPath   string
}

// NewSaleLog opens (creating if needed) the sale log files.
func NewSaleLog(headersPath, linesPath string) (*SaleLog, error) {
	if err := initFile(headersPath, saleHeaderHeader); err != nil {
		return nil, err
	}
	if err := initFile(linesPath, saleLineHeader); err != nil {
		return nil, err
	}
	return &SaleLog{headersPath: headersPath, linesPath: linesPath}, nil
}

// Append persists a sale: one header row plus one line row per sale line.
func (s *SaleLog) Append(sale *sales.Sale) error {
	header := codec.Join(sale.ID(), sale.At().Format(time.RFC3339))
	if err := appendLines(s.headersPath, []string{header}); err != nil {
		return err
	}
	var lines []string
	for _, l := range sale.Lines() {
		lines = append(lines, codec.Join(
			sale.ID(),
			l.Product().ID(),
			strconv.Itoa(l.Qty()),
			l.UnitPrice().String(),
		))
	}
	return appendLines(s.linesPath, lines)
}

// Headers returns every sale header in append order. Malformed rows are
// skipped with a warning.
func (s *SaleLog) Headers() ([]SaleHeader, error) {
	rows, err := readRecords(s.headersPath)
	if err != nil {
		return nil, err
	}
	var out []SaleHeader
	for i, c := range rows {
		if len(c) < 2 {
			slog.Warn("skipping malformed sale header", "path", s.headersPath, "row", i+1)
			continue
		}
		at, err := time.Parse(time.RFC3339, c[1])
		if err != nil {
			slog.Warn("skipping sale header with bad timestamp", "path", s.headersPath, "row", i+1, "value", c[1])
			continue
		}
		out = append(out, SaleHeader{ID: c[0], At: at})
	}
	return out, nil
}

// Lines returns every sale line row in append order. Malformed rows are
// skipped with a warning.
func (s *SaleLog) Lines() ([]SaleLineRow, error) {
	rows, err := readRecords(s.linesPath)
	if err != nil {
		return nil, err
	}
	var out []SaleLineRow
	for i, c := range rows {
		if len(c) < 4 {
			slog.Warn("skipping malformed sale line", "path", s.linesPath, "row", i+1)
			continue
		}
		qty, err := strconv.Atoi(c[2])
		if err != nil {
			slog.Warn("skipping sale line with bad quantity", "path", s.linesPath, "row", i+1, "value", c[2])
			continue
		}
		price, err := decimal.NewFromString(c[3])
		if err != nil {
			slog.Warn("skipping sale line with bad price", "path", s.linesPath, "row", i+1, "value", c[3])
			continue
		}
		out = append(out, SaleLineRow{SaleID: c[0], ProductID: c[1], Qty: qty, UnitPrice: price})
	}
	return out, nil
}

// Delete is not supported: the sale log is append-only.
func (s *SaleLog) Delete(id string) error {
	return fmt.Errorf("delete sale %q: %w", id, ErrUnsupported)
}
