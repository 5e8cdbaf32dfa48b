package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/report"
)

const (
	// ReportSheet is the sheet name of the aggregated product summary.
	ReportSheet = "Report"
	// OrdersSheet is the sheet name of the per-order collection export.
	OrdersSheet = "Orders"
)

// Encoder serializes reports and order collections into xlsx artifacts.
type Encoder struct{}

// NewEncoder creates a new Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Report renders an aggregated report as an xlsx workbook with a single
// sheet: a Product | Amount | Price header and one row per product, in the
// report's line order.
func (e *Encoder) Report(rep *report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := setRow(f, ReportSheet, 1, []any{"Product", "Amount", "Price"}); err != nil {
		return nil, err
	}

	for i, line := range rep.Lines {
		row := []any{line.Product, line.Quantity, centsToUnits(line.PriceCents)}
		if err := setRow(f, ReportSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode report workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// Orders renders a collection of orders as an xlsx workbook with one row per
// order line, used for the admin-facing collection export.
func (e *Encoder) Orders(orders []order.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), OrdersSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []any{"Order", "Client", "Phone", "Product", "Amount", "Price", "Created At"}
	if err := setRow(f, OrdersSheet, 1, header); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, o := range orders {
		for _, item := range o.OrderItems {
			row := []any{
				o.ID,
				o.ClientName,
				o.ClientPhone,
				item.ProductTitle,
				item.Quantity,
				centsToUnits(item.PriceCents),
				o.CreatedAt.Format("02/01/2006 15:04"),
			}
			if err := setRow(f, OrdersSheet, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, num int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, num)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", num, err)
	}

	return nil
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}
