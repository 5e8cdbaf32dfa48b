package export

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gal-ch/green-market/internal/service/models/order"
	"github.com/gal-ch/green-market/internal/service/models/orderitem"
	"github.com/gal-ch/green-market/internal/service/models/report"
)

func TestReportRoundTrip(t *testing.T) {
	rep := &report.Report{
		StartAt: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 3, 11, 18, 0, 0, 0, time.UTC),
		Lines: []report.Line{
			{Product: "Apples", Quantity: 3, PriceCents: 500},
			{Product: "Basil", Quantity: 1, PriceCents: 150},
		},
	}

	data, err := NewEncoder().Report(rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(rep.Lines)+1)
	assert.Equal(t, []string{"Product", "Amount", "Price"}, rows[0])

	got := map[string]int{}
	for _, row := range rows[1:] {
		amount, err := strconv.Atoi(row[1])
		require.NoError(t, err)
		got[row[0]] = amount
	}

	want := map[string]int{}
	for _, line := range rep.Lines {
		want[line.Product] = line.Quantity
	}
	assert.Equal(t, want, got)
}

func TestReportScenarioSingleProduct(t *testing.T) {
	rep := &report.Report{
		Lines: []report.Line{
			{Product: "Apples", Quantity: 3, PriceCents: 500},
		},
	}

	data, err := NewEncoder().Report(rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Apples", "3", "5"}, rows[1])
}

func TestOrdersExportOneRowPerLine(t *testing.T) {
	created := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)
	orders := []order.Order{
		{
			ID:          7,
			ClientName:  "Dana",
			ClientPhone: "050-0000000",
			CreatedAt:   created,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Tomatoes", Quantity: 2, PriceCents: 300},
				{ProductTitle: "Cucumbers", Quantity: 1, PriceCents: 200},
			},
		},
		{
			ID:         8,
			ClientName: "Omer",
			CreatedAt:  created,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Basil", Quantity: 4, PriceCents: 150},
			},
		},
	}

	data, err := NewEncoder().Orders(orders)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OrdersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Tomatoes", rows[1][3])
	assert.Equal(t, "Basil", rows[3][3])
	assert.Equal(t, "Omer", rows[3][1])
}

func TestOrdersExportEmptyCollection(t *testing.T) {
	data, err := NewEncoder().Orders(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OrdersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
