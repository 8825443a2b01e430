package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

func TestOrdersWorkbook(t *testing.T) {
	created := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	rows := []core.OrderRow{
		{
			Order: core.Order{
				ID: 1, ItemCount: 12, SumOfItem: 1_200_000, EveryMonthShouldPay: 100_000,
				Prepaid: 200_000, TotalPaid: 500_000, RemainingAmount: 700_000,
				Status: core.StatusOpen, CreatedAt: created,
			},
			ClientName:     "Alisher Usmonov",
			ClientPhone:    "+998901112233",
			ClientPassport: "AB1234567",
			SellerName:     "Bekzod Tashkentov",
		},
	}

	data, err := OrdersWorkbook(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Orders"}, f.GetSheetList())

	header, err := f.GetCellValue("Orders", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Buyurtma ID", header)

	client, err := f.GetCellValue("Orders", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Alisher Usmonov", client)

	status, err := f.GetCellValue("Orders", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ochiq", status)

	remaining, err := f.GetCellValue("Orders", "M2")
	require.NoError(t, err)
	assert.Equal(t, "700000", remaining)
}

func TestSellersWorkbook(t *testing.T) {
	started := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	data, err := SellersWorkbook([]core.Seller{
		{ID: 1, FullName: "Bekzod Tashkentov", Phone: "+998933334455",
			PassportSerial: "AD1112223", Salary: 3_000_000,
			StartedJobAt: &started, OrderCounter: 4},
		{ID: 2, FullName: "No Start Date", Phone: "", PassportSerial: "AD0000001"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	date, err := f.GetCellValue("Sellers", "E2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", date)

	noDate, err := f.GetCellValue("Sellers", "E3")
	require.NoError(t, err)
	assert.Empty(t, noDate)

	counter, err := f.GetCellValue("Sellers", "G2")
	require.NoError(t, err)
	assert.Equal(t, "4", counter)
}

func TestConsumptionsWorkbook(t *testing.T) {
	data, err := ConsumptionsWorkbook([]core.Consumption{
		{ID: 3, Owner: core.OwnerBekzod, Amount: decimal.RequireFromString("150000.50"),
			Description: "benzin", CreatedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	owner, err := f.GetCellValue("Consumptions", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Bekzod", owner)

	amount, err := f.GetCellValue("Consumptions", "C2")
	require.NoError(t, err)
	assert.Equal(t, "150000.5", amount)
}

func TestFilenamesCarryDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "orders_2026-08-30.xlsx", OrdersFilename(now))
	assert.Equal(t, "sellers_2026-08-30.xlsx", SellersFilename(now))
	assert.Equal(t, "consumptions_2026-08-30.xlsx", ConsumptionsFilename(now))
}
