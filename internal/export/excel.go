package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sulaymanovI/diamond-water-bot/internal/core"
)

// OrdersFilename returns the dated filename for an orders export.
func OrdersFilename(now time.Time) string {
	return fmt.Sprintf("orders_%s.xlsx", now.Format("2006-01-02"))
}

// ConsumptionsFilename returns the dated filename for an expenses export.
func ConsumptionsFilename(now time.Time) string {
	return fmt.Sprintf("consumptions_%s.xlsx", now.Format("2006-01-02"))
}

// SellersFilename returns the dated filename for a sellers export.
func SellersFilename(now time.Time) string {
	return fmt.Sprintf("sellers_%s.xlsx", now.Format("2006-01-02"))
}

// OrdersWorkbook renders the joined order rows into an xlsx workbook.
func OrdersWorkbook(rows []core.OrderRow) ([]byte, error) {
	headers := []string{
		"Buyurtma ID", "Status", "Sana", "Mijoz", "Telefon", "Passport",
		"Sotuvchi", "Mahsulot Soni", "Umumiy Summa", "Oylik To'lov",
		"Oldindan To'lov", "To'langan", "Qoldiq",
	}
	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		records = append(records, []any{
			r.ID, string(r.Status), r.CreatedAt.Format("2006-01-02 15:04"),
			r.ClientName, r.ClientPhone, r.ClientPassport,
			r.SellerName, r.ItemCount, r.SumOfItem, r.EveryMonthShouldPay,
			r.Prepaid, r.TotalPaid, r.RemainingAmount,
		})
	}
	return workbook("Orders", headers, records)
}

// SellersWorkbook renders the seller roster into an xlsx workbook.
func SellersWorkbook(sellers []core.Seller) ([]byte, error) {
	headers := []string{
		"ID", "To'liq ismi", "Telefon raqami", "Passport seriyasi",
		"Ish boshlagan sana", "Maoshi", "Buyurtmalar soni",
	}
	records := make([][]any, 0, len(sellers))
	for _, s := range sellers {
		started := ""
		if s.StartedJobAt != nil {
			started = s.StartedJobAt.Format("2006-01-02")
		}
		records = append(records, []any{
			s.ID, s.FullName, s.Phone, s.PassportSerial, started, s.Salary, s.OrderCounter,
		})
	}
	return workbook("Sellers", headers, records)
}

// ConsumptionsWorkbook renders expense entries into an xlsx workbook.
func ConsumptionsWorkbook(items []core.Consumption) ([]byte, error) {
	headers := []string{"ID", "Xarajat egasi", "Summa", "Tavsifi", "Sana"}
	records := make([][]any, 0, len(items))
	for _, c := range items {
		amount, _ := c.Amount.Float64()
		records = append(records, []any{
			c.ID, string(c.Owner), amount, c.Description,
			c.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return workbook("Consumptions", headers, records)
}

func workbook(sheet string, headers []string, records [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(headers))
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		widths[col] = len(h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, boldStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for rowIdx, rec := range records {
		for col, val := range rec {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if l := len(fmt.Sprint(val)); l > widths[col] {
				widths[col] = l
			}
		}
	}

	for col := range headers {
		name, _ := excelize.ColumnNumberToName(col + 1)
		w := float64(widths[col]+2) * 1.2
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
