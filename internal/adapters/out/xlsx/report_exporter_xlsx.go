// internal/adapters/out/xlsx/report_exporter_xlsx.go
package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/tisoftshake/softshake/internal/domain/pricing"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

const (
	contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	moneyFormat = "#,##0.00"

	summarySheet = "Resumo"
	ordersSheet  = "Pedidos"
)

// ReportExporter renders a SalesReport as a two-sheet workbook:
//   - Resumo: period and totals
//   - Pedidos: one row per order of the period
type ReportExporter struct {
	loc *time.Location
}

func NewReportExporter(loc *time.Location) *ReportExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportExporter{loc: loc}
}

func (e *ReportExporter) ContentType() string { return contentType }
func (e *ReportExporter) Extension() string   { return ".xlsx" }

func (e *ReportExporter) Render(w io.Writer, r reportdom.SalesReport) error {
	file := xlsx.NewFile()

	summary, err := file.AddSheet(summarySheet)
	if err != nil {
		return fmt.Errorf("xlsx: add sheet %s: %w", summarySheet, err)
	}
	addStrings(summary, "SoftShake - Relatório de Vendas")
	addStrings(summary, "Período", fmt.Sprintf("%s %d", r.MonthName(), r.Year))
	addStrings(summary, "Métrica", "Valor")
	addMoney(summary, "Total de Vendas", r.TotalSales.InexactFloat64())
	row := summary.AddRow()
	row.AddCell().SetString("Total de Pedidos")
	row.AddCell().SetInt(r.TotalOrders)
	addMoney(summary, "Ticket Médio", r.AverageOrderValue.InexactFloat64())

	orders, err := file.AddSheet(ordersSheet)
	if err != nil {
		return fmt.Errorf("xlsx: add sheet %s: %w", ordersSheet, err)
	}
	addStrings(orders, "ID", "Cliente", "Tipo", "Itens", "Valor", "Data", "Status")
	for _, o := range r.Orders {
		row := orders.AddRow()
		row.AddCell().SetString(shortID(o.ID))
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(deliveryLabel(o.DeliveryType))
		row.AddCell().SetInt(o.ItemCount)
		row.AddCell().SetFloatWithFormat(o.TotalAmount.InexactFloat64(), moneyFormat)
		row.AddCell().SetString(o.CreatedAt.In(e.loc).Format("02/01/2006"))
		row.AddCell().SetString(string(o.Status))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addMoney(sheet *xlsx.Sheet, label string, v float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloatWithFormat(v, moneyFormat)
}

func deliveryLabel(t pricing.DeliveryType) string {
	if t == pricing.DeliveryDelivery {
		return "Entrega"
	}
	return "Retirada"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
