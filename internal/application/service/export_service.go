package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// XLSXContentType is the media type of the workbooks built here.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet       = "Resumen"
	transactionsSheet  = "Ventas"
	denominationsSheet = "Arqueo"
)

var transactionHeadings = []any{"Folio", "Fecha", "Vendedor", "Medio de pago", "Total", "Productos"}

// ExportService renders cashouts and sales history as XLSX workbooks.
type ExportService struct {
	loc *time.Location
}

func NewExportService(loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.Local
	}
	return &ExportService{loc: loc}
}

// CashoutWorkbook writes the summary, the transactions and the count sheet.
func (s *ExportService) CashoutWorkbook(report *CashoutReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	r := report.Reconciliation
	seller := "Todos"
	if !report.Filter.StoreWide() {
		seller = report.Filter.SellerName
		if seller == "" {
			seller = report.Filter.SellerID
		}
	}
	date := report.Filter.Date
	if date == "" {
		date = "Todas"
	}

	rows := [][]any{
		{"Fecha", date},
		{"Vendedor", text(seller)},
		{"Ventas", report.Summary.SaleCount},
		{"Total vendido", report.Summary.TotalSold},
		{"Efectivo", report.Summary.TotalCash},
		{"Débito", report.Summary.TotalDebit},
		{"Crédito", report.Summary.TotalCredit},
		{"Total no efectivo", report.Summary.TotalNonCash},
		{"Base de caja", r.BaseCashFloat},
		{"Efectivo esperado", r.ExpectedCash},
		{"Efectivo físico", r.PhysicalCash},
		{"Diferencia", r.Variance},
		{"Estado", r.Status.Label()},
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return nil, err
	}

	if err := s.writeTransactions(f, report.Summary.Transactions); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(denominationsSheet); err != nil {
		return nil, err
	}
	counts := [][]any{{"Denominación", "Cantidad", "Subtotal"}}
	for _, line := range report.Denominations {
		counts = append(counts, []any{line.Label, line.Count, line.Subtotal})
	}
	counts = append(counts, []any{"Total", "", r.PhysicalCash})
	if err := writeRows(f, denominationsSheet, counts); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// SalesWorkbook writes a single sheet with one row per sale.
func (s *ExportService) SalesWorkbook(txs []entity.NormalizedTransaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, err
	}
	if err := s.fillTransactions(f, txs); err != nil {
		return nil, err
	}
	return f, nil
}

// Write streams the workbook and closes it.
func (s *ExportService) Write(w io.Writer, f *excelize.File) error {
	defer f.Close()
	return f.Write(w)
}

// Filename builds a download name such as cuadratura-2024-01-15.xlsx.
func (s *ExportService) Filename(prefix, date string) string {
	if date == "" {
		date = time.Now().In(s.loc).Format("2006-01-02")
	}
	return prefix + "-" + date + ".xlsx"
}

func (s *ExportService) writeTransactions(f *excelize.File, txs []entity.NormalizedTransaction) error {
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return err
	}
	return s.fillTransactions(f, txs)
}

func (s *ExportService) fillTransactions(f *excelize.File, txs []entity.NormalizedTransaction) error {
	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, transactionHeadings)
	for _, tx := range txs {
		when := ""
		if tx.Timestamp != nil {
			when = tx.Timestamp.In(s.loc).Format("2006-01-02 15:04")
		}
		rows = append(rows, []any{
			text(tx.ID),
			when,
			text(tx.SellerName),
			text(tx.PaymentLabel),
			tx.Total,
			text(itemsSummary(tx.Items)),
		})
	}
	return writeRows(f, transactionsSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// text guards free-form cells against formula injection.
func text(s string) string {
	return utils.SanitizeForFormulaInjection(s)
}

func itemsSummary(items []entity.TransactionItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	return strings.Join(parts, ", ")
}

