package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/money"
	"github.com/sangkips/ventapett-pos/pkg/printer"
)

// PrinterService formats receipts and cashout slips and sends them to the
// thermal printer.
type PrinterService struct {
	printer     printer.Printer
	printerType string
	charWidth   int
	header      entity.ReceiptHeader
	loc         *time.Location
	log         *logrus.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	printerType string,
	charWidth int,
	header entity.ReceiptHeader,
	loc *time.Location,
	log *logrus.Logger,
) *PrinterService {
	if loc == nil {
		loc = time.Local
	}
	return &PrinterService{
		printer:     p,
		printerType: printerType,
		charWidth:   charWidth,
		header:      header,
		loc:         loc,
		log:         log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// PrintReceipt prints a sale receipt.
func (s *PrinterService) PrintReceipt(r *entity.Receipt) error {
	if err := s.printer.Print(FormatReceipt(r, s.charWidth, s.loc)); err != nil {
		s.log.WithError(err).WithField("folio", r.Folio).Error("receipt print failed")
		return fmt.Errorf("failed to print receipt: %w", err)
	}
	return nil
}

// PrintCashout prints the cashout slip for a report.
func (s *PrinterService) PrintCashout(report *CashoutReport) error {
	data := FormatCashoutSlip(report, s.header, time.Now().In(s.loc), s.charWidth)
	if err := s.printer.Print(data); err != nil {
		s.log.WithError(err).WithField("date", report.Filter.Date).Error("cashout slip print failed")
		return fmt.Errorf("failed to print cashout slip: %w", err)
	}
	return nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, charWidth int, loc *time.Location) []byte {
	doc := printer.NewDocument(charWidth)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Folio:", r.Folio).
		KeyValue("Fecha:", r.IssuedAt.In(loc).Format("02-01-2006 15:04"))
	if r.Cashier != "" {
		doc.KeyValue("Vendedor:", r.Cashier)
	}
	doc.KeyValue("Pago:", r.PaymentMethod.WireLabel()).
		Separator('-')

	for _, item := range r.Items {
		doc.KeyValue(strconv.Itoa(item.Quantity)+"x "+item.Name, money.FormatCurrency(item.Total))
		if item.Quantity > 1 {
			doc.Text("  " + money.FormatCurrency(item.UnitPrice) + " c/u")
		}
	}

	doc.Separator('-').
		KeyValue("Neto:", money.FormatCurrency(r.Net)).
		KeyValue("IVA:", money.FormatCurrency(r.Tax)).
		SetBold(true).
		KeyValue("TOTAL:", money.FormatCurrency(r.Total)).
		SetBold(false)

	if r.PaymentMethod.IsCash() {
		doc.KeyValue("Recibido:", money.FormatCurrency(r.AmountTendered)).
			KeyValue("Vuelto:", money.FormatCurrency(r.Change))
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Gracias por su compra").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatCashoutSlip converts a cashout report into ESC/POS bytes.
func FormatCashoutSlip(report *CashoutReport, header entity.ReceiptHeader, printedAt time.Time, charWidth int) []byte {
	doc := printer.NewDocument(charWidth)
	r := report.Reconciliation
	sum := report.Summary

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

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text(header.StoreName).
		Text("CUADRATURA DE CAJA").
		SetBold(false).
		SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Fecha:", date).
		KeyValue("Vendedor:", seller).
		KeyValue("Impreso:", printedAt.Format("02-01-2006 15:04")).
		Separator('-').
		KeyValue("Ventas:", strconv.Itoa(sum.SaleCount)).
		KeyValue("Total vendido:", money.FormatCurrency(sum.TotalSold)).
		KeyValue("Efectivo:", money.FormatCurrency(sum.TotalCash)).
		KeyValue("Debito:", money.FormatCurrency(sum.TotalDebit)).
		KeyValue("Credito:", money.FormatCurrency(sum.TotalCredit)).
		Separator('-')

	for _, line := range report.Denominations {
		if line.Count == 0 {
			continue
		}
		doc.KeyValue(strconv.Itoa(line.Count)+" x "+line.Label, money.FormatCurrency(line.Subtotal))
	}

	doc.Separator('-').
		KeyValue("Base de caja:", money.FormatCurrency(r.BaseCashFloat)).
		KeyValue("Esperado:", money.FormatCurrency(r.ExpectedCash)).
		KeyValue("Fisico:", money.FormatCurrency(r.PhysicalCash)).
		SetBold(true).
		KeyValue("Diferencia:", money.FormatCurrency(r.Variance)).
		KeyValue("Estado:", r.Status.Label()).
		SetBold(false).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
