package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
	"github.com/nivaancare/clinic-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	billRepo    repository.BillRepository
	centerRepo  repository.CenterRepository
	printerType string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	centerRepo repository.CenterRepository,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		billRepo:    billRepo,
		centerRepo:  centerRepo,
		printerType: printerType,
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
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			CenterName: "PRINTER TEST",
			Address:    "Test Address",
			Phone:      "+91 00000 00000",
		},
		InvoiceNo: "TEST-001",
		Date:      "Test Date",
		Items: []entity.ReceiptItem{
			{Name: "Test Service 1", Quantity: 1, UnitPrice: 100.00, Total: 100.00},
			{Name: "Test Service 2", Quantity: 2, UnitPrice: 50.00, Total: 100.00},
		},
		SubTotal: 200.00,
		TaxLabel: "GST",
		Tax:      36.00,
		Total:    236.00,
		Paid:     236.00,
		Due:      0.00,
	}

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintBillReceipt fetches a bill (with details) and prints its receipt.
func (s *PrinterService) PrintBillReceipt(ctx context.Context, billID uuid.UUID) (*entity.Receipt, error) {
	bill, err := s.billRepo.GetWithDetails(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	receipt := s.buildReceipt(ctx, bill)

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (bill %s): %v", billID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

func (s *PrinterService) buildReceipt(ctx context.Context, bill *entity.Bill) *entity.Receipt {
	receipt := &entity.Receipt{
		InvoiceNo: bill.InvoiceNumber,
		TaxLabel:  "GST",
		SubTotal:  bill.Subtotal,
		Tax:       bill.Taxes,
		Discount:  bill.Discounts,
		Total:     bill.TotalAmount,
		Paid:      bill.PaidAmount,
		Due:       bill.Outstanding(),
		Refunded:  bill.RefundedAmount,
	}

	if !bill.GeneratedAt.IsZero() {
		receipt.Date = bill.GeneratedAt.Format("02/01/2006 15:04")
	} else {
		receipt.Date = bill.CreatedAt.Format("02/01/2006 15:04")
	}

	if center, err := s.centerRepo.GetByID(ctx, bill.CenterID); err == nil && center != nil {
		receipt.Header.CenterName = center.Name
		if center.Address != nil {
			receipt.Header.Address = *center.Address
		}
		if center.Phone != nil {
			receipt.Header.Phone = *center.Phone
		}
		if center.Settings.TaxLabel != "" {
			receipt.TaxLabel = center.Settings.TaxLabel
		}
	}
	if receipt.Header.CenterName == "" {
		receipt.Header.CenterName = "Nivaan Care"
	}

	if bill.Patient.ID != uuid.Nil {
		receipt.Patient = bill.Patient.FullName()
		receipt.MRN = bill.Patient.MRN
	}

	if len(bill.Payments) > 0 {
		receipt.PaymentType = bill.Payments[len(bill.Payments)-1].PaymentMethod
	}

	for _, item := range bill.Items {
		if item.Removed {
			continue
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.LineTotal,
		})
	}

	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.CenterName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("GSTIN: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Patient != "" {
		doc.KeyValue("Patient:", r.Patient)
	}
	if r.MRN != "" {
		doc.KeyValue("MRN:", r.MRN)
	}
	if r.PaymentType != "" {
		doc.KeyValue("Payment:", r.PaymentType)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(int(item.Quantity), item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.Tax > 0 {
		label := r.TaxLabel
		if label == "" {
			label = "Tax"
		}
		doc.KeyValue(label+":", fmt.Sprintf("%.2f", r.Tax))
	}
	if r.Discount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.Paid > 0 {
		doc.KeyValue("Paid:", fmt.Sprintf("%.2f", r.Paid))
	}
	if r.Due > 0 {
		doc.KeyValue("Due:", fmt.Sprintf("%.2f", r.Due))
	}
	if r.Refunded > 0 {
		doc.KeyValue("Refunded:", fmt.Sprintf("%.2f", r.Refunded))
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Get well soon!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
