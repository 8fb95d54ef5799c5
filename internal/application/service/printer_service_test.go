package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/pkg/printer"
)

func TestBuildReceipt(t *testing.T) {
	centers := newFakeCenterRepo()
	address := "12 MG Road, Bengaluru"
	center := centers.put(&entity.Center{
		Name:     "Koramangala",
		Slug:     "koramangala",
		Address:  &address,
		Settings: entity.CenterSettings{TaxLabel: "GST 18%"},
	})

	svc := NewPrinterService(printer.NewNullPrinter(), newFakeBillRepo(), centers, "none")

	generatedAt := time.Date(2024, 2, 10, 14, 30, 0, 0, time.UTC)
	bill := &entity.Bill{
		CenterID:      center.ID,
		InvoiceNumber: "NVC-20240210-0001",
		Patient:       entity.Patient{ID: uuid.New(), MRN: "MRN-001", FirstName: "Asha", LastName: "Rao"},
		Subtotal:      500,
		Taxes:         90,
		TotalAmount:   590,
		PaidAmount:    590,
		GeneratedAt:   generatedAt,
		Payments: []entity.PaymentRecord{
			{Amount: 590, PaymentMethod: "upi", Status: "completed", PaidAt: generatedAt},
		},
		Items: []entity.BillItem{
			{Name: "Consultation", Quantity: 1, UnitPrice: 500, LineTotal: 500},
			{Name: "Cancelled Panel", Quantity: 1, UnitPrice: 200, LineTotal: 200, Removed: true},
		},
	}

	receipt := svc.buildReceipt(centerCtx(center.ID), bill)

	assert.Equal(t, "10/02/2024 14:30", receipt.Date)
	assert.Equal(t, "Koramangala", receipt.Header.CenterName)
	assert.Equal(t, "12 MG Road, Bengaluru", receipt.Header.Address)
	assert.Equal(t, "GST 18%", receipt.TaxLabel)
	assert.Equal(t, "Asha Rao", receipt.Patient)
	assert.Equal(t, "upi", receipt.PaymentType)
	assert.Len(t, receipt.Items, 1)
	assert.Equal(t, "Consultation", receipt.Items[0].Name)
}

func TestBuildReceipt_FallsBackToCreationDate(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), newFakeBillRepo(), newFakeCenterRepo(), "none")

	bill := &entity.Bill{
		InvoiceNumber: "NVC-20240211-0002",
		CreatedAt:     time.Date(2024, 2, 11, 9, 15, 0, 0, time.UTC),
	}

	receipt := svc.buildReceipt(centerCtx(uuid.New()), bill)

	assert.Equal(t, "11/02/2024 09:15", receipt.Date)
	assert.Equal(t, "Nivaan Care", receipt.Header.CenterName)
}
