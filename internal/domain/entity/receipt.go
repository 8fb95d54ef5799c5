package entity

// ReceiptHeader holds the center details printed at the top of a receipt.
type ReceiptHeader struct {
	CenterName string `json:"center_name"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
}

// ReceiptItem is a single service line on a printed receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is the printable representation of a bill, rendered to
// ESC/POS bytes for the front-desk thermal printer.
type Receipt struct {
	Header      ReceiptHeader `json:"header"`
	InvoiceNo   string        `json:"invoice_no"`
	Date        string        `json:"date"`
	Patient     string        `json:"patient,omitempty"`
	MRN         string        `json:"mrn,omitempty"`
	ReceivedBy  string        `json:"received_by,omitempty"`
	PaymentType string        `json:"payment_type,omitempty"`
	Items       []ReceiptItem `json:"items"`
	SubTotal    float64       `json:"sub_total"`
	TaxLabel    string        `json:"tax_label,omitempty"`
	Tax         float64       `json:"tax"`
	Discount    float64       `json:"discount"`
	Total       float64       `json:"total"`
	Paid        float64       `json:"paid"`
	Due         float64       `json:"due"`
	Refunded    float64       `json:"refunded"`
}
