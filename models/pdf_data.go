package models

import "html/template"

// InvoiceLine is one rendered session row on the invoice.
type InvoiceLine struct {
	Date     string
	Machine  string
	WorkTime string
	Rate     string
	Amount   string
}

type InvoicePDFData struct {
	Company     AppSettings
	Bill        *Bill
	Lines       []InvoiceLine
	Date        string // formatted invoice date
	Duration    string // total work, e.g. "3h 30m"
	Total       string
	Paid        string
	Due         string
	TotalWords  string
	PaymentLink string
	QRCode      template.URL // data URI of the UPI QR code PNG
}
