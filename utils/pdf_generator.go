package utils

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"harvesterbilling/billing"
	"harvesterbilling/logger"
	"harvesterbilling/models"
)

//go:embed templates/invoice_template.html
var invoiceTemplateHTML string

var invoiceTemplate = template.Must(template.New("invoice").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(invoiceTemplateHTML))

const pdfTimeout = 30 * time.Second

// NewInvoiceData prepares the template data for a stored bill.
func NewInvoiceData(bill models.Bill, settings models.AppSettings, c billing.Catalog, paymentURI string) (models.InvoicePDFData, error) {
	formattedDate := "-"
	if t, err := time.Parse(time.RFC3339, bill.CreatedAt); err == nil {
		formattedDate = t.Format("02-Jan-2006")
	}

	lines := make([]models.InvoiceLine, 0, len(bill.Sessions))
	for _, s := range bill.Sessions {
		machine := "Harvester"
		if v, ok := c.Vehicle(s.MachineID); ok {
			machine = fmt.Sprintf("%s [%s]", v.Name, v.Type)
		}
		lines = append(lines, models.InvoiceLine{
			Date:     s.Date,
			Machine:  machine,
			WorkTime: s.WorkTime,
			Rate:     billing.FormatRupees(s.StandardRate),
			Amount:   billing.FormatRupees(s.TotalAmount),
		})
	}

	qr, err := PaymentQRDataURI(paymentURI)
	if err != nil {
		return models.InvoicePDFData{}, err
	}

	b := bill
	return models.InvoicePDFData{
		Company:     settings,
		Bill:        &b,
		Lines:       lines,
		Date:        formattedDate,
		Duration:    billing.FormatDuration(billing.TotalHours(bill.Sessions)),
		Total:       billing.FormatRupees(bill.TotalAmount),
		Paid:        billing.FormatRupees(bill.PaidAmount),
		Due:         billing.FormatRupees(bill.DueAmount),
		TotalWords:  NumberToCurrencyWords(bill.TotalAmount),
		PaymentLink: paymentURI,
		QRCode:      qr,
	}, nil
}

func RenderInvoiceHTML(data models.InvoicePDFData) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateInvoicePDF prints the rendered invoice to an A4 PDF with headless Chrome.
func GenerateInvoicePDF(ctx context.Context, data models.InvoicePDFData) ([]byte, error) {
	html, err := RenderInvoiceHTML(data)
	if err != nil {
		return nil, err
	}

	tmpHTML := filepath.Join(os.TempDir(), fmt.Sprintf("invoice_%s_%d.html", data.Bill.ID, time.Now().UnixNano()))
	if err := os.WriteFile(tmpHTML, html, 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()
	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		logger.Error("invoice pdf failed", zap.String("bill_id", data.Bill.ID), zap.Error(err))
		return nil, err
	}
	return pdfBuf, nil
}
