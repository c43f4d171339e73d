package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"discts/models"

	"github.com/araddon/dateparse"
	"github.com/go-pdf/fpdf"
)

// Layout in points on a US Letter page.
const (
	marginLeft   = 50.0
	marginRight  = 550.0
	tableTop     = 330.0
	continuedTop = 50.0
	rowHeight    = 30.0
	footerTop    = 700.0
	// Rows and totals must end above the footer.
	bodyBottom  = 680.0
	totalsSpace = 100.0

	currencyPrefix = "Rs. "
)

type column struct {
	x, w  float64
	align string
}

var columns = []column{
	{50, 30, "L"},
	{80, 150, "L"},
	{230, 60, "L"},
	{290, 60, "L"},
	{350, 70, "R"},
	{420, 50, "R"},
	{470, 70, "R"},
}

// Renderer produces invoice PDFs.
type Renderer struct{}

// NewRenderer returns a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render draws the invoice. It has no side effects.
func (r *Renderer) Render(invoice models.Invoice) ([]byte, error) {
	return Render(invoice)
}

// Render draws the invoice and returns the PDF bytes.
func Render(invoice models.Invoice) ([]byte, error) {
	doc := build(invoice)
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", invoice.InvoiceID, err)
	}
	return buf.Bytes(), nil
}

type document struct {
	*fpdf.Fpdf
	tr func(string) string
}

func build(invoice models.Invoice) *document {
	f := fpdf.New("P", "pt", "Letter", "")
	f.SetAutoPageBreak(false, 0)
	f.SetTitle("Invoice "+invoice.InvoiceID, false)
	f.SetCreator("DISCTS Pharmacy", false)
	doc := &document{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}

	doc.AddPage()
	doc.header()
	doc.customerInformation(invoice)
	doc.table(invoice)
	doc.footer()
	return doc
}

func (d *document) text(x, y, w float64, align, s string) {
	d.SetXY(x, y)
	d.CellFormat(w, 12, d.tr(s), "", 0, align, false, 0, "")
}

func (d *document) hr(y float64) {
	d.SetDrawColor(0xaa, 0xaa, 0xaa)
	d.SetLineWidth(1)
	d.Line(marginLeft, y, marginRight, y)
}

func (d *document) header() {
	d.SetTextColor(0x44, 0x44, 0x44)
	d.SetFont("Helvetica", "", 20)
	d.text(marginLeft, 45, 300, "L", "DISCTS PHARMACY")
	d.SetFont("Helvetica", "", 10)
	d.text(200, 50, 350, "R", "DISCTS Pharmacy Inc.")
	d.text(200, 65, 350, "R", "123 Health Street")
	d.text(200, 80, 350, "R", "City, State 12345")
}

func (d *document) customerInformation(invoice models.Invoice) {
	d.SetFont("Helvetica", "", 20)
	d.text(marginLeft, 160, 200, "L", "Invoice")
	d.hr(185)

	const top = 200.0
	method := invoice.PaymentMethod
	if method == "" {
		method = "Cash"
	}
	balance := invoice.GrandTotal
	if invoice.Status == models.InvoicePaid {
		balance = 0
	}

	d.SetFont("Helvetica", "", 10)
	d.text(marginLeft, top, 100, "L", "Invoice Number:")
	d.SetFont("Helvetica", "B", 10)
	d.text(150, top, 150, "L", invoice.InvoiceID)
	d.SetFont("Helvetica", "", 10)
	d.text(marginLeft, top+15, 100, "L", "Invoice Date:")
	d.text(150, top+15, 150, "L", formatDate(invoice.CreatedAt))
	d.text(marginLeft, top+30, 100, "L", "Payment Status:")
	d.text(150, top+30, 150, "L", strings.ToUpper(string(invoice.Status)))
	d.text(marginLeft, top+45, 100, "L", "Payment Method:")
	d.text(150, top+45, 150, "L", method)
	d.text(marginLeft, top+60, 100, "L", "Balance Due:")
	d.text(150, top+60, 150, "L", formatCurrency(balance))

	d.SetFont("Helvetica", "B", 10)
	d.text(300, top, 250, "L", invoice.CustomerName)
	d.SetFont("Helvetica", "", 10)
	y := top + 15
	for _, line := range []string{invoice.CustomerAddress, invoice.CustomerPhone, invoice.CustomerEmail} {
		if line == "" {
			continue
		}
		d.text(300, y, 250, "L", line)
		y += 15
	}

	d.hr(287)
}

func (d *document) row(y float64, cells ...string) {
	for i, c := range columns {
		d.text(c.x, y, c.w, c.align, cells[i])
	}
}

func (d *document) tableHeader(y float64) {
	d.SetFont("Helvetica", "B", 10)
	d.row(y, "Item", "Description", "Batch #", "Expiry", "Unit Cost", "Quantity", "Line Total")
	d.hr(y + 20)
	d.SetFont("Helvetica", "", 10)
}

// table draws the line items, starting a new page with a repeated header
// whenever the next row would run into the footer area.
func (d *document) table(invoice models.Invoice) {
	d.tableHeader(tableTop)
	position := tableTop + rowHeight

	for i, item := range invoice.Items {
		if position+rowHeight > bodyBottom {
			d.AddPage()
			d.tableHeader(continuedTop)
			position = continuedTop + rowHeight
		}
		expiry := "N/A"
		if item.ExpiryDate != "" {
			expiry = formatDate(item.ExpiryDate)
		}
		batch := item.BatchNumber
		if batch == "" {
			batch = "N/A"
		}
		d.row(position,
			strconv.Itoa(i+1),
			item.Name,
			batch,
			expiry,
			formatCurrency(item.Price),
			strconv.Itoa(item.Quantity),
			formatCurrency(item.Subtotal),
		)
		d.hr(position + 20)
		position += rowHeight
	}

	if position+totalsSpace > bodyBottom {
		d.AddPage()
		position = continuedTop
	}

	subtotal := position + 20
	d.row(subtotal, "", "", "", "", "", "Subtotal", formatCurrency(invoice.Total))
	tax := subtotal + 20
	d.row(tax, "", "", "", "", "", "GST (18%)", formatCurrency(invoice.Tax))
	d.SetFont("Helvetica", "B", 10)
	d.row(tax+40, "", "", "", "", "", "Grand Total", formatCurrency(invoice.GrandTotal))
	d.SetFont("Helvetica", "", 10)
}

func (d *document) footer() {
	d.SetFont("Helvetica", "", 10)
	d.text(marginLeft, footerTop, 500, "C", "Payment is due within 15 days. Thank you for your business.")
	d.text(marginLeft, footerTop+15, 500, "C", "DISCTS Pharmacy - Your Health is Our Priority")
}

func formatCurrency(amount float64) string {
	return currencyPrefix + strconv.FormatFloat(amount, 'f', 2, 64)
}

// formatDate renders a date as DD/MM/YYYY, falling back to the raw value
// when it cannot be parsed.
func formatDate(value string) string {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return value
	}
	return t.Format("02/01/2006")
}
