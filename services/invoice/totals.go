package invoice

import (
	"discts/models"

	"github.com/shopspring/decimal"
)

var taxRate = decimal.RequireFromString(TaxRate)

// buildItems snapshots product data into invoice lines and returns the
// subtotal, tax and grand total. Line subtotals stay exact; only the three
// totals are rounded half away from zero to two places.
func buildItems(lines []resolvedLine) ([]models.InvoiceItem, decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	items := make([]models.InvoiceItem, 0, len(lines))
	sum := decimal.Zero
	for _, line := range lines {
		price := decimal.NewFromFloat(line.product.Price)
		subtotal := price.Mul(decimal.NewFromInt(int64(line.quantity)))
		sum = sum.Add(subtotal)

		items = append(items, models.InvoiceItem{
			ProductID:   line.product.ProductID,
			Name:        line.product.Name,
			Quantity:    line.quantity,
			Price:       line.product.Price,
			BatchNumber: line.product.BatchNumber,
			ExpiryDate:  line.product.ExpiryDate,
			Subtotal:    subtotal.InexactFloat64(),
		})
	}
	tax := sum.Mul(taxRate).Round(2)
	return items, sum.Round(2), tax, sum.Add(tax).Round(2)
}
