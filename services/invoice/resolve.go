package invoice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"discts/database"
	"discts/models"
	"discts/utils"
)

// resolvedLine is a request line bound to the product it refers to.
type resolvedLine struct {
	product  models.Product
	quantity int
}

func validateRequest(req models.InvoiceRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return utils.ValidationError("Customer name is required")
	}
	if len(req.Items) == 0 {
		return utils.ValidationError("At least one item is required")
	}
	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return utils.ValidationError(fmt.Sprintf("Item %d: quantity must be greater than zero", i+1))
		}
		if strings.TrimSpace(line.ProductID) == "" && strings.TrimSpace(line.Name) == "" {
			return utils.ValidationError(fmt.Sprintf("Item %d: productId or name is required", i+1))
		}
	}
	return nil
}

func (s *DefaultInvoiceService) resolveLines(ctx context.Context, lines []models.InvoiceLineRequest) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	for _, line := range lines {
		product, err := s.resolveProduct(ctx, line)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedLine{product: *product, quantity: line.Quantity})
	}
	return resolved, nil
}

// resolveProduct looks a line up by productId, or else by name. A name
// lookup prefers a case-insensitive exact match and breaks ties by the
// smallest productId.
func (s *DefaultInvoiceService) resolveProduct(ctx context.Context, line models.InvoiceLineRequest) (*models.Product, error) {
	if id := strings.TrimSpace(line.ProductID); id != "" {
		product, err := s.Products.GetByID(ctx, id)
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("Product not found: " + id)
		}
		if err != nil {
			return nil, utils.StoreError("Error retrieving product", err)
		}
		return product, nil
	}

	name := strings.TrimSpace(line.Name)
	matches, err := s.Products.SearchByName(ctx, name)
	if err != nil {
		return nil, utils.StoreError("Error searching products", err)
	}
	if len(matches) == 0 {
		return nil, utils.NotFoundError("Product not found: " + name)
	}
	return pickMatch(name, matches), nil
}

func pickMatch(name string, matches []models.Product) *models.Product {
	sort.Slice(matches, func(i, j int) bool { return matches[i].ProductID < matches[j].ProductID })
	for i := range matches {
		if strings.EqualFold(matches[i].Name, name) {
			return &matches[i]
		}
	}
	return &matches[0]
}

// checkStock verifies every line before anything is written. Lines naming
// the same product are checked against their combined quantity.
func checkStock(lines []resolvedLine) error {
	requested := make(map[string]int)
	for _, line := range lines {
		requested[line.product.ProductID] += line.quantity
	}
	for _, line := range lines {
		want := requested[line.product.ProductID]
		if want > line.product.Stock {
			return insufficientStock(line.product.Name, want, line.product.Stock)
		}
	}
	return nil
}

func insufficientStock(name string, requested, available int) *utils.AppError {
	if available < 0 {
		available = 0
	}
	return &utils.AppError{
		Kind:    utils.KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: Requested %d, Available %d", name, requested, available),
		Details: fmt.Sprintf("shortfall: %d", requested-available),
	}
}
