package inventory

import (
	"context"
	"errors"
	"time"

	"discts/database"
	"discts/models"
	"discts/utils"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"
)

// AddProduct validates the request, assigns a productId and stores the
// record with the dates exactly as supplied.
func (s *DefaultInventoryService) AddProduct(ctx context.Context, in models.ProductInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}

	product := &models.Product{
		ProductID:         s.ids().New("prod"),
		Name:              in.Name,
		Stock:             *in.Stock,
		Price:             *in.Price,
		BatchNumber:       in.BatchNumber,
		ManufacturingDate: in.ManufacturingDate,
		ExpiryDate:        in.ExpiryDate,
	}
	if err := s.Repo.Create(ctx, product); err != nil {
		return "", utils.StoreError("Error adding item", err)
	}

	zap.L().Info("Product added", zap.String("productId", product.ProductID), zap.String("name", product.Name))
	return product.ProductID, nil
}

func (s *DefaultInventoryService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFoundError("Item not found")
	}
	if err != nil {
		return nil, utils.StoreError("Error retrieving item", err)
	}
	return product, nil
}

// UpdateProduct writes only the supplied fields.
func (s *DefaultInventoryService) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	if err := validateUpdate(upd); err != nil {
		return err
	}
	err := s.Repo.Update(ctx, id, upd)
	if errors.Is(err, database.ErrNotFound) {
		return utils.NotFoundError("Item not found")
	}
	if err != nil {
		return utils.StoreError("Error updating item", err)
	}
	return nil
}

func (s *DefaultInventoryService) UpdateStock(ctx context.Context, id string, stock int) error {
	return s.UpdateProduct(ctx, id, models.ProductUpdate{Stock: &stock})
}

func (s *DefaultInventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.StoreError("Error deleting item", err)
	}
	return nil
}

func (s *DefaultInventoryService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, utils.StoreError("Error retrieving items", err)
	}
	return products, nil
}

// ListExpiringSoon returns products expiring after today and no later
// than ExpiryWindowDays from today, compared by UTC calendar day. Products
// without a parseable expiry date are skipped.
func (s *DefaultInventoryService) ListExpiringSoon(ctx context.Context) ([]models.Product, error) {
	products, err := s.ListAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	today := calendarDay(s.now().UTC())
	soon := []models.Product{}
	for _, p := range products {
		if p.ExpiryDate == "" {
			continue
		}
		expiry, err := dateparse.ParseAny(p.ExpiryDate)
		if err != nil {
			zap.L().Debug("Skipping product with unparseable expiry", zap.String("productId", p.ProductID), zap.String("expiryDate", p.ExpiryDate))
			continue
		}
		days := daysBetween(today, calendarDay(expiry.UTC()))
		if days >= 1 && days <= ExpiryWindowDays {
			soon = append(soon, p)
		}
	}
	return soon, nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
