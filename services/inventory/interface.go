package inventory

import (
	"context"
	"time"

	productRepo "discts/database/repository/product"
	"discts/models"
	"discts/utils"
)

// ExpiryWindowDays is how far ahead ListExpiringSoon looks.
const ExpiryWindowDays = 30

// InventoryService defines product management operations.
type InventoryService interface {
	AddProduct(ctx context.Context, in models.ProductInput) (string, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error
	UpdateStock(ctx context.Context, id string, stock int) error
	DeleteProduct(ctx context.Context, id string) error
	ListAllProducts(ctx context.Context) ([]models.Product, error)
	ListExpiringSoon(ctx context.Context) ([]models.Product, error)
}

// DefaultInventoryService implements InventoryService.
type DefaultInventoryService struct {
	Repo productRepo.ProductRepository
	IDs  *utils.IDGenerator
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultInventoryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultInventoryService) ids() *utils.IDGenerator {
	if s.IDs != nil {
		return s.IDs
	}
	return utils.DefaultIDGenerator()
}
