package productRepo

import (
	"context"

	"discts/models"
)

// ProductRepository defines methods for product data access.
type ProductRepository interface {
	// Create inserts a new product record.
	Create(ctx context.Context, product *models.Product) error
	// GetByID retrieves a product by id; database.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetAll scans the whole table.
	GetAll(ctx context.Context) ([]models.Product, error)
	// SearchByName scans for products whose name contains fragment
	// (case-sensitive).
	SearchByName(ctx context.Context, fragment string) ([]models.Product, error)
	// Update writes only the non-nil fields of upd; database.ErrNotFound if
	// the product does not exist.
	Update(ctx context.Context, id string, upd models.ProductUpdate) error
	// DecrementStock subtracts qty only when the current stock is at least
	// qty and returns the new stock. It fails with
	// database.ErrConditionFailed when stock is short and
	// database.ErrNotFound when the product is gone.
	DecrementStock(ctx context.Context, id string, qty int) (int, error)
	// IncrementStock adds qty back, used to compensate a failed sale.
	IncrementStock(ctx context.Context, id string, qty int) error
	// Delete removes a product; deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
	// Ping checks the backing store is reachable.
	Ping(ctx context.Context) error
}
