package productRepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"discts/database"
	"discts/models"
)

// MemoryProductRepo keeps products in process memory. It backs the
// "memory" store driver and the test suites.
type MemoryProductRepo struct {
	mu    sync.Mutex
	items map[string]models.Product
}

// NewMemoryProductRepo returns an empty in-memory ProductRepository.
func NewMemoryProductRepo() *MemoryProductRepo {
	return &MemoryProductRepo{items: make(map[string]models.Product)}
}

func (r *MemoryProductRepo) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[product.ProductID] = *product
	return nil
}

func (r *MemoryProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (r *MemoryProductRepo) GetAll(_ context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

func (r *MemoryProductRepo) SearchByName(_ context.Context, fragment string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return strings.Contains(p.Name, fragment) }), nil
}

func (r *MemoryProductRepo) filter(keep func(models.Product) bool) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (r *MemoryProductRepo) Update(_ context.Context, id string, upd models.ProductUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return database.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.BatchNumber != nil {
		p.BatchNumber = *upd.BatchNumber
	}
	if upd.ManufacturingDate != nil {
		p.ManufacturingDate = *upd.ManufacturingDate
	}
	if upd.ExpiryDate != nil {
		p.ExpiryDate = *upd.ExpiryDate
	}
	r.items[id] = p
	return nil
}

func (r *MemoryProductRepo) DecrementStock(_ context.Context, id string, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return 0, database.ErrNotFound
	}
	if p.Stock < qty {
		return 0, database.ErrConditionFailed
	}
	p.Stock -= qty
	r.items[id] = p
	return p.Stock, nil
}

func (r *MemoryProductRepo) IncrementStock(_ context.Context, id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return database.ErrNotFound
	}
	p.Stock += qty
	r.items[id] = p
	return nil
}

func (r *MemoryProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MemoryProductRepo) Ping(context.Context) error { return nil }
