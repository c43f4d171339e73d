package invoiceRepo

import (
	"context"
	"sort"
	"sync"

	"discts/database"
	"discts/models"
)

// MemoryInvoiceRepo keeps invoices in process memory.
type MemoryInvoiceRepo struct {
	mu    sync.Mutex
	items map[string]models.Invoice
}

func NewMemoryInvoiceRepo() *MemoryInvoiceRepo {
	return &MemoryInvoiceRepo{items: make(map[string]models.Invoice)}
}

func (r *MemoryInvoiceRepo) Create(_ context.Context, invoice *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv := *invoice
	inv.Items = append([]models.InvoiceItem(nil), invoice.Items...)
	r.items[inv.InvoiceID] = inv
	return nil
}

func (r *MemoryInvoiceRepo) GetByID(_ context.Context, id string) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &inv, nil
}

func (r *MemoryInvoiceRepo) GetAll(_ context.Context) ([]models.Invoice, error) {
	return r.filter(func(models.Invoice) bool { return true }), nil
}

func (r *MemoryInvoiceRepo) GetByCustomerID(_ context.Context, customerID string) ([]models.Invoice, error) {
	return r.filter(func(inv models.Invoice) bool { return inv.CustomerID == customerID }), nil
}

func (r *MemoryInvoiceRepo) GetCreatedBefore(_ context.Context, cutoff string) ([]models.Invoice, error) {
	return r.filter(func(inv models.Invoice) bool { return inv.CreatedAt < cutoff }), nil
}

func (r *MemoryInvoiceRepo) filter(keep func(models.Invoice) bool) []models.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range r.items {
		if keep(inv) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceID < out[j].InvoiceID })
	return out
}

func (r *MemoryInvoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *MemoryInvoiceRepo) Ping(context.Context) error { return nil }
