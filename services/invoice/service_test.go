package invoice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"discts/database"
	invoiceRepo "discts/database/repository/invoice"
	productRepo "discts/database/repository/product"
	"discts/models"
	"discts/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (r *fakeRenderer) Render(inv models.Invoice) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-" + inv.InvoiceID), nil
}

// failingDecrements rejects decrements for one product as if a concurrent
// sale had taken the stock.
type failingDecrements struct {
	*productRepo.MemoryProductRepo
	failID string
}

func (r *failingDecrements) DecrementStock(ctx context.Context, id string, qty int) (int, error) {
	if id == r.failID {
		return 0, database.ErrConditionFailed
	}
	return r.MemoryProductRepo.DecrementStock(ctx, id, qty)
}

type failingInvoices struct {
	*invoiceRepo.MemoryInvoiceRepo
}

func (r *failingInvoices) Create(context.Context, *models.Invoice) error {
	return errors.New("table unavailable")
}

type fixture struct {
	svc      *DefaultInvoiceService
	products *productRepo.MemoryProductRepo
	invoices *invoiceRepo.MemoryInvoiceRepo
	renderer *fakeRenderer
}

var fixedNow = time.Date(2025, 3, 4, 10, 20, 30, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ids, err := utils.NewIDGenerator(7)
	require.NoError(t, err)

	f := &fixture{
		products: productRepo.NewMemoryProductRepo(),
		invoices: invoiceRepo.NewMemoryInvoiceRepo(),
		renderer: &fakeRenderer{},
	}
	f.svc = &DefaultInvoiceService{
		Products: f.products,
		Invoices: f.invoices,
		Renderer: f.renderer,
		IDs:      ids,
		Now:      func() time.Time { return fixedNow },
	}
	return f
}

func (f *fixture) addProduct(t *testing.T, p models.Product) {
	t.Helper()
	require.NoError(t, f.products.Create(context.Background(), &p))
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func aspirin() models.Product {
	return models.Product{
		ProductID:         "prod-1",
		Name:              "Aspirin",
		Stock:             50,
		Price:             5.99,
		BatchNumber:       "B1",
		ManufacturingDate: "2024-01-01",
		ExpiryDate:        "2025-01-01",
	}
}

func TestCreateInvoice_Totals(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, aspirin())

	res, err := f.svc.CreateInvoice(context.Background(), models.InvoiceRequest{
		CustomerName: "Asha",
		Items:        []models.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 10}},
	}, "")
	require.NoError(t, err)

	inv := res.Invoice
	assert.Equal(t, 59.90, inv.Total)
	assert.Equal(t, 10.78, inv.Tax)
	assert.Equal(t, 70.68, inv.GrandTotal)
	assert.Equal(t, 40, f.stockOf(t, "prod-1"))

	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, "cash", inv.PaymentMethod)
	assert.Regexp(t, `^cust-\d+$`, inv.CustomerID)
	assert.Regexp(t, `^inv-\d+$`, inv.InvoiceID)
	assert.Equal(t, "2025-03-04T10:20:30.000Z", inv.CreatedAt)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "B1", inv.Items[0].BatchNumber)
	assert.Equal(t, 59.90, inv.Items[0].Subtotal)
	assert.Equal(t, []byte("%PDF-"+inv.InvoiceID), res.PDF)

	stored, err := f.invoices.GetByID(context.Background(), inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, inv.GrandTotal, stored.GrandTotal)
}

func TestCreateInvoice_Validation(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, aspirin())

	cases := []struct {
		name string
		req  models.InvoiceRequest
		kind utils.ErrorKind
	}{
		{"blank customer", models.InvoiceRequest{CustomerName: " ", Items: []models.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 1}}}, utils.KindValidation},
		{"no items", models.InvoiceRequest{CustomerName: "A"}, utils.KindValidation},
		{"zero quantity", models.InvoiceRequest{CustomerName: "A", Items: []models.InvoiceLineRequest{{ProductID: "prod-1"}}}, utils.KindValidation},
		{"no product reference", models.InvoiceRequest{CustomerName: "A", Items: []models.InvoiceLineRequest{{Quantity: 1}}}, utils.KindValidation},
		{"unknown id", models.InvoiceRequest{CustomerName: "A", Items: []models.InvoiceLineRequest{{ProductID: "prod-404", Quantity: 1}}}, utils.KindNotFound},
		{"unknown name", models.InvoiceRequest{CustomerName: "A", Items: []models.InvoiceLineRequest{{Name: "Ibuprofen", Quantity: 1}}}, utils.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateInvoice(context.Background(), tc.req, "")
			require.Error(t, err)
			assert.Equal(t, tc.kind, utils.KindOf(err))
		})
	}

	all, err := f.invoices.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 50, f.stockOf(t, "prod-1"))
}

func TestCreateInvoice_InsufficientStockLeavesStockUntouched(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, aspirin())
	f.addProduct(t, models.Product{ProductID: "prod-2", Name: "Cetirizine", Stock: 3, Price: 2.5})

	_, err := f.svc.CreateInvoice(context.Background(), models.InvoiceRequest{
		CustomerName: "Asha",
		Items: []models.InvoiceLineRequest{
			{ProductID: "prod-1", Quantity: 5},
			{ProductID: "prod-2", Quantity: 4},
		},
	}, "")
	require.Error(t, err)
	assert.Equal(t, utils.KindInsufficientStock, utils.KindOf(err))
	assert.Contains(t, err.Error(), "Insufficient stock for Cetirizine: Requested 4, Available 3")

	assert.Equal(t, 50, f.stockOf(t, "prod-1"))
	assert.Equal(t, 3, f.stockOf(t, "prod-2"))
	all, _ := f.invoices.GetAll(context.Background())
	assert.Empty(t, all)
}

func TestCreateInvoice_DuplicateLinesCheckedTogether(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, models.Product{ProductID: "prod-2", Name: "Cetirizine", Stock: 3, Price: 2.5})

	_, err := f.svc.CreateInvoice(context.Background(), models.InvoiceRequest{
		CustomerName: "Asha",
		Items: []models.InvoiceLineRequest{
			{ProductID: "prod-2", Quantity: 2},
			{Name: "Cetirizine", Quantity: 2},
		},
	}, "")
	assert.Equal(t, utils.KindInsufficientStock, utils.KindOf(err))
	assert.Equal(t, 3, f.stockOf(t, "prod-2"))
}

func TestCreateInvoice_CompensatesEarlierDecrements(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, aspirin())
	f.addProduct(t, models.Product{ProductID: "prod-2", Name: "Cetirizine", Stock: 3, Price: 2.5})
	f.svc.Products = &failingDecrements{MemoryProductRepo: f.products, failID: "prod-2"}

	_, err := f.svc.CreateInvoice(context.Background(), models.InvoiceRequest{
		CustomerName: "Asha",
		Items: []models.InvoiceLineRequest{
			{ProductID: "prod-1", Quantity: 5},
			{ProductID: "prod-2", Quantity: 1},
		},
	}, "")
	assert.Equal(t, utils.KindInsufficientStock, utils.KindOf(err))
	assert.Equal(t, 50, f.stockOf(t, "prod-1"))
}

func TestCreateInvoice_PersistFailureRestoresStock(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, aspirin())
	f.svc.Invoices = &failingInvoices{MemoryInvoiceRepo: f.invoices}

	_, err := f.svc.CreateInvoice(context.Background(), models.InvoiceRequest{
		CustomerName: "Asha",
		Items:        []models.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 5}},
	}, "")
	assert.Equal(t, utils.KindStore, utils.KindOf(err))
	assert.Equal(t, 50, f.stockOf(t, "prod-1"))
}

func TestCreateInvoice_RenderFailureKeepsInvoice(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, aspirin())
	f.renderer.err = errors.New("font missing")

	_, err := f.svc.CreateInvoice(context.Background(), models.InvoiceRequest{
		CustomerName: "Asha",
		Items:        []models.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 5}},
	}, "")
	require.Error(t, err)
	assert.Equal(t, utils.KindRender, utils.KindOf(err))

	all, _ := f.invoices.GetAll(context.Background())
	require.Len(t, all, 1)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "invoiceId: "+all[0].InvoiceID, appErr.Details)
	assert.Equal(t, 45, f.stockOf(t, "prod-1"))
}

func TestCreateInvoice_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, models.Product{ProductID: "prod-9", Name: "Paracetamol", Stock: 10, Price: 1})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateInvoice(context.Background(), models.InvoiceRequest{
				CustomerName: "Walk-in",
				Items:        []models.InvoiceLineRequest{{ProductID: "prod-9", Quantity: 1}},
			}, "")
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, f.stockOf(t, "prod-9"))
}

func TestResolveProduct_ByName(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, models.Product{ProductID: "prod-3", Name: "Aspirin Forte", Stock: 5, Price: 1})
	f.addProduct(t, models.Product{ProductID: "prod-2", Name: "Aspirin Junior", Stock: 5, Price: 1})
	f.addProduct(t, models.Product{ProductID: "prod-8", Name: "Aspirin", Stock: 5, Price: 1})
	f.addProduct(t, models.Product{ProductID: "prod-5", Name: "aspirin", Stock: 5, Price: 1})

	t.Run("exact match preferred", func(t *testing.T) {
		p, err := f.svc.resolveProduct(context.Background(), models.InvoiceLineRequest{Name: "Aspirin", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "prod-8", p.ProductID)
	})

	t.Run("smallest id wins otherwise", func(t *testing.T) {
		p, err := f.svc.resolveProduct(context.Background(), models.InvoiceLineRequest{Name: "spirin", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, "prod-2", p.ProductID)
	})

	t.Run("search is case sensitive", func(t *testing.T) {
		_, err := f.svc.resolveProduct(context.Background(), models.InvoiceLineRequest{Name: "ASPIRIN", Quantity: 1})
		assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	})
}

func TestInvoiceQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, aspirin())

	res, err := f.svc.CreateInvoice(ctx, models.InvoiceRequest{
		CustomerID:   "cust-42",
		CustomerName: "Asha",
		Items:        []models.InvoiceLineRequest{{Name: "Asp", Quantity: 1}},
	}, "")
	require.NoError(t, err)
	id := res.Invoice.InvoiceID

	got, err := f.svc.GetInvoiceByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.Invoice.InvoiceID)
	assert.NotEmpty(t, got.PDF)

	byCustomer, err := f.svc.GetInvoicesByCustomer(ctx, "cust-42")
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	none, err := f.svc.GetInvoicesByCustomer(ctx, "cust-0")
	require.NoError(t, err)
	assert.Empty(t, none)

	pdf, err := f.svc.DownloadInvoicePdf(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-"+id), pdf)

	require.NoError(t, f.svc.DeleteInvoice(ctx, id))
	require.NoError(t, f.svc.DeleteInvoice(ctx, id))

	_, err = f.svc.GetInvoiceByID(ctx, id)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	_, err = f.svc.DownloadInvoicePdf(ctx, id)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestPurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	old := fixedNow.AddDate(0, 0, -61).Format(models.CreatedAtLayout)
	recent := fixedNow.AddDate(0, 0, -59).Format(models.CreatedAtLayout)
	require.NoError(t, f.invoices.Create(ctx, &models.Invoice{InvoiceID: "inv-old", CreatedAt: old}))
	require.NoError(t, f.invoices.Create(ctx, &models.Invoice{InvoiceID: "inv-recent", CreatedAt: recent}))

	res, err := f.svc.PurgeOlderThan(ctx, fixedNow.AddDate(0, 0, -60))
	require.NoError(t, err)
	assert.Equal(t, PurgeResult{Matched: 1, Deleted: 1}, res)

	_, err = f.invoices.GetByID(ctx, "inv-old")
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = f.invoices.GetByID(ctx, "inv-recent")
	assert.NoError(t, err)
}
