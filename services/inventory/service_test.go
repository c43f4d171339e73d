package inventory

import (
	"context"
	"testing"
	"time"

	productRepo "discts/database/repository/product"
	"discts/models"
	"discts/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func newService(t *testing.T, now time.Time) (*DefaultInventoryService, *productRepo.MemoryProductRepo) {
	t.Helper()
	ids, err := utils.NewIDGenerator(3)
	require.NoError(t, err)
	repo := productRepo.NewMemoryProductRepo()
	return &DefaultInventoryService{
		Repo: repo,
		IDs:  ids,
		Now:  func() time.Time { return now },
	}, repo
}

func validInput() models.ProductInput {
	return models.ProductInput{
		Name:              "Aspirin",
		Stock:             intPtr(50),
		Price:             floatPtr(5.99),
		BatchNumber:       "B1",
		ManufacturingDate: "2024-01-01",
		ExpiryDate:        "2025-01-01",
	}
}

func TestAddProduct_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, time.Now())

	id, err := svc.AddProduct(ctx, validInput())
	require.NoError(t, err)
	assert.Regexp(t, `^prod-\d+$`, id)

	got, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Product{
		ProductID:         id,
		Name:              "Aspirin",
		Stock:             50,
		Price:             5.99,
		BatchNumber:       "B1",
		ManufacturingDate: "2024-01-01",
		ExpiryDate:        "2025-01-01",
	}, *got)
}

func TestAddProduct_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.ProductInput)
	}{
		{"missing name", func(in *models.ProductInput) { in.Name = "" }},
		{"missing stock", func(in *models.ProductInput) { in.Stock = nil }},
		{"missing price", func(in *models.ProductInput) { in.Price = nil }},
		{"missing batch", func(in *models.ProductInput) { in.BatchNumber = "" }},
		{"missing expiry", func(in *models.ProductInput) { in.ExpiryDate = "" }},
		{"negative stock", func(in *models.ProductInput) { in.Stock = intPtr(-1) }},
		{"bad date", func(in *models.ProductInput) { in.ExpiryDate = "someday" }},
		{"manufactured after expiry", func(in *models.ProductInput) {
			in.ManufacturingDate = "2025-06-01"
			in.ExpiryDate = "2025-01-01"
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newService(t, time.Now())
			in := validInput()
			tc.mutate(&in)

			_, err := svc.AddProduct(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, utils.KindValidation, utils.KindOf(err))

			all, _ := repo.GetAll(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, time.Now())
	id, err := svc.AddProduct(ctx, validInput())
	require.NoError(t, err)

	t.Run("partial update", func(t *testing.T) {
		require.NoError(t, svc.UpdateProduct(ctx, id, models.ProductUpdate{
			BatchNumber: strPtr("B2"),
			ExpiryDate:  strPtr("2023-01-01"),
		}))
		got, err := svc.GetProduct(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "B2", got.BatchNumber)
		assert.Equal(t, "2023-01-01", got.ExpiryDate)
		assert.Equal(t, 50, got.Stock)
	})

	t.Run("stock", func(t *testing.T) {
		require.NoError(t, svc.UpdateStock(ctx, id, 7))
		got, err := svc.GetProduct(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Stock)
	})

	t.Run("empty update", func(t *testing.T) {
		err := svc.UpdateProduct(ctx, id, models.ProductUpdate{})
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})

	t.Run("bad date", func(t *testing.T) {
		err := svc.UpdateProduct(ctx, id, models.ProductUpdate{ManufacturingDate: strPtr("not a date")})
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	})

	t.Run("missing product", func(t *testing.T) {
		err := svc.UpdateStock(ctx, "prod-404", 1)
		assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	})
}

func TestDeleteProduct_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, time.Now())
	id, err := svc.AddProduct(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, id))
	require.NoError(t, svc.DeleteProduct(ctx, id))

	_, err = svc.GetProduct(ctx, id)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestListAllProducts_Empty(t *testing.T) {
	svc, _ := newService(t, time.Now())
	all, err := svc.ListAllProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestListExpiringSoon(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	svc, repo := newService(t, now)

	products := map[string]string{
		"prod-today":   "2025-03-01",
		"prod-1d":      "2025-03-02",
		"prod-30d":     "2025-03-31",
		"prod-31d":     "2025-04-01",
		"prod-past":    "2025-02-01",
		"prod-undated": "",
		"prod-bad":     "soon",
	}
	for id, expiry := range products {
		require.NoError(t, repo.Create(ctx, &models.Product{ProductID: id, Name: id, ExpiryDate: expiry}))
	}

	soon, err := svc.ListExpiringSoon(ctx)
	require.NoError(t, err)

	var ids []string
	for _, p := range soon {
		ids = append(ids, p.ProductID)
	}
	assert.ElementsMatch(t, []string{"prod-1d", "prod-30d"}, ids)
}

func TestListExpiringSoon_UsesUTCDay(t *testing.T) {
	ctx := context.Background()
	// 01:00 on March 2nd at UTC+5 is still March 1st in UTC.
	now := time.Date(2025, 3, 2, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))
	svc, repo := newService(t, now)

	require.NoError(t, repo.Create(ctx, &models.Product{ProductID: "prod-tomorrow", Name: "Aspirin", ExpiryDate: "2025-03-02"}))

	soon, err := svc.ListExpiringSoon(ctx)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, "prod-tomorrow", soon[0].ProductID)
}
