package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/expiry-tracker/internal/audit"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/repo"
)

var (
	admin    = models.Actor{UserID: "1", UserName: "Administrador", IsAdmin: true}
	employee = models.Actor{UserID: "2", UserName: "Empleado Demo"}
	today    = models.NewDate(2026, time.March, 10)
)

type fixture struct {
	svc   *Service
	store *repo.Store
	clock *time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := repo.NewStore(repo.NewInMemoryKVStore())
	clock := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	return fixture{
		svc:   NewService(store, audit.NewRecorder(store, now, nil), now, nil),
		store: store,
		clock: &clock,
	}
}

func (f fixture) history(t *testing.T) []models.HistoryEntry {
	t.Helper()
	h, err := f.store.History(context.Background())
	require.NoError(t, err)
	return h
}

func (f fixture) mustProduct(t *testing.T, name, barcode string) models.Product {
	t.Helper()
	p, err := f.svc.CreateProduct(context.Background(), ProductInput{Name: name, Barcode: barcode}, admin)
	require.NoError(t, err)
	return p
}

func (f fixture) mustBatch(t *testing.T, productID string, offset, qty int) models.Batch {
	t.Helper()
	b, err := f.svc.CreateBatch(context.Background(), BatchInput{ProductID: productID, ExpirationDate: today.AddDays(offset), Quantity: qty}, admin)
	require.NoError(t, err)
	return b
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.CreateProduct(context.Background(), ProductInput{Name: "  Leche Entera ", Barcode: "7790001234567"}, employee)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Leche Entera", p.Name)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, "2", p.CreatedBy)
	assert.Equal(t, "2", p.UpdatedBy)

	stored, err := f.svc.Product(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, stored)

	h := f.history(t)
	require.Len(t, h, 1)
	assert.Equal(t, models.EntityProduct, h[0].EntityType)
	assert.Equal(t, models.ActionCreate, h[0].Action)
	assert.Equal(t, p.ID, h[0].EntityID)
	assert.Equal(t, "Leche Entera", h[0].EntityName)
	assert.Equal(t, "Empleado Demo", h[0].UserName)
}

func TestCreateProduct_AllocatesFreshIDs(t *testing.T) {
	f := newFixture(t)

	a := f.mustProduct(t, "Leche", "1")
	b := f.mustProduct(t, "Leche", "1")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateProduct_ValidationBlocksWrites(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateProduct(context.Background(), ProductInput{Name: "   ", Barcode: ""}, admin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := []string{}
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "barcode"}, fields)

	products, err := f.svc.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Empty(t, f.history(t))
}

func TestMutationsRequireActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.mustProduct(t, "Manteca", "7790003456789")
	b := f.mustBatch(t, p.ID, 10, 1)
	noActor := models.Actor{UserName: "ghost"}

	_, err := f.svc.CreateProduct(ctx, ProductInput{Name: "x", Barcode: "y"}, noActor)
	assert.ErrorIs(t, err, ErrMissingActor)
	_, err = f.svc.UpdateProduct(ctx, p, noActor, "")
	assert.ErrorIs(t, err, ErrMissingActor)
	assert.ErrorIs(t, f.svc.DeleteProduct(ctx, p.ID, noActor), ErrMissingActor)
	_, err = f.svc.CreateBatch(ctx, BatchInput{ProductID: p.ID, ExpirationDate: today, Quantity: 1}, noActor)
	assert.ErrorIs(t, err, ErrMissingActor)
	_, err = f.svc.UpdateBatch(ctx, b, noActor, "")
	assert.ErrorIs(t, err, ErrMissingActor)
	err = f.svc.DeleteBatch(ctx, b.ID, noActor)
	assert.ErrorIs(t, err, ErrMissingActor)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Len(t, f.history(t), 2)
}

func TestUpdateProduct_PropagatesToBatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leche := f.mustProduct(t, "Leche", "111")
	other := f.mustProduct(t, "Manteca", "222")
	b1 := f.mustBatch(t, leche.ID, 5, 24)
	b2 := f.mustBatch(t, leche.ID, 15, 36)
	b3 := f.mustBatch(t, other.ID, 3, 12)

	*f.clock = f.clock.Add(time.Hour)
	edit := leche
	edit.Name = "Leche Entera"
	edit.Barcode = "7790001234567"
	edit.CreatedBy = "someone-else"
	changes := DescribeProductChanges(leche, edit)

	updated, err := f.svc.UpdateProduct(ctx, edit, employee, changes)
	require.NoError(t, err)
	assert.Equal(t, "Leche Entera", updated.Name)
	assert.Equal(t, leche.CreatedAt, updated.CreatedAt)
	assert.Equal(t, leche.CreatedBy, updated.CreatedBy)
	assert.Equal(t, "2", updated.UpdatedBy)
	assert.True(t, updated.UpdatedAt.After(leche.UpdatedAt))

	batches, err := f.svc.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	byID := map[string]models.Batch{}
	for _, b := range batches {
		byID[b.ID] = b
	}
	for _, orig := range []models.Batch{b1, b2} {
		got := byID[orig.ID]
		assert.Equal(t, "Leche Entera", got.ProductName)
		assert.Equal(t, "7790001234567", got.ProductBarcode)
		assert.Equal(t, orig.Quantity, got.Quantity)
		assert.True(t, orig.ExpirationDate.Equal(got.ExpirationDate))
		assert.Equal(t, orig.ProductID, got.ProductID)
	}
	assert.Equal(t, b3, byID[b3.ID])

	h := f.history(t)
	assert.Equal(t, models.ActionUpdate, h[0].Action)
	assert.Equal(t, "Leche Entera", h[0].EntityName)
	assert.Equal(t, `nombre: "Leche" → "Leche Entera", código: "111" → "7790001234567"`, h[0].Changes)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateProduct(context.Background(), models.Product{ID: "missing", Name: "x", Barcode: "y"}, admin, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, f.history(t))
}

func TestDeleteProduct_CascadesBatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leche := f.mustProduct(t, "Leche Entera", "111")
	yogurt := f.mustProduct(t, "Yogurt", "222")
	f.mustBatch(t, leche.ID, 5, 24)
	f.mustBatch(t, leche.ID, 15, 36)
	keep := f.mustBatch(t, yogurt.ID, 45, 48)
	before := len(f.history(t))

	require.NoError(t, f.svc.DeleteProduct(ctx, leche.ID, admin))

	batches, err := f.svc.Batches(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, keep.ID, batches[0].ID)

	_, err = f.svc.Product(ctx, leche.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	h := f.history(t)
	require.Len(t, h, before+1)
	assert.Equal(t, models.EntityProduct, h[0].EntityType)
	assert.Equal(t, models.ActionDelete, h[0].Action)
	assert.Equal(t, "Leche Entera", h[0].EntityName)
}

func TestDeletes_MissingIDsAreNoOps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustProduct(t, "Leche", "1")
	b := f.mustBatch(t, p.ID, 3, 1)
	require.NoError(t, f.svc.DeleteBatch(ctx, b.ID, admin))
	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID, admin))
	before := len(f.history(t))

	assert.NoError(t, f.svc.DeleteProduct(ctx, p.ID, admin))
	assert.NoError(t, f.svc.DeleteBatch(ctx, b.ID, admin))
	assert.NoError(t, f.svc.DeleteProduct(ctx, "never-existed", admin))

	assert.Len(t, f.history(t), before)
}

func TestCreateBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.mustProduct(t, "Yogurt Natural", "7790002345678")

	b, err := f.svc.CreateBatch(ctx, BatchInput{ProductID: p.ID, ExpirationDate: today.AddDays(20), Quantity: 24}, employee)
	require.NoError(t, err)

	assert.Equal(t, p.ID, b.ProductID)
	assert.Equal(t, "Yogurt Natural", b.ProductName)
	assert.Equal(t, "7790002345678", b.ProductBarcode)
	assert.Equal(t, 24, b.Quantity)
	assert.Equal(t, "2", b.CreatedBy)

	h := f.history(t)
	assert.Equal(t, models.EntityBatch, h[0].EntityType)
	assert.Equal(t, models.ActionCreate, h[0].Action)
	assert.Equal(t, "Yogurt Natural - Lote", h[0].EntityName)
}

func TestCreateBatch_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.mustProduct(t, "Yogurt", "1")

	tests := []struct {
		name   string
		input  BatchInput
		target error
		field  string
	}{
		{"zero quantity", BatchInput{ProductID: p.ID, ExpirationDate: today, Quantity: 0}, ErrValidation, "quantity"},
		{"missing date", BatchInput{ProductID: p.ID, Quantity: 1}, ErrValidation, "expirationDate"},
		{"missing product id", BatchInput{ExpirationDate: today, Quantity: 1}, ErrValidation, "productId"},
		{"unknown product", BatchInput{ProductID: "nope", ExpirationDate: today, Quantity: 1}, ErrProductNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBatch(ctx, tt.input, admin)
			require.ErrorIs(t, err, tt.target)
			if tt.field != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.field, verr.Fields[0].Field)
			}
		})
	}

	batches, err := f.svc.Batches(ctx)
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.Len(t, f.history(t), 1)
}

func TestUpdateBatch_ChangesOnlyDateAndQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.mustProduct(t, "Leche", "1")
	orig := f.mustBatch(t, p.ID, 5, 24)

	*f.clock = f.clock.Add(time.Hour)
	edit := orig
	edit.Quantity = 30
	edit.ExpirationDate = today.AddDays(9)
	edit.ProductID = "tampered"
	edit.ProductName = "tampered"
	changes := DescribeBatchChanges(orig, edit)

	got, err := f.svc.UpdateBatch(ctx, edit, employee, changes)
	require.NoError(t, err)

	assert.Equal(t, 30, got.Quantity)
	assert.True(t, got.ExpirationDate.Equal(today.AddDays(9)))
	assert.Equal(t, p.ID, got.ProductID)
	assert.Equal(t, "Leche", got.ProductName)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.Equal(t, orig.CreatedBy, got.CreatedBy)
	assert.Equal(t, "2", got.UpdatedBy)

	h := f.history(t)
	assert.Equal(t, models.ActionUpdate, h[0].Action)
	assert.Equal(t, "Leche - Lote", h[0].EntityName)
	assert.Equal(t, "cantidad: 24 → 30, vencimiento: 15/3/2026 → 19/3/2026", h[0].Changes)
}

func TestUpdateBatch_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.mustProduct(t, "Leche", "1")
	b := f.mustBatch(t, p.ID, 5, 24)

	_, err := f.svc.UpdateBatch(ctx, models.Batch{ID: "missing", ExpirationDate: today, Quantity: 1}, admin, "")
	assert.ErrorIs(t, err, ErrBatchNotFound)

	b.Quantity = 0
	_, err = f.svc.UpdateBatch(ctx, b, admin, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.mustProduct(t, "Manteca", "1")
	b := f.mustBatch(t, p.ID, -2, 12)

	require.NoError(t, f.svc.DeleteBatch(ctx, b.ID, admin))

	_, err := f.svc.Batch(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBatchNotFound)

	h := f.history(t)
	assert.Equal(t, models.ActionDelete, h[0].Action)
	assert.Equal(t, "Manteca - Lote", h[0].EntityName)
}

func TestHistoryCountsEveryMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustProduct(t, "Leche", "1")
	b := f.mustBatch(t, p.ID, 5, 1)
	p.Name = "Leche Entera"
	_, err := f.svc.UpdateProduct(ctx, p, admin, "")
	require.NoError(t, err)
	b.Quantity = 2
	_, err = f.svc.UpdateBatch(ctx, b, admin, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteBatch(ctx, b.ID, admin))
	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID, admin))

	first := f.history(t)
	assert.Len(t, first, 6)
	assert.Equal(t, first, f.history(t))

	actions := []models.Action{}
	for _, e := range first {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []models.Action{
		models.ActionDelete, models.ActionDelete, models.ActionUpdate,
		models.ActionUpdate, models.ActionCreate, models.ActionCreate,
	}, actions)
}

func TestLookupAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leche := f.mustProduct(t, "Leche Entera", "7790001234567")
	f.mustProduct(t, "Yogurt Natural", "7790002345678")
	f.mustBatch(t, leche.ID, 5, 1)

	got, err := f.svc.LookupProductByBarcode(ctx, "7790001234567")
	require.NoError(t, err)
	assert.Equal(t, leche.ID, got.ID)

	_, err = f.svc.LookupProductByBarcode(ctx, "77900012345")
	assert.ErrorIs(t, err, ErrProductNotFound)

	byName, err := f.svc.SearchProducts(ctx, "leCHE")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, leche.ID, byName[0].ID)

	byBarcode, err := f.svc.SearchProducts(ctx, "77900")
	require.NoError(t, err)
	assert.Len(t, byBarcode, 2)

	all, err := f.svc.SearchProducts(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.svc.SearchProducts(ctx, "queso")
	require.NoError(t, err)
	assert.Empty(t, none)

	batches, err := f.svc.BatchesByProduct(ctx, leche.ID)
	require.NoError(t, err)
	assert.Len(t, batches, 1)
}

func TestConcurrentCreatesAreSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CreateProduct(ctx, ProductInput{Name: fmt.Sprintf("p%d", i), Barcode: fmt.Sprint(i)}, admin)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	products, err := f.svc.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 20)
	assert.Len(t, f.history(t), 20)
}

func TestDescribeChanges(t *testing.T) {
	assert.Equal(t, "", DescribeProductChanges(models.Product{Name: "a", Barcode: "1"}, models.Product{Name: "a", Barcode: "1"}))
	assert.Equal(t, `código: "1" → "2"`, DescribeProductChanges(models.Product{Barcode: "1"}, models.Product{Barcode: "2"}))

	old := models.Batch{Quantity: 5, ExpirationDate: models.NewDate(2026, time.January, 5)}
	assert.Equal(t, "", DescribeBatchChanges(old, old))
	moved := old
	moved.ExpirationDate = models.NewDate(2026, time.December, 25)
	assert.Equal(t, "vencimiento: 5/1/2026 → 25/12/2026", DescribeBatchChanges(old, moved))
}
