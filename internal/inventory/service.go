// Package inventory applies product and batch mutations and records each one in history.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/expiry-tracker/internal/audit"
	"github.com/rogerio-castellano/expiry-tracker/internal/logger"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/repo"
)

// Service serializes all mutations behind one mutex. Each call reads the
// collections it needs, writes them back whole, then records history.
type Service struct {
	mu       sync.Mutex
	store    *repo.Store
	recorder *audit.Recorder
	now      func() time.Time
	log      *logger.Logger
}

func NewService(store *repo.Store, recorder *audit.Recorder, now func() time.Time, log *logger.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, recorder: recorder, now: now, log: log}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Service) record(ctx context.Context, e audit.Event) error {
	entry, err := s.recorder.Record(ctx, e)
	if err != nil {
		s.log.Error(ctx, "recording history failed", err)
		return err
	}
	s.log.Zerolog(ctx).Info().
		Str("entity_type", string(entry.EntityType)).
		Str("entity_id", entry.EntityID).
		Str("action", string(entry.Action)).
		Str("actor", entry.UserID).
		Msg("inventory mutation")
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput, actor models.Actor) (models.Product, error) {
	if err := validateActor(actor); err != nil {
		return models.Product{}, err
	}
	in = in.normalized()
	if err := validateProduct(in); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}

	now := s.timestamp()
	p := models.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Barcode:   in.Barcode,
		CreatedAt: now,
		CreatedBy: actor.UserID,
		UpdatedAt: now,
		UpdatedBy: actor.UserID,
	}

	if err := s.store.SaveProducts(ctx, append(products, p)); err != nil {
		s.log.Error(ctx, "saving products failed", err)
		return models.Product{}, err
	}

	err = s.record(ctx, audit.Event{
		EntityType: models.EntityProduct,
		EntityID:   p.ID,
		EntityName: audit.ProductEntityName(p),
		Action:     models.ActionCreate,
		Actor:      actor,
	})
	return p, err
}

// UpdateProduct replaces name and barcode of the stored product with the
// values in p and mirrors them onto every batch of that product. changes is
// recorded verbatim.
func (s *Service) UpdateProduct(ctx context.Context, p models.Product, actor models.Actor, changes string) (models.Product, error) {
	if err := validateActor(actor); err != nil {
		return models.Product{}, err
	}
	in := ProductInput{Name: p.Name, Barcode: p.Barcode}.normalized()
	if err := validateProduct(in); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	idx := indexOfProduct(products, p.ID)
	if idx < 0 {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, p.ID)
	}

	updated := products[idx]
	updated.Name = in.Name
	updated.Barcode = in.Barcode
	updated.UpdatedAt = s.timestamp()
	updated.UpdatedBy = actor.UserID
	products[idx] = updated

	if err := s.store.SaveProducts(ctx, products); err != nil {
		s.log.Error(ctx, "saving products failed", err)
		return models.Product{}, err
	}

	batches, err := s.store.Batches(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for i := range batches {
		if batches[i].ProductID == updated.ID {
			batches[i].ProductName = updated.Name
			batches[i].ProductBarcode = updated.Barcode
		}
	}
	if err := s.store.SaveBatches(ctx, batches); err != nil {
		s.log.Error(ctx, "saving batches failed", err)
		return models.Product{}, err
	}

	err = s.record(ctx, audit.Event{
		EntityType: models.EntityProduct,
		EntityID:   updated.ID,
		EntityName: audit.ProductEntityName(updated),
		Action:     models.ActionUpdate,
		Actor:      actor,
		Changes:    changes,
	})
	return updated, err
}

// DeleteProduct removes the product and all of its batches. Only the product
// deletion is recorded. Unknown ids are ignored.
func (s *Service) DeleteProduct(ctx context.Context, id string, actor models.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return err
	}
	idx := indexOfProduct(products, id)
	if idx < 0 {
		return nil
	}
	deleted := products[idx]

	batches, err := s.store.Batches(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.Batch, 0, len(batches))
	for _, b := range batches {
		if b.ProductID != id {
			kept = append(kept, b)
		}
	}
	if err := s.store.SaveBatches(ctx, kept); err != nil {
		s.log.Error(ctx, "saving batches failed", err)
		return err
	}

	remaining := append(products[:idx:idx], products[idx+1:]...)
	if err := s.store.SaveProducts(ctx, remaining); err != nil {
		s.log.Error(ctx, "saving products failed", err)
		return err
	}

	return s.record(ctx, audit.Event{
		EntityType: models.EntityProduct,
		EntityID:   deleted.ID,
		EntityName: audit.ProductEntityName(deleted),
		Action:     models.ActionDelete,
		Actor:      actor,
	})
}

// CreateBatch adds a batch to an existing product, copying the product's
// current name and barcode.
func (s *Service) CreateBatch(ctx context.Context, in BatchInput, actor models.Actor) (models.Batch, error) {
	if err := validateActor(actor); err != nil {
		return models.Batch{}, err
	}
	in = in.normalized()
	if err := validateBatch(in); err != nil {
		return models.Batch{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Batch{}, err
	}
	idx := indexOfProduct(products, in.ProductID)
	if idx < 0 {
		return models.Batch{}, fmt.Errorf("%w: %s", ErrProductNotFound, in.ProductID)
	}
	product := products[idx]

	batches, err := s.store.Batches(ctx)
	if err != nil {
		return models.Batch{}, err
	}

	now := s.timestamp()
	b := models.Batch{
		ID:             uuid.NewString(),
		ProductID:      product.ID,
		ProductName:    product.Name,
		ProductBarcode: product.Barcode,
		ExpirationDate: in.ExpirationDate,
		Quantity:       in.Quantity,
		CreatedAt:      now,
		CreatedBy:      actor.UserID,
		UpdatedAt:      now,
		UpdatedBy:      actor.UserID,
	}

	if err := s.store.SaveBatches(ctx, append(batches, b)); err != nil {
		s.log.Error(ctx, "saving batches failed", err)
		return models.Batch{}, err
	}

	err = s.record(ctx, audit.Event{
		EntityType: models.EntityBatch,
		EntityID:   b.ID,
		EntityName: audit.BatchEntityName(b),
		Action:     models.ActionCreate,
		Actor:      actor,
	})
	return b, err
}

// UpdateBatch changes the expiration date and quantity of a stored batch.
// The product link and creation fields are kept from the stored copy.
func (s *Service) UpdateBatch(ctx context.Context, b models.Batch, actor models.Actor, changes string) (models.Batch, error) {
	if err := validateActor(actor); err != nil {
		return models.Batch{}, err
	}
	if err := validateBatchEdit(b); err != nil {
		return models.Batch{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batches, err := s.store.Batches(ctx)
	if err != nil {
		return models.Batch{}, err
	}
	idx := indexOfBatch(batches, b.ID)
	if idx < 0 {
		return models.Batch{}, fmt.Errorf("%w: %s", ErrBatchNotFound, b.ID)
	}

	updated := batches[idx]
	updated.ExpirationDate = b.ExpirationDate
	updated.Quantity = b.Quantity
	updated.UpdatedAt = s.timestamp()
	updated.UpdatedBy = actor.UserID
	batches[idx] = updated

	if err := s.store.SaveBatches(ctx, batches); err != nil {
		s.log.Error(ctx, "saving batches failed", err)
		return models.Batch{}, err
	}

	err = s.record(ctx, audit.Event{
		EntityType: models.EntityBatch,
		EntityID:   updated.ID,
		EntityName: audit.BatchEntityName(updated),
		Action:     models.ActionUpdate,
		Actor:      actor,
		Changes:    changes,
	})
	return updated, err
}

// DeleteBatch removes a batch. Unknown ids are ignored.
func (s *Service) DeleteBatch(ctx context.Context, id string, actor models.Actor) error {
	if err := validateActor(actor); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batches, err := s.store.Batches(ctx)
	if err != nil {
		return err
	}
	idx := indexOfBatch(batches, id)
	if idx < 0 {
		return nil
	}
	deleted := batches[idx]

	remaining := append(batches[:idx:idx], batches[idx+1:]...)
	if err := s.store.SaveBatches(ctx, remaining); err != nil {
		s.log.Error(ctx, "saving batches failed", err)
		return err
	}

	return s.record(ctx, audit.Event{
		EntityType: models.EntityBatch,
		EntityID:   deleted.ID,
		EntityName: audit.BatchEntityName(deleted),
		Action:     models.ActionDelete,
		Actor:      actor,
	})
}

func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.store.Products(ctx)
}

func (s *Service) Batches(ctx context.Context) ([]models.Batch, error) {
	return s.store.Batches(ctx)
}

func (s *Service) Product(ctx context.Context, id string) (models.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	if idx := indexOfProduct(products, id); idx >= 0 {
		return products[idx], nil
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

func (s *Service) Batch(ctx context.Context, id string) (models.Batch, error) {
	batches, err := s.store.Batches(ctx)
	if err != nil {
		return models.Batch{}, err
	}
	if idx := indexOfBatch(batches, id); idx >= 0 {
		return batches[idx], nil
	}
	return models.Batch{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
}

// LookupProductByBarcode returns the first product whose barcode equals barcode exactly.
func (s *Service) LookupProductByBarcode(ctx context.Context, barcode string) (models.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: barcode %s", ErrProductNotFound, barcode)
}

func (s *Service) BatchesByProduct(ctx context.Context, productID string) ([]models.Batch, error) {
	batches, err := s.store.Batches(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Batch{}
	for _, b := range batches {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}

// SearchProducts matches term against names case-insensitively and against
// barcodes as a plain substring. An empty term matches everything.
func (s *Service) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return products, nil
	}

	lower := strings.ToLower(term)
	out := []models.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) || strings.Contains(p.Barcode, term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func indexOfProduct(products []models.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func indexOfBatch(batches []models.Batch, id string) int {
	for i, b := range batches {
		if b.ID == id {
			return i
		}
	}
	return -1
}
