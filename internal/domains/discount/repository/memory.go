package repository

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/discount/model"
	"bookstore-catalog/internal/infrastructure/memstore"
	"bookstore-catalog/internal/shared/apperr"
)

type memoryRepository struct {
	discounts *memstore.Table[model.Discount]
}

func NewMemoryRepository(store *memstore.Store) DiscountRepository {
	return &memoryRepository{discounts: memstore.NewTable[model.Discount](store)}
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	d, ok := r.discounts.Get(ctx, id)
	if !ok {
		return nil, model.ErrDiscountNotFound
	}
	return &d, nil
}

func (r *memoryRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryRepository) List(ctx context.Context) ([]model.Discount, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	out := r.discounts.List(ctx)
	slices.SortFunc(out, func(a, b model.Discount) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (r *memoryRepository) FindActiveByBook(ctx context.Context, bookID uuid.UUID, now time.Time, excludeID *uuid.UUID) (*model.Discount, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		d := all[i]
		if d.BookID != bookID || (excludeID != nil && d.ID == *excludeID) {
			continue
		}
		if d.IsActive(now) {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *memoryRepository) Create(ctx context.Context, d *model.Discount) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	r.discounts.Put(ctx, d.ID, *d)
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, d *model.Discount) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	found := false
	r.discounts.Mutate(ctx, func(rows map[uuid.UUID]model.Discount) {
		if _, found = rows[d.ID]; found {
			rows[d.ID] = *d
		}
	})
	if !found {
		return model.ErrDiscountNotFound
	}
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	if !r.discounts.Delete(ctx, id) {
		return model.ErrDiscountNotFound
	}
	return nil
}

func (r *memoryRepository) DeleteByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperr.FromStore(err)
	}
	deleted := 0
	r.discounts.Mutate(ctx, func(rows map[uuid.UUID]model.Discount) {
		for id, d := range rows {
			if d.BookID == bookID {
				delete(rows, id)
				deleted++
			}
		}
	})
	return deleted, nil
}
