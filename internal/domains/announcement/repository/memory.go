package repository

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/announcement/model"
	"bookstore-catalog/internal/infrastructure/memstore"
	"bookstore-catalog/internal/shared/apperr"
)

type memoryRepository struct {
	rows *memstore.Table[model.Announcement]
}

func NewMemoryRepository(store *memstore.Store) Repository {
	return &memoryRepository{rows: memstore.NewTable[model.Announcement](store)}
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	a, ok := r.rows.Get(ctx, id)
	if !ok {
		return nil, model.ErrAnnouncementNotFound
	}
	return &a, nil
}

// GetByIDForUpdate: memstore đã serialize writer trong WithinTx
func (r *memoryRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryRepository) List(ctx context.Context) ([]model.Announcement, error) {
	return r.filter(ctx, func(*model.Announcement) bool { return true })
}

func (r *memoryRepository) ListLive(ctx context.Context, now time.Time, category *string) ([]model.Announcement, error) {
	return r.filter(ctx, func(a *model.Announcement) bool {
		if !a.IsLive(now) {
			return false
		}
		return category == nil || (a.Category != nil && *a.Category == *category)
	})
}

func (r *memoryRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Announcement, error) {
	return r.filter(ctx, func(a *model.Announcement) bool {
		return a.BookID != nil && *a.BookID == bookID
	})
}

func (r *memoryRepository) Categories(ctx context.Context) ([]string, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for _, a := range all {
		if a.Category != nil {
			out = append(out, *a.Category)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func (r *memoryRepository) Create(ctx context.Context, a *model.Announcement) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	r.rows.Put(ctx, a.ID, *a)
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, a *model.Announcement) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	found := false
	r.rows.Mutate(ctx, func(rows map[uuid.UUID]model.Announcement) {
		if _, found = rows[a.ID]; found {
			rows[a.ID] = *a
		}
	})
	if !found {
		return model.ErrAnnouncementNotFound
	}
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	if !r.rows.Delete(ctx, id) {
		return model.ErrAnnouncementNotFound
	}
	return nil
}

// filter trả về kết quả theo start_date giảm dần, tie-break created_at giảm dần
func (r *memoryRepository) filter(ctx context.Context, keep func(*model.Announcement) bool) ([]model.Announcement, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	out := make([]model.Announcement, 0)
	for _, a := range r.rows.List(ctx) {
		if keep(&a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b model.Announcement) int {
		if c := b.StartDate.Compare(a.StartDate); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}
