package repository

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/infrastructure/memstore"
	"bookstore-catalog/internal/shared/apperr"
)

// memoryRepository là BookRecord store in-memory (STORE_DRIVER=memory, test).
// Unique title/isbn được enforce ở đây giống unique index của Postgres.
type memoryRepository struct {
	store *memstore.Store
	books *memstore.Table[model.Book]
}

func NewMemoryRepository(store *memstore.Store) RepositoryInterface {
	return &memoryRepository{
		store: store,
		books: memstore.NewTable[model.Book](store),
	}
}

func (r *memoryRepository) Create(ctx context.Context, book *model.Book) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	return r.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := r.checkUnique(ctx, book); err != nil {
			return err
		}
		book.Seq = r.store.NextSeq()
		r.books.Put(ctx, book.ID, *book)
		return nil
	})
}

func (r *memoryRepository) Update(ctx context.Context, book *model.Book) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	return r.store.WithinTx(ctx, func(ctx context.Context) error {
		current, ok := r.books.Get(ctx, book.ID)
		if !ok {
			return model.ErrBookNotFound
		}
		if err := r.checkUnique(ctx, book); err != nil {
			return err
		}
		// Update không ghi sale fields, seq, added_date
		updated := *book
		updated.Seq = current.Seq
		updated.AddedDate = current.AddedDate
		updated.ApplySale(current.Sale())
		r.books.Put(ctx, book.ID, updated)
		return nil
	})
}

func (r *memoryRepository) UpdateSale(ctx context.Context, id uuid.UUID, sale model.SaleFields, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	return r.store.WithinTx(ctx, func(ctx context.Context) error {
		current, ok := r.books.Get(ctx, id)
		if !ok {
			return model.ErrBookNotFound
		}
		current.ApplySale(sale)
		current.UpdatedAt = now
		r.books.Put(ctx, id, current)
		return nil
	})
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return apperr.FromStore(err)
	}
	if !r.books.Delete(ctx, id) {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *memoryRepository) ClearExpiredSales(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperr.FromStore(err)
	}
	cleared := 0
	r.books.Mutate(ctx, func(rows map[uuid.UUID]model.Book) {
		for id, b := range rows {
			if b.OnSale && (b.DiscountEndDate == nil || !b.DiscountEndDate.After(now)) {
				b.ApplySale(model.SaleFields{})
				b.UpdatedAt = now
				rows[id] = b
				cleared++
			}
		}
	})
	return cleared, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	b, ok := r.books.Get(ctx, id)
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return &b, nil
}

// GetByIDForUpdate: transaction của memstore đã giữ write lock
func (r *memoryRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryRepository) ExistsByTitle(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, excludeID, func(b *model.Book) bool { return b.Title == title })
}

func (r *memoryRepository) ExistsByISBN(ctx context.Context, isbn string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, excludeID, func(b *model.Book) bool { return b.ISBN == isbn })
}

func (r *memoryRepository) exists(ctx context.Context, excludeID *uuid.UUID, match func(*model.Book) bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperr.FromStore(err)
	}
	for _, b := range r.books.List(ctx) {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if match(&b) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) checkUnique(ctx context.Context, book *model.Book) error {
	for _, b := range r.books.List(ctx) {
		if b.ID == book.ID {
			continue
		}
		if b.Title == book.Title {
			return model.ErrDuplicateTitle
		}
		if b.ISBN == book.ISBN {
			return model.ErrDuplicateISBN
		}
	}
	return nil
}

func (r *memoryRepository) List(ctx context.Context, c model.Criteria) ([]model.Book, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperr.FromStore(err)
	}

	matched := make([]model.Book, 0)
	for _, b := range r.books.List(ctx) {
		if c.Matches(&b) {
			matched = append(matched, b)
		}
	}
	slices.SortFunc(matched, func(a, b model.Book) int {
		if c.Less(&a, &b) {
			return -1
		}
		if c.Less(&b, &a) {
			return 1
		}
		return 0
	})

	total := len(matched)
	start := c.Offset()
	if start >= total {
		return []model.Book{}, total, nil
	}
	end := min(start+c.PageSize, total)
	return matched[start:end], total, nil
}

func (r *memoryRepository) All(ctx context.Context) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	books := r.books.List(ctx)
	slices.SortFunc(books, func(a, b model.Book) int { return compareSeq(a.Seq, b.Seq) })
	return books, nil
}

func (r *memoryRepository) ListByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	books, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(author)
	out := make([]model.Book, 0)
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Author), needle) {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Book) int { return strings.Compare(a.Title, b.Title) })
	return out, nil
}

func (r *memoryRepository) ListAuthors(ctx context.Context) ([]string, error) {
	books, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	authors := make([]string, 0, len(books))
	for _, b := range books {
		authors = append(authors, b.Author)
	}
	slices.Sort(authors)
	return slices.Compact(authors), nil
}

func (r *memoryRepository) Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	titles := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if b, ok := r.books.Get(ctx, id); ok {
			titles[id] = b.Title
		}
	}
	return titles, nil
}

func compareSeq(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
