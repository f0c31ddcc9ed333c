package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"bookstore-catalog/internal/domains/announcement/model"
	"bookstore-catalog/internal/domains/announcement/repository"
	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/logger"
)

// BookLookup - announcement chỉ cần kiểm tra book tồn tại và lấy title để hiển thị
type BookLookup interface {
	GetBook(ctx context.Context, id uuid.UUID) (*bookModel.Book, error)
	Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type AnnouncementService struct {
	repo  repository.Repository
	books BookLookup
	tx    database.TxManager
	now   func() time.Time
}

func NewAnnouncementService(
	repo repository.Repository,
	books BookLookup,
	tx database.TxManager,
	now func() time.Time,
) *AnnouncementService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AnnouncementService{repo: repo, books: books, tx: tx, now: now}
}

// -------------------------------------------------------------------
// QUERIES
// -------------------------------------------------------------------

func (s *AnnouncementService) List(ctx context.Context) ([]model.View, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withTitles(ctx, items)
}

// ListActive: is_active và start <= now <= end
func (s *AnnouncementService) ListActive(ctx context.Context) ([]model.View, error) {
	items, err := s.repo.ListLive(ctx, s.now(), nil)
	if err != nil {
		return nil, err
	}
	return s.withTitles(ctx, items)
}

// ListByCategory chỉ trả announcement đang active thuộc category (so khớp chính xác)
func (s *AnnouncementService) ListByCategory(ctx context.Context, category string) ([]model.View, error) {
	items, err := s.repo.ListLive(ctx, s.now(), &category)
	if err != nil {
		return nil, err
	}
	return s.withTitles(ctx, items)
}

func (s *AnnouncementService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.View, error) {
	items, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return s.withTitles(ctx, items)
}

func (s *AnnouncementService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *AnnouncementService) Get(ctx context.Context, id uuid.UUID) (*model.View, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withTitles(ctx, []model.Announcement{*a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// -------------------------------------------------------------------
// COMMANDS
// -------------------------------------------------------------------

func (s *AnnouncementService) Create(ctx context.Context, req model.AnnouncementRequest) (*model.View, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	now := s.now()
	a := &model.Announcement{ID: uuid.New(), CreatedAt: now}
	req.ApplyTo(a, now)

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	logger.Info("Announcement created", map[string]interface{}{
		"announcement_id": a.ID,
		"is_active":       a.IsActive,
	})
	return s.Get(ctx, a.ID)
}

func (s *AnnouncementService) Update(ctx context.Context, id uuid.UUID, req model.AnnouncementRequest) (*model.View, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		req.ApplyTo(a, s.now())
		return s.repo.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *AnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ToggleActive đảo is_active (read-modify-write dưới row lock), trả về announcement sau khi đổi
func (s *AnnouncementService) ToggleActive(ctx context.Context, id uuid.UUID) (*model.View, error) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		a.IsActive = !a.IsActive
		a.UpdatedAt = s.now()
		return s.repo.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func (s *AnnouncementService) checkBook(ctx context.Context, bookID *uuid.UUID) error {
	if bookID == nil {
		return nil
	}
	_, err := s.books.GetBook(ctx, *bookID)
	if errors.Is(err, bookModel.ErrBookNotFound) {
		return model.ErrReferencedBookNotFound.WithDetails(map[string]interface{}{"book_id": bookID.String()})
	}
	return err
}

// withTitles: book đã bị xóa thì BookTitle = nil
func (s *AnnouncementService) withTitles(ctx context.Context, items []model.Announcement) ([]model.View, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if items[i].BookID != nil {
			ids = append(ids, *items[i].BookID)
		}
	}

	titles := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var err error
		if titles, err = s.books.Titles(ctx, ids); err != nil {
			return nil, err
		}
	}

	views := make([]model.View, 0, len(items))
	for i := range items {
		v := model.View{Announcement: items[i]}
		if items[i].BookID != nil {
			if title, ok := titles[*items[i].BookID]; ok {
				v.BookTitle = &title
			}
		}
		views = append(views, v)
	}
	return views, nil
}
