package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/announcement/model"
	"bookstore-catalog/internal/domains/announcement/repository"
	bookModel "bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/infrastructure/memstore"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/utils"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type stubBooks map[uuid.UUID]string

func (s stubBooks) GetBook(_ context.Context, id uuid.UUID) (*bookModel.Book, error) {
	title, ok := s[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	return &bookModel.Book{ID: id, Title: title}, nil
}

func (s stubBooks) Titles(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if title, ok := s[id]; ok {
			out[id] = title
		}
	}
	return out, nil
}

func newTestService(books stubBooks) *AnnouncementService {
	store := memstore.New()
	repo := repository.NewMemoryRepository(store)
	return NewAnnouncementService(repo, books, store, func() time.Time { return testNow })
}

func announcement(title string, startOffset, endOffset time.Duration) model.AnnouncementRequest {
	return model.AnnouncementRequest{
		Title:     title,
		Content:   "content of " + title,
		StartDate: utils.NewUTCTime(testNow.Add(startOffset)),
		EndDate:   utils.NewUTCTime(testNow.Add(endOffset)),
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()
	svc := newTestService(stubBooks{bookID: "Dune"})

	t.Run("defaults to active and joins book title", func(t *testing.T) {
		req := announcement("Launch", -time.Hour, time.Hour)
		req.BookID = &bookID
		v, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.True(t, v.IsActive)
		require.NotNil(t, v.BookTitle)
		assert.Equal(t, "Dune", *v.BookTitle)
	})

	t.Run("start not before end", func(t *testing.T) {
		_, err := svc.Create(ctx, announcement("Bad", time.Hour, time.Hour))
		assert.ErrorIs(t, err, model.ErrInvalidDateRange)
		assert.Equal(t, apperr.KindInvalidRange, apperr.KindOf(err))
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := svc.Create(ctx, announcement("  ", -time.Hour, time.Hour))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("unknown book", func(t *testing.T) {
		req := announcement("Ghost", -time.Hour, time.Hour)
		req.BookID = utils.Ptr(uuid.New())
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, model.ErrReferencedBookNotFound)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestListActiveAndByCategory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(stubBooks{})

	live := announcement("Live", -time.Hour, time.Hour)
	live.Category = utils.Ptr("events")
	_, err := svc.Create(ctx, live)
	require.NoError(t, err)

	future := announcement("Future", time.Hour, 2*time.Hour)
	future.Category = utils.Ptr("events")
	_, err = svc.Create(ctx, future)
	require.NoError(t, err)

	off := announcement("Off", -time.Hour, time.Hour)
	off.IsActive = utils.Ptr(false)
	off.Category = utils.Ptr("news")
	_, err = svc.Create(ctx, off)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Future", all[0].Title)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Live", active[0].Title)

	events, err := svc.ListByCategory(ctx, "events")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Live", events[0].Title)

	news, err := svc.ListByCategory(ctx, "news")
	require.NoError(t, err)
	assert.Empty(t, news)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "news"}, categories)
}

func TestUpdateToggleDelete(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()
	books := stubBooks{bookID: "Emma"}
	svc := newTestService(books)

	created, err := svc.Create(ctx, announcement("Sale", -time.Hour, time.Hour))
	require.NoError(t, err)

	req := announcement("Sale v2", -time.Hour, 3*time.Hour)
	req.BookID = &bookID
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Sale v2", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	byBook, err := svc.ListByBook(ctx, bookID)
	require.NoError(t, err)
	assert.Len(t, byBook, 1)

	toggled, err := svc.ToggleActive(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	// book bị xóa: title biến mất nhưng announcement vẫn còn
	delete(books, bookID)
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BookTitle)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrAnnouncementNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), model.ErrAnnouncementNotFound)

	_, err = svc.Update(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, model.ErrAnnouncementNotFound)
	_, err = svc.ToggleActive(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrAnnouncementNotFound)
}

func TestToggleActive_Concurrent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(stubBooks{})

	created, err := svc.Create(ctx, announcement("Flash sale", -time.Hour, time.Hour))
	require.NoError(t, err)

	const toggles = 21
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ToggleActive(ctx, created.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// số lần toggle lẻ: không toggle nào bị mất thì trạng thái phải đảo
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, !created.IsActive, got.IsActive)
}
