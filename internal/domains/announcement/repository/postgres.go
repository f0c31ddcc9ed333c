package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-catalog/internal/domains/announcement/model"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/pkg/database"
)

const announcementColumns = `
	id, title, content, start_date, end_date, is_active, category, book_id, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) db(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.pool)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	return r.getOne(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	return r.getOne(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.Announcement, error) {
	rows, err := r.db(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("get announcement: %w", err))
	}
	a, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Announcement])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAnnouncementNotFound
	}
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("get announcement: %w", err))
	}
	return a, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Announcement, error) {
	return r.collect(ctx, `SELECT `+announcementColumns+` FROM announcements ORDER BY start_date DESC, created_at DESC`)
}

func (r *postgresRepository) ListLive(ctx context.Context, now time.Time, category *string) ([]model.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements
		WHERE is_active = true
		  AND start_date <= $1
		  AND end_date >= $1
		  AND ($2::text IS NULL OR category = $2)
		ORDER BY start_date DESC, created_at DESC
	`
	return r.collect(ctx, query, now, category)
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE book_id = $1 ORDER BY start_date DESC, created_at DESC`
	return r.collect(ctx, query, bookID)
}

func (r *postgresRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT DISTINCT category FROM announcements WHERE category IS NOT NULL ORDER BY category`)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("list announcement categories: %w", err))
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("list announcement categories: %w", err))
	}
	return categories, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Announcement) error {
	query := `
		INSERT INTO announcements (` + announcementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db(ctx).Exec(ctx, query,
		a.ID, a.Title, a.Content, a.StartDate, a.EndDate, a.IsActive, a.Category, a.BookID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("create announcement: %w", err))
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $1, content = $2, start_date = $3, end_date = $4, is_active = $5,
		    category = $6, book_id = $7, updated_at = $8
		WHERE id = $9
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		a.Title, a.Content, a.StartDate, a.EndDate, a.IsActive, a.Category, a.BookID, a.UpdatedAt, a.ID)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("update announcement: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAnnouncementNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("delete announcement: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAnnouncementNotFound
	}
	return nil
}

func (r *postgresRepository) collect(ctx context.Context, query string, args ...any) ([]model.Announcement, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("list announcements: %w", err))
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Announcement])
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("collect announcements: %w", err))
	}
	return out, nil
}
