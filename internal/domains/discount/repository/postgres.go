package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-catalog/internal/domains/discount/model"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/pkg/database"
)

const discountColumns = `id, book_id, percentage, start_date, end_date, is_on_sale, created_at, updated_at`

// PostgresRepository triển khai DiscountRepository với PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository tạo instance mới
func NewPostgresRepository(pool *pgxpool.Pool) DiscountRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) db(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.pool)
}

// -------------------------------------------------------------------
// READ OPERATIONS
// -------------------------------------------------------------------

// GetByID tìm discount theo ID
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	return r.getOne(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Discount, error) {
	return r.getOne(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]model.Discount, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT `+discountColumns+` FROM discounts ORDER BY created_at, id`)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("list discounts: %w", err))
	}
	discounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Discount])
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("collect discounts: %w", err))
	}
	return discounts, nil
}

// FindActiveByBook: is_on_sale = true AND end_date > now
func (r *PostgresRepository) FindActiveByBook(ctx context.Context, bookID uuid.UUID, now time.Time, excludeID *uuid.UUID) (*model.Discount, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE book_id = $1
		  AND is_on_sale = true
		  AND end_date > $2
		  AND ($3::uuid IS NULL OR id <> $3)
		ORDER BY created_at
		LIMIT 1
	`
	d, err := r.getOne(ctx, query, bookID, now, excludeID)
	if errors.Is(err, model.ErrDiscountNotFound) {
		return nil, nil
	}
	return d, err
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*model.Discount, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("find discount: %w", err))
	}
	d, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Discount])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrDiscountNotFound
	}
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("find discount: %w", err))
	}
	return d, nil
}

// -------------------------------------------------------------------
// WRITE OPERATIONS
// -------------------------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, d *model.Discount) error {
	query := `
		INSERT INTO discounts (
			id, book_id, percentage, start_date, end_date, is_on_sale, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db(ctx).Exec(ctx, query,
		d.ID, d.BookID, d.Percentage, d.StartDate, d.EndDate, d.IsOnSale, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("create discount: %w", err))
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, d *model.Discount) error {
	query := `
		UPDATE discounts
		SET percentage = $1, start_date = $2, end_date = $3, is_on_sale = $4, updated_at = $5
		WHERE id = $6
	`
	tag, err := r.db(ctx).Exec(ctx, query, d.Percentage, d.StartDate, d.EndDate, d.IsOnSale, d.UpdatedAt, d.ID)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("update discount: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("delete discount: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}
	return nil
}

// DeleteByBook - FK đã ON DELETE CASCADE, gọi tường minh để dùng chung với memory store
func (r *PostgresRepository) DeleteByBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM discounts WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, apperr.FromStore(fmt.Errorf("delete discounts of book: %w", err))
	}
	return int(tag.RowsAffected()), nil
}
