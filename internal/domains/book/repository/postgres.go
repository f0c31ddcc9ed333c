package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/apperr"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/logger"
)

const bookColumns = `
	id, seq, title, isbn, author, description, genre, image_url,
	year_published, published_date, publisher, language, format,
	price, on_sale, discount_price, discount_end_date,
	stock_quantity, is_available, sales_count,
	is_bestseller, is_award_winner, is_coming_soon,
	added_date, updated_at`

// PostgresRepository - Raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) db(ctx context.Context) database.DBTX {
	return database.Conn(ctx, r.pool)
}

// ============================================
// WRITE
// ============================================

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (
			id, title, isbn, author, description, genre, image_url,
			year_published, published_date, publisher, language, format,
			price, on_sale, discount_price, discount_end_date,
			stock_quantity, is_available, sales_count,
			is_bestseller, is_award_winner, is_coming_soon,
			added_date, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19,
			$20, $21, $22,
			$23, $24
		)
		RETURNING seq
	`
	err := r.db(ctx).QueryRow(ctx, query,
		book.ID, book.Title, book.ISBN, book.Author, book.Description, book.Genre, book.ImageURL,
		book.YearPublished, book.PublishedDate, book.Publisher, book.Language, book.Format,
		book.Price, book.OnSale, book.DiscountPrice, book.DiscountEndDate,
		book.StockQuantity, book.IsAvailable, book.SalesCount,
		book.IsBestseller, book.IsAwardWinner, book.IsComingSoon,
		book.AddedDate, book.UpdatedAt,
	).Scan(&book.Seq)
	if err != nil {
		return mapWriteError("create book", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $1, isbn = $2, author = $3, description = $4, genre = $5, image_url = $6,
		    year_published = $7, published_date = $8, publisher = $9, language = $10, format = $11,
		    price = $12, stock_quantity = $13, is_available = $14, sales_count = $15,
		    is_bestseller = $16, is_award_winner = $17, is_coming_soon = $18,
		    updated_at = $19
		WHERE id = $20
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		book.Title, book.ISBN, book.Author, book.Description, book.Genre, book.ImageURL,
		book.YearPublished, book.PublishedDate, book.Publisher, book.Language, book.Format,
		book.Price, book.StockQuantity, book.IsAvailable, book.SalesCount,
		book.IsBestseller, book.IsAwardWinner, book.IsComingSoon,
		book.UpdatedAt, book.ID,
	)
	if err != nil {
		return mapWriteError("update book", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateSale(ctx context.Context, id uuid.UUID, sale model.SaleFields, now time.Time) error {
	query := `
		UPDATE books
		SET on_sale = $1, discount_price = $2, discount_end_date = $3, updated_at = $4
		WHERE id = $5
	`
	tag, err := r.db(ctx).Exec(ctx, query, sale.OnSale, sale.DiscountPrice, sale.DiscountEndDate, now, id)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("update sale fields: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(fmt.Errorf("delete book: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) ClearExpiredSales(ctx context.Context, now time.Time) (int, error) {
	query := `
		UPDATE books
		SET on_sale = false, discount_price = NULL, discount_end_date = NULL, updated_at = $1
		WHERE on_sale = true AND (discount_end_date IS NULL OR discount_end_date <= $1)
	`
	tag, err := r.db(ctx).Exec(ctx, query, now)
	if err != nil {
		return 0, apperr.FromStore(fmt.Errorf("clear expired sales: %w", err))
	}
	return int(tag.RowsAffected()), nil
}

// ============================================
// READ
// ============================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.getOne(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

// GetByIDForUpdate - Get book với SELECT FOR UPDATE (lock row)
func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.getOne(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, args ...any) (*model.Book, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("get book: %w", err))
	}
	book, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("get book: %w", err))
	}
	return book, nil
}

func (r *postgresRepository) ExistsByTitle(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "title", title, excludeID)
}

// ExistsByISBN - Check ISBN tồn tại ngoại trừ book hiện tại
func (r *postgresRepository) ExistsByISBN(ctx context.Context, isbn string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "isbn", isbn, excludeID)
}

func (r *postgresRepository) exists(ctx context.Context, column, value string, excludeID *uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM books WHERE %s = $1 AND ($2::uuid IS NULL OR id <> $2))`, column)
	var exists bool
	if err := r.db(ctx).QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, apperr.FromStore(fmt.Errorf("check %s exists: %w", column, err))
	}
	return exists, nil
}

// ListBooks - Get list of books with filters, sort, pagination
func (r *postgresRepository) List(ctx context.Context, c model.Criteria) ([]model.Book, int, error) {
	whereClause, args := buildWhereClause(c)

	totalCount, err := r.getBookCount(ctx, whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if totalCount == 0 || c.Offset() >= totalCount {
		return []model.Book{}, totalCount, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM books b
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, bookColumns, whereClause, buildOrderBy(c), len(args)+1, len(args)+2)
	args = append(args, c.PageSize, c.Offset())

	logger.Debug("list books query: " + query)

	books, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return books, totalCount, nil
}

func (r *postgresRepository) All(ctx context.Context) ([]model.Book, error) {
	return r.collect(ctx, `SELECT `+bookColumns+` FROM books ORDER BY seq`)
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE author ILIKE $1 ORDER BY title COLLATE "C", seq`
	return r.collect(ctx, query, utils.ContainsPattern(author))
}

func (r *postgresRepository) ListAuthors(ctx context.Context) ([]string, error) {
	rows, err := r.db(ctx).Query(ctx, `SELECT DISTINCT author FROM books ORDER BY author COLLATE "C"`)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("list authors: %w", err))
	}
	authors, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("list authors: %w", err))
	}
	return authors, nil
}

func (r *postgresRepository) Titles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	rows, err := r.db(ctx).Query(ctx, `SELECT id, title FROM books WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("load book titles: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, apperr.FromStore(fmt.Errorf("scan book title: %w", err))
		}
		titles[id] = title
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromStore(fmt.Errorf("load book titles: %w", err))
	}
	return titles, nil
}

// ============================================
// HELPER METHODS - Tách logic
// ============================================

// buildWhereClause - Construct WHERE clause dynamically
// Returns: (whereClause string, args []interface{})
func buildWhereClause(c model.Criteria) (string, []interface{}) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	add := func(format string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(format, argIndex))
		args = append(args, value)
		argIndex++
	}

	if c.Genre != nil {
		add("b.genre = $%d", *c.Genre)
	}
	// search: substring trên title, description, isbn (không phân biệt hoa thường)
	if c.Search != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(b.title ILIKE $%[1]d OR b.description ILIKE $%[1]d OR b.isbn ILIKE $%[1]d)", argIndex))
		args = append(args, utils.ContainsPattern(*c.Search))
		argIndex++
	}
	if c.Author != nil {
		add("b.author ILIKE $%d", utils.ContainsPattern(*c.Author))
	}
	if c.OnSale != nil {
		add("b.on_sale = $%d", *c.OnSale)
	}
	if c.MinPrice != nil {
		add("b.price >= $%d", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		add("b.price <= $%d", *c.MaxPrice)
	}
	if c.Language != nil {
		add("b.language = $%d", *c.Language)
	}
	if c.Format != nil {
		add("b.format = $%d", *c.Format)
	}
	if c.Publisher != nil {
		add("b.publisher = $%d", *c.Publisher)
	}

	return utils.JoinWithAnd(conditions), args
}

// buildOrderBy - sort một key, tie-break theo seq tăng dần
func buildOrderBy(c model.Criteria) string {
	var column string
	switch c.SortBy {
	case model.SortByPrice:
		column = "b.price"
	case model.SortByYear:
		column = "b.year_published"
	case model.SortByDateAdded:
		column = "b.added_date"
	default:
		column = `b.title COLLATE "C"`
	}

	direction := "ASC"
	if c.Desc {
		direction = "DESC"
	}
	return strings.Join([]string{column + " " + direction, "b.seq ASC"}, ", ")
}

// getBookCount - Get total count for pagination
func (r *postgresRepository) getBookCount(ctx context.Context, whereClause string, args []interface{}) (int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books b WHERE %s`, whereClause)

	var totalCount int
	if err := r.db(ctx).QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return 0, apperr.FromStore(fmt.Errorf("count query failed: %w", err))
	}
	return totalCount, nil
}

// collect - Execute query & map rows to Book struct using pgx.CollectRows
func (r *postgresRepository) collect(ctx context.Context, query string, args ...any) ([]model.Book, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("list books query failed: %w", err))
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, apperr.FromStore(fmt.Errorf("collect rows failed: %w", err))
	}
	return books, nil
}

// mapWriteError - unique violation → Conflict, còn lại qua FromStore
func mapWriteError(op string, err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		if conflict, known := model.ErrorForConstraint(constraint); known {
			return conflict.Wrap(err)
		}
	}
	return apperr.FromStore(fmt.Errorf("%s: %w", op, err))
}
