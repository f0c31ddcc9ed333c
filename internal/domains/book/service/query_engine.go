package service

import (
	"context"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
)

// QueryEngine: filter predicates + sort comparator + pagination trên BookRecord store.
// Không cache, không log; BookService bọc cache-aside bên ngoài.
type QueryEngine struct {
	repo   repository.RepositoryInterface
	paging model.Paging
}

func NewQueryEngine(repo repository.RepositoryInterface, paging model.Paging) *QueryEngine {
	if paging.DefaultPageSize <= 0 {
		paging.DefaultPageSize = model.DefaultPaging.DefaultPageSize
	}
	if paging.MaxPageSize <= 0 {
		paging.MaxPageSize = model.DefaultPaging.MaxPageSize
	}
	return &QueryEngine{repo: repo, paging: paging}
}

// Criteria validate + chuẩn hóa filter
func (e *QueryEngine) Criteria(f model.Filter) (model.Criteria, error) {
	if err := f.Validate(); err != nil {
		return model.Criteria{}, err
	}
	return f.Normalize(e.paging), nil
}

// Run thực thi query. Kết quả rỗng không phải lỗi ở layer này.
func (e *QueryEngine) Run(ctx context.Context, c model.Criteria) (*model.Page, error) {
	books, total, err := e.repo.List(ctx, c)
	if err != nil {
		return nil, err
	}
	page := model.NewPage(books, total, c)
	return &page, nil
}
