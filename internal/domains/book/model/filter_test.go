package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/shared/apperr"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		in    string
		want  SortField
		known bool
	}{
		{"", SortByTitle, true},
		{"title", SortByTitle, true},
		{"PRICE", SortByPrice, true},
		{"Year", SortByYear, true},
		{"dateAdded", SortByDateAdded, true},
		{"rating", SortByTitle, false},
	}
	for _, tt := range tests {
		got, known := ParseSortField(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, tt.known, known, "input %q", tt.in)
	}
}

func TestFilter_Validate(t *testing.T) {
	t.Run("min greater than max is invalid range", func(t *testing.T) {
		err := Filter{MinPrice: decPtr("20"), MaxPrice: decPtr("10")}.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPriceRange)
		assert.Equal(t, apperr.KindInvalidRange, apperr.KindOf(err))
	})

	t.Run("equal bounds are valid", func(t *testing.T) {
		assert.NoError(t, Filter{MinPrice: decPtr("10"), MaxPrice: decPtr("10")}.Validate())
	})

	t.Run("page and page size below one", func(t *testing.T) {
		err := Filter{Page: intPtr(0), PageSize: intPtr(-1)}.Validate()
		require.Error(t, err)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
		assert.Contains(t, appErr.Details, "page")
		assert.Contains(t, appErr.Details, "page_size")
	})

	t.Run("field errors win over range error", func(t *testing.T) {
		err := Filter{Page: intPtr(0), MinPrice: decPtr("20"), MaxPrice: decPtr("10")}.Validate()
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestFilter_Normalize(t *testing.T) {
	p := Paging{DefaultPageSize: 10, MaxPageSize: 50}

	c := Filter{Genre: strPtr(""), SortBy: "price", SortOrder: "DESC"}.Normalize(p)
	assert.Nil(t, c.Genre)
	assert.Equal(t, SortByPrice, c.SortBy)
	assert.True(t, c.Desc)
	assert.Equal(t, 1, c.Page)
	assert.Equal(t, 10, c.PageSize)

	c = Filter{SortOrder: "sideways", PageSize: intPtr(500), Page: intPtr(3)}.Normalize(p)
	assert.False(t, c.Desc)
	assert.Equal(t, 50, c.PageSize)
	assert.Equal(t, 100, c.Offset())

	// sortBy lạ → title ascending dù sortOrder=desc
	c = Filter{SortBy: "bogus", SortOrder: "desc"}.Normalize(p)
	assert.Equal(t, SortByTitle, c.SortBy)
	assert.False(t, c.Desc)

	c = Filter{SortOrder: "desc"}.Normalize(p)
	assert.Equal(t, SortByTitle, c.SortBy)
	assert.True(t, c.Desc)
}

func TestCriteria_Matches(t *testing.T) {
	b := &Book{
		Title:       "The Go Programming Language",
		Description: "Concurrency and interfaces",
		ISBN:        "9780134190440",
		Author:      "Alan Donovan",
		Genre:       "Programming",
		Language:    "English",
		Format:      "Paperback",
		Publisher:   "Addison-Wesley",
		Price:       decimal.RequireFromString("39.99"),
		OnSale:      true,
	}

	tests := []struct {
		name string
		c    Criteria
		want bool
	}{
		{"no filters", Criteria{}, true},
		{"search title case-insensitive", Criteria{Search: strPtr("go programming")}, true},
		{"search description", Criteria{Search: strPtr("CONCURRENCY")}, true},
		{"search isbn", Criteria{Search: strPtr("0134")}, true},
		{"search miss", Criteria{Search: strPtr("rust")}, false},
		{"author substring", Criteria{Author: strPtr("donovan")}, true},
		{"genre exact", Criteria{Genre: strPtr("Programming")}, true},
		{"genre is case-sensitive", Criteria{Genre: strPtr("programming")}, false},
		{"on sale", Criteria{OnSale: boolPtr(true)}, true},
		{"not on sale", Criteria{OnSale: boolPtr(false)}, false},
		{"price inclusive bounds", Criteria{MinPrice: decPtr("39.99"), MaxPrice: decPtr("39.99")}, true},
		{"price below min", Criteria{MinPrice: decPtr("40")}, false},
		{"AND of matching filters", Criteria{Genre: strPtr("Programming"), Language: strPtr("English"), Format: strPtr("Paperback")}, true},
		{"AND with one miss", Criteria{Genre: strPtr("Programming"), Publisher: strPtr("O'Reilly")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Matches(b))
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCriteria_Less_TieBreakBySeq(t *testing.T) {
	a := &Book{Seq: 1, Title: "Same", Price: decimal.NewFromInt(10)}
	b := &Book{Seq: 2, Title: "Same", Price: decimal.NewFromInt(10)}

	asc := Criteria{SortBy: SortByPrice}
	assert.True(t, asc.Less(a, b))
	assert.False(t, asc.Less(b, a))

	// desc chỉ đảo key chính, tie-break vẫn theo seq tăng dần
	desc := Criteria{SortBy: SortByPrice, Desc: true}
	assert.True(t, desc.Less(a, b))
}

func TestCriteria_Less_DateAdded(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	older := &Book{Seq: 2, AddedDate: now.AddDate(0, 0, -1)}
	newer := &Book{Seq: 1, AddedDate: now}

	c := Criteria{SortBy: SortByDateAdded, Desc: true}
	assert.True(t, c.Less(newer, older))
}

func TestCriteria_CacheKey(t *testing.T) {
	p := DefaultPaging
	k1 := Filter{Genre: strPtr("Fiction")}.Normalize(p).CacheKey("books:list")
	k2 := Filter{Genre: strPtr("Fiction")}.Normalize(p).CacheKey("books:list")
	k3 := Filter{Genre: strPtr("Fiction"), Page: intPtr(2)}.Normalize(p).CacheKey("books:list")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "books:list:")
}
