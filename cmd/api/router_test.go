package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/config"
	"bookstore-catalog/pkg/container"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		App:     config.AppConfig{Environment: "test", Version: "test"},
		Store:   config.StoreConfig{Driver: config.StoreDriverMemory},
		Catalog: config.CatalogConfig{DefaultPageSize: 10, MaxPageSize: 50, CacheTTL: time.Minute},
	}
	c, err := container.Build(context.Background(), cfg)
	require.NoError(t, err)
	return SetupRouter(c)
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func bookBody(title, isbn, price string) map[string]interface{} {
	return map[string]interface{}{
		"title":          title,
		"author":         "Ursula K. Le Guin",
		"isbn":           isbn,
		"description":    "A novel",
		"genre":          "Fantasy",
		"price":          price,
		"year_published": 1968,
		"published_date": "1968-09-01T00:00:00Z",
		"publisher":      "Parnassus",
		"language":       "English",
		"format":         "Paperback",
		"stock_quantity": 3,
	}
}

func TestRouter_BookDiscountFlow(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/books", bookBody("A Wizard of Earthsea", "9780547773742", "20"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var book struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &book))

	w, env = do(t, r, http.MethodPost, "/api/v1/books", bookBody("A Wizard of Earthsea", "other-isbn", "20"))
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)

	now := time.Now().UTC()
	w, _ = do(t, r, http.MethodPost, "/api/v1/discounts", map[string]interface{}{
		"book_id":    book.ID,
		"percentage": "25",
		"start_date": now.Add(-time.Hour).Format(time.RFC3339),
		"end_date":   now.Add(48 * time.Hour).Format(time.RFC3339),
		"is_on_sale": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = do(t, r, http.MethodGet, "/api/v1/books?onSale=true&sortBy=price", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Books      []map[string]interface{} `json:"books"`
		TotalCount int                      `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "15", page.Books[0]["discount_price"])

	w, _ = do(t, r, http.MethodGet, "/api/v1/categories/deals/books", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/categories/unknown/books", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CATEGORY_INVALID", env.Error.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/books/"+book.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/books/"+book.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_InvalidInput(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/books?minPrice=30&maxPrice=10", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)

	w, _ = do(t, r, http.MethodGet, "/api/v1/books/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/books?genre=Nothing", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Health(t *testing.T) {
	w, _ := do(t, newTestRouter(t), http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)
}
