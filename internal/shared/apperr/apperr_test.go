package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	sentinel := New(KindNotFound, "BOOK_NOT_FOUND", "Book not found")
	wrapped := fmt.Errorf("get book: %w", sentinel.WithDetails(map[string]interface{}{"id": "x"}))

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, http.StatusNotFound, sentinel.HTTPStatus)
	assert.Nil(t, sentinel.Details, "WithDetails must not mutate the sentinel")
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFromStore(t *testing.T) {
	t.Run("deadline becomes unavailable", func(t *testing.T) {
		err := FromStore(fmt.Errorf("query: %w", context.DeadlineExceeded))
		assert.Equal(t, KindUnavailable, KindOf(err))
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("app errors pass through", func(t *testing.T) {
		sentinel := New(KindConflict, "X", "x")
		assert.Same(t, sentinel, FromStore(sentinel))
	})

	t.Run("other errors untouched", func(t *testing.T) {
		plain := errors.New("syntax error")
		assert.Equal(t, plain, FromStore(plain))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, FromStore(nil))
	})
}

func TestFromValidation(t *testing.T) {
	type req struct{ Title string }
	r := req{}
	err := validation.ValidateStruct(&r, validation.Field(&r.Title, validation.Required))
	require.Error(t, err)

	converted := FromValidation(err)
	appErr, ok := As(converted)
	require.True(t, ok)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Details, "Title")
}
