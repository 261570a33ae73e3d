package shop

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo map[int]Shop

func (s stubRepo) GetShop(_ context.Context, id int) (*Shop, error) {
	found, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("shop %d: %w", id, ErrShopNotFound)
	}
	return &found, nil
}

var shops = stubRepo{
	1: {ID: 1, Name: "Main", Locale: "en_GB", CategoryID: 3},
	2: {ID: 2, Name: "Deutsch", Locale: "de_DE", CategoryID: 3, FallbackLocale: "en_GB"},
}

func TestShopContext(t *testing.T) {
	svc := NewService(shops, 1)

	t.Run("default shop", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/widgets/advanced-menu", nil)
		sc, err := svc.ShopContext(r.Context(), r)
		require.NoError(t, err)
		assert.Equal(t, 1, sc.Shop.ID)
		assert.Equal(t, "en_GB", sc.Translation.Locale)
	})

	t.Run("query parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/x?shop=2", nil)
		sc, err := svc.ShopContext(r.Context(), r)
		require.NoError(t, err)
		assert.Equal(t, TranslationContext{ShopID: 2, Locale: "de_DE", FallbackLocale: "en_GB"}, sc.Translation)
	})

	t.Run("header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/x", nil)
		r.Header.Set("X-Shop-ID", "2")
		sc, err := svc.ShopContext(r.Context(), r)
		require.NoError(t, err)
		assert.Equal(t, "Deutsch", sc.Shop.Name)
	})

	t.Run("garbage id", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/x?shop=abc", nil)
		_, err := svc.ShopContext(r.Context(), r)
		assert.ErrorIs(t, err, ErrShopNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/x?shop=9", nil)
		_, err := svc.ShopContext(r.Context(), r)
		assert.ErrorIs(t, err, ErrShopNotFound)
	})
}

func TestResolveMiddleware(t *testing.T) {
	svc := NewService(shops, 1)

	var gotStatus int
	onError := func(w http.ResponseWriter, r *http.Request, status int, err error) {
		gotStatus = status
		w.WriteHeader(status)
	}

	handler := svc.Resolve(onError)(func(w http.ResponseWriter, r *http.Request) {
		sc, ok := FromContext(r.Context())
		require.True(t, ok)
		fmt.Fprint(w, sc.Shop.Name)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/x?shop=2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deutsch", rec.Body.String())

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/x?shop=42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, gotStatus)

	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}
