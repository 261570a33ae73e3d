// Package shop resolves which storefront (locale, root category) a request is for.
package shop

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/logger"
)

var ErrShopNotFound = errors.New("shop not found")

// Shop is a sales channel with its own locale and category tree.
type Shop struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Locale         string `json:"locale"`
	CategoryID     int    `json:"categoryId"`
	FallbackLocale string `json:"fallbackLocale,omitempty"`
}

// TranslationContext tells gateways which locale to translate names into.
type TranslationContext struct {
	ShopID         int    `json:"shopId"`
	Locale         string `json:"locale"`
	FallbackLocale string `json:"fallbackLocale,omitempty"`
}

// Context is the per-request storefront context.
type Context struct {
	Shop        Shop
	Translation TranslationContext
}

// NewContext derives the translation context from a shop.
func NewContext(s Shop) *Context {
	return &Context{
		Shop: s,
		Translation: TranslationContext{
			ShopID:         s.ID,
			Locale:         s.Locale,
			FallbackLocale: s.FallbackLocale,
		},
	}
}

// Repository loads shops.
type Repository interface {
	GetShop(ctx context.Context, id int) (*Shop, error)
}

type Service struct {
	repo          Repository
	defaultShopID int
}

func NewService(repo Repository, defaultShopID int) *Service {
	return &Service{repo: repo, defaultShopID: defaultShopID}
}

// ShopContext resolves the shop named by the "shop" query parameter or the
// X-Shop-ID header, falling back to the default shop.
func (s *Service) ShopContext(ctx context.Context, r *http.Request) (*Context, error) {
	id := s.defaultShopID

	raw := r.URL.Query().Get("shop")
	if raw == "" {
		raw = r.Header.Get("X-Shop-ID")
	}
	if raw = strings.TrimSpace(raw); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid shop id %q: %w", raw, ErrShopNotFound)
		}
		id = n
	}

	found, err := s.repo.GetShop(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewContext(*found), nil
}

type contextKey string

const shopContextKey contextKey = "shop_context"

// WithContext stores the storefront context on ctx.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, shopContextKey, sc)
}

// FromContext returns the storefront context stored by Resolve.
func FromContext(ctx context.Context) (*Context, bool) {
	sc, ok := ctx.Value(shopContextKey).(*Context)
	return sc, ok && sc != nil
}

// Resolve is middleware putting the storefront context on the request.
// Unknown shops are answered with 404 before the handler runs.
func (s *Service) Resolve(onError func(w http.ResponseWriter, r *http.Request, status int, err error)) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sc, err := s.ShopContext(r.Context(), r)
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, ErrShopNotFound) {
					status = http.StatusNotFound
				}
				logger.LogWarn("Could not resolve shop for %s: %v", r.URL.Path, err)
				onError(w, r, status, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), sc)))
		}
	}
}
