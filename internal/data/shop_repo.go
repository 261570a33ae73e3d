package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/menu"
	"storefront/internal/shop"
)

// =============================================================================
// SHOP REPOSITORY
// =============================================================================

type ShopRepository struct {
	db *sql.DB
}

func NewShopRepository(conn *sql.DB) *ShopRepository {
	return &ShopRepository{db: conn}
}

var _ shop.Repository = (*ShopRepository)(nil)

func (r *ShopRepository) GetShop(ctx context.Context, id int) (*shop.Shop, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	s := &shop.Shop{ID: id}
	err := r.db.QueryRowContext(ctx,
		`SELECT name, locale, fallback_locale, category_id FROM shops WHERE id = ?`, id,
	).Scan(&s.Name, &s.Locale, &s.FallbackLocale, &s.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shop %d: %w", id, shop.ErrShopNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shop %d: %w", id, err)
	}
	return s, nil
}

// =============================================================================
// CATEGORY REPOSITORY
// =============================================================================

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(conn *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: conn}
}

var _ menu.Repository = (*CategoryRepository)(nil)

// GetCategories walks the active subtree below rootID, at most depth levels
// deep. Inactive categories hide their descendants too.
func (r *CategoryRepository) GetCategories(ctx context.Context, rootID, depth int, tc shop.TranslationContext) ([]menu.Category, error) {
	if depth < 1 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	const stmt = `
		WITH RECURSIVE tree(id, parent_id, name, position, external, hide_top, level) AS (
			SELECT id, parent_id, name, position, external, hide_top, 1
			FROM categories
			WHERE parent_id = ? AND active = 1
			UNION ALL
			SELECT c.id, c.parent_id, c.name, c.position, c.external, c.hide_top, tree.level + 1
			FROM categories c
			JOIN tree ON c.parent_id = tree.id
			WHERE c.active = 1 AND tree.level < ?
		)
		SELECT id, parent_id, name, position, external, hide_top
		FROM tree
		ORDER BY level, position, id`

	rows, err := r.db.QueryContext(ctx, stmt, rootID, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories below %d: %w", rootID, err)
	}
	defer rows.Close()

	var (
		out []menu.Category
		ids []int
	)
	for rows.Next() {
		var c menu.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Position, &c.External, &c.HideTop); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tr, err := loadTranslations(ctx, r.db, catalog.ObjectCategory, ids, tc)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Name = tr.get(out[i].ID, "name", out[i].Name)
		out[i].External = tr.get(out[i].ID, "external", out[i].External)
	}
	return out, nil
}
