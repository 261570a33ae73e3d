package data

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/logger"
)

// =============================================================================
// CATALOG IMPORT
// =============================================================================

// CatalogRepository seeds the database from a catalog document.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(conn *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: conn}
}

// IsEmpty reports whether no shop has been stored yet.
func (r *CatalogRepository) IsEmpty(ctx context.Context) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shops`).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count shops: %w", err)
	}
	return n == 0, nil
}

// Seed imports the catalog file at path unless a catalog is already stored.
// It reports whether an import happened.
func (r *CatalogRepository) Seed(ctx context.Context, path string) (bool, error) {
	empty, err := r.IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		logger.LogInfo("Catalog already present, skipping seed %s", path)
		return false, nil
	}

	doc, err := catalog.Load(path)
	if err != nil {
		return false, err
	}
	if err := r.Import(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

// Import writes the whole document in one transaction. Rows with the same
// ids are updated in place.
func (r *CatalogRepository) Import(ctx context.Context, doc *catalog.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin catalog import: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		name string
		fn   func(context.Context, *sql.Tx, *catalog.Document) error
	}{
		{"categories", importCategories},
		{"shops", importShops},
		{"configurator groups", importGroups},
		{"products", importProducts},
		{"translations", importTranslations},
	}
	for _, step := range steps {
		if err := step.fn(ctx, tx, doc); err != nil {
			return fmt.Errorf("failed to import %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog import: %w", err)
	}

	logger.LogInfo("Imported catalog: %d shops, %d categories, %d products",
		len(doc.Shops), len(doc.Categories), len(doc.Products))
	return nil
}

func importShops(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	for _, s := range doc.Shops {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO shops (id, name, locale, fallback_locale, category_id) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Locale, s.FallbackLocale, s.CategoryID)
		if err != nil {
			return fmt.Errorf("shop %d: %w", s.ID, err)
		}
	}
	return nil
}

// importCategories inserts parents before their children.
func importCategories(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	children := make(map[int][]catalog.CategoryItem)
	for _, c := range doc.Categories {
		children[c.ParentID] = append(children[c.ParentID], c)
	}

	queue := append([]catalog.CategoryItem(nil), children[0]...)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		var parent interface{}
		if c.ParentID != 0 {
			parent = c.ParentID
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, parent_id, name, position, active, external, hide_top)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET parent_id = excluded.parent_id, name = excluded.name,
			   position = excluded.position, active = excluded.active, external = excluded.external,
			   hide_top = excluded.hide_top`,
			c.ID, parent, c.Name, c.Position, catalog.IsActive(c.Active), c.External, c.HideTop)
		if err != nil {
			return fmt.Errorf("category %d: %w", c.ID, err)
		}
		queue = append(queue, children[c.ID]...)
	}
	return nil
}

func importGroups(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	for _, g := range doc.Groups {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO configurator_groups (id, name, description, position) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description,
			   position = excluded.position`,
			g.ID, g.Name, g.Description, g.Position)
		if err != nil {
			return fmt.Errorf("group %d: %w", g.ID, err)
		}
		for _, o := range g.Options {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO configurator_options (id, group_id, name, position) VALUES (?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET group_id = excluded.group_id, name = excluded.name,
				   position = excluded.position`,
				o.ID, g.ID, o.Name, o.Position)
			if err != nil {
				return fmt.Errorf("option %d: %w", o.ID, err)
			}
		}
	}
	return nil
}

func importProducts(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	for _, p := range doc.Products {
		configuratorType, err := catalog.ConfiguratorType(p.Type)
		if err != nil {
			return fmt.Errorf("product %d: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, configurator_type, active) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			   configurator_type = excluded.configurator_type, active = excluded.active`,
			p.ID, p.Name, configuratorType, catalog.IsActive(p.Active)); err != nil {
			return fmt.Errorf("product %d: %w", p.ID, err)
		}

		for _, optionID := range p.ProductOptions() {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO product_configurator_options (product_id, option_id) VALUES (?, ?)`,
				p.ID, optionID); err != nil {
				return fmt.Errorf("product %d option %d: %w", p.ID, optionID, err)
			}
		}

		for _, v := range p.Variants {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO variants (id, product_id, number, active, is_main, stock, last_stock)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET product_id = excluded.product_id, number = excluded.number,
				   active = excluded.active, is_main = excluded.is_main, stock = excluded.stock,
				   last_stock = excluded.last_stock`,
				v.ID, p.ID, v.Number, catalog.IsActive(v.Active), v.Main, v.Stock, v.LastStock); err != nil {
				return fmt.Errorf("variant %s: %w", v.Number, err)
			}
			for _, optionID := range v.Options {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO variant_options (variant_id, option_id) VALUES (?, ?)`,
					v.ID, optionID); err != nil {
					return fmt.Errorf("variant %s option %d: %w", v.Number, optionID, err)
				}
			}
		}

		for _, m := range p.Media {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO option_media (product_id, option_id, media_id, path, description)
				 VALUES (?, ?, ?, ?, ?)`,
				p.ID, m.Option, m.ID, m.Path, m.Description); err != nil {
				return fmt.Errorf("product %d media %d: %w", p.ID, m.ID, err)
			}
		}
	}
	return nil
}

func importTranslations(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	for _, t := range doc.Translations {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO translations (object_type, object_key, locale, field, value) VALUES (?, ?, ?, ?, ?)`,
			t.Type, t.Key, t.Locale, t.Field, t.Value); err != nil {
			return fmt.Errorf("%s %d %s.%s: %w", t.Type, t.Key, t.Locale, t.Field, err)
		}
	}
	return nil
}
