package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/configurator"
	"storefront/internal/shop"
)

// =============================================================================
// CONFIGURATOR REPOSITORY
// =============================================================================

// ConfiguratorRepository implements configurator.Gateway.
type ConfiguratorRepository struct {
	db *sql.DB
}

func NewConfiguratorRepository(conn *sql.DB) *ConfiguratorRepository {
	return &ConfiguratorRepository{db: conn}
}

var _ configurator.Gateway = (*ConfiguratorRepository)(nil)

// availableVariant restricts a variants alias "v" to sellable rows: active,
// and in stock when the variant may only be sold from stock.
const availableVariant = `v.active = 1 AND (v.last_stock = 0 OR v.stock > 0)`

// Get loads the product's configurator set ordered by group and option position.
func (r *ConfiguratorRepository) Get(ctx context.Context, product configurator.Product, tc shop.TranslationContext) (*configurator.Configurator, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cfg := &configurator.Configurator{ProductID: product.ID}
	err := r.db.QueryRowContext(ctx,
		`SELECT name, configurator_type FROM products WHERE id = ? AND active = 1`, product.ID,
	).Scan(&cfg.Name, &cfg.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", product.ID, configurator.ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", product.ID, err)
	}

	const stmt = `
		SELECT g.id, g.name, g.description, g.position, o.id, o.name, o.position
		FROM product_configurator_options pco
		JOIN configurator_options o ON o.id = pco.option_id
		JOIN configurator_groups g ON g.id = o.group_id
		WHERE pco.product_id = ?
		ORDER BY g.position, g.id, o.position, o.id`

	rows, err := r.db.QueryContext(ctx, stmt, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query configurator of product %d: %w", product.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			g configurator.Group
			o configurator.Option
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Position, &o.ID, &o.Name, &o.Position); err != nil {
			return nil, fmt.Errorf("failed to scan configurator row: %w", err)
		}
		if n := len(cfg.Groups); n == 0 || cfg.Groups[n-1].ID != g.ID {
			cfg.Groups = append(cfg.Groups, g)
		}
		last := &cfg.Groups[len(cfg.Groups)-1]
		last.Options = append(last.Options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.translateGroups(ctx, cfg.Groups, tc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetProductCombinations maps each option used by a sellable variant to every
// option that appears together with it on one, itself included.
func (r *ConfiguratorRepository) GetProductCombinations(ctx context.Context, product configurator.Product) (configurator.Combinations, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	stmt := `
		SELECT DISTINCT vo.option_id, other.option_id
		FROM variants v
		JOIN variant_options vo ON vo.variant_id = v.id
		JOIN variant_options other ON other.variant_id = v.id
		WHERE v.product_id = ? AND ` + availableVariant + `
		ORDER BY vo.option_id, other.option_id`

	rows, err := r.db.QueryContext(ctx, stmt, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query combinations of product %d: %w", product.ID, err)
	}
	defer rows.Close()

	combinations := make(configurator.Combinations)
	for rows.Next() {
		var optionID, otherID int
		if err := rows.Scan(&optionID, &otherID); err != nil {
			return nil, fmt.Errorf("failed to scan combination: %w", err)
		}
		combinations[optionID] = append(combinations[optionID], otherID)
	}
	return combinations, rows.Err()
}

// GetConfiguratorMedia returns the product's option images keyed by option id.
func (r *ConfiguratorRepository) GetConfiguratorMedia(ctx context.Context, product configurator.Product, tc shop.TranslationContext) (map[int]configurator.Media, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT option_id, media_id, path, description FROM option_media WHERE product_id = ?`, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media of product %d: %w", product.ID, err)
	}
	defer rows.Close()

	media := make(map[int]configurator.Media)
	var mediaIDs []int
	for rows.Next() {
		var (
			optionID int
			m        configurator.Media
		)
		if err := rows.Scan(&optionID, &m.ID, &m.Path, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		media[optionID] = m
		mediaIDs = append(mediaIDs, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tr, err := loadTranslations(ctx, r.db, catalog.ObjectMedia, mediaIDs, tc)
	if err != nil {
		return nil, err
	}
	for optionID, m := range media {
		m.Description = tr.get(m.ID, "description", m.Description)
		media[optionID] = m
	}
	return media, nil
}

// GetList returns, per variant number, the groups with the single option the
// variant carries.
func (r *ConfiguratorRepository) GetList(ctx context.Context, products []configurator.Product, tc shop.TranslationContext) (map[string][]configurator.Group, error) {
	out := make(map[string][]configurator.Group)
	if len(products) == 0 {
		return out, nil
	}

	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	stmt := fmt.Sprintf(`
		SELECT v.number, g.id, g.name, g.description, g.position, o.id, o.name, o.position
		FROM variants v
		JOIN variant_options vo ON vo.variant_id = v.id
		JOIN configurator_options o ON o.id = vo.option_id
		JOIN configurator_groups g ON g.id = o.group_id
		WHERE v.product_id IN (%s)
		ORDER BY v.number, g.position, g.id`, placeholders(len(ids)))

	rows, err := r.db.QueryContext(ctx, stmt, intArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product configurations: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var (
			number string
			g      configurator.Group
			o      configurator.Option
		)
		if err := rows.Scan(&number, &g.ID, &g.Name, &g.Description, &g.Position, &o.ID, &o.Name, &o.Position); err != nil {
			return nil, fmt.Errorf("failed to scan product configuration: %w", err)
		}
		if _, seen := out[number]; !seen {
			numbers = append(numbers, number)
		}
		g.Options = []configurator.Option{o}
		out[number] = append(out[number], g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, number := range numbers {
		if err := r.translateGroups(ctx, out[number], tc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// translateGroups applies translations to group and option names in place.
func (r *ConfiguratorRepository) translateGroups(ctx context.Context, groups []configurator.Group, tc shop.TranslationContext) error {
	if len(groups) == 0 {
		return nil
	}

	var groupIDs, optionIDs []int
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
		for _, o := range g.Options {
			optionIDs = append(optionIDs, o.ID)
		}
	}

	groupTr, err := loadTranslations(ctx, r.db, catalog.ObjectGroup, groupIDs, tc)
	if err != nil {
		return err
	}
	optionTr, err := loadTranslations(ctx, r.db, catalog.ObjectOption, optionIDs, tc)
	if err != nil {
		return err
	}

	for i := range groups {
		g := &groups[i]
		g.Name = groupTr.get(g.ID, "name", g.Name)
		g.Description = groupTr.get(g.ID, "description", g.Description)
		for j := range g.Options {
			o := &g.Options[j]
			o.Name = optionTr.get(o.ID, "name", o.Name)
		}
	}
	return nil
}
