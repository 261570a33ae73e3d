package data

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/shop"
)

// translations maps object key -> field -> translated value.
type translations map[int]map[string]string

// get returns the translated field or fallback when there is none.
func (t translations) get(key int, field, fallback string) string {
	if v, ok := t[key][field]; ok && v != "" {
		return v
	}
	return fallback
}

// loadTranslations reads translations of the given objects for the shop's
// locale. Values in the fallback locale fill gaps.
func loadTranslations(ctx context.Context, conn *sql.DB, objectType string, keys []int, tc shop.TranslationContext) (translations, error) {
	out := make(translations)
	if len(keys) == 0 || tc.Locale == "" {
		return out, nil
	}

	query := fmt.Sprintf(`
		SELECT object_key, field, value, locale = ? AS is_primary
		FROM translations
		WHERE object_type = ? AND locale IN (?, ?) AND object_key IN (%s)
		ORDER BY is_primary ASC`, placeholders(len(keys)))

	args := append([]interface{}{tc.Locale, objectType, tc.Locale, tc.FallbackLocale}, intArgs(keys)...)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s translations: %w", objectType, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key          int
			field, value string
			primary      bool
		)
		if err := rows.Scan(&key, &field, &value, &primary); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		if out[key] == nil {
			out[key] = make(map[string]string)
		}
		// fallback rows come first, primary rows overwrite them
		out[key][field] = value
	}
	return out, rows.Err()
}
