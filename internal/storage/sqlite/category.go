package sqlite

import (
	"context"
	"fmt"

	"github.com/smartcomptable/smartcomptable/internal/models"
)

// ListCategoryNames returns the category names in the requested language,
// ordered lexicographically. lang must be "fr" or "se"; the column is chosen
// here so no user input ever reaches the SQL text.
func (s *Store) ListCategoryNames(ctx context.Context, lang string) ([]string, error) {
	const op = "storage.sqlite.ListCategoryNames"

	column := "name_fr"
	if lang == "se" {
		column = "name_se"
	}
	rows, err := s.DB.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM categories ORDER BY %s`, column, column))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return names, nil
}

// AddCategory inserts a bilingual name pair if it is not already present.
// Idempotent; categories are never removed by this store.
func (s *Store) AddCategory(ctx context.Context, cat models.Category) error {
	const op = "storage.sqlite.AddCategory"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name_fr, name_se) VALUES (?, ?)`,
		cat.NameFR, cat.NameSE)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
