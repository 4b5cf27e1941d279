package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/smartcomptable/smartcomptable/internal/models"
)

// SaveExpense inserts a new expense row inside its own transaction.
// Returns ErrExpenseExists when the id is already taken; on any failure the
// transaction is rolled back and no partial row is visible.
func (s *Store) SaveExpense(ctx context.Context, record models.ExpenseRecord) error {
	const op = "storage.sqlite.SaveExpense"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var siret sql.NullString
	if record.SIRET != nil {
		siret = sql.NullString{String: *record.SIRET, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO expenses (
            id, date, amount, supplier, category, description,
            file_path, siret, tva_rate, validated, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Date, record.Amount, record.Supplier,
		record.Category, record.Description, record.FilePath,
		siret, record.TVARate, record.Validated,
		record.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isConstraintErr(err) {
			return fmt.Errorf("%s: %w", op, ErrExpenseExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListExpenses returns all expense rows ordered by date descending,
// optionally restricted to a calendar year. An empty store yields an empty
// slice, not an error.
func (s *Store) ListExpenses(ctx context.Context, year *int) ([]models.ExpenseRecord, error) {
	const op = "storage.sqlite.ListExpenses"

	var (
		rows *sql.Rows
		err  error
	)
	if year != nil {
		rows, err = s.DB.QueryContext(ctx, `
            SELECT id, date, amount, supplier, category, description,
                   file_path, siret, tva_rate, validated, created_at
            FROM expenses
            WHERE strftime('%Y', date) = ?
            ORDER BY date DESC`, fmt.Sprintf("%04d", *year))
	} else {
		rows, err = s.DB.QueryContext(ctx, `
            SELECT id, date, amount, supplier, category, description,
                   file_path, siret, tva_rate, validated, created_at
            FROM expenses
            ORDER BY date DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	result := []models.ExpenseRecord{}
	for rows.Next() {
		var (
			rec         models.ExpenseRecord
			description sql.NullString
			filePath    sql.NullString
			siret       sql.NullString
			createdAt   sql.NullString
		)
		if err = rows.Scan(&rec.ID, &rec.Date, &rec.Amount, &rec.Supplier,
			&rec.Category, &description, &filePath, &siret,
			&rec.TVARate, &rec.Validated, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rec.Description = description.String
		rec.FilePath = filePath.String
		if siret.Valid {
			rec.SIRET = &siret.String
		}
		if createdAt.Valid {
			if ts, parseErr := time.Parse(time.RFC3339, createdAt.String); parseErr == nil {
				rec.CreatedAt = ts
			}
		}
		result = append(result, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteExpense removes the row with the given id. The bool distinguishes
// "deleted" from "not found"; deleting an absent id is a no-op, not an error.
func (s *Store) DeleteExpense(ctx context.Context, id string) (bool, error) {
	const op = "storage.sqlite.DeleteExpense"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// WipeExpenses deletes every expense row unconditionally and returns the
// number of deleted rows. Callers gate this behind an explicit confirmation.
func (s *Store) WipeExpenses(ctx context.Context) (int64, error) {
	const op = "storage.sqlite.WipeExpenses"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
