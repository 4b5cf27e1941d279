package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/smartcomptable/smartcomptable/internal/models"
)

// GetSubscription returns the record for email, or (nil, nil) when absent.
func (s *Store) GetSubscription(ctx context.Context, email string) (*models.SubscriptionRecord, error) {
	const op = "storage.sqlite.GetSubscription"

	row := s.DB.QueryRowContext(ctx,
		`SELECT email, subscription_end, is_admin FROM subscriptions WHERE email = ?`, email)

	rec := &models.SubscriptionRecord{}
	var end sql.NullString
	if err := row.Scan(&rec.Email, &end, &rec.IsAdmin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if end.Valid {
		ts, err := time.Parse(time.RFC3339, end.String)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rec.SubscriptionEnd = &ts
	}
	return rec, nil
}

// UpsertSubscription writes the record wholesale: an existing row for the
// same email is replaced entirely, including its is_admin flag.
func (s *Store) UpsertSubscription(ctx context.Context, rec models.SubscriptionRecord) error {
	const op = "storage.sqlite.UpsertSubscription"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var end sql.NullString
	if rec.SubscriptionEnd != nil {
		end = sql.NullString{String: rec.SubscriptionEnd.Format(time.RFC3339), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
        INSERT OR REPLACE INTO subscriptions (email, subscription_end, is_admin)
        VALUES (?, ?, ?)`,
		rec.Email, end, rec.IsAdmin)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetAdmin flips only the is_admin flag for an existing record, or creates a
// record with the flag set and no subscription end when the email is unknown.
func (s *Store) SetAdmin(ctx context.Context, email string) error {
	const op = "storage.sqlite.SetAdmin"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		_, err = tx.ExecContext(ctx,
			`UPDATE subscriptions SET is_admin = 1 WHERE email = ?`, email)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO subscriptions (email, is_admin) VALUES (?, 1)`, email)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WipeSubscriptions deletes every subscription row. Only the data-management
// path calls this.
func (s *Store) WipeSubscriptions(ctx context.Context) (int64, error) {
	const op = "storage.sqlite.WipeSubscriptions"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`)
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
