// Package expense contains the business logic over the expense and category
// tables: id derivation, creation-time validation, and the conversion of
// storage failures into conservative defaults so that the HTTP layer only
// ever branches on booleans and empty lists.
package expense

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
	"github.com/smartcomptable/smartcomptable/internal/models"
)

// Validation errors surfaced to the HTTP layer. Storage errors never are.
var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrEmptySupplier   = errors.New("supplier must not be empty")
	ErrUnknownCategory = errors.New("unknown category")
)

// fallback category lists returned when the category table is unreachable,
// so downstream forms stay usable.
var (
	fallbackFR = []string{"Fournitures", "Salaire", "Location"}
	fallbackSE = []string{"Förbrukningsmaterial", "Lön", "Hyra"}
)

// Repository describes the storage operations the service needs.
type Repository interface {
	// SaveExpense inserts a new row, rolling back fully on any failure.
	SaveExpense(ctx context.Context, record models.ExpenseRecord) error
	// ListExpenses returns rows ordered by date descending, optionally
	// restricted to a calendar year.
	ListExpenses(ctx context.Context, year *int) ([]models.ExpenseRecord, error)
	// DeleteExpense reports whether a row was actually removed.
	DeleteExpense(ctx context.Context, id string) (bool, error)
	// WipeExpenses deletes every row and returns the count.
	WipeExpenses(ctx context.Context) (int64, error)
	// ListCategoryNames returns the ordered category names for a language.
	ListCategoryNames(ctx context.Context, lang string) ([]string, error)
}

// Service implements the expense operations.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New creates a Service over the given repository.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Add validates the request, derives the record id and persists the row.
// Returns the new id, ErrUnknownCategory/ErrInvalidAmount/ErrEmptySupplier
// for caller mistakes, or the wrapped storage error on conflict.
func (s *Service) Add(ctx context.Context, req models.DummyExpense) (string, error) {
	const op = "services.expense.Add"

	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	supplier := strings.TrimSpace(req.Supplier)
	if supplier == "" {
		return "", ErrEmptySupplier
	}
	if !s.isKnownCategory(ctx, req.Category) {
		return "", ErrUnknownCategory
	}

	tvaRate := req.TVARate
	if tvaRate == 0 {
		tvaRate = 20.0
	}
	var siret *string
	if req.SIRET != "" {
		siret = &req.SIRET
	}

	now := s.now()
	record := models.ExpenseRecord{
		ID:          newExpenseID(req.Date, req.Amount, supplier, now),
		Date:        req.Date,
		Amount:      req.Amount,
		Supplier:    supplier,
		Category:    req.Category,
		Description: req.Description,
		FilePath:    req.FilePath,
		SIRET:       siret,
		TVARate:     tvaRate,
		Validated:   true,
		CreatedAt:   now.UTC(),
	}
	if err := s.repo.SaveExpense(ctx, record); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("expense saved", slog.String("id", record.ID), slog.String("supplier", supplier))
	return record.ID, nil
}

// List returns the expenses, optionally filtered by calendar year, most
// recent first. A storage failure is logged and yields an empty list.
func (s *Service) List(ctx context.Context, year *int) []models.ExpenseRecord {
	const op = "services.expense.List"

	records, err := s.repo.ListExpenses(ctx, year)
	if err != nil {
		s.log.Error("failed to list expenses", slog.String("op", op), sl.Err(err))
		return []models.ExpenseRecord{}
	}
	return records
}

// Delete removes the expense with the given id and reports whether a row
// was actually removed. Storage failures read as "not found".
func (s *Service) Delete(ctx context.Context, id string) bool {
	const op = "services.expense.Delete"

	deleted, err := s.repo.DeleteExpense(ctx, id)
	if err != nil {
		s.log.Error("failed to delete expense", slog.String("op", op),
			slog.String("id", id), sl.Err(err))
		return false
	}
	return deleted
}

// Wipe deletes every expense row. The second result reports whether the
// wipe actually ran; the HTTP layer gates this behind an explicit
// confirmation token.
func (s *Service) Wipe(ctx context.Context) (int64, bool) {
	const op = "services.expense.Wipe"

	count, err := s.repo.WipeExpenses(ctx)
	if err != nil {
		s.log.Error("failed to wipe expenses", slog.String("op", op), sl.Err(err))
		return 0, false
	}
	s.log.Info("all expenses wiped", slog.Int64("count", count))
	return count, true
}

// Categories returns the category names for the requested language. On any
// storage failure it falls back to the hard-coded minimal list instead of
// propagating the error.
func (s *Service) Categories(ctx context.Context, lang string) []string {
	const op = "services.expense.Categories"

	if lang != "se" {
		lang = "fr"
	}
	names, err := s.repo.ListCategoryNames(ctx, lang)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), sl.Err(err))
		if lang == "se" {
			return slices.Clone(fallbackSE)
		}
		return slices.Clone(fallbackFR)
	}
	return names
}

func (s *Service) isKnownCategory(ctx context.Context, category string) bool {
	for _, lang := range []string{"fr", "se"} {
		names, err := s.repo.ListCategoryNames(ctx, lang)
		if err != nil {
			// Fail closed: an unverifiable category is not accepted.
			s.log.Error("failed to verify category", sl.Err(err))
			return false
		}
		if slices.Contains(names, category) {
			return true
		}
	}
	return false
}

// newExpenseID derives the short opaque identifier from the record's own
// fields plus a high-resolution timestamp, so two otherwise identical
// entries still get distinct ids.
func newExpenseID(date string, amount float64, supplier string, now time.Time) string {
	stamp := now.Format("20060102_150405.000000")
	seed := date + strconv.FormatFloat(amount, 'g', -1, 64) + supplier + stamp
	sum := md5.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])[:8]
}
