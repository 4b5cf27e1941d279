// Package entitlement answers whether an identity is entitled to use the
// product: an unexpired subscription or an administrator flag. All storage
// failures are absorbed here into conservative answers (false, nil) so the
// callers never see a raw persistence error.
package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
	"github.com/smartcomptable/smartcomptable/internal/models"
)

// Repository describes the subscription table operations the service needs.
type Repository interface {
	// GetSubscription returns the record for email, or (nil, nil) when absent.
	GetSubscription(ctx context.Context, email string) (*models.SubscriptionRecord, error)
	// UpsertSubscription replaces the record for the email wholesale.
	UpsertSubscription(ctx context.Context, rec models.SubscriptionRecord) error
	// SetAdmin flips only the is_admin flag, creating the record if absent.
	SetAdmin(ctx context.Context, email string) error
}

// Service implements the entitlement queries over the subscription table.
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

// IsSubscribed reports whether email holds a grant whose end date is
// strictly in the future. Absent record, absent end date and storage
// failures all read as false.
func (s *Service) IsSubscribed(ctx context.Context, email string) bool {
	const op = "services.entitlement.IsSubscribed"

	rec, err := s.repo.GetSubscription(ctx, email)
	if err != nil {
		s.log.Error("failed to check subscription", slog.String("op", op),
			slog.String("email", email), sl.Err(err))
		return false
	}
	if rec == nil || rec.SubscriptionEnd == nil {
		return false
	}
	return s.now().Before(*rec.SubscriptionEnd)
}

// SubscriptionEndDate returns the grant expiry for email, or nil when there
// is no record, no end date, or the store is unreachable.
func (s *Service) SubscriptionEndDate(ctx context.Context, email string) *time.Time {
	const op = "services.entitlement.SubscriptionEndDate"

	rec, err := s.repo.GetSubscription(ctx, email)
	if err != nil {
		s.log.Error("failed to read subscription end date", slog.String("op", op),
			slog.String("email", email), sl.Err(err))
		return nil
	}
	if rec == nil {
		return nil
	}
	return rec.SubscriptionEnd
}

// GrantFreeSubscription upserts the record with end = now + days and
// is_admin = grantedByAdmin.
//
// The write is a wholesale replace, not a merge: granting a trial to an
// existing administrator without grantedByAdmin=true silently revokes their
// admin flag. Callers must pass the flag again to keep it.
func (s *Service) GrantFreeSubscription(ctx context.Context, email string, days int, grantedByAdmin bool) bool {
	const op = "services.entitlement.GrantFreeSubscription"

	end := s.now().Add(time.Duration(days) * 24 * time.Hour)
	rec := models.SubscriptionRecord{
		Email:           email,
		SubscriptionEnd: &end,
		IsAdmin:         grantedByAdmin,
	}
	if err := s.repo.UpsertSubscription(ctx, rec); err != nil {
		s.log.Error("failed to grant subscription", slog.String("op", op),
			slog.String("email", email), sl.Err(err))
		return false
	}
	s.log.Info("subscription granted", slog.String("email", email),
		slog.Int("days", days), slog.Bool("admin", grantedByAdmin))
	return true
}

// AddAdmin marks email as an administrator without touching its
// subscription end date; an unknown email gets a record with the flag set
// and no end date.
func (s *Service) AddAdmin(ctx context.Context, email string) bool {
	const op = "services.entitlement.AddAdmin"

	if err := s.repo.SetAdmin(ctx, email); err != nil {
		s.log.Error("failed to add admin", slog.String("op", op),
			slog.String("email", email), sl.Err(err))
		return false
	}
	s.log.Info("admin rights granted", slog.String("email", email))
	return true
}

// IsAdmin reports whether email carries the administrator flag. Absent
// record and storage failures read as false.
func (s *Service) IsAdmin(ctx context.Context, email string) bool {
	const op = "services.entitlement.IsAdmin"

	rec, err := s.repo.GetSubscription(ctx, email)
	if err != nil {
		s.log.Error("failed to check admin status", slog.String("op", op),
			slog.String("email", email), sl.Err(err))
		return false
	}
	return rec != nil && rec.IsAdmin
}
