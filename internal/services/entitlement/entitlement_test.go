package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcomptable/smartcomptable/internal/models"
	"github.com/smartcomptable/smartcomptable/internal/storage/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupService(t *testing.T) *Service {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, testLogger())
}

func TestService_GrantThenIsSubscribed(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.True(t, svc.GrantFreeSubscription(ctx, "bob@example.com", 30, true))
	assert.True(t, svc.IsSubscribed(ctx, "bob@example.com"))
	assert.True(t, svc.IsAdmin(ctx, "bob@example.com"))

	end := svc.SubscriptionEndDate(ctx, "bob@example.com")
	require.NotNil(t, end)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *end, 5*time.Second)

	// Advance past the grant: the subscription no longer holds.
	svc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	assert.False(t, svc.IsSubscribed(ctx, "bob@example.com"))
}

func TestService_IsSubscribed_Absent(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	assert.False(t, svc.IsSubscribed(ctx, "nobody@example.com"))
	assert.Nil(t, svc.SubscriptionEndDate(ctx, "nobody@example.com"))
	assert.False(t, svc.IsAdmin(ctx, "nobody@example.com"))
}

func TestService_AddAdmin_UnknownEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.True(t, svc.AddAdmin(ctx, "root@example.com"))
	assert.True(t, svc.IsAdmin(ctx, "root@example.com"))
	// Admin flag alone is not a subscription.
	assert.False(t, svc.IsSubscribed(ctx, "root@example.com"))
	assert.Nil(t, svc.SubscriptionEndDate(ctx, "root@example.com"))
}

// Regression: a grant without the admin flag replaces the record wholesale
// and silently revokes an existing admin flag. Documented behavior.
func TestService_GrantClobbersAdminFlag(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.True(t, svc.AddAdmin(ctx, "chief@example.com"))
	require.True(t, svc.IsAdmin(ctx, "chief@example.com"))

	require.True(t, svc.GrantFreeSubscription(ctx, "chief@example.com", 10, false))
	assert.False(t, svc.IsAdmin(ctx, "chief@example.com"))
	assert.True(t, svc.IsSubscribed(ctx, "chief@example.com"))
}

func TestService_AddAdmin_KeepsEndDate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	require.True(t, svc.GrantFreeSubscription(ctx, "dana@example.com", 15, false))
	before := svc.SubscriptionEndDate(ctx, "dana@example.com")
	require.NotNil(t, before)

	require.True(t, svc.AddAdmin(ctx, "dana@example.com"))
	after := svc.SubscriptionEndDate(ctx, "dana@example.com")
	require.NotNil(t, after)
	assert.True(t, before.Equal(*after))
	assert.True(t, svc.IsAdmin(ctx, "dana@example.com"))
}

// failingRepo simulates an unreachable store.
type failingRepo struct{}

func (failingRepo) GetSubscription(context.Context, string) (*models.SubscriptionRecord, error) {
	return nil, errors.New("storage unreachable")
}
func (failingRepo) UpsertSubscription(context.Context, models.SubscriptionRecord) error {
	return errors.New("storage unreachable")
}
func (failingRepo) SetAdmin(context.Context, string) error {
	return errors.New("storage unreachable")
}

func TestService_StorageFailuresAbsorbed(t *testing.T) {
	svc := New(failingRepo{}, testLogger())
	ctx := context.Background()

	assert.False(t, svc.IsSubscribed(ctx, "bob@example.com"))
	assert.Nil(t, svc.SubscriptionEndDate(ctx, "bob@example.com"))
	assert.False(t, svc.GrantFreeSubscription(ctx, "bob@example.com", 30, false))
	assert.False(t, svc.AddAdmin(ctx, "bob@example.com"))
	assert.False(t, svc.IsAdmin(ctx, "bob@example.com"))
}
