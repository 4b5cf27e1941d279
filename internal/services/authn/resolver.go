// Package authn reconciles the in-memory session with the persisted
// long-lived token to produce the single authoritative identity for a
// request: administrator, subscriber, or anonymous.
package authn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smartcomptable/smartcomptable/internal/lib/sl"
)

// Kind enumerates the possible resolved identities.
type Kind int

const (
	// Anonymous means no identity could be established.
	Anonymous Kind = iota
	// Subscriber is an email-bound user; entitlement is re-validated lazily
	// by whichever collaborator needs it.
	Subscriber
	// Administrator is established by password, not by subscription.
	Administrator
)

func (k Kind) String() string {
	switch k {
	case Administrator:
		return "administrator"
	case Subscriber:
		return "subscriber"
	default:
		return "anonymous"
	}
}

// Identity is the request-scoped resolution result. Never persisted;
// reconstructed on every resolution cycle.
type Identity struct {
	Kind  Kind
	Email string // Set for Subscriber only
}

// TokenStore is the persisted long-lived token collaborator (a client-side
// cookie in this deployment). Get reports (value, present); a read failure
// is reported as absent so resolution fails open to anonymous.
type TokenStore interface {
	Get() (string, bool)
	Set(value string, expires time.Time)
	Delete()
}

// Entitlements is the subscription check the resolver consults before
// trusting a token.
type Entitlements interface {
	IsSubscribed(ctx context.Context, email string) bool
}

// Resolver implements the session/token reconciliation state machine.
type Resolver struct {
	entitlements Entitlements
	log          *slog.Logger
	tokenTTL     time.Duration
	now          func() time.Time
}

// New creates a Resolver. tokenTTL is the lifetime of tokens issued by
// BindToken, 30 days by default deployment config.
func New(entitlements Entitlements, tokenTTL time.Duration, log *slog.Logger) *Resolver {
	return &Resolver{
		entitlements: entitlements,
		log:          log,
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

// Resolve computes the identity for the current request, evaluated once per
// session bootstrap:
//
//  1. an admin session wins outright;
//  2. an email already bound to the session wins without re-checking
//     entitlement;
//  3. otherwise the long-lived token is read: malformed tokens are dropped
//     silently, expired tokens are deleted;
//  4. a valid token is only trusted if the subscription still holds,
//     otherwise the stale token is deleted;
//  5. everything else is anonymous.
func (r *Resolver) Resolve(ctx context.Context, sess *Session, tokens TokenStore) Identity {
	if sess.Admin() {
		return Identity{Kind: Administrator}
	}
	if email := sess.Email(); email != "" {
		return Identity{Kind: Subscriber, Email: email}
	}

	value, ok := tokens.Get()
	if !ok {
		return Identity{Kind: Anonymous}
	}
	email, expiry, err := parseToken(value)
	if err != nil {
		r.log.Debug("discarding malformed auth token", sl.Err(err))
		return Identity{Kind: Anonymous}
	}
	if !r.now().Before(expiry) {
		tokens.Delete()
		return Identity{Kind: Anonymous}
	}

	if !r.entitlements.IsSubscribed(ctx, email) {
		// The subscription lapsed since the token was issued.
		tokens.Delete()
		r.log.Info("stale auth token removed", slog.String("email", email))
		return Identity{Kind: Anonymous}
	}

	sess.SetEmail(email)
	r.log.Info("session restored from auth token", slog.String("email", email))
	return Identity{Kind: Subscriber, Email: email}
}

// BindToken issues a long-lived token for email and persists it with the
// resolver's TTL.
func (r *Resolver) BindToken(tokens TokenStore, email string) {
	expiry := r.now().Add(r.tokenTTL)
	tokens.Set(email+"|"+expiry.Format(time.RFC3339), expiry)
}

// RevokeToken removes the persisted token regardless of its current parse
// validity.
func (r *Resolver) RevokeToken(tokens TokenStore) {
	tokens.Delete()
}

// parseToken splits a token value of the form "<email>|<RFC3339 expiry>".
func parseToken(value string) (string, time.Time, error) {
	const op = "authn.parseToken"

	email, expiryStr, found := strings.Cut(value, "|")
	if !found || email == "" {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, errMalformedToken)
	}
	expiry, err := time.Parse(time.RFC3339, expiryStr)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return email, expiry, nil
}

var errMalformedToken = errors.New("malformed token")
