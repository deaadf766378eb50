// Package identity maps inbound bearer credentials to locally stored
// identities. Resolution is a read-only lookup; the anonymous downgrade for
// unresolved credentials is the caller's decision.
package identity

import (
	"context"
	"errors"
	"fmt"

	"corgi/internal/auth"
	"corgi/internal/models"

	"gorm.io/gorm"
)

// ErrUnauthenticated signals that no identity is bound to the presented
// credential. Callers treat the request as anonymous: cold-start content
// only, never personalized.
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver resolves bearer credentials against the identities table, with a
// signed link-token fallback for sessions that have not stored their
// instance credential yet.
type Resolver struct {
	db       *gorm.DB
	verifier *auth.LinkTokenVerifier
}

// NewResolver creates a new identity resolver
func NewResolver(db *gorm.DB, verifier *auth.LinkTokenVerifier) *Resolver {
	return &Resolver{db: db, verifier: verifier}
}

// Resolve maps a bearer credential to the identity recorded at link time.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (*models.Identity, error) {
	if bearer == "" {
		return nil, ErrUnauthenticated
	}

	var ident models.Identity
	err := r.db.WithContext(ctx).
		Where("access_token = ? AND is_active = ?", bearer, true).
		First(&ident).Error
	if err == nil {
		return &ident, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}

	// Not a stored credential; try it as a signed link token.
	userID, tokenErr := r.verifier.UserIDFromToken(bearer)
	if tokenErr != nil {
		return nil, ErrUnauthenticated
	}

	err = r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&ident).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}

	return &ident, nil
}
