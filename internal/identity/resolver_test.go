package identity

import (
	"context"
	"errors"
	"testing"

	"corgi/internal/auth"
	"corgi/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Identity{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createIdentity(t *testing.T, db *gorm.DB, userID, token string, active bool) {
	ident := models.Identity{
		ID:            uuid.New(),
		UserID:        userID,
		InstanceURL:   "https://mastodon.example",
		AccessToken:   token,
		TrackingLevel: models.TrackingFull,
		IsActive:      active,
	}
	if err := db.Create(&ident).Error; err != nil {
		t.Fatalf("Failed to create identity: %v", err)
	}
}

func signLinkToken(t *testing.T, secret, userID string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign link token: %v", err)
	}
	return signed
}

func TestResolveStoredCredential(t *testing.T) {
	db := setupTestDB(t)
	createIdentity(t, db, "alice", "token-abc", true)

	resolver := NewResolver(db, auth.NewLinkTokenVerifier("test-secret"))
	ident, err := resolver.Resolve(context.Background(), "token-abc")

	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ident.UserID != "alice" {
		t.Errorf("Expected alice, got %q", ident.UserID)
	}
}

func TestResolveEmptyBearer(t *testing.T) {
	db := setupTestDB(t)

	resolver := NewResolver(db, auth.NewLinkTokenVerifier("test-secret"))
	_, err := resolver.Resolve(context.Background(), "")

	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveUnknownCredential(t *testing.T) {
	db := setupTestDB(t)
	createIdentity(t, db, "alice", "token-abc", true)

	resolver := NewResolver(db, auth.NewLinkTokenVerifier("test-secret"))
	_, err := resolver.Resolve(context.Background(), "nope")

	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveInactiveIdentity(t *testing.T) {
	db := setupTestDB(t)
	createIdentity(t, db, "alice", "token-abc", false)

	resolver := NewResolver(db, auth.NewLinkTokenVerifier("test-secret"))
	_, err := resolver.Resolve(context.Background(), "token-abc")

	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for deactivated identity, got %v", err)
	}
}

func TestResolveLinkTokenFallback(t *testing.T) {
	db := setupTestDB(t)
	createIdentity(t, db, "alice", "token-abc", true)

	resolver := NewResolver(db, auth.NewLinkTokenVerifier("test-secret"))
	ident, err := resolver.Resolve(context.Background(), signLinkToken(t, "test-secret", "alice"))

	if err != nil {
		t.Fatalf("Resolve via link token failed: %v", err)
	}
	if ident.UserID != "alice" {
		t.Errorf("Expected alice, got %q", ident.UserID)
	}
}

func TestResolveLinkTokenWrongSecret(t *testing.T) {
	db := setupTestDB(t)
	createIdentity(t, db, "alice", "token-abc", true)

	resolver := NewResolver(db, auth.NewLinkTokenVerifier("test-secret"))
	_, err := resolver.Resolve(context.Background(), signLinkToken(t, "other-secret", "alice"))

	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for forged token, got %v", err)
	}
}

func TestResolveLinkTokenUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	resolver := NewResolver(db, auth.NewLinkTokenVerifier("test-secret"))
	_, err := resolver.Resolve(context.Background(), signLinkToken(t, "test-secret", "ghost"))

	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for unknown link-token user, got %v", err)
	}
}
