package auth_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/frontiertower/portal-backend/internal/auth"
)

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return key
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := auth.NewTokenService(newKey(t), "portal-backend", time.Hour)

	token, err := svc.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("expected subject admin, got %q", claims.Subject)
	}
	if claims.Issuer != "portal-backend" {
		t.Errorf("expected issuer portal-backend, got %q", claims.Issuer)
	}
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	issuer := auth.NewTokenService(newKey(t), "portal-backend", time.Hour)
	verifier := auth.NewTokenService(newKey(t), "portal-backend", time.Hour)

	token, err := issuer.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Validate(token); err == nil {
		t.Fatal("expected validation failure for token signed with another key")
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := auth.NewTokenService(newKey(t), "portal-backend", -time.Minute)

	token, err := svc.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Validate(token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := auth.NewTokenService(newKey(t), "portal-backend", time.Hour)

	if _, err := svc.Validate("not.a.token"); err == nil {
		t.Fatal("expected validation failure for malformed token")
	}
}

func TestLoadOrGenerateKey_Persists(t *testing.T) {
	dir := t.TempDir()

	first, err := auth.LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	second, err := auth.LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}

	if !first.Equal(second) {
		t.Error("expected same key across loads")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !auth.CheckPassword(hash, "hunter2") {
		t.Error("expected matching password to verify")
	}
	if auth.CheckPassword(hash, "hunter3") {
		t.Error("expected wrong password to fail")
	}
}
