package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestGuestToken_RoundTrip(t *testing.T) {
	// Arrange
	service := NewJWTService("test-secret-key", "vox-site", time.Hour, newTestLogger())

	// Act
	token, err := service.GenerateGuestToken("user-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	userID, err := service.ValidateGuestToken(token)

	// Assert
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if userID != "user-123" {
		t.Errorf("expected user-123, got %s", userID)
	}
}

func TestGuestToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "vox-site", time.Hour, newTestLogger())
	verifier := NewJWTService("secret-b", "vox-site", time.Hour, newTestLogger())

	token, _ := issuer.GenerateGuestToken("user-123")

	if _, err := verifier.ValidateGuestToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGuestToken_Expired(t *testing.T) {
	service := NewJWTService("test-secret-key", "vox-site", -time.Minute, newTestLogger())

	token, _ := service.GenerateGuestToken("user-123")

	if _, err := service.ValidateGuestToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestGuestToken_WrongIssuer(t *testing.T) {
	issuer := NewJWTService("test-secret-key", "someone-else", time.Hour, newTestLogger())
	verifier := NewJWTService("test-secret-key", "vox-site", time.Hour, newTestLogger())

	token, _ := issuer.GenerateGuestToken("user-123")

	if _, err := verifier.ValidateGuestToken(token); err == nil {
		t.Error("expected error for foreign issuer")
	}
}

func TestGuestToken_RejectsOtherTokenTypes(t *testing.T) {
	service := NewJWTService("test-secret-key", "vox-site", time.Hour, newTestLogger())

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "vox-site",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Type: "access",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if _, err := service.ValidateGuestToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGuestToken_Garbage(t *testing.T) {
	service := NewJWTService("test-secret-key", "vox-site", time.Hour, newTestLogger())

	if _, err := service.ValidateGuestToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
