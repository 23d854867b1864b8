package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tokenTypeGuest = "guest"

// ErrInvalidToken is returned for any token that fails validation.
var ErrInvalidToken = errors.New("invalid guest token")

// Claims represents the custom JWT claims of a guest token.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// JWTService issues and validates the signed token handed to a new guest.
// It implements ports.GuestTokenService.
type JWTService struct {
	secret   string
	issuer   string
	duration time.Duration
	log      *zap.Logger
}

// NewJWTService creates a new JWTService instance.
func NewJWTService(secret, issuer string, duration time.Duration, log *zap.Logger) *JWTService {
	log.Info("Guest token service initialized",
		zap.String("issuer", issuer),
		zap.Duration("duration", duration),
	)

	return &JWTService{
		secret:   secret,
		issuer:   issuer,
		duration: duration,
		log:      log,
	}
}

// GenerateGuestToken creates a signed HS256 token with sub = userID and type = "guest".
func (s *JWTService) GenerateGuestToken(userID string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Type: tokenTypeGuest,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.secret))
	if err != nil {
		s.log.Error("failed to sign guest token",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to sign guest token: %w", err)
	}

	return signedToken, nil
}

// ValidateGuestToken parses tokenString and returns the guest user ID it was issued for.
func (s *JWTService) ValidateGuestToken(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	}, opts...)
	if err != nil {
		s.log.Debug("guest token validation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != tokenTypeGuest || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
