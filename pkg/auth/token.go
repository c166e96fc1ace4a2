package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/grambazaar/storefront-backend/pkg/config"
)

var (
	// ErrExpired is returned by Verify when the token is past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers every other verification failure.
	ErrInvalid = errors.New("token invalid")
)

var signingMethod = jwt.SigningMethodHS256

func checkConfig(cfg config.JWTConfig) error {
	switch {
	case cfg.Secret == "":
		return errors.New("jwt secret is required")
	case cfg.Issuer == "":
		return errors.New("jwt issuer is required")
	case cfg.Expiration <= 0:
		return errors.New("jwt expiration must be positive")
	}
	return nil
}

// Issue signs a token for id that expires cfg.Expiration after now.
func Issue(cfg config.JWTConfig, now time.Time, id Identity) (string, error) {
	if err := checkConfig(cfg); err != nil {
		return "", err
	}
	if id.UserID == uuid.Nil {
		return "", errors.New("user id is required")
	}
	if !id.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", id.Role)
	}

	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   id.UserID.String(),
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, audience and expiry and returns the
// claims. Failures wrap ErrExpired or ErrInvalid alongside the jwt cause.
func Verify(cfg config.JWTConfig, raw string) (*Claims, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	)
	claims := &Claims{}
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(ErrExpired, err)
		}
		return nil, errors.Join(ErrInvalid, err)
	}
	if claims.UserID == uuid.Nil || !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalid)
	}
	return claims, nil
}
