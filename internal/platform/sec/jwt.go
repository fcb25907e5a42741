// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the security primitives of the admin: RS256 access
// tokens, bcrypt password hashes, random refresh tokens and the closed role
// model.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/farmreg/pkg/uuid"
)

// tokenLeeway absorbs clock skew between the signer and the verifier.
const tokenLeeway = 30 * time.Second

// AuthClaims is the access token payload. It carries enough identity for
// the REST middleware to authorize without a database lookup.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Short names keep the token small.
	UserID      string   `json:"uid"`
	Username    string   `json:"unm"`
	Role        string   `json:"rol"`
	Permissions []string `json:"prm,omitempty"`
}

// TokenSubject is the identity encoded into an access token.
type TokenSubject struct {
	ID          string
	Username    string
	Role        string
	Permissions []string
}

// TokenService signs and verifies RS256 access tokens.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string

	// Clock drives issue and expiry times.
	Clock clock.Clock
}

// NewTokenService loads a PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readPEM(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}

	publicKey, err := readPEM(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}

	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

// NewTokenServiceFromKeys builds a TokenService from parsed keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		Clock:      clock.New(),
	}
}

func readPEM[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec_key_read_failed: %s: %w", path, err)
	}

	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("sec_key_parse_failed: %s: %w", path, err)
	}
	return key, nil
}

// GenerateAccessToken signs a token for subject valid for timeToLive.
func (service *TokenService) GenerateAccessToken(subject TokenSubject, timeToLive time.Duration) (string, error) {
	now := service.Clock.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   subject.ID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		UserID:      subject.ID,
		Username:    subject.Username,
		Role:        subject.Role,
		Permissions: subject.Permissions,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec_token_sign_failed: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, issuer and expiry. Only RS256 is accepted.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(*jwt.Token) (any, error) { return service.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
		jwt.WithTimeFunc(service.Clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("sec_token_invalid: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec_token_invalid_claims")
	}
	return claims, nil
}
