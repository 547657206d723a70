// Package token issues and verifies the signed, time limited tokens used for
// account confirmation, password reset, email change and API access.
package token

import (
	"errors"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

type Purpose string

const (
	PurposeConfirm     Purpose = "confirm"
	PurposeReset       Purpose = "reset"
	PurposeChangeEmail Purpose = "change_email"
	PurposeAuth        Purpose = "auth"
)

// Claims is the payload carried by every token.
type Claims struct {
	Purpose  Purpose `json:"purpose"`
	UserID   uint    `json:"uid"`
	NewEmail string  `json:"new_email,omitempty"`
	jwt.StandardClaims
}

type Service struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(secret string, opts ...Option) *Service {
	s := &Service{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate signs a token for userID that expires after ttl.
func (s *Service) Generate(purpose Purpose, userID uint, ttl time.Duration) (string, error) {
	return s.sign(Claims{Purpose: purpose, UserID: userID}, ttl)
}

// GenerateEmailChange signs a change_email token carrying the pending address.
func (s *Service) GenerateEmailChange(userID uint, newEmail string, ttl time.Duration) (string, error) {
	return s.sign(Claims{Purpose: PurposeChangeEmail, UserID: userID, NewEmail: newEmail}, ttl)
}

func (s *Service) sign(c Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("token: ttl must be positive")
	}
	now := s.now()
	c.IssuedAt = now.Unix()
	c.ExpiresAt = now.Add(ttl).Unix()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify returns the claims of a valid, unexpired token of the given purpose.
// Every failure is reported as (nil, false).
func (s *Service) Verify(tokenString string, purpose Purpose) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}
	claims := &Claims{}
	parser := &jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true, // expiry is checked below against s.now
	}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return nil, false
	}
	if claims.Purpose != purpose || claims.UserID == 0 {
		return nil, false
	}
	return claims, true
}
