package token

import (
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService() (*Service, *clock) {
	c := &clock{t: time.Unix(1730000000, 0)}
	return NewService("secret", WithClock(c.now)), c
}

func TestConfirmTokenRoundTrip(t *testing.T) {
	s, _ := newTestService()

	tok, err := s.Generate(PurposeConfirm, 7, time.Hour)
	require.NoError(t, err)

	claims, ok := s.Verify(tok, PurposeConfirm)
	require.True(t, ok)
	require.Equal(t, uint(7), claims.UserID)
}

func TestTokenExpires(t *testing.T) {
	s, c := newTestService()

	tok, err := s.Generate(PurposeReset, 7, time.Second)
	require.NoError(t, err)

	c.t = c.t.Add(time.Second)
	_, ok := s.Verify(tok, PurposeReset)
	require.True(t, ok, "token is valid up to and including its expiry second")

	c.t = c.t.Add(time.Second)
	_, ok = s.Verify(tok, PurposeReset)
	require.False(t, ok)
}

func TestTokenRejectsWrongPurpose(t *testing.T) {
	s, _ := newTestService()

	tok, err := s.Generate(PurposeConfirm, 7, time.Hour)
	require.NoError(t, err)

	_, ok := s.Verify(tok, PurposeReset)
	require.False(t, ok)
	_, ok = s.Verify(tok, PurposeAuth)
	require.False(t, ok)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	s, _ := newTestService()
	other := NewService("another secret", WithClock(func() time.Time { return time.Unix(1730000000, 0) }))

	tok, err := other.Generate(PurposeConfirm, 7, time.Hour)
	require.NoError(t, err)

	_, ok := s.Verify(tok, PurposeConfirm)
	require.False(t, ok)
}

func TestTokenRejectsGarbageAndNoneAlg(t *testing.T) {
	s, _ := newTestService()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, ok := s.Verify(tok, PurposeConfirm)
		require.False(t, ok, tok)
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Purpose:        PurposeConfirm,
		UserID:         7,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Unix(1730000000, 0).Add(time.Hour).Unix()},
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok := s.Verify(tok, PurposeConfirm)
	require.False(t, ok)
}

func TestEmailChangeTokenCarriesAddress(t *testing.T) {
	s, _ := newTestService()

	tok, err := s.GenerateEmailChange(3, "new@example.com", time.Hour)
	require.NoError(t, err)

	claims, ok := s.Verify(tok, PurposeChangeEmail)
	require.True(t, ok)
	require.Equal(t, uint(3), claims.UserID)
	require.Equal(t, "new@example.com", claims.NewEmail)
}

func TestGenerateRejectsNonPositiveTTL(t *testing.T) {
	s, _ := newTestService()
	_, err := s.Generate(PurposeAuth, 1, 0)
	require.Error(t, err)
}
