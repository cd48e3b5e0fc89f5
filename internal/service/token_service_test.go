package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTokens(clock *fakeClock) TokenService {
	return NewTokenService(TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    7 * 24 * time.Hour,
	}, WithClock(clock.Now))
}

var testIdentity = Identity{SubjectID: "652f1c2e9b1e8a0012345678", Email: "ada@example.com", Roles: []string{"user"}}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock)

	pair, err := tokens.Issue(testIdentity)
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(15*time.Minute), pair.AccessExpiresAt)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), pair.RefreshExpiresAt)

	got, err := tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, got)

	got, err = tokens.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.SubjectID, got.SubjectID)
}

func TestTokenService_AccessExpires(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock)

	pair, err := tokens.Issue(testIdentity)
	require.NoError(t, err)

	clock.Advance(14 * time.Minute)
	_, err = tokens.VerifyAccess(pair.AccessToken)
	assert.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = tokens.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The refresh token outlives the access token.
	_, err = tokens.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	clock.Advance(7 * 24 * time.Hour)
	_, err = tokens.VerifyRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock)

	pair, err := tokens.Issue(testIdentity)
	require.NoError(t, err)

	_, err = tokens.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_SameSecretStillChecksType(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := NewTokenService(TokenConfig{AccessSecret: "same", RefreshSecret: "same"}, WithClock(clock.Now))

	pair, err := tokens.Issue(testIdentity)
	require.NoError(t, err)
	_, err = tokens.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 15*time.Minute, tokens.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, tokens.RefreshTTL())
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock)
	pair, err := tokens.Issue(testIdentity)
	require.NoError(t, err)

	other := NewTokenService(TokenConfig{AccessSecret: "other", RefreshSecret: "other-refresh"}, WithClock(clock.Now))
	foreign, err := other.Issue(testIdentity)
	require.NoError(t, err)

	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	for name, token := range map[string]string{
		"empty":         "",
		"not a jwt":     "hello",
		"bad signature": tampered,
		"other secret":  foreign.AccessToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.VerifyAccess(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_IssueRotates(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(clock)

	first, err := tokens.Issue(testIdentity)
	require.NoError(t, err)
	second, err := tokens.Issue(testIdentity)
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}
