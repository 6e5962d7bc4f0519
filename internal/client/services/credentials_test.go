package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedJWT(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestCredentialStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	clock := clockwork.NewFakeClockAt(testEpoch)
	s := newCredStore(t, db, clock)

	require.NoError(t, s.Save(ctx, janeDoe(), "abc"))
	assert.Equal(t, []string{KeyAuthToken, KeyUserData}, storedKeys(t, db))

	user, token, found := s.Load(ctx)
	require.True(t, found)
	assert.Equal(t, "abc", token)
	assert.Equal(t, janeDoe(), user)
	assert.Equal(t, "abc", s.Token(ctx))
}

func TestCredentialStore_ExpiresAfterSevenDays(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	clock := clockwork.NewFakeClockAt(testEpoch)
	s := newCredStore(t, db, clock)
	require.NoError(t, s.Save(ctx, janeDoe(), "abc"))

	clock.Advance(DefaultCredentialTTL - time.Minute)
	_, _, found := s.Load(ctx)
	assert.True(t, found)

	clock.Advance(time.Minute)
	_, _, found = s.Load(ctx)
	assert.False(t, found)
}

func TestCredentialStore_PartialRecordIsRejectedAndCleared(t *testing.T) {
	ctx := context.Background()

	for _, key := range []string{KeyAuthToken, KeyUserData} {
		t.Run("only "+key, func(t *testing.T) {
			repo := newFakeRepo()
			s := NewCredentialStore(repo, clockwork.NewFakeClockAt(testEpoch), 0, nil)
			repo.values[key] = []byte(`{"email":"user@example.com"}`)

			user, token, found := s.Load(ctx)
			assert.False(t, found)
			assert.Nil(t, user)
			assert.Empty(t, token)
			assert.Empty(t, repo.values)
		})
	}
}

func TestCredentialStore_MalformedUserData(t *testing.T) {
	ctx := context.Background()

	for name, data := range map[string]string{
		"not json": "{not json",
		"array":    `["a"]`,
		"null":     "null",
		"string":   `"x"`,
	} {
		t.Run(name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.values[KeyAuthToken] = []byte("abc")
			repo.values[KeyUserData] = []byte(data)
			s := NewCredentialStore(repo, nil, 0, nil)

			_, _, found := s.Load(ctx)
			assert.False(t, found)
			assert.Empty(t, repo.values)
		})
	}
}

func TestCredentialStore_ExpiredJWTIsDiscarded(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(testEpoch)
	repo := newFakeRepo()
	s := NewCredentialStore(repo, clock, 0, nil)

	expired := signedJWT(t, jwt.MapClaims{"sub": "user@example.com", "exp": testEpoch.Add(-time.Minute).Unix()})
	require.NoError(t, s.Save(ctx, janeDoe(), expired))

	_, _, found := s.Load(ctx)
	assert.False(t, found)
	assert.Empty(t, repo.values)

	live := signedJWT(t, jwt.MapClaims{"sub": "user@example.com", "exp": testEpoch.Add(time.Hour).Unix()})
	require.NoError(t, s.Save(ctx, janeDoe(), live))
	_, token, found := s.Load(ctx)
	assert.True(t, found)
	assert.Equal(t, live, token)
}

func TestCredentialStore_ReadErrorFailsClosed(t *testing.T) {
	repo := newFakeRepo()
	repo.values[KeyAuthToken] = []byte("abc")
	repo.GetErr = errBoom
	s := NewCredentialStore(repo, nil, 0, nil)

	_, _, found := s.Load(context.Background())
	assert.False(t, found)
	assert.Empty(t, s.Token(context.Background()))
}

func TestCredentialStore_SaveValidatesAndWraps(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := NewCredentialStore(repo, nil, 0, nil)

	require.Error(t, s.Save(ctx, nil, "abc"))
	require.Error(t, s.Save(ctx, janeDoe(), ""))

	repo.SetErr = errBoom
	err := s.Save(ctx, janeDoe(), "abc")
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, repo.values)
}

func TestCredentialStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	s := newCredStore(t, db, clockwork.NewFakeClockAt(testEpoch))

	require.NoError(t, s.Save(ctx, janeDoe(), "abc"))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, storedKeys(t, db))
}

func TestInspectToken(t *testing.T) {
	tok := signedJWT(t, jwt.MapClaims{
		"sub": "user@example.com",
		"iat": testEpoch.Unix(),
		"exp": testEpoch.Add(30 * time.Minute).Unix(),
	})

	info := InspectToken(tok)
	assert.True(t, info.JWT)
	assert.Equal(t, "user@example.com", info.Subject)
	assert.True(t, info.IssuedAt.Equal(testEpoch))
	assert.False(t, info.Expired(testEpoch))
	assert.True(t, info.Expired(testEpoch.Add(30*time.Minute)))

	opaque := InspectToken("abc")
	assert.Equal(t, TokenInfo{}, opaque)
	assert.False(t, opaque.Expired(testEpoch.Add(1000*time.Hour)))
}
