package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rankrocket/rankrocket-cli/internal/client/models"
	"github.com/rankrocket/rankrocket-cli/internal/client/repositories/credentials"
	"github.com/rankrocket/rankrocket-cli/internal/logging"
)

const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"

	DefaultCredentialTTL = 7 * 24 * time.Hour
)

// CredentialStore persists the (token, profile) pair that lets a restarted
// client resume its session. Both halves share one expiry and are only ever
// returned together.
type CredentialStore struct {
	repo  credentials.Repository
	clock clockwork.Clock
	ttl   time.Duration
	log   logging.Logger
}

func NewCredentialStore(repo credentials.Repository, clock clockwork.Clock, ttl time.Duration, log logging.Logger) *CredentialStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &CredentialStore{repo: repo, clock: clock, ttl: ttl, log: log.With("component", "credentials")}
}

// Save writes both halves atomically with an expiry of now+TTL.
func (s *CredentialStore) Save(ctx context.Context, user *models.UserProfile, token string) error {
	if user == nil || token == "" {
		return errors.New("save credentials: user and token are required")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user data: %w", err)
	}

	values := map[string][]byte{
		KeyAuthToken: []byte(token),
		KeyUserData:  data,
	}
	if err := s.repo.SetAll(ctx, values, s.clock.Now().Add(s.ttl)); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Load returns the stored session if, and only if, both halves are present,
// unexpired and well formed. Anything less is discarded.
func (s *CredentialStore) Load(ctx context.Context) (*models.UserProfile, string, bool) {
	token, err := s.repo.Get(ctx, KeyAuthToken)
	if err != nil {
		s.log.Warn(ctx, "reading stored token failed", "error", err)
		return nil, "", false
	}
	data, err := s.repo.Get(ctx, KeyUserData)
	if err != nil {
		s.log.Warn(ctx, "reading stored user data failed", "error", err)
		return nil, "", false
	}

	switch {
	case len(token) == 0 && len(data) == 0:
		return nil, "", false
	case len(token) == 0 || len(data) == 0:
		s.log.Warn(ctx, "discarding incomplete stored session", "has_token", len(token) > 0, "has_user", len(data) > 0)
		s.discard(ctx)
		return nil, "", false
	}

	var user models.UserProfile
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn(ctx, "discarding malformed stored user data", "error", err)
		s.discard(ctx)
		return nil, "", false
	}

	if InspectToken(string(token)).Expired(s.clock.Now()) {
		s.log.Info(ctx, "discarding stored session with expired token")
		s.discard(ctx)
		return nil, "", false
	}

	return &user, string(token), true
}

// Token returns the stored token alone, or "" if none is usable. It does not
// validate the profile half.
func (s *CredentialStore) Token(ctx context.Context) string {
	token, err := s.repo.Get(ctx, KeyAuthToken)
	if err != nil {
		s.log.Debug(ctx, "reading stored token failed", "error", err)
		return ""
	}
	return string(token)
}

// Clear removes both halves. Clearing an empty store succeeds.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, KeyAuthToken, KeyUserData); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) discard(ctx context.Context) {
	if err := s.Clear(ctx); err != nil {
		s.log.Warn(ctx, "removing stored session failed", "error", err)
	}
}
