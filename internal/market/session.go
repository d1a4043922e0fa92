package market

import (
	"context"
	"encoding/json"

	"foodrescue/internal/store"
	"foodrescue/pkg/types"

	"github.com/sirupsen/logrus"
)

// SessionStore is the single-tenant "who is signed in" record, persisted
// under the session namespace so a restart lands the user back where they
// were. The HTTP layer separately identifies the browser with a cookie.
type SessionStore struct {
	kv     store.KV
	logger *logrus.Logger

	current *types.User
}

func NewSessionStore(ctx context.Context, kv store.KV, logger *logrus.Logger) *SessionStore {
	s := &SessionStore{kv: kv, logger: logger}

	blob, err := kv.Get(ctx, store.NamespaceSession)
	if err != nil {
		logger.WithError(err).Warn("failed to read session, starting signed out")
		return s
	}
	if len(blob) == 0 {
		return s
	}

	var user *types.User
	if err := json.Unmarshal(blob, &user); err != nil {
		logger.WithError(err).Warn("malformed session blob, starting signed out")
		return s
	}
	if user != nil && user.ID == "" {
		user = nil
	}

	s.current = user
	return s
}

// Current returns a copy; callers cannot mutate the session record.
func (s *SessionStore) Current() *types.User {
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

func (s *SessionStore) Set(ctx context.Context, user *types.User) error {
	previous := s.current
	if user != nil {
		cp := *user
		s.current = &cp
	} else {
		s.current = nil
	}

	if err := s.persist(ctx); err != nil {
		s.current = previous
		return err
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.Set(ctx, nil)
}

func (s *SessionStore) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.current)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, store.NamespaceSession, blob)
}
