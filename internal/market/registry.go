package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodrescue/internal/store"
	"foodrescue/internal/utils"
	"foodrescue/pkg/types"

	"github.com/sirupsen/logrus"
)

// MinPINLength is the only credential rule there is. The PIN is an opaque
// shared secret compared verbatim; this app has no real authentication.
const MinPINLength = 4

// IdentityRegistry owns the user collection. Users are created on first login
// with an unseen (name, email, pin) tuple and are never deleted.
type IdentityRegistry struct {
	kv     store.KV
	logger *logrus.Logger
	now    func() time.Time

	users []*types.User
}

func NewIdentityRegistry(ctx context.Context, kv store.KV, logger *logrus.Logger) *IdentityRegistry {
	return &IdentityRegistry{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		users:  loadCollection[*types.User](ctx, kv, store.NamespaceUsers, logger),
	}
}

func (r *IdentityRegistry) persist(ctx context.Context) error {
	return saveCollection(ctx, r.kv, store.NamespaceUsers, r.users)
}

// Login returns the user matching all three identity fields exactly, or
// registers a new one with an unset role.
func (r *IdentityRegistry) Login(ctx context.Context, name, email, pin string) (*types.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	pin = strings.TrimSpace(pin)

	if name == "" {
		return nil, fmt.Errorf("name is required: %w", types.ErrValidation)
	}
	if len(pin) < MinPINLength {
		return nil, fmt.Errorf("pin must be at least %d characters: %w", MinPINLength, types.ErrValidation)
	}

	for _, u := range r.users {
		if u.Name == name && u.Email == email && u.PIN == pin {
			return u, nil
		}
	}

	user := &types.User{
		ID:        utils.PrefixedID("U"),
		Name:      name,
		Email:     email,
		PIN:       pin,
		Role:      types.RoleUnset,
		CreatedAt: r.now(),
	}

	r.users = append(r.users, user)
	if err := r.persist(ctx); err != nil {
		r.users = r.users[:len(r.users)-1]
		return nil, err
	}

	r.logger.WithField("user_id", user.ID).Info("registered new user")

	return user, nil
}

// AssignRole sets the user's role. Re-choosing a role later overwrites the
// previous choice; nothing in the lifecycle depends on it being stable.
func (r *IdentityRegistry) AssignRole(ctx context.Context, userID string, role types.Role) (*types.User, error) {
	if !types.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, types.ErrValidation)
	}

	for _, u := range r.users {
		if u.ID != userID {
			continue
		}

		previous := u.Role
		u.Role = role
		if err := r.persist(ctx); err != nil {
			u.Role = previous
			return nil, err
		}
		return u, nil
	}

	return nil, types.ErrUserNotFound
}

func (r *IdentityRegistry) ByID(userID string) (*types.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, types.ErrUserNotFound
}
