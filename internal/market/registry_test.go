package market

import (
	"context"
	"errors"
	"io"
	"testing"

	"foodrescue/internal/store"
	"foodrescue/pkg/types"

	"github.com/sirupsen/logrus"
)

func newTestRegistry(t *testing.T) *IdentityRegistry {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewIdentityRegistry(context.Background(), store.NewMemory(), logger)
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		email string
		pin   string
	}{
		{name: "empty name", user: "", email: "a@b.c", pin: "1234"},
		{name: "whitespace name", user: "   ", email: "a@b.c", pin: "1234"},
		{name: "short pin", user: "Rosa", email: "a@b.c", pin: "123"},
		{name: "whitespace pin", user: "Rosa", email: "a@b.c", pin: "    "},
	}

	r := newTestRegistry(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Login(context.Background(), tc.user, tc.email, tc.pin)
			if !errors.Is(err, types.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLoginMatchesExactTuple(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)

	rosa, err := r.Login(ctx, "Rosa", "rosa@example.com", "4321")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	again, err := r.Login(ctx, " Rosa ", "rosa@example.com", "4321")
	if err != nil {
		t.Fatalf("repeat login: %v", err)
	}
	if again.ID != rosa.ID {
		t.Errorf("same tuple returned a different user: %s vs %s", again.ID, rosa.ID)
	}

	// Any differing field is a different identity, not a failed password.
	otherPin, err := r.Login(ctx, "Rosa", "rosa@example.com", "9999")
	if err != nil {
		t.Fatalf("login with different pin: %v", err)
	}
	if otherPin.ID == rosa.ID {
		t.Error("different pin should register a new user")
	}

	otherEmail, err := r.Login(ctx, "Rosa", "", "4321")
	if err != nil {
		t.Fatalf("login with different email: %v", err)
	}
	if otherEmail.ID == rosa.ID {
		t.Error("different email should register a new user")
	}
}

func TestAssignRole(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)

	rosa, err := r.Login(ctx, "Rosa", "rosa@example.com", "4321")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if rosa.Role != types.RoleUnset {
		t.Fatalf("fresh user role = %q, want unset", rosa.Role)
	}

	if _, err := r.AssignRole(ctx, rosa.ID, types.Role("ADMIN")); !errors.Is(err, types.ErrValidation) {
		t.Errorf("invalid role err = %v, want ErrValidation", err)
	}
	if _, err := r.AssignRole(ctx, "U-missing", types.RoleDonor); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}

	updated, err := r.AssignRole(ctx, rosa.ID, types.RoleDonor)
	if err != nil {
		t.Fatalf("assign donor: %v", err)
	}
	if updated.Role != types.RoleDonor {
		t.Errorf("role = %q, want DONOR", updated.Role)
	}

	// Choosing again overwrites; the role is not sticky.
	updated, err = r.AssignRole(ctx, rosa.ID, types.RoleCharity)
	if err != nil {
		t.Fatalf("reassign charity: %v", err)
	}
	if updated.Role != types.RoleCharity {
		t.Errorf("role after reassign = %q, want CHARITY", updated.Role)
	}
}
