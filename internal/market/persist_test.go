package market

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"foodrescue/internal/store"
	"foodrescue/pkg/types"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// A second service on the same store must see exactly the state the first one
// left behind, signed-in user included.
func TestRestartRestoresState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	first := New(ctx, kv, quietLogger())
	freezeTime(first, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))

	donor := signUp(t, first, "Rosa", "4321", types.RoleDonor)
	charity := signUp(t, first, "Shelter", "9876", types.RoleCharity)

	listing, err := first.CreateListing(ctx, donor, validDraft())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.ClaimListing(ctx, charity, listing.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := first.AcknowledgeClaim(ctx, donor, listing.ID, types.RoleDonor); err != nil {
		t.Fatal(err)
	}
	if _, err := first.PostChatMessage(ctx, charity, listing.ID, "On our way"); err != nil {
		t.Fatal(err)
	}

	second := New(ctx, kv, quietLogger())

	if diff := encodeDiff(t, first.listings.All(), second.listings.All()); diff {
		t.Error("listings did not survive the restart")
	}
	if diff := encodeDiff(t, first.registry.users, second.registry.users); diff {
		t.Error("users did not survive the restart")
	}

	restored, err := second.listings.ByID(listing.ID)
	if err != nil {
		t.Fatalf("restored listing: %v", err)
	}
	if restored.Status != types.ListingStatusClaimed || !restored.DonorClaimAck {
		t.Errorf("restored lifecycle state wrong: %+v", restored)
	}
	if len(restored.Chat) != 1 || restored.Chat[0].Text != "On our way" {
		t.Errorf("restored chat wrong: %+v", restored.Chat)
	}

	current := second.CurrentUser()
	if current == nil || current.ID != charity.ID {
		t.Errorf("restored session = %+v, want the charity", current)
	}
	if current.Role != types.RoleCharity {
		t.Errorf("restored session role = %q, want CHARITY", current.Role)
	}

	// And a logout persists too.
	if err := second.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	third := New(ctx, kv, quietLogger())
	if got := third.CurrentUser(); got != nil {
		t.Errorf("session after logout restart = %+v, want nil", got)
	}
}

// encodeDiff compares two values through their JSON encoding, which is the
// persistence format and sidesteps time.Time monotonic-clock noise.
func encodeDiff(t *testing.T, a, b any) bool {
	t.Helper()
	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	return !bytes.Equal(aj, bj)
}

func TestMalformedNamespaceStartsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	if err := kv.Put(ctx, store.NamespaceListings, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, store.NamespaceUsers, []byte(`"a string, not a list"`)); err != nil {
		t.Fatal(err)
	}
	if err := kv.Put(ctx, store.NamespaceSession, []byte("garbage")); err != nil {
		t.Fatal(err)
	}

	s := New(ctx, kv, quietLogger())

	if got := len(s.listings.All()); got != 0 {
		t.Errorf("listings from corrupt blob = %d, want 0", got)
	}
	if got := s.CurrentUser(); got != nil {
		t.Errorf("session from corrupt blob = %+v, want nil", got)
	}

	// The app keeps working, and the next write repairs the namespace.
	donor := signUp(t, s, "Rosa", "4321", types.RoleDonor)
	if _, err := s.CreateListing(ctx, donor, validDraft()); err != nil {
		t.Fatalf("create after corruption: %v", err)
	}

	recovered := New(ctx, kv, quietLogger())
	if got := len(recovered.listings.All()); got != 1 {
		t.Errorf("listings after repair = %d, want 1", got)
	}
}

func TestCollectionsPersistAsEmptyLists(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := New(ctx, kv, quietLogger())

	donor := signUp(t, s, "Rosa", "4321", types.RoleDonor)
	listing, err := s.CreateListing(ctx, donor, validDraft())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteListing(ctx, donor, listing.ID); err != nil {
		t.Fatal(err)
	}

	blob, err := kv.Get(ctx, store.NamespaceListings)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != "[]" {
		t.Errorf("emptied collection persists as %q, want []", blob)
	}
}
