package market

import (
	"context"
	"time"

	"foodrescue/internal/store"
	"foodrescue/internal/utils"
	"foodrescue/pkg/types"

	"github.com/sirupsen/logrus"
)

// ListingRepository owns the in-memory listing collection, loaded from the
// store once at startup. Every mutator persists the full collection before
// returning and rolls the in-memory state back if the write fails, so callers
// observe all-or-nothing behavior.
type ListingRepository struct {
	kv     store.KV
	logger *logrus.Logger
	now    func() time.Time

	items []*types.Listing
}

func NewListingRepository(ctx context.Context, kv store.KV, logger *logrus.Logger) *ListingRepository {
	return &ListingRepository{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		items:  loadCollection[*types.Listing](ctx, kv, store.NamespaceListings, logger),
	}
}

func (r *ListingRepository) persist(ctx context.Context) error {
	return saveCollection(ctx, r.kv, store.NamespaceListings, r.items)
}

// Create builds a new Available listing from donor-supplied fields. The
// lifecycle engine has already validated the draft and the actor's role.
func (r *ListingRepository) Create(ctx context.Context, donor *types.User, draft ListingDraft) (*types.Listing, error) {
	listing := &types.Listing{
		ID:              utils.PrefixedID("L"),
		DonorName:       donor.Name,
		DonorType:       draft.DonorType,
		DonorUserID:     donor.ID,
		FoodDescription: draft.FoodDescription,
		Quantity:        draft.Quantity,
		ExpiryDate:      draft.ExpiryDate,
		PickupWindow:    draft.PickupWindow,
		Location:        draft.Location,
		Notes:           draft.Notes,
		ImageKey:        draft.ImageKey,
		CreatedByUserID: donor.ID,
		CreatedAt:       r.now(),
		Status:          types.ListingStatusAvailable,
		Chat:            []types.ChatMessage{},
	}

	r.items = append(r.items, listing)
	if err := r.persist(ctx); err != nil {
		r.items = r.items[:len(r.items)-1]
		return nil, err
	}

	return listing, nil
}

func (r *ListingRepository) Delete(ctx context.Context, listingID string) error {
	for i, l := range r.items {
		if l.ID != listingID {
			continue
		}

		removed := r.items[i]
		r.items = append(r.items[:i], r.items[i+1:]...)
		if err := r.persist(ctx); err != nil {
			r.items = append(r.items[:i], append([]*types.Listing{removed}, r.items[i:]...)...)
			return err
		}
		return nil
	}

	return types.ErrListingNotFound
}

func (r *ListingRepository) ByID(listingID string) (*types.Listing, error) {
	for _, l := range r.items {
		if l.ID == listingID {
			return l, nil
		}
	}
	return nil, types.ErrListingNotFound
}

// All returns the collection in storage order. Projections impose ordering.
func (r *ListingRepository) All() []*types.Listing {
	out := make([]*types.Listing, len(r.items))
	copy(out, r.items)
	return out
}

// Replace swaps a mutated copy in by id and persists. On a failed write the
// original stays in place, leaving no partially applied state behind.
func (r *ListingRepository) Replace(ctx context.Context, updated *types.Listing) error {
	for i, l := range r.items {
		if l.ID != updated.ID {
			continue
		}

		previous := r.items[i]
		r.items[i] = updated
		if err := r.persist(ctx); err != nil {
			r.items[i] = previous
			return err
		}
		return nil
	}

	return types.ErrListingNotFound
}
