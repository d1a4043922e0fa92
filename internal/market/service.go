package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"foodrescue/internal/store"
	"foodrescue/internal/utils"
	"foodrescue/pkg/types"

	"github.com/sirupsen/logrus"
)

// DeleteWindow is how long after creation a donor may still delete an
// unclaimed listing, measured wall clock from CreatedAt to the delete
// request.
const DeleteWindow = 10 * time.Minute

// ListingDraft carries the donor-supplied fields of a new listing.
type ListingDraft struct {
	DonorType       string
	FoodDescription string
	Quantity        string
	ExpiryDate      string
	PickupWindow    string
	Location        string
	Notes           string
	ImageKey        string
}

// Service is the lifecycle engine. It owns the registry, the listing
// repository, and the session record behind one mutex: commands run one at a
// time to completion, which is the entire concurrency model. Reads
// (projections) take the same lock.
type Service struct {
	mu     sync.Mutex
	logger *logrus.Logger
	now    func() time.Time

	registry *IdentityRegistry
	listings *ListingRepository
	session  *SessionStore
}

func New(ctx context.Context, kv store.KV, logger *logrus.Logger) *Service {
	return &Service{
		logger:   logger,
		now:      time.Now,
		registry: NewIdentityRegistry(ctx, kv, logger),
		listings: NewListingRepository(ctx, kv, logger),
		session:  NewSessionStore(ctx, kv, logger),
	}
}

// Identity ---------------------------------------------------------------

// Login authenticates-or-registers and records the session with the role
// deliberately unset: role selection is a separate step, even for a
// returning user.
func (s *Service) Login(ctx context.Context, name, email, pin string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.registry.Login(ctx, name, email, pin)
	if err != nil {
		return nil, err
	}

	sessionUser := *user
	sessionUser.Role = types.RoleUnset
	if err := s.session.Set(ctx, &sessionUser); err != nil {
		s.logger.WithError(err).Warn("failed to persist session after login")
	}

	return user, nil
}

func (s *Service) AssignRole(ctx context.Context, userID string, role types.Role) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.registry.AssignRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	if err := s.session.Set(ctx, user); err != nil {
		s.logger.WithError(err).Warn("failed to persist session after role selection")
	}

	return user, nil
}

func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clear(ctx)
}

func (s *Service) CurrentUser() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Current()
}

func (s *Service) UserByID(userID string) (*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.ByID(userID)
}

// Listing lifecycle ------------------------------------------------------

func (s *Service) CreateListing(ctx context.Context, actor *types.User, draft ListingDraft) (*types.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !actor.IsDonor() {
		return nil, fmt.Errorf("only donors can create listings: %w", types.ErrNotAuthorized)
	}

	draft.DonorType = strings.TrimSpace(draft.DonorType)
	draft.FoodDescription = strings.TrimSpace(draft.FoodDescription)
	draft.Quantity = strings.TrimSpace(draft.Quantity)
	draft.ExpiryDate = strings.TrimSpace(draft.ExpiryDate)
	draft.PickupWindow = strings.TrimSpace(draft.PickupWindow)
	draft.Location = strings.TrimSpace(draft.Location)
	draft.Notes = strings.TrimSpace(draft.Notes)

	required := map[string]string{
		"donor type":       draft.DonorType,
		"food description": draft.FoodDescription,
		"quantity":         draft.Quantity,
		"expiry date":      draft.ExpiryDate,
		"pickup window":    draft.PickupWindow,
		"location":         draft.Location,
	}
	for field, value := range required {
		if value == "" {
			return nil, fmt.Errorf("%s is required: %w", field, types.ErrValidation)
		}
	}

	listing, err := s.listings.Create(ctx, actor, draft)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"listing_id": listing.ID,
		"donor_id":   actor.ID,
	}).Info("listing created")

	return listing, nil
}

// DeleteListing removes an Available listing, creator only, within
// DeleteWindow of creation.
func (s *Service) DeleteListing(ctx context.Context, actor *types.User, listingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, err := s.listings.ByID(listingID)
	if err != nil {
		return err
	}

	if !actor.IsDonor() || listing.CreatedByUserID != actor.ID {
		return fmt.Errorf("only the listing's donor can delete it: %w", types.ErrNotAuthorized)
	}
	if listing.Status != types.ListingStatusAvailable {
		return fmt.Errorf("claimed listings cannot be deleted: %w", types.ErrPrecondition)
	}
	if s.now().Sub(listing.CreatedAt) > DeleteWindow {
		return fmt.Errorf("the deletion window has closed: %w", types.ErrPrecondition)
	}

	if err := s.listings.Delete(ctx, listingID); err != nil {
		return err
	}

	s.logger.WithField("listing_id", listingID).Info("listing deleted")
	return nil
}

// ClaimListing is strictly first-come: once Claimed, every later attempt
// fails regardless of actor.
func (s *Service) ClaimListing(ctx context.Context, actor *types.User, listingID string) (*types.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !actor.IsCharity() {
		return nil, fmt.Errorf("only charities can claim listings: %w", types.ErrNotAuthorized)
	}

	listing, err := s.listings.ByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != types.ListingStatusAvailable {
		return nil, fmt.Errorf("listing is already claimed: %w", types.ErrPrecondition)
	}

	claimedAt := s.now()
	updated := listing.Clone()
	updated.Status = types.ListingStatusClaimed
	updated.CharityUserID = actor.ID
	updated.CharityName = actor.Name
	updated.ClaimedAt = &claimedAt

	if err := s.listings.Replace(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"listing_id": listingID,
		"charity_id": actor.ID,
	}).Info("listing claimed")

	return updated, nil
}

// AcknowledgeClaim latches one side's confirmation. Re-acknowledging is a
// no-op, not an error.
func (s *Service) AcknowledgeClaim(ctx context.Context, actor *types.User, listingID string, side types.Role) (*types.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !types.ValidRole(side) {
		return nil, fmt.Errorf("unknown acknowledgment side %q: %w", side, types.ErrValidation)
	}

	listing, err := s.listings.ByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != types.ListingStatusClaimed {
		return nil, fmt.Errorf("listing has not been claimed yet: %w", types.ErrPrecondition)
	}

	already := (side == types.RoleDonor && listing.DonorClaimAck) ||
		(side == types.RoleCharity && listing.CharityClaimAck)
	if already {
		return listing, nil
	}

	updated := listing.Clone()
	if side == types.RoleDonor {
		updated.DonorClaimAck = true
	} else {
		updated.CharityClaimAck = true
	}

	if err := s.listings.Replace(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"listing_id":      listingID,
		"side":            side,
		"fully_confirmed": updated.FullyConfirmed(),
	}).Info("claim acknowledged")

	return updated, nil
}

// PostChatMessage appends to the listing's chat. Any signed-in actor the UI
// exposes the chat box to may post; there is no participant check beyond
// that.
func (s *Service) PostChatMessage(ctx context.Context, actor *types.User, listingID, text string) (*types.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actor == nil {
		return nil, fmt.Errorf("sign in to send messages: %w", types.ErrNotAuthorized)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is required: %w", types.ErrValidation)
	}

	listing, err := s.listings.ByID(listingID)
	if err != nil {
		return nil, err
	}

	updated := listing.Clone()
	updated.Chat = append(updated.Chat, types.ChatMessage{
		ID:           utils.PrefixedID("M"),
		SenderUserID: actor.ID,
		SenderName:   actor.Name,
		SenderRole:   actor.Role,
		Text:         text,
		Timestamp:    s.now(),
	})

	if err := s.listings.Replace(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}
