package seed

import (
	"context"
	"fmt"

	"foodrescue/internal/market"
	"foodrescue/pkg/types"
)

// Demo walks the marketplace through a realistic session: a donor with a few
// listings, a charity that claims one and says hello. Everything goes through
// the service so the seeded state is exactly what the app itself would write.
func Demo(ctx context.Context, svc *market.Service) error {
	donor, err := svc.Login(ctx, "Rosa's Bakery", "rosa@example.com", "4321")
	if err != nil {
		return fmt.Errorf("seed donor login: %w", err)
	}
	donor, err = svc.AssignRole(ctx, donor.ID, types.RoleDonor)
	if err != nil {
		return fmt.Errorf("seed donor role: %w", err)
	}

	drafts := []market.ListingDraft{
		{
			DonorType:       "Bakery",
			FoodDescription: "Two trays of day-old sourdough and rye loaves",
			Quantity:        "24 loaves",
			ExpiryDate:      "2026-08-30",
			PickupWindow:    "17:00-19:00",
			Location:        "14 Mill Lane",
			Notes:           "Ring the side door bell",
		},
		{
			DonorType:       "Bakery",
			FoodDescription: "Assorted pastries from today's counter",
			Quantity:        "3 boxes",
			ExpiryDate:      "2026-08-29",
			PickupWindow:    "18:30-19:30",
			Location:        "14 Mill Lane",
		},
		{
			DonorType:       "Bakery",
			FoodDescription: "Unsold sandwich platters, refrigerated",
			Quantity:        "8 platters",
			ExpiryDate:      "2026-08-29",
			PickupWindow:    "16:00-17:00",
			Location:        "14 Mill Lane",
			Notes:           "Needs a cool bag for transport",
		},
	}

	listings := make([]*types.Listing, 0, len(drafts))
	for _, draft := range drafts {
		listing, err := svc.CreateListing(ctx, donor, draft)
		if err != nil {
			return fmt.Errorf("seed listing: %w", err)
		}
		listings = append(listings, listing)
	}

	charity, err := svc.Login(ctx, "Harbor Street Shelter", "intake@harborstreet.org", "9876")
	if err != nil {
		return fmt.Errorf("seed charity login: %w", err)
	}
	charity, err = svc.AssignRole(ctx, charity.ID, types.RoleCharity)
	if err != nil {
		return fmt.Errorf("seed charity role: %w", err)
	}

	claimed, err := svc.ClaimListing(ctx, charity, listings[0].ID)
	if err != nil {
		return fmt.Errorf("seed claim: %w", err)
	}

	if _, err := svc.PostChatMessage(ctx, charity, claimed.ID, "Hi! We can pick up around 17:30, does that work?"); err != nil {
		return fmt.Errorf("seed chat: %w", err)
	}
	if _, err := svc.PostChatMessage(ctx, donor, claimed.ID, "Perfect, see you then. Use the side door."); err != nil {
		return fmt.Errorf("seed chat reply: %w", err)
	}

	// Leave the seeded database signed out.
	if err := svc.Logout(ctx); err != nil {
		return fmt.Errorf("seed logout: %w", err)
	}

	return nil
}
