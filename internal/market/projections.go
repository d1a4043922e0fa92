package market

import (
	"sort"
	"strings"
	"time"

	"foodrescue/pkg/types"
)

// Projections are pure derived views over the listing collection,
// recomputed on demand. Their filter predicates are the visibility rules:
// a dashboard only ever shows what its projection returns.

// DonorHistory is every listing the donor created, newest first.
func (s *Service) DonorHistory(donorID string) []*types.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := filterListings(s.listings.All(), func(l *types.Listing) bool {
		return l.CreatedByUserID == donorID
	})
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

// DonorMarketplace is what other donors are offering: available listings
// the donor did not create, soonest expiry first. View only.
func (s *Service) DonorMarketplace(donorID string) []*types.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := filterListings(s.listings.All(), func(l *types.Listing) bool {
		return l.Status == types.ListingStatusAvailable && l.CreatedByUserID != donorID
	})
	sortByExpiry(items)
	return items
}

// CharityAvailable is every available listing, optionally narrowed by a
// case-insensitive substring search over description, donor name, location,
// and notes. Soonest expiry first.
func (s *Service) CharityAvailable(search string) []*types.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	search = strings.ToLower(strings.TrimSpace(search))

	items := filterListings(s.listings.All(), func(l *types.Listing) bool {
		if l.Status != types.ListingStatusAvailable {
			return false
		}
		if search == "" {
			return true
		}
		haystack := strings.ToLower(l.FoodDescription + " " + l.DonorName + " " + l.Location + " " + l.Notes)
		return strings.Contains(haystack, search)
	})
	sortByExpiry(items)
	return items
}

// CharityClaimed is every listing the charity has claimed, newest claim
// first.
func (s *Service) CharityClaimed(charityID string) []*types.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := filterListings(s.listings.All(), func(l *types.Listing) bool {
		return l.CharityUserID == charityID
	})
	sort.Slice(items, func(i, j int) bool {
		return claimedAtOf(items[i]).After(claimedAtOf(items[j]))
	})
	return items
}

type Stats struct {
	Total     int
	Available int
	Claimed   int
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats Stats
	for _, l := range s.listings.All() {
		stats.Total++
		switch l.Status {
		case types.ListingStatusAvailable:
			stats.Available++
		case types.ListingStatusClaimed:
			stats.Claimed++
		}
	}
	return stats
}

// CanDeleteNow mirrors the delete preconditions for display purposes: the
// button is only drawn while a delete would actually succeed.
func CanDeleteNow(l *types.Listing, u *types.User, now time.Time) bool {
	if !u.IsDonor() || l.CreatedByUserID != u.ID {
		return false
	}
	if l.Status != types.ListingStatusAvailable {
		return false
	}
	return now.Sub(l.CreatedAt) <= DeleteWindow
}

func filterListings(items []*types.Listing, keep func(*types.Listing) bool) []*types.Listing {
	out := make([]*types.Listing, 0, len(items))
	for _, l := range items {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// ExpiryDate is an ISO date string; lexicographic order is chronological.
func sortByExpiry(items []*types.Listing) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ExpiryDate < items[j].ExpiryDate
	})
}

func claimedAtOf(l *types.Listing) time.Time {
	if l.ClaimedAt == nil {
		return time.Time{}
	}
	return *l.ClaimedAt
}
