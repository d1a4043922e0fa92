package server

import (
	"fmt"
	"net/http"
	"time"

	"foodrescue/internal/market"
	"foodrescue/pkg/types"
)

type basePage struct {
	Title  string
	Notice string
	Error  string
	Navbar types.NavbarData
}

func (b *basePage) SetNavbarData(n types.NavbarData) { b.Navbar = n }

func newBasePage(title string, r *http.Request) basePage {
	return basePage{
		Title:  title,
		Notice: r.URL.Query().Get("notice"),
		Error:  r.URL.Query().Get("error"),
	}
}

// listingView decorates a listing with everything the templates need that
// the domain type deliberately does not carry.
type listingView struct {
	*types.Listing
	CanDelete bool
	ShowChat  bool
	ImageURL  string
}

type homePageData struct {
	basePage
	Stats    market.Stats
	StatLine string
}

type donorPageData struct {
	basePage
	Welcome     string
	History     []listingView
	Marketplace []listingView
	Stats       market.Stats
}

type charityPageData struct {
	basePage
	Welcome   string
	Search    string
	Available []listingView
	Claimed   []listingView
	Stats     market.Stats
}

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	stats := s.market.Stats()

	statLine := "No meals waiting right now. Be the first to create a listing."
	if stats.Available == 1 {
		statLine = "1 surplus donation waiting to be rescued."
	} else if stats.Available > 1 {
		statLine = fmt.Sprintf("%d surplus donations waiting to be rescued.", stats.Available)
	}

	data := &homePageData{
		basePage: newBasePage("Food Rescue", r),
		Stats:    stats,
		StatLine: statLine,
	}
	s.renderTemplate(w, r, "page.home", data)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) handleDonorDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}
	if !user.IsDonor() {
		http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
		return
	}

	now := time.Now()
	history := make([]listingView, 0)
	for _, l := range s.market.DonorHistory(user.ID) {
		history = append(history, listingView{
			Listing:   l,
			CanDelete: market.CanDeleteNow(l, user, now),
			ShowChat:  l.Status == types.ListingStatusClaimed && l.CharityUserID != "",
			ImageURL:  s.imageURL(l.ImageKey),
		})
	}

	marketplace := make([]listingView, 0)
	for _, l := range s.market.DonorMarketplace(user.ID) {
		marketplace = append(marketplace, listingView{
			Listing:  l,
			ImageURL: s.imageURL(l.ImageKey),
		})
	}

	data := &donorPageData{
		basePage:    newBasePage("Donor dashboard", r),
		Welcome:     fmt.Sprintf("Welcome, %s. Share surplus food safely and quickly.", user.Name),
		History:     history,
		Marketplace: marketplace,
		Stats:       s.market.Stats(),
	}
	s.renderTemplate(w, r, "page.donor", data)
}

func (s *Service) handleCharityDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}
	if !user.IsCharity() {
		http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
		return
	}

	search := r.URL.Query().Get("q")

	available := make([]listingView, 0)
	for _, l := range s.market.CharityAvailable(search) {
		available = append(available, listingView{
			Listing:  l,
			ImageURL: s.imageURL(l.ImageKey),
		})
	}

	claimed := make([]listingView, 0)
	for _, l := range s.market.CharityClaimed(user.ID) {
		claimed = append(claimed, listingView{
			Listing:  l,
			ShowChat: true,
			ImageURL: s.imageURL(l.ImageKey),
		})
	}

	data := &charityPageData{
		basePage:  newBasePage("Charity dashboard", r),
		Welcome:   fmt.Sprintf("Welcome, %s. Reserve donations that match your community's needs.", user.Name),
		Search:    search,
		Available: available,
		Claimed:   claimed,
		Stats:     s.market.Stats(),
	}
	s.renderTemplate(w, r, "page.charity", data)
}
