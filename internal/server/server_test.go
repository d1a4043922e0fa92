package server

import (
	"context"
	"encoding/base64"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"foodrescue/internal/market"
	"foodrescue/internal/store"
	"foodrescue/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) *Service {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		ServerPort:       0,
		ReadTimeoutSec:   5,
		WriteTimeoutSec:  5,
		CookieName:       "food_rescue_session",
		SessionMaxAgeSec: 3600,
		CookieHashKey:    base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
		CookieBlockKey:   base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
	}

	marketSvc := market.New(context.Background(), store.NewMemory(), logger)

	srv, err := New(config, logger, marketSvc, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func postForm(t *testing.T, srv *Service, path string, values url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, srv *Service, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, srv *Service, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == srv.config.CookieName && c.MaxAge >= 0 {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// signIn logs a user in and picks their role, returning the session cookie.
func signIn(t *testing.T, srv *Service, name, pin string, role types.Role) *http.Cookie {
	t.Helper()

	rec := postForm(t, srv, "/login", url.Values{
		"name":  {name},
		"email": {name + "@example.com"},
		"pin":   {pin},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	cookie := sessionCookie(t, srv, rec)

	rec = postForm(t, srv, "/role", url.Values{"role": {string(role)}}, []*http.Cookie{cookie})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("role status = %d, want 303", rec.Code)
	}
	return cookie
}

func TestHomePage(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Rescue surplus food") {
		t.Error("home page missing hero copy")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/donor", nil)
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %s, want /login", loc)
	}
}

func TestLoginValidationRedirects(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/login", url.Values{
		"name": {"Rosa"},
		"pin":  {"12"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/login" || loc.Query().Get("error") == "" {
		t.Errorf("redirect = %s, want /login with an error toast", loc)
	}
}

func TestLoginRoutesToRoleSelection(t *testing.T) {
	srv := newTestServer(t)

	rec := postForm(t, srv, "/login", url.Values{
		"name": {"Rosa"},
		"pin":  {"4321"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/role" {
		t.Errorf("redirect = %s, want /role", loc)
	}

	cookie := sessionCookie(t, srv, rec)
	rec = get(t, srv, "/role", []*http.Cookie{cookie})
	if rec.Code != http.StatusOK {
		t.Fatalf("role page status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Choose your role") {
		t.Error("role page missing heading")
	}
}

func TestRoleSelectionRoutesToDashboard(t *testing.T) {
	srv := newTestServer(t)
	cookie := signIn(t, srv, "Rosa", "4321", types.RoleDonor)

	rec := get(t, srv, "/donor", []*http.Cookie{cookie})
	if rec.Code != http.StatusOK {
		t.Fatalf("donor dashboard status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Donor dashboard") {
		t.Error("donor dashboard missing heading")
	}

	// A donor asking for the charity dashboard is sent home to theirs.
	rec = get(t, srv, "/charity", []*http.Cookie{cookie})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("cross-dashboard status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/donor" {
		t.Errorf("cross-dashboard redirect = %s, want /donor", loc)
	}
}

func multipartListingForm(t *testing.T, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var body strings.Builder
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return strings.NewReader(body.String()), w.FormDataContentType()
}

func TestCreateListingFlow(t *testing.T) {
	srv := newTestServer(t)
	donorCookie := signIn(t, srv, "Rosa", "4321", types.RoleDonor)
	charityCookie := signIn(t, srv, "Shelter", "9876", types.RoleCharity)

	body, contentType := multipartListingForm(t, map[string]string{
		"donor_type":       "Bakery",
		"food_description": "Sourdough loaves",
		"quantity":         "12 loaves",
		"expiry_date":      "2026-09-01",
		"pickup_window":    "17:00-19:00",
		"location":         "14 Mill Lane",
	})
	req := httptest.NewRequest(http.MethodPost, "/listings", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(donorCookie)
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, want 303", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/donor" || loc.Query().Get("notice") == "" {
		t.Errorf("create redirect = %s, want /donor with a notice", loc)
	}

	rec = get(t, srv, "/charity", []*http.Cookie{charityCookie})
	if rec.Code != http.StatusOK {
		t.Fatalf("charity dashboard status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sourdough loaves") {
		t.Error("new listing not visible on the charity dashboard")
	}

	listings := srv.market.CharityAvailable("")
	if len(listings) != 1 {
		t.Fatalf("available listings = %d, want 1", len(listings))
	}

	rec = postForm(t, srv, "/listings/"+listings[0].ID+"/claim", nil, []*http.Cookie{charityCookie})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("claim status = %d, want 303", rec.Code)
	}
	if got := srv.market.Stats(); got.Claimed != 1 {
		t.Errorf("stats after claim = %+v, want one claimed", got)
	}
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	cookie := signIn(t, srv, "Rosa", "4321", types.RoleDonor)

	rec := postForm(t, srv, "/logout", nil, []*http.Cookie{cookie})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", rec.Code)
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == srv.config.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the session cookie")
	}
	if got := srv.market.CurrentUser(); got != nil {
		t.Errorf("persisted session after logout = %+v, want nil", got)
	}
}
