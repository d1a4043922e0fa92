package server

import (
	"errors"
	"net/http"

	"foodrescue/internal"
	"foodrescue/pkg/types"
)

type loginPageData struct {
	basePage
}

type rolePageData struct {
	basePage
	UserName string
}

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.config.CookieName); err == nil {
		var userID string
		if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &userID); err == nil {
			if user, err := s.market.UserByID(userID); err == nil {
				http.Redirect(w, r, dashboardPath(user), http.StatusSeeOther)
				return
			}
		}
	}

	data := &loginPageData{basePage: newBasePage("Sign in", r)}
	s.renderTemplate(w, r, "page.login", data)
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/login", "invalid form payload")
		return
	}

	var form types.LoginForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		s.redirectWithError(w, r, "/login", "invalid form payload")
		return
	}

	user, err := s.market.Login(r.Context(), form.Name, form.Email, form.PIN)
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			s.redirectWithError(w, r, "/login", "Please enter your name and a PIN of at least 4 characters.")
			return
		}
		s.logger.WithError(err).Error("login failed")
		s.internalServerError(w)
		return
	}

	if err := s.setSessionCookie(w, user.ID); err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		s.internalServerError(w)
		return
	}

	// Role selection is always the next step, even for a returning user.
	if redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME); err == nil {
		path := redirectCookie.Value
		s.clearRedirectCookie(w)
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/role", http.StatusSeeOther)
}

func (s *Service) handleGetRole(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	data := &rolePageData{
		basePage: newBasePage("Choose your role", r),
		UserName: user.Name,
	}
	s.renderTemplate(w, r, "page.role", data)
}

func (s *Service) handlePostRole(w http.ResponseWriter, r *http.Request) {
	user, err := s.userFromContext(r.Context())
	if err != nil {
		s.redirectToLogin(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/role", "invalid form payload")
		return
	}

	var form types.RoleForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		s.redirectWithError(w, r, "/role", "invalid form payload")
		return
	}

	updated, err := s.market.AssignRole(r.Context(), user.ID, types.Role(form.Role))
	if err != nil {
		if errors.Is(err, types.ErrValidation) {
			s.redirectWithError(w, r, "/role", "Please select a role to continue.")
			return
		}
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to assign role")
		s.internalServerError(w)
		return
	}

	http.Redirect(w, r, dashboardPath(updated), http.StatusSeeOther)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.market.Logout(r.Context()); err != nil {
		s.logger.WithError(err).Warn("failed to clear persisted session")
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
