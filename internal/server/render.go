package server

import (
	"net/http"

	"foodrescue/pkg/types"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	if setter, ok := data.(types.NavbarDataSetter); ok {
		user, _ := r.Context().Value(contextKeyUser).(*types.User)
		nav := types.NavbarData{RoleLabel: "Guest"}
		if user != nil {
			nav = types.NavbarData{
				SignedIn:  true,
				UserName:  user.Name,
				RoleLabel: roleLabel(user.Role),
			}
		}
		setter.SetNavbarData(nav)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, templateName, data); err != nil {
		s.logger.WithError(err).WithField("template", templateName).Error("failed to render template")
		s.internalServerError(w)
	}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
