package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"foodrescue/internal/market"
	"foodrescue/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	market    *market.Service
	templates *template.Template

	s3Client *s3.Client
	cookie   *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	marketSvc *market.Service,
	s3Client *s3.Client,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:   logger,
		config:   config,
		market:   marketSvc,
		s3Client: s3Client,
		cookie:   securecookie.New(hashKey, blockKey),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireUser)

		r.HandleFunc("/role", s.handleGetRole, http.MethodGet)
		r.HandleFunc("/role", s.handlePostRole, http.MethodPost)

		r.HandleFunc("/donor", s.handleDonorDashboard, http.MethodGet)
		r.HandleFunc("/charity", s.handleCharityDashboard, http.MethodGet)

		r.HandleFunc("/listings", s.handleCreateListing, http.MethodPost)
		r.HandleFunc("/listings/:id/delete", s.handleDeleteListing, http.MethodPost)
		r.HandleFunc("/listings/:id/claim", s.handleClaimListing, http.MethodPost)
		r.HandleFunc("/listings/:id/ack", s.handleAcknowledgeClaim, http.MethodPost)
		r.HandleFunc("/listings/:id/chat", s.handlePostChatMessage, http.MethodPost)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(iso string) string {
			d, err := time.Parse("2006-01-02", iso)
			if err != nil {
				return iso
			}
			return d.Format("Jan 2, 2006")
		},
		"formatClock": func(t time.Time) string {
			return t.Format("15:04")
		},
		"statusLabel": func(status types.ListingStatus) string {
			if status == types.ListingStatusClaimed {
				return "Claimed"
			}
			return "Available"
		},
		"roleLabel": roleLabel,
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func roleLabel(role types.Role) string {
	switch role {
	case types.RoleDonor:
		return "Donor"
	case types.RoleCharity:
		return "Charity"
	default:
		return "Guest"
	}
}

// imageURL resolves a stored photo key against the configured public base.
func (s *Service) imageURL(key string) string {
	if key == "" || s.config.S3PublicBaseURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.config.S3PublicBaseURL, "/") + "/" + key
}

// dashboardPath is where a signed-in user belongs: their role's dashboard,
// or role selection when no role is chosen yet.
func dashboardPath(user *types.User) string {
	switch {
	case user.IsDonor():
		return "/donor"
	case user.IsCharity():
		return "/charity"
	default:
		return "/role"
	}
}
