package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"bloodlink/internal/matching"
	"bloodlink/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config
	now    matching.Clock

	requests  RequestStore
	donors    DonorStore
	donations DonationStore
	stats     StatsStore
	settings  SettingsProvider
	archiver  Archiver
	exporter  DonationExporter

	cognitoClient CognitoClient
	cookie        *securecookie.SecureCookie
	verify        tokenVerifier

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient CognitoClient,
	requests RequestStore,
	donors DonorStore,
	donations DonationStore,
	stats StatsStore,
	settings SettingsProvider,
	archiver Archiver,
	exporter DonationExporter,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}

	s := &Service{
		logger: logger,
		config: config,
		now:    time.Now,

		requests:  requests,
		donors:    donors,
		donations: donations,
		stats:     stats,
		settings:  settings,
		archiver:  archiver,
		exporter:  exporter,

		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),
		verify:        jwksVerifier(jwkCache, jwksURL),

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.server.Handler = s.routes()

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

// routes wraps the mux in StripTrailingSlash. flow only runs Use middleware on
// matched routes, and a path with a trailing slash never matches.
func (s *Service) routes() http.Handler {
	mux := flow.New()
	s.buildRouter(mux)
	return s.StripTrailingSlash(mux)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.HandleFunc("/api/login", s.handlePostLogin, http.MethodPost)

	r.HandleFunc("/api/blood-types/:type/recipients", s.handleGetRecipients, http.MethodGet)
	r.HandleFunc("/api/blood-types/:type/donors", s.handleGetDonorTypes, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/me", s.handleGetMe, http.MethodGet)
		r.HandleFunc("/api/me", s.handlePutMe, http.MethodPut)
		r.HandleFunc("/api/me/eligibility", s.handleGetMyEligibility, http.MethodGet)
		r.HandleFunc("/api/me/requests", s.handleGetMyCompatibleRequests, http.MethodGet)
		r.HandleFunc("/api/me/donations", s.handleGetMyDonations, http.MethodGet)
		r.HandleFunc("/api/me/donations", s.handlePostMyDonation, http.MethodPost)

		r.HandleFunc("/api/requests", s.handleListRequests, http.MethodGet)
		r.HandleFunc("/api/requests", s.handleCreateRequest, http.MethodPost)
		r.HandleFunc("/api/requests/duplicate-check", s.handleDuplicateCheck, http.MethodPost)
		r.HandleFunc("/api/requests/:id", s.handleGetRequest, http.MethodGet)
		r.HandleFunc("/api/requests/:id/status", s.handleUpdateRequestStatus, http.MethodPatch)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireAdmin)

			r.HandleFunc("/api/admin/settings", s.handleGetSettings, http.MethodGet)
			r.HandleFunc("/api/admin/settings", s.handlePutSettings, http.MethodPut)
			r.HandleFunc("/api/admin/stats", s.handleGetStats, http.MethodGet)
			r.HandleFunc("/api/admin/requests", s.handleAdminListRequests, http.MethodGet)
			r.HandleFunc("/api/admin/requests/archive", s.handleArchiveRequests, http.MethodPost)
			r.HandleFunc("/api/admin/donors", s.handleAdminListDonors, http.MethodGet)
			r.HandleFunc("/api/admin/donations", s.handleAdminListDonations, http.MethodGet)
			r.HandleFunc("/api/admin/exports/donations", s.handleExportDonations, http.MethodPost)
		})
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
