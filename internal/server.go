// Copyright 2023-present Cryptoflare Authors
// SPDX-License-Identifier: MIT

package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	metricsprom "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	metricsstd "github.com/slok/go-http-metrics/middleware/std"
	"github.com/unrolled/logger"

	"github.com/mstephen77/cryptoflare/internal/hashers"
)

// Server is the network server for the cryptoflared daemon
type Server struct {
	bind   string
	config *Config
	router *httprouter.Router
	server *http.Server

	// default hashers, used when a hash request carries no options and
	// for all verify operations
	argon2 hashers.Hasher
	bcrypt hashers.Hasher
}

// Run starts the server and blocks until it is shut down
func (s *Server) Run() (err error) {
	log.Infof("%s %s listening on http://%s", s.config.Version.Software, s.config.Version.FullVersion, s.bind)

	if err = s.server.ListenAndServe(); err == http.ErrServerClosed {
		err = nil
	}

	return
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) initRoutes(registry *prometheus.Registry) {
	s.router.POST("/argon2/hash", s.Argon2HashHandler())
	s.router.POST("/argon2/verify", s.Argon2VerifyHandler())
	s.router.POST("/bcrypt/hash", s.BcryptHashHandler())
	s.router.POST("/bcrypt/verify", s.BcryptVerifyHandler())

	s.router.GET("/info", s.InfoHandler())
	s.router.GET("/healthz", s.HealthzHandler())
	s.router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// NewServer creates a new server with the given bind address and options
func NewServer(bind string, options ...Option) (*Server, error) {
	config := NewConfig()

	for _, opt := range options {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if config.Debug {
		log.SetLevel(log.DebugLevel)
	}

	argon2, err := hashers.NewArgon2(config.Argon2Defaults)
	if err != nil {
		return nil, fmt.Errorf("error configuring default argon2 hasher: %w", err)
	}
	bcrypt := hashers.NewBcrypt(hashers.BcryptOptions{WorkFactor: config.BcryptWorkFactor})

	router := httprouter.New()

	// The route table is closed: a GET on a POST-only route, a trailing
	// slash or a case variation must all surface as an unknown route
	// (404), never as a 405 or a redirect.
	router.HandleMethodNotAllowed = false
	router.HandleOPTIONS = false
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	server := &Server{
		bind:   bind,
		config: config,
		router: router,

		argon2: argon2,
		bcrypt: bcrypt,
	}

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.writeError(w, ErrInvalidRoute)
	})

	// Every server carries its own metrics registry; there is no other
	// cross-request state to share.
	registry := prometheus.NewRegistry()

	server.initRoutes(registry)

	var handler http.Handler = router

	mdlw := middleware.New(middleware.Config{
		Recorder: metricsprom.NewRecorder(metricsprom.Config{
			Registry: registry,
			Prefix:   "cryptoflared",
		}),
	})
	handler = metricsstd.Handler("", mdlw, handler)

	handler = gziphandler.GzipHandler(handler)

	if config.Debug {
		handler = logger.New(logger.Options{
			Prefix:               "cryptoflared",
			RemoteAddressHeaders: []string{"X-Forwarded-For"},
		}).Handler(handler)
	}

	server.server = &http.Server{
		Addr:    bind,
		Handler: handler,

		// Hashing is deliberately slow; leave generous room for
		// expensive cost parameters before timing a response out.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,

		MaxHeaderBytes: 1 << 16,
	}

	return server, nil
}
