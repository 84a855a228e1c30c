package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"whollycity/internal/auth"
	"whollycity/internal/config"
	"whollycity/internal/handlers"
	"whollycity/internal/icon"
	"whollycity/internal/logging"
	"whollycity/internal/mapstate"
	"whollycity/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to create data directory")
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.UploadsDir).Msg("failed to create uploads directory")
	}

	store, err := storage.NewPocketBaseStore(cfg.DataDir, cfg.FetchLimit)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// The live map state is warmed from both collections: stored markers,
	// plus a projected marker for every crime report that has none.
	markers := mapstate.NewMarkerStore()
	stored, err := store.ListMarkers()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load markers")
	}
	reports, err := store.ListCrimeReports()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load crime reports")
	}
	merged := mapstate.MergeCrimeMarkers(stored, reports, time.Now())
	markers.Load(merged)
	logging.Info().
		Int("markers", len(stored)).
		Int("projected_reports", len(merged)-len(stored)).
		Msg("map state loaded")

	sessions := mapstate.NewSessionManager()
	icons := icon.NewRenderer(nil)
	authSvc := auth.NewService(store, auth.Policy{
		AllowEmails: cfg.AdminEmails,
		AllowDomain: cfg.AdminDomain,
	})

	mapsHandler := handlers.NewMapsHandler(store, markers, sessions, icons, cfg.MapsAPIKey)
	newsHandler := handlers.NewNewsHandler(store)
	adminHandler := handlers.NewAdminHandler(store, authSvc.Policy())
	authHandler := handlers.NewAuthHandler(authSvc)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadsDir)

	admin := func(h http.HandlerFunc) http.Handler {
		return authSvc.Middleware(h)
	}

	mux := http.NewServeMux()

	// Public surface.
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/api/map-config", mapsHandler.HandleMapConfig)
	mux.HandleFunc("/api/markers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			mapsHandler.HandleGetMarkers(w, r)
		case http.MethodPost:
			admin(mapsHandler.HandleCreateMarker).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.Handle("/api/markers/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			mapsHandler.HandleUpdateMarker(w, r)
		case http.MethodDelete:
			mapsHandler.HandleDeleteMarker(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/markers/{id}/icon", mapsHandler.HandleMarkerIcon)
	mux.HandleFunc("/api/shapes", mapsHandler.HandleGetShapes)
	mux.HandleFunc("/api/news", newsHandler.HandleGetNews)
	mux.HandleFunc("/api/news/{id}", newsHandler.HandleGetNewsArticle)
	mux.HandleFunc("/api/auth/login", authHandler.HandleLogin)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	// Admin surface, behind the bearer middleware.
	mux.Handle("/api/reports", admin(mapsHandler.HandleSaveReport))
	mux.Handle("/api/drafts", admin(mapsHandler.HandleCreateDraft))
	mux.Handle("/api/drafts/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			mapsHandler.HandleGetDraft(w, r)
		case http.MethodPut:
			mapsHandler.HandleUpdateDraft(w, r)
		case http.MethodDelete:
			mapsHandler.HandleDeleteDraft(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/drafts/{id}/mode", admin(mapsHandler.HandleDraftMode))
	mux.Handle("/api/drafts/{id}/overlay", admin(mapsHandler.HandleDraftOverlay))

	mux.Handle("/api/admin/articles", admin(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			newsHandler.HandleListArticles(w, r)
		case http.MethodPost:
			newsHandler.HandleCreateArticle(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/admin/articles/stats", admin(newsHandler.HandleArticleStats))
	mux.Handle("/api/admin/articles/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			newsHandler.HandleUpdateArticle(w, r)
		case http.MethodDelete:
			newsHandler.HandleDeleteArticle(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/admin/articles/{id}/publish", admin(newsHandler.HandlePublishArticle))

	mux.Handle("/api/admin/content", admin(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			adminHandler.HandleListContent(w, r)
		case http.MethodPost:
			adminHandler.HandleCreateContent(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/admin/content/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			adminHandler.HandleUpdateContent(w, r)
		case http.MethodDelete:
			adminHandler.HandleDeleteContent(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.Handle("/api/admin/reports", admin(adminHandler.HandleListReports))
	mux.Handle("/api/admin/reports/{id}", admin(adminHandler.HandleDeleteReport))
	mux.Handle("/api/admin/reports/{id}/status", admin(adminHandler.HandleUpdateReportStatus))

	mux.Handle("/api/admin/users", admin(adminHandler.HandleListUsers))
	mux.Handle("/api/admin/users/{id}", admin(adminHandler.HandleDeleteUser))
	mux.Handle("/api/admin/users/{id}/active", admin(adminHandler.HandleSetUserActive))
	mux.Handle("/api/admin/stats", admin(adminHandler.HandleAdminStats))
	mux.Handle("/api/auth/register", admin(authHandler.HandleRegister))
	mux.Handle("/api/uploads", admin(uploadHandler.HandleUpload))

	if cfg.Domain != "" {
		serveWithDomain(cfg.Domain, mux)
		return
	}

	logging.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}

// serveWithDomain serves HTTPS on :443 with automatic Let's Encrypt
// certificates, plus an ACME challenge and redirect listener on :80.
func serveWithDomain(domain string, handler http.Handler) {
	certMgr := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
		Cache:  autocert.DirCache("certs"),
		HostPolicy: func(ctx context.Context, host string) error {
			if host == domain || host == "www."+domain {
				return nil
			}
			if net.ParseIP(host) != nil {
				return nil
			}
			return errors.New("acme/autocert: host not configured")
		},
	}

	go func() {
		mux80 := http.NewServeMux()
		mux80.Handle("/.well-known/acme-challenge/", certMgr.HTTPHandler(nil))
		mux80.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "https://"+domain+r.URL.RequestURI(), http.StatusMovedPermanently)
		})

		logging.Info().Msg("ACME challenge and redirect listener on :80")
		if err := (&http.Server{
			Addr:              ":80",
			Handler:           mux80,
			ReadHeaderTimeout: 10 * time.Second,
		}).ListenAndServe(); err != nil {
			logging.Error().Err(err).Msg("http listener stopped")
		}
	}()

	tlsCfg := certMgr.TLSConfig()
	tlsCfg.MinVersion = tls.VersionTLS12
	server := &http.Server{
		Addr:              ":443",
		Handler:           handler,
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info().Str("domain", domain).Msg("HTTPS server starting on :443")
	if err := server.ListenAndServeTLS("", ""); err != nil {
		logging.Fatal().Err(err).Msg("https server stopped")
	}
}
