// Package rest exposes the account and channel operations as a JSON REST
// API under /api/v1, routed with chi.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/logging"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
	"github.com/dmitrijs2005/vidtube/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// UserService is the account API the handlers depend on.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Logout(ctx context.Context, userID string) error
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*models.User, error)
}

// ChannelService is the read API the handlers depend on.
type ChannelService interface {
	ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]models.WatchedVideo, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address      string
	logger       logging.Logger
	users        UserService
	channels     ChannelService
	db           Pinger
	uploadDir    string
	corsOrigin   string
	cookieSecure bool
}

func NewServer(cfg *config.Config, l logging.Logger, us UserService, cs ChannelService, db Pinger) *Server {
	return &Server{
		address:      cfg.EndpointAddrHTTP,
		logger:       l.With("module", "rest_server"),
		users:        us,
		channels:     cs,
		db:           db,
		uploadDir:    cfg.UploadTempDir,
		corsOrigin:   cfg.CORSOrigin,
		cookieSecure: cfg.CookieSecure,
	}
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.healthz)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", s.handle(s.register))
		r.Post("/login", s.handle(s.login))
		r.Post("/refresh-token", s.handle(s.refreshToken))

		r.Group(func(r chi.Router) {
			r.Use(s.authGuard)

			r.Post("/logout", s.handle(s.logout))
			r.Post("/change-password", s.handle(s.changePassword))
			r.Get("/current-user", s.handle(s.currentUser))
			r.Patch("/update-account", s.handle(s.updateAccount))
			r.Patch("/avatar", s.handle(s.updateAvatar))
			r.Patch("/cover-image", s.handle(s.updateCoverImage))
			r.Get("/c/{username}", s.handle(s.channelProfile))
			r.Get("/history", s.handle(s.watchHistory))
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn(r.Context(), "database ping failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	OK(map[string]string{"status": "ok"}, "healthy").write(w)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.logger.Error(ctx, "REST server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
