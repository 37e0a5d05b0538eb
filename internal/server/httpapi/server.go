// Package httpapi exposes the account, listing and image services over HTTP
// and serves the listing pages with their location map.
package httpapi

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/logging"
	"github.com/dmitrijs2005/wanderlust/internal/server/maps"
	"github.com/dmitrijs2005/wanderlust/internal/server/models"
	"github.com/dmitrijs2005/wanderlust/internal/server/services"
	"github.com/dmitrijs2005/wanderlust/internal/server/web"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, *services.TokenPair, error)
	StartSession(ctx context.Context, user *models.User) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	Unlock(ctx context.Context, username string) error
}

type ListingService interface {
	Create(ctx context.Context, ownerID string, l *models.Listing) (*models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Listing, error)
	MapView(ctx context.Context, id string) (*maps.View, error)
	AttachImage(ctx context.Context, id, ownerID, key string) error
}

type ImageService interface {
	PresignUpload(ctx context.Context) (string, string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

const shutdownTimeout = 10 * time.Second

// Options carries the server's secrets and token settings.
type Options struct {
	SecretKey string
	// AccessTTL is the lifetime of the access token cookie set at login.
	AccessTTL time.Duration
	// AdminToken enables /api/admin when non-empty.
	AdminToken string
}

type Server struct {
	address    string
	users      UserService
	listings   ListingService
	images     ImageService
	logger     logging.Logger
	jwtSecret  []byte
	accessTTL  time.Duration
	adminToken []byte
	templates  *template.Template
	engine     *gin.Engine
}

// NewServer builds the router.
func NewServer(a string, l logging.Logger, us UserService, ls ListingService, is ImageService, opts Options) (*Server, error) {
	t, err := web.Templates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		address:    a,
		logger:     logging.ForModule(l, "http_server"),
		users:      us,
		listings:   ls,
		images:     is,
		jwtSecret:  []byte(opts.SecretKey),
		accessTTL:  opts.AccessTTL,
		adminToken: []byte(opts.AdminToken),
		templates:  t,
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.health)
	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/listings/:id", s.showListing)

	api := r.Group("/api")
	{
		u := api.Group("/users")
		u.POST("/register", s.register)
		u.POST("/login", s.login)
		u.POST("/refresh", s.refresh)
		u.POST("/logout", s.logout)
		u.GET("/me", s.requireAuth(), s.me)
		u.GET("/me/listings", s.requireAuth(), s.myListings)
		u.PUT("/password", s.requireAuth(), s.changePassword)

		l := api.Group("/listings")
		l.POST("", s.requireAuth(), s.createListing)
		l.GET("/:id", s.getListing)
		l.GET("/:id/map", s.getListingMap)
		l.PUT("/:id/image", s.requireAuth(), s.attachImage)

		api.POST("/images/presign", s.requireAuth(), s.presignImage)

		if len(s.adminToken) > 0 {
			a := api.Group("/admin", s.requireAdmin())
			a.DELETE("/lockouts/:username", s.unlockUser)
		}
	}

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
