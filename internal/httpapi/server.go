package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/services"
	"github.com/gin-gonic/gin"
)

// maxBodySize fits a 5 MiB attachment after base64 encoding.
const maxBodySize = 8 << 20

// Server is the HTTP front end. It owns a gin engine with every route
// registered at construction time.
type Server struct {
	address   string
	svc       *services.Services
	router    *gin.Engine
	log       logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewServer builds a Server listening on address. Tokens are signed with
// secretKey and expire after tokenTTL.
func NewServer(address string, svc *services.Services, secretKey string, tokenTTL time.Duration, log logging.Logger) *Server {
	s := &Server{
		address:   address,
		svc:       svc,
		router:    gin.New(),
		log:       log.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), s.requestLogger(), limitBody(maxBodySize))

	api := r.Group("/api")
	api.POST("/login", s.handleLogin)

	authed := api.Group("", s.authRequired())
	{
		authed.POST("/logout", s.handleLogout)
		authed.GET("/me", s.handleMe)
		authed.PUT("/profile", s.handleUpdateProfile)

		authed.GET("/letters", s.handleListLetters)
		authed.POST("/letters", s.handleCreateLetter)
		authed.GET("/letters/:id", s.handleGetLetter)
		authed.PUT("/letters/:id", s.handleUpdateLetter)
		authed.DELETE("/letters/:id", s.handleDeleteLetter)
		authed.POST("/letters/:id/summary", s.handleSummarize)
		authed.POST("/extract", s.handleExtract)
		authed.GET("/stats", s.handleStats)
		authed.GET("/export/csv", s.handleExportCSV)
		authed.GET("/settings/title", s.handleGetTitle)
	}

	admin := authed.Group("", adminOnly())
	{
		admin.GET("/export/backup", s.handleExportBackup)
		admin.POST("/backup/upload", s.handleUploadBackup)
		admin.POST("/restore", s.handleRestore)
		admin.GET("/storage", s.handleStorage)

		admin.GET("/users", s.handleListUsers)
		admin.POST("/users", s.handleAddUser)
		admin.PUT("/users/:id/password", s.handleResetPassword)
		admin.DELETE("/users/:id", s.handleDeleteUser)
		admin.PUT("/settings/title", s.handleSetTitle)
	}
}

// Handler returns the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.log.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.log.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
