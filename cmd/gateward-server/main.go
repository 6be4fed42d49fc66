// Package main is the entrypoint for the Gateward server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gateward/gateward/internal/api/middleware"
	"github.com/gateward/gateward/internal/auth"
	"github.com/gateward/gateward/internal/config"
	"github.com/gateward/gateward/internal/directory"
	"github.com/gateward/gateward/internal/httpclient"
	"github.com/gateward/gateward/internal/identity"
	"github.com/gateward/gateward/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("version", Version).Logger()
	if os.Getenv("ENV") != string(config.EnvProduction) {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logger.Info().
		Str("version", Version).
		Str("commit", Commit).
		Str("build_date", BuildDate).
		Msg("Starting Gateward server")

	// Load configuration
	cfg := config.LoadServerConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	m := metrics.New()

	// Shared HTTP client for both backends
	backendHTTP, err := httpclient.New(httpclient.Options{
		Timeout:     cfg.BackendTimeout,
		ProxyConfig: &cfg.Proxy,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create backend HTTP client")
		return 1
	}
	logger.Info().Str("proxy", httpclient.ProxyInfo(&cfg.Proxy)).Msg("Backend HTTP client ready")

	identityClient := identity.NewClient(cfg.IdentityBackendURL, backendHTTP, logger)
	directoryClient := directory.NewClient(cfg.DirectoryBackendURL, backendHTTP, logger)

	// Tenant name cache with periodic refresh
	cache := directory.NewCache(directoryClient, m, logger)
	refresher := directory.NewRefresher(cache, cfg.DirectoryRefreshInterval, cfg.BackendTimeout, logger)
	if err := refresher.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to start tenant directory refresher")
		return 1
	}
	defer refresher.Stop()

	engine := auth.NewEngine(identityClient, cache, m, logger)
	guard := auth.NewGuard(cache)

	sessionStore, err := auth.NewSessionStore(auth.DefaultSessionConfig(cfg.SessionSecret, cfg.SecureCookies, cfg.SessionMaxAge), logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create session store")
		return 1
	}

	loginLimiter, err := middleware.NewLoginRateLimiter(cfg.LoginRateLimit, cfg.LoginRatePeriod)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create login rate limiter")
		return 1
	}

	if cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Organization-scoped routes; every tier below builds on the one above.
	org := router.Group("/:org")
	org.Use(middleware.RequireOrganization(guard, logger))
	org.POST("/login", loginLimiter, loginHandler(engine, sessionStore, logger))
	org.POST("/logout", logoutHandler(sessionStore, logger))

	app := org.Group("")
	app.Use(middleware.RequireSameTenant(sessionStore, guard, logger))
	app.Use(middleware.RequireFreshCredentials(guard, logger))
	app.GET("/session", sessionHandler())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server failed")
			return 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return 1
	}

	return 0
}

// loginHandler authenticates form credentials and starts a session.
// Failures redirect back to the organization's login page with a
// generic error marker; a locked account gets its own marker since the
// identity was correctly resolved.
func loginHandler(engine *auth.Engine, sessions *auth.SessionStore, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "login_handler").Logger()

	return func(c *gin.Context) {
		orgName := c.Param(middleware.OrgParam)
		login := c.PostForm("login")
		password := c.PostForm("password")

		token, err := engine.Authenticate(c.Request.Context(), login, orgName, password)
		if err != nil {
			marker := "1"
			if errors.Is(err, auth.ErrAccountLocked) {
				marker = "locked"
			}
			c.Redirect(http.StatusSeeOther, "/"+orgName+"/login?error="+marker)
			return
		}

		principal := token.Principal()
		if err := sessions.SetPrincipal(c.Request, c.Writer, principal); err != nil {
			log.Error().Err(err).Msg("failed to persist session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
			return
		}

		// Continue to the originally requested page when one was saved.
		state := sessions.State(c.Request, c.Writer)
		target := "/" + orgName + "/"
		if saved, ok := state.SavedPath(); ok {
			target = saved
		}
		c.Redirect(http.StatusSeeOther, target)
	}
}

// logoutHandler clears the session and routes back to the tenant's
// login page. An unresolvable organization is a routing dead-end, never
// a guessed tenant.
func logoutHandler(sessions *auth.SessionStore, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "logout_handler").Logger()

	return func(c *gin.Context) {
		state := sessions.State(c.Request, c.Writer)
		orgName, err := auth.ResolveOrganization(state, sessions.Token(c.Request))

		if clearErr := sessions.Clear(c.Request, c.Writer); clearErr != nil {
			log.Warn().Err(clearErr).Msg("failed to clear session")
		}

		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/"+orgName+"/login")
	}
}

// sessionHandler reports the authenticated principal and capabilities.
func sessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.GetToken(c)
		principal := token.Principal()
		c.JSON(http.StatusOK, gin.H{
			"principal":    principal,
			"organization": token.Organization,
			"capabilities": token.Capabilities,
		})
	}
}
