package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/config"
	"github.com/wanshop/storefront/internal/metrics"
	"github.com/wanshop/storefront/internal/middleware"
	"github.com/wanshop/storefront/internal/module/admin"
	"github.com/wanshop/storefront/internal/module/catalog"
	"github.com/wanshop/storefront/internal/module/storefront"
	"github.com/wanshop/storefront/internal/route"
	"github.com/wanshop/storefront/web"
)

const defaultShutdownTimeout = 10 * time.Second

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine  *gin.Engine
	client  *apiclient.Client
	metrics *metrics.Manager
	logger  *logger.Logger
	cfg     *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Write and read timeouts stay unset: upload forwarding is bounded only by
// the client, and the backend upload call has no timeout of its own.
var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, metrics, the shared backend client, the page modules,
// middleware, template rendering, and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	var mm *metrics.Manager
	if cfg.Metrics.Enabled {
		mm = metrics.NewManager()
	}

	// One client for the whole process, injected into every module.
	clientOpts := []apiclient.Option{
		apiclient.WithLogger(log.Logger),
		apiclient.WithRequestIDFunc(middleware.RequestIDFromContext),
	}
	if mm != nil {
		clientOpts = append(clientOpts, apiclient.WithRecorder(mm))
	}
	if strings.TrimSpace(cfg.API.Origin) == "" {
		log.Warn("api.origin not configured, using default", slog.String("origin", apiclient.DefaultOrigin))
	}
	client := apiclient.New(cfg.API.Origin, clientOpts...)
	log.Info("backend client configured",
		slog.String("base_url", client.BaseURL()),
		slog.Duration("timeout", client.Config().Timeout),
	)

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	handlers := []gin.HandlerFunc{
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: false}),
		middleware.Logger(log.Logger),
	}
	if mm != nil {
		handlers = append(handlers, middleware.Metrics(mm))
	}
	engine.Use(handlers...)

	debug := cfg.Server.Mode == gin.DebugMode
	var webFS fs.FS = web.EmbeddedFS
	if debug {
		if webFS, err = resolveDebugWebFS(); err != nil {
			return nil, fmt.Errorf("resolve debug web fs: %w", err)
		}
	}

	renderer, err := NewTemplateRenderer(webFS, debug)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	staticFS, err := fs.Sub(webFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static fs: %w", err)
	}

	csrfSecret, generated, err := resolveCSRFSecret(cfg.Server.CSRFSecret, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}
	if generated {
		log.Warn("no csrf_secret configured, using random secret in non-release mode (will change on restart)")
	}

	deps := &RouteDeps{
		Modules: []Module{
			admin.NewModule(admin.NewPageHandler(client), admin.NewUploadHandler(client, log.Logger)),
			storefront.NewModule(storefront.NewPageHandler(client)),
			catalog.NewModule(catalog.NewHandler(catalog.NewService(client))),
		},
		Table:      route.Default(),
		Backend:    client,
		StaticFS:   staticFS,
		Debug:      debug,
		CSRFSecret: csrfSecret,
	}
	if mm != nil {
		deps.Navigations = mm
		deps.Metrics = mm.Handler()
		deps.MetricsPath = cfg.Metrics.Path
	}
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:  engine,
		client:  client,
		metrics: mm,
		logger:  log,
		cfg:     cfg,
	}, nil
}

// resolveCSRFSecret returns the trimmed configured secret, or a random one
// outside release mode when none (or a placeholder) is configured. generated
// reports whether the secret is random.
func resolveCSRFSecret(secret, mode string) (resolved string, generated bool, err error) {
	if !isPlaceholderCSRFSecret(secret) {
		return strings.TrimSpace(secret), false, nil
	}
	if mode == gin.ReleaseMode {
		return "", false, errors.New("csrf_secret must be a non-placeholder value in release mode")
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", false, fmt.Errorf("generate csrf secret: %w", err)
	}
	return hex.EncodeToString(b), true, nil
}

func isPlaceholderCSRFSecret(secret string) bool {
	switch strings.ToLower(strings.TrimSpace(secret)) {
	case "", "change-me-to-a-random-secret", "change-me-in-env":
		return true
	default:
		return false
	}
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// resolveDebugWebFS finds the on-disk web/ directory next to the sources or
// the executable so templates reload without a rebuild.
func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	if exePath, err := os.Executable(); err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

// Handler returns the configured HTTP handler.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run starts the HTTP server and blocks until a shutdown signal is received,
// then drains in-flight requests for up to server.timeout.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(a.cfg.Server.Timeout))
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}

func shutdownTimeout(raw string) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(raw)); err == nil && d > 0 {
		return d
	}
	return defaultShutdownTimeout
}
