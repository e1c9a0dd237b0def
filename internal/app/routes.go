package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/domain"
	"github.com/wanshop/storefront/internal/middleware"
	"github.com/wanshop/storefront/internal/pkg"
	"github.com/wanshop/storefront/internal/route"
)

const healthTimeout = 2 * time.Second

// HealthChecker probes the catalog backend.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NavigationRecorder observes every page navigation, redirects included.
type NavigationRecorder interface {
	ObserveNavigation(nav route.Navigation)
}

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules     []Module
	Table       *route.Table
	Backend     HealthChecker
	Navigations NavigationRecorder
	// Metrics, when set, is served on MetricsPath.
	Metrics     http.Handler
	MetricsPath string
	StaticFS    fs.FS
	Debug       bool
	CSRFSecret  string
}

// RegisterRoutes registers all application routes on the given gin.Engine.
//
// Each route-table path becomes an exact GET route: the redirect entry
// answers 302 to its target, view entries record the navigation in the
// context and run the handler their module bound to the view. Any path the
// table does not know ends in the not-found handler.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if deps.Table == nil {
		return errors.New("route table is nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if strings.TrimSpace(deps.CSRFSecret) == "" {
		return errors.New("csrf secret is required")
	}

	views, err := collectViews(deps.Modules)
	if err != nil {
		return err
	}

	// Table matching is exact: "/admin/fabrics/" is not "/admin/fabrics".
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	if deps.StaticFS != nil {
		registerStaticRoutes(r, deps.StaticFS, deps.Debug)
	}

	r.GET("/health", healthHandler(deps.Backend))

	if deps.Metrics != nil {
		if !strings.HasPrefix(deps.MetricsPath, "/") {
			return fmt.Errorf("invalid metrics path %q", deps.MetricsPath)
		}
		r.GET(deps.MetricsPath, gin.WrapH(deps.Metrics))
	}

	pages := r.Group("/")
	pages.Use(middleware.CSRF(deps.CSRFSecret))

	for _, entry := range deps.Table.Entries() {
		if entry.IsDefaultRedirect() {
			pages.GET(entry.Path, redirectHandler(deps.Table, deps.Navigations))
			continue
		}
		handler, ok := views[entry.View]
		if !ok {
			return fmt.Errorf("no handler bound to view %q (path %s)", entry.View, entry.Path)
		}
		pages.GET(entry.Path, navigationHandler(deps.Table, deps.Navigations), handler)
	}

	for _, m := range deps.Modules {
		m.RegisterRoutes(pages)
	}

	r.NoRoute(noRouteHandler())
	return nil
}

func collectViews(modules []Module) (map[route.View]gin.HandlerFunc, error) {
	views := make(map[route.View]gin.HandlerFunc)
	for i, m := range modules {
		if m == nil {
			return nil, fmt.Errorf("module at index %d is nil", i)
		}
		for view, h := range m.Views() {
			if h == nil {
				return nil, fmt.Errorf("module at index %d binds a nil handler to view %q", i, view)
			}
			if _, dup := views[view]; dup {
				return nil, fmt.Errorf("view %q is bound by more than one module", view)
			}
			views[view] = h
		}
	}
	return views, nil
}

// redirectHandler sends "/" to the default view. No page is rendered.
func redirectHandler(table *route.Table, rec NavigationRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		nav, err := table.Navigate(c.FullPath())
		if err != nil {
			renderError(c, domain.NewAppError(domain.CodeNotFound, "page not found", err))
			return
		}
		if rec != nil {
			rec.ObserveNavigation(nav)
		}
		c.Redirect(http.StatusFound, nav.Path)
	}
}

// navigationHandler resolves the matched table path and stores the
// navigation, scroll reset included, for the page renderer.
func navigationHandler(table *route.Table, rec NavigationRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		nav, err := table.Navigate(c.FullPath())
		if err != nil {
			c.Abort()
			renderError(c, domain.NewAppError(domain.CodeNotFound, "page not found", err))
			return
		}
		c.Set(pkg.NavigationKey, nav)
		if rec != nil {
			rec.ObserveNavigation(nav)
		}
		c.Next()
	}
}

// healthHandler reports whether the catalog backend answers its health probe.
func healthHandler(backend HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		backendStatus := "ok"
		status := "ok"
		code := http.StatusOK

		if backend == nil {
			backendStatus, status, code = "unconfigured", "degraded", http.StatusServiceUnavailable
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := backend.Health(ctx); err != nil {
				_ = c.Error(err)
				backendStatus, status, code = "error", "degraded", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"backend": backendStatus,
			},
		})
	}
}

// noRouteHandler is the explicit not-found branch for paths outside the
// route table and the extra routes.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := fmt.Errorf("%w: %s", route.ErrNotFound, c.Request.URL.Path)
		renderError(c, domain.NewAppError(domain.CodeNotFound, "page not found", err))
	}
}

// registerStaticRoutes serves fsys (the web/static tree) under /static.
// Outside debug mode responses carry a one-day Cache-Control.
func registerStaticRoutes(r *gin.Engine, fsys fs.FS, debug bool) {
	fileServer := http.StripPrefix("/static", http.FileServer(http.FS(fsys)))
	r.GET("/static/*filepath", func(c *gin.Context) {
		if !debug {
			c.Header("Cache-Control", "public, max-age=86400")
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})
}
