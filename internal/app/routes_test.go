package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/pkg"
	"github.com/wanshop/storefront/internal/route"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- test helpers ---

// routeTestFS returns a minimal template filesystem for route handler tests.
// Every page prints its view and scroll so dispatch can be asserted.
func routeTestFS() fstest.MapFS {
	page := func(name string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(
			`{{ template "base" . }}{{ define "content" }}` + name +
				`|{{ .Nav.View }}|{{ .Scroll.X }},{{ .Scroll.Y }}|{{ .CSRFToken }}{{ end }}`)}
	}
	return fstest.MapFS{
		"templates/layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{ define "base" }}{{ block "content" . }}{{ end }}{{ end }}`),
		},
		"templates/partials/nav.html": &fstest.MapFile{
			Data: []byte(`{{ define "nav" }}{{ end }}`),
		},
		"templates/page.html": page("page"),
		"templates/errors/404.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}{{ define "content" }}404:{{ .Message }}{{ end }}`),
		},
		"templates/errors/500.html": &fstest.MapFile{
			Data: []byte(`{{ template "base" . }}{{ define "content" }}500{{ end }}`),
		},
	}
}

// setupTestRouter creates a gin.Engine with the route-test template renderer.
func setupTestRouter() *gin.Engine {
	r := gin.New()
	renderer, err := NewTemplateRenderer(routeTestFS(), true)
	if err != nil {
		panic("setup renderer: " + err.Error())
	}
	r.HTMLRender = renderer
	return r
}

// fakeModule binds views to a handler rendering page.html.
type fakeModule struct {
	views  []route.View
	called bool
	extra  func(pages *gin.RouterGroup)
}

func (m *fakeModule) Views() map[route.View]gin.HandlerFunc {
	out := make(map[route.View]gin.HandlerFunc, len(m.views))
	for _, v := range m.views {
		out[v] = func(c *gin.Context) {
			pkg.Page(c, http.StatusOK, "page.html", gin.H{})
		}
	}
	return out
}

func (m *fakeModule) RegisterRoutes(pages *gin.RouterGroup) {
	m.called = true
	if m.extra != nil {
		m.extra(pages)
	}
}

func allViewsModule() *fakeModule {
	return &fakeModule{views: []route.View{
		route.ViewAdminFabrics,
		route.ViewAdminProducts,
		route.ViewAdminOrders,
		route.ViewFabricsClearance,
		route.ViewFabricsShow,
		route.ViewProductsShow,
	}}
}

type fakeHealth struct {
	err   error
	block bool
}

func (f fakeHealth) Health(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

type fakeNavigations struct {
	mu   sync.Mutex
	navs []route.Navigation
}

func (f *fakeNavigations) ObserveNavigation(nav route.Navigation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navs = append(f.navs, nav)
}

func testDeps(modules ...Module) *RouteDeps {
	if len(modules) == 0 {
		modules = []Module{allViewsModule()}
	}
	return &RouteDeps{
		Modules:    modules,
		Table:      route.Default(),
		Backend:    fakeHealth{},
		CSRFSecret: "test-secret-test-secret-test-secret",
	}
}

func serveRoute(r http.Handler, method, path, accept string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	r.ServeHTTP(w, req)
	return w
}

// --- Route table dispatch ---

func TestRegisterRoutes_DispatchesTableViews(t *testing.T) {
	r := setupTestRouter()
	if err := RegisterRoutes(r, testDeps()); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	tests := []struct {
		path string
		view route.View
	}{
		{"/admin/fabrics", route.ViewAdminFabrics},
		{"/admin/products", route.ViewAdminProducts},
		{"/admin/orders", route.ViewAdminOrders},
		{"/fabrics/clearance", route.ViewFabricsClearance},
		{"/fabrics/show", route.ViewFabricsShow},
		{"/products/show", route.ViewProductsShow},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serveRoute(r, http.MethodGet, tt.path, "text/html")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
			}
			want := "page|" + string(tt.view) + "|0,0|"
			if !strings.HasPrefix(w.Body.String(), want) {
				t.Fatalf("body = %q, want prefix %q", w.Body.String(), want)
			}
		})
	}
}

func TestRegisterRoutes_RootRedirects(t *testing.T) {
	r := setupTestRouter()
	navs := &fakeNavigations{}
	deps := testDeps()
	deps.Navigations = navs
	if err := RegisterRoutes(r, deps); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	w := serveRoute(r, http.MethodGet, "/", "text/html")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/fabrics" {
		t.Fatalf("Location = %q, want /admin/fabrics", loc)
	}
	if strings.Contains(w.Body.String(), "page|") {
		t.Fatal("redirect must not render a view")
	}

	navs.mu.Lock()
	defer navs.mu.Unlock()
	if len(navs.navs) != 1 {
		t.Fatalf("navigations = %d, want 1", len(navs.navs))
	}
	nav := navs.navs[0]
	if !nav.Redirected || nav.Requested != "/" || nav.Path != "/admin/fabrics" {
		t.Fatalf("navigation = %+v", nav)
	}
}

func TestRegisterRoutes_ScrollResetOnEveryNavigation(t *testing.T) {
	r := setupTestRouter()
	navs := &fakeNavigations{}
	deps := testDeps()
	deps.Navigations = navs
	if err := RegisterRoutes(r, deps); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	// Forward, back, and a repeat visit all reset to the top.
	for _, path := range []string{"/admin/fabrics", "/admin/orders", "/admin/fabrics", "/admin/fabrics"} {
		w := serveRoute(r, http.MethodGet, path, "text/html")
		if !strings.Contains(w.Body.String(), "|0,0|") {
			t.Fatalf("GET %s body = %q, want scroll 0,0", path, w.Body.String())
		}
	}

	navs.mu.Lock()
	defer navs.mu.Unlock()
	if len(navs.navs) != 4 {
		t.Fatalf("navigations = %d, want 4", len(navs.navs))
	}
	for _, nav := range navs.navs {
		if nav.Scroll != route.ScrollTop {
			t.Fatalf("scroll = %+v, want top", nav.Scroll)
		}
	}
}

func TestRegisterRoutes_ExactMatchOnly(t *testing.T) {
	r := setupTestRouter()
	if err := RegisterRoutes(r, testDeps()); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	for _, path := range []string{"/admin/fabrics/", "/admin", "/fabrics", "/Admin/Fabrics", "/products/show/extra"} {
		t.Run(path, func(t *testing.T) {
			w := serveRoute(r, http.MethodGet, path, "text/html")
			if w.Code != http.StatusNotFound {
				t.Fatalf("GET %s status = %d, want 404", path, w.Code)
			}
			if !strings.HasPrefix(w.Body.String(), "404:") {
				t.Fatalf("body = %q, want the 404 page", w.Body.String())
			}
		})
	}
}

func TestRegisterRoutes_MissingViewBinding(t *testing.T) {
	r := setupTestRouter()
	partial := &fakeModule{views: []route.View{route.ViewAdminFabrics}}

	err := RegisterRoutes(r, testDeps(partial))
	if err == nil || !strings.Contains(err.Error(), "no handler bound to view") {
		t.Fatalf("RegisterRoutes() error = %v, want missing view error", err)
	}
}

func TestRegisterRoutes_DuplicateViewBinding(t *testing.T) {
	r := setupTestRouter()
	dup := &fakeModule{views: []route.View{route.ViewAdminFabrics}}

	err := RegisterRoutes(r, testDeps(allViewsModule(), dup))
	if err == nil || !strings.Contains(err.Error(), "more than one module") {
		t.Fatalf("RegisterRoutes() error = %v, want duplicate view error", err)
	}
}

func TestRegisterRoutes_ModuleExtraRoutesAreCSRFProtected(t *testing.T) {
	r := setupTestRouter()
	m := allViewsModule()
	m.extra = func(pages *gin.RouterGroup) {
		pages.POST("/admin/fabrics/:id/upload", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}
	if err := RegisterRoutes(r, testDeps(m)); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}
	if !m.called {
		t.Fatal("module RegisterRoutes was not called")
	}

	w := serveRoute(r, http.MethodPost, "/admin/fabrics/1/upload", "application/json")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

// --- Validation ---

func TestRegisterRoutes_NilRouter(t *testing.T) {
	err := RegisterRoutes(nil, &RouteDeps{})
	if err == nil || !strings.Contains(err.Error(), "router is nil") {
		t.Fatalf("expected 'router is nil' error, got %v", err)
	}
}

func TestRegisterRoutes_NilDeps(t *testing.T) {
	err := RegisterRoutes(gin.New(), nil)
	if err == nil || !strings.Contains(err.Error(), "dependencies are nil") {
		t.Fatalf("expected nil deps error, got %v", err)
	}
}

func TestRegisterRoutes_NilTable(t *testing.T) {
	deps := testDeps()
	deps.Table = nil
	err := RegisterRoutes(gin.New(), deps)
	if err == nil || !strings.Contains(err.Error(), "route table is nil") {
		t.Fatalf("expected nil table error, got %v", err)
	}
}

func TestRegisterRoutes_NoModules(t *testing.T) {
	deps := testDeps()
	deps.Modules = nil
	err := RegisterRoutes(gin.New(), deps)
	if err == nil || !strings.Contains(err.Error(), "at least one module") {
		t.Fatalf("expected no modules error, got %v", err)
	}
}

func TestRegisterRoutes_EmptyCSRF(t *testing.T) {
	deps := testDeps()
	deps.CSRFSecret = "  "
	err := RegisterRoutes(gin.New(), deps)
	if err == nil || !strings.Contains(err.Error(), "csrf secret") {
		t.Fatalf("expected csrf error, got %v", err)
	}
}

func TestRegisterRoutes_NilModuleEntry(t *testing.T) {
	deps := testDeps(allViewsModule(), nil)
	err := RegisterRoutes(gin.New(), deps)
	if err == nil || !strings.Contains(err.Error(), "index 1 is nil") {
		t.Fatalf("expected nil module error, got %v", err)
	}
}

func TestRegisterRoutes_InvalidMetricsPath(t *testing.T) {
	deps := testDeps()
	deps.Metrics = http.NotFoundHandler()
	deps.MetricsPath = "metrics"
	err := RegisterRoutes(setupTestRouter(), deps)
	if err == nil || !strings.Contains(err.Error(), "invalid metrics path") {
		t.Fatalf("expected metrics path error, got %v", err)
	}
}

func TestRegisterRoutes_MetricsHandler(t *testing.T) {
	r := setupTestRouter()
	deps := testDeps()
	deps.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics-ok"))
	})
	deps.MetricsPath = "/metrics"
	if err := RegisterRoutes(r, deps); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	w := serveRoute(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || w.Body.String() != "metrics-ok" {
		t.Fatalf("GET /metrics = %d %q", w.Code, w.Body.String())
	}
}

// --- Health check ---

func decodeHealth(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return body.Status, body.Components["backend"]
}

func TestHealthHandler_OK(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(fakeHealth{}))

	w := serveRoute(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	status, backend := decodeHealth(t, w)
	if status != "ok" || backend != "ok" {
		t.Fatalf("status = %q, backend = %q", status, backend)
	}
}

func TestHealthHandler_BackendDown(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(fakeHealth{err: errors.New("connection refused")}))

	w := serveRoute(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	status, backend := decodeHealth(t, w)
	if status != "degraded" || backend != "error" {
		t.Fatalf("status = %q, backend = %q", status, backend)
	}
}

func TestHealthHandler_Unconfigured(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(nil))

	w := serveRoute(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if _, backend := decodeHealth(t, w); backend != "unconfigured" {
		t.Fatalf("backend = %q, want unconfigured", backend)
	}
}

func TestHealthHandler_UsesRequestContextTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/health", healthHandler(fakeHealth{block: true}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	start := time.Now()
	r.ServeHTTP(w, req)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("health check took %v, want it bounded by the request context", elapsed)
	}
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

// --- Not found ---

func TestNoRouteHandler_JSON(t *testing.T) {
	r := setupTestRouter()
	r.NoRoute(noRouteHandler())

	w := serveRoute(r, http.MethodGet, "/missing", "application/json")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["message"] != "page not found" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestNoRouteHandler_HTML(t *testing.T) {
	r := setupTestRouter()
	r.NoRoute(noRouteHandler())

	for _, accept := range []string{"text/html", "*/*", ""} {
		w := serveRoute(r, http.MethodGet, "/missing", accept)
		if w.Code != http.StatusNotFound {
			t.Fatalf("Accept %q: expected 404, got %d", accept, w.Code)
		}
		if body := w.Body.String(); body != "404:page not found" {
			t.Fatalf("Accept %q: body = %q", accept, body)
		}
	}
}

// --- Static files ---

func TestRegisterStaticRoutes_CacheHeader(t *testing.T) {
	memFS := fstest.MapFS{
		"app.css": &fstest.MapFile{Data: []byte("body{}")},
	}

	tests := []struct {
		name  string
		debug bool
		want  string
	}{
		{"release caches", false, "public, max-age=86400"},
		{"debug does not cache", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			registerStaticRoutes(r, memFS, tt.debug)

			w := serveRoute(r, http.MethodGet, "/static/app.css", "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if cc := w.Header().Get("Cache-Control"); cc != tt.want {
				t.Fatalf("Cache-Control = %q, want %q", cc, tt.want)
			}
			if w.Body.String() != "body{}" {
				t.Fatalf("body = %q", w.Body.String())
			}
		})
	}
}
