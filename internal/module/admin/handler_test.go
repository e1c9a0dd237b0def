package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type uploadCall struct {
	id    uint
	kind  apiclient.FabricImageKind
	names []string
	data  []string
}

type fakeBackend struct {
	fabrics    []domain.Fabric
	products   []domain.Product
	categories []domain.Category
	orders     []domain.Order
	err        error
	uploadErr  error
	saved      []string

	uploads  []uploadCall
	appended [][]string
}

func (f *fakeBackend) ListFabrics(context.Context) ([]domain.Fabric, error) {
	return append([]domain.Fabric(nil), f.fabrics...), f.err
}

func (f *fakeBackend) ListProducts(context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), f.products...), f.err
}

func (f *fakeBackend) ListCategories(context.Context) ([]domain.Category, error) {
	return f.categories, f.err
}

func (f *fakeBackend) ListOrders(context.Context) ([]domain.Order, error) {
	return append([]domain.Order(nil), f.orders...), f.err
}

func (f *fakeBackend) record(id uint, kind apiclient.FabricImageKind, files []apiclient.File) (*domain.UploadResult, error) {
	call := uploadCall{id: id, kind: kind}
	for _, file := range files {
		b, _ := io.ReadAll(file.Content)
		call.names = append(call.names, file.Name)
		call.data = append(call.data, string(b))
	}
	f.uploads = append(f.uploads, call)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &domain.UploadResult{Saved: f.saved}, nil
}

func (f *fakeBackend) UploadFabricImages(_ context.Context, id uint, kind apiclient.FabricImageKind, files []apiclient.File) (*domain.UploadResult, error) {
	return f.record(id, kind, files)
}

func (f *fakeBackend) AppendFabricImages(_ context.Context, _ uint, _ apiclient.FabricImageKind, urls []string) (*domain.AppendResult, error) {
	f.appended = append(f.appended, urls)
	return &domain.AppendResult{OK: true, Inserted: len(urls)}, nil
}

func (f *fakeBackend) UploadProductImages(_ context.Context, id uint, files []apiclient.File) (*domain.UploadResult, error) {
	return f.record(id, "", files)
}

func (f *fakeBackend) AppendProductImages(_ context.Context, _ uint, urls []string) (*domain.AppendResult, error) {
	f.appended = append(f.appended, urls)
	return &domain.AppendResult{OK: true, Inserted: len(urls) - 1, Skipped: 1}, nil
}

const testTemplates = `
{{define "admin/fabrics.html"}}{{range .Fabrics}}[{{.ID}} {{.Name}}]{{end}} pages={{.Pagination.TotalPages}} flash={{.Flash}}{{end}}
{{define "admin/products.html"}}{{range .Products}}[{{.Name}}/{{index $.CategoryNames .CategoryID}}]{{end}}{{end}}
{{define "admin/orders.html"}}{{range .Orders}}[{{.CustomerName}} {{.Total}}]{{end}}{{end}}
{{define "errors/400.html"}}400 {{.Message}}{{end}}
{{define "errors/404.html"}}404 {{.Message}}{{end}}
{{define "errors/500.html"}}500 {{.Message}}{{end}}
{{define "errors/502.html"}}502 {{.Message}}{{end}}
{{define "errors/504.html"}}504 {{.Message}}{{end}}
`

func newTestRouter(b *fakeBackend) *gin.Engine {
	r := gin.New()
	r.HTMLRender = render.HTMLProduction{Template: template.Must(template.New("").Parse(testTemplates))}

	m := NewModule(NewPageHandler(b), NewUploadHandler(b, nil))
	for view, h := range m.Views() {
		r.GET("/"+string(view), h)
	}
	m.RegisterRoutes(&r.RouterGroup)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleFabrics() []domain.Fabric {
	mk := func(id uint, name string, price float64, clearance bool) domain.Fabric {
		return domain.Fabric{ID: id, FabricInput: domain.FabricInput{Name: name, Price: price, OnClearance: clearance}}
	}
	return []domain.Fabric{
		mk(1, "Linen", 12, false),
		mk(2, "Wool", 30, true),
		mk(3, "Irish Linen", 18, true),
	}
}

func TestFabricsPage(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"default newest first", "", "[3 Irish Linen][2 Wool][1 Linen] pages=1"},
		{"search", "?q=linen&sort=id:asc", "[1 Linen][3 Irish Linen]"},
		{"clearance only", "?clearance=true&sort=price:desc", "[2 Wool][3 Irish Linen]"},
		{"paged", "?page=2&page_size=2", "[1 Linen] pages=2"},
		{"page past the end shows the last page", "?page=9223372036854775807&page_size=2", "[1 Linen] pages=2"},
		{"flash", "?uploaded=3", "flash=3 files uploaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeBackend{fabrics: sampleFabrics()})
			w := do(r, httptest.NewRequest(http.MethodGet, "/admin/fabrics"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d body=%q", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body = %q, want containing %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestProductsPage_CategoryNames(t *testing.T) {
	b := &fakeBackend{
		products: []domain.Product{
			{ID: 1, ProductInput: domain.ProductInput{Name: "Tote", CategoryID: 7}},
			{ID: 2, ProductInput: domain.ProductInput{Name: "Apron", CategoryID: 8}},
		},
		categories: []domain.Category{{ID: 7, Name: "Bags"}, {ID: 8, Name: "Kitchen"}},
	}
	w := do(newTestRouter(b), httptest.NewRequest(http.MethodGet, "/admin/products?category=7", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != "[Tote/Bags]" {
		t.Errorf("body = %q", got)
	}
}

func TestOrdersPage(t *testing.T) {
	b := &fakeBackend{orders: []domain.Order{
		{ID: 1, OrderInput: domain.OrderInput{CustomerName: "Ada", OrderStatus: "open"}, Items: []domain.OrderItem{{FinalPrice: 10}, {FinalPrice: 5.5}}},
		{ID: 2, OrderInput: domain.OrderInput{CustomerName: "Lin", OrderStatus: "done"}},
	}}
	w := do(newTestRouter(b), httptest.NewRequest(http.MethodGet, "/admin/orders?status=open", nil))

	if got := w.Body.String(); got != "[Ada 15.5]" {
		t.Errorf("body = %q", got)
	}
}

func TestListPages_HugePageIsLastPage(t *testing.T) {
	b := &fakeBackend{
		fabrics:    sampleFabrics(),
		products:   []domain.Product{{ID: 1, ProductInput: domain.ProductInput{Name: "Tote", CategoryID: 7}}},
		categories: []domain.Category{{ID: 7, Name: "Bags"}},
		orders:     []domain.Order{{ID: 1, OrderInput: domain.OrderInput{CustomerName: "Ada"}}},
	}
	r := newTestRouter(b)

	for _, path := range []string{"/admin/fabrics", "/admin/products", "/admin/orders"} {
		for _, page := range []string{"922337203685477581", "9223372036854775807"} {
			t.Run(path+" page="+page, func(t *testing.T) {
				w := do(r, httptest.NewRequest(http.MethodGet, path+"?page="+page, nil))
				if w.Code != http.StatusOK {
					t.Fatalf("status = %d body=%q", w.Code, w.Body.String())
				}
				if w.Body.Len() == 0 {
					t.Error("expected the last page to render rows")
				}
			})
		}
	}
}

func TestListPages_BackendErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"timeout", &apiclient.Error{Kind: apiclient.KindTimeout}, http.StatusGatewayTimeout},
		{"network", &apiclient.Error{Kind: apiclient.KindNetwork}, http.StatusBadGateway},
		{"backend 500", &apiclient.Error{Kind: apiclient.KindHTTPStatus, StatusCode: 500}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		for _, path := range []string{"/admin/fabrics", "/admin/products", "/admin/orders"} {
			t.Run(tt.name+" "+path, func(t *testing.T) {
				w := do(newTestRouter(&fakeBackend{err: tt.err}), httptest.NewRequest(http.MethodGet, path, nil))
				if w.Code != tt.wantStatus {
					t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
				}
			})
		}
	}
}

type part struct {
	name, content string
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files []part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte(f.content))
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadFabric_ForwardsInOrderAndAttaches(t *testing.T) {
	b := &fakeBackend{saved: []string{"/static/uploads/a.jpg", "/static/uploads/b.jpg"}}
	req := multipartRequest(t, "/admin/fabrics/9/upload", map[string]string{"kind": "work"},
		[]part{{"a.jpg", "AAA"}, {"b.jpg", "BBB"}})
	req.Header.Set("Accept", "application/json")

	w := do(newTestRouter(b), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	if len(b.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(b.uploads))
	}
	call := b.uploads[0]
	if call.id != 9 || call.kind != apiclient.FabricWork {
		t.Errorf("call = %+v", call)
	}
	if strings.Join(call.names, ",") != "a.jpg,b.jpg" || strings.Join(call.data, ",") != "AAA,BBB" {
		t.Errorf("files forwarded out of order: %v %v", call.names, call.data)
	}
	if len(b.appended) != 1 || len(b.appended[0]) != 2 {
		t.Errorf("appended = %v", b.appended)
	}

	var resp struct {
		Data UploadSummary `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Inserted != 2 || len(resp.Data.Saved) != 2 {
		t.Errorf("summary = %+v", resp.Data)
	}
}

func TestUploadFabric_EmptyFileListStillForwarded(t *testing.T) {
	b := &fakeBackend{}
	req := multipartRequest(t, "/admin/fabrics/1/upload", map[string]string{"kind": "image"}, nil)
	req.Header.Set("Accept", "application/json")

	w := do(newTestRouter(b), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if len(b.uploads) != 1 || len(b.uploads[0].names) != 0 {
		t.Errorf("uploads = %+v, want one empty upload", b.uploads)
	}
	if len(b.appended) != 0 {
		t.Error("nothing saved, nothing should be appended")
	}
	if !strings.Contains(w.Body.String(), `"saved":[]`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadFabric_MissingKindDefaultsToImage(t *testing.T) {
	b := &fakeBackend{saved: []string{"/static/uploads/a.jpg"}}
	req := multipartRequest(t, "/admin/fabrics/2/upload", nil, []part{{"a.jpg", "AAA"}})
	req.Header.Set("Accept", "application/json")

	w := do(newTestRouter(b), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if len(b.uploads) != 1 || b.uploads[0].kind != apiclient.FabricImage {
		t.Fatalf("uploads = %+v, want one image upload", b.uploads)
	}
}

func TestUploadFabric_BrowserRedirect(t *testing.T) {
	b := &fakeBackend{saved: []string{"/static/x.jpg"}}
	req := multipartRequest(t, "/admin/fabrics/4/upload", map[string]string{"kind": "image"}, []part{{"x.jpg", "x"}})
	req.Header.Set("Accept", "text/html")

	w := do(newTestRouter(b), req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/fabrics?uploaded=1" {
		t.Errorf("Location = %q", loc)
	}
}

func TestUploadFabric_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		wantStatus int
		wantBody   string
	}{
		{
			name: "bad id",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/admin/fabrics/abc/upload", map[string]string{"kind": "image"}, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid id",
		},
		{
			name: "bad kind",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "/admin/fabrics/1/upload", map[string]string{"kind": "video"}, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"kind":"oneof=image work"`,
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/admin/fabrics/1/upload", strings.NewReader("kind=image"))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "multipart/form-data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{}
			req := tt.req(t)
			req.Header.Set("Accept", "application/json")

			w := do(newTestRouter(b), req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want containing %s", w.Body.String(), tt.wantBody)
			}
			if len(b.uploads) != 0 {
				t.Error("rejected upload must not reach the backend")
			}
		})
	}
}

func TestUploadProduct_BackendTimeout(t *testing.T) {
	b := &fakeBackend{uploadErr: &apiclient.Error{Kind: apiclient.KindTimeout}}
	req := multipartRequest(t, "/admin/products/3/upload", nil, []part{{"p.png", "png"}})
	req.Header.Set("Accept", "text/html")

	w := do(newTestRouter(b), req)
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "504") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestUploadProduct_Attaches(t *testing.T) {
	b := &fakeBackend{saved: []string{"/static/p1.png", "/static/p2.png"}}
	req := multipartRequest(t, "/admin/products/3/upload", nil, []part{{"p1.png", "1"}, {"p2.png", "2"}})

	w := do(newTestRouter(b), req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"inserted":1`) || !strings.Contains(w.Body.String(), `"skipped":1`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if b.uploads[0].id != 3 {
		t.Errorf("product id = %d", b.uploads[0].id)
	}
}

func TestNewModule_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewModule(nil, nil)
}
