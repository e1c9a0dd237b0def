package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanshop/storefront/internal/apiclient"
	"github.com/wanshop/storefront/internal/domain"
	"github.com/wanshop/storefront/internal/middleware"
	"github.com/wanshop/storefront/internal/pkg"
)

// uploadField is the multipart field holding the files, both on the admin
// form and on the request forwarded to the backend.
const uploadField = "files"

// UploadHandler forwards admin image uploads to the backend.
type UploadHandler struct {
	backend Backend
	logger  *slog.Logger
}

// NewUploadHandler creates an UploadHandler. A nil logger uses slog.Default.
func NewUploadHandler(b Backend, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{backend: b, logger: logger}
}

// UploadFabric stores the posted files as fabric images or works and
// attaches the saved URLs to the fabric.
// POST /admin/fabrics/:id/upload
func (h *UploadHandler) UploadFabric(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Fail(c, err)
		return
	}

	var form FabricUploadForm
	if err := c.ShouldBind(&form); err != nil {
		pkg.InvalidForm(c, err, &form)
		return
	}
	kind := apiclient.FabricImageKind(form.Kind)
	if kind == "" {
		kind = apiclient.FabricImage
	}

	files, closeFiles, err := openUploads(c)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	defer closeFiles()

	ctx := c.Request.Context()
	uploaded, err := h.backend.UploadFabricImages(ctx, id, kind, files)
	if err != nil {
		pkg.Fail(c, err)
		return
	}

	summary := UploadSummary{Saved: uploaded.Saved}
	if len(uploaded.Saved) > 0 {
		appended, err := h.backend.AppendFabricImages(ctx, id, kind, uploaded.Saved)
		if err != nil {
			pkg.Fail(c, err)
			return
		}
		summary.Inserted, summary.Skipped = appended.Inserted, appended.Skipped
	}

	h.logger.InfoContext(ctx, "fabric images uploaded",
		slog.Uint64("fabric_id", uint64(id)),
		slog.String("kind", string(kind)),
		slog.Int("files", len(files)),
		slog.Int("inserted", summary.Inserted),
	)
	h.respond(c, "/admin/fabrics", summary)
}

// UploadProduct stores the posted files as product images and attaches the
// saved URLs to the product.
// POST /admin/products/:id/upload
func (h *UploadHandler) UploadProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		pkg.Fail(c, err)
		return
	}

	files, closeFiles, err := openUploads(c)
	if err != nil {
		pkg.Fail(c, err)
		return
	}
	defer closeFiles()

	ctx := c.Request.Context()
	uploaded, err := h.backend.UploadProductImages(ctx, id, files)
	if err != nil {
		pkg.Fail(c, err)
		return
	}

	summary := UploadSummary{Saved: uploaded.Saved}
	if len(uploaded.Saved) > 0 {
		appended, err := h.backend.AppendProductImages(ctx, id, uploaded.Saved)
		if err != nil {
			pkg.Fail(c, err)
			return
		}
		summary.Inserted, summary.Skipped = appended.Inserted, appended.Skipped
	}

	h.logger.InfoContext(ctx, "product images uploaded",
		slog.Uint64("product_id", uint64(id)),
		slog.Int("files", len(files)),
		slog.Int("inserted", summary.Inserted),
	)
	h.respond(c, "/admin/products", summary)
}

// respond sends browsers back to the list page and returns the summary to
// script clients.
func (h *UploadHandler) respond(c *gin.Context, listPath string, summary UploadSummary) {
	if summary.Saved == nil {
		summary.Saved = []string{}
	}
	if middleware.AcceptsHTML(c) {
		c.Redirect(http.StatusSeeOther, listPath+"?uploaded="+strconv.Itoa(len(summary.Saved)))
		return
	}
	pkg.Success(c, summary)
}

// openUploads opens every file posted under "files", in form order. A form
// without files yields an empty list; the backend still receives the request.
func openUploads(c *gin.Context) ([]apiclient.File, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, domain.NewAppError(domain.CodeValidation, "upload must be multipart/form-data", err)
		}
		return nil, nil, domain.NewAppError(domain.CodeValidation, "malformed upload", err)
	}

	headers := form.File[uploadField]
	files := make([]apiclient.File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		files = append(files, apiclient.File{Name: fh.Filename, Content: f})
	}
	return files, closeAll, nil
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewAppError(domain.CodeValidation, "invalid id", err)
	}
	return uint(id), nil
}
