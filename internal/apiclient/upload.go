package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/wanshop/storefront/internal/domain"
)

const (
	uploadFieldName = "files"
	// defaultFileName matches what browsers send for an unnamed blob.
	defaultFileName = "blob"
)

// File is one file of an upload.
type File struct {
	Name    string
	Content io.Reader
}

// NormalizeUploadPath guarantees the "/api" prefix. Paths already starting
// with "/api/" are returned unchanged; others get "/api" prepended, with a
// separating '/' when path lacks one.
//
// A bare "/api" does not match the "/api/" test and becomes "/api/api".
func NormalizeUploadPath(path string) string {
	if strings.HasPrefix(path, "/api/") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return apiPrefix + path
	}
	return apiPrefix + "/" + path
}

// NormalizeUploadURL returns origin + NormalizeUploadPath(path).
func NormalizeUploadURL(origin, path string) string {
	return origin + NormalizeUploadPath(path)
}

// BuildUploadPayload encodes files as multipart form data, one "files" part
// per file in the given order. It returns the body and its Content-Type,
// which carries the boundary. An empty files slice yields a valid empty form.
func BuildUploadPayload(files []File) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for i, f := range files {
		if f.Content == nil {
			return nil, "", fmt.Errorf("file %d (%q) has no content", i, f.Name)
		}
		name := f.Name
		if name == "" {
			name = defaultFileName
		}
		part, err := w.CreateFormFile(uploadFieldName, name)
		if err != nil {
			return nil, "", fmt.Errorf("create part for %q: %w", name, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy %q: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// Upload posts files to origin + NormalizeUploadPath(path). It bypasses
// BaseURL and the relative-path transport, so the only bound on its lifetime
// is ctx and whatever the upload transport enforces.
func (c *Client) Upload(ctx context.Context, path string, files []File) (*domain.UploadResult, error) {
	body, contentType, err := BuildUploadPayload(files)
	if err != nil {
		return nil, err
	}

	target := NormalizeUploadURL(c.cfg.Origin, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var out domain.UploadResult
	if err := c.send(c.upload, req, strings.TrimPrefix(NormalizeUploadPath(path), apiPrefix), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
