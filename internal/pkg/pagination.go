package pkg

import (
	"cmp"
	"context"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/pagination"

	"github.com/wanshop/storefront/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "id:desc"
	pagesInRange    = 5
)

// reservedParams lists query parameter names used for pagination/sorting, not for filtering.
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"sort":      true,
}

var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Compare orders two list items by one field.
type Compare[T any] func(a, b T) int

// Match reports whether an item satisfies a filter value.
type Match[T any] func(item T, value string) bool

// ParsePageRequest extracts pagination, sorting, and filtering parameters from query params.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     c.DefaultQuery("sort", defaultSort),
		Filter:   filter,
	}
}

// Sort orders items in place by req.Sort ("field:asc" or "field:desc").
// Unknown fields, malformed values and bad directions leave items untouched.
func Sort[T any](items []T, req domain.PageRequest, allowed map[string]Compare[T]) {
	field, direction, ok := strings.Cut(req.Sort, ":")
	if !ok {
		return
	}
	field = strings.TrimSpace(field)
	direction = strings.ToLower(strings.TrimSpace(direction))
	if direction != "asc" && direction != "desc" {
		return
	}
	if !validFieldName.MatchString(field) {
		return
	}
	compare, ok := allowed[field]
	if !ok {
		return
	}

	slices.SortStableFunc(items, func(a, b T) int {
		if direction == "desc" {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// Filter returns the items matching every allowed filter in req. Filter keys
// without a registered matcher are ignored.
func Filter[T any](items []T, req domain.PageRequest, allowed map[string]Match[T]) []T {
	var active []func(T) bool
	for key, value := range req.Filter {
		if !validFieldName.MatchString(key) {
			continue
		}
		match, ok := allowed[key]
		if !ok {
			continue
		}
		active = append(active, func(item T) bool { return match(item, value) })
	}
	if len(active) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, m := range active {
			if !m(item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// Paginate returns one page of items. Pages past the end are capped to the
// last page by the paginator.
func Paginate[T any](ctx context.Context, items []T, req domain.PageRequest) (*pagination.Pagination[T], error) {
	total := len(items)
	p := pagination.NewPaginator(
		pagination.WithItemsPerPage[T](req.PageSize),
		pagination.WithPagesInRange[T](pagesInRange),
		pagination.WithKnownTotal[T](int64(total)),
		pagination.WithSliceCallback(func(_ context.Context, offset, limit int) ([]T, error) {
			start := min(offset, total)
			end := min(start+limit, total)
			return items[start:end], nil
		}),
	)
	return p.Paginate(ctx, req.Page)
}

// ByField builds a Compare from a key accessor.
func ByField[T any, K cmp.Ordered](key func(T) K) Compare[T] {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ContainsFold builds a Match doing a case-insensitive substring test on a string field.
func ContainsFold[T any](field func(T) string) Match[T] {
	return func(item T, value string) bool {
		return strings.Contains(strings.ToLower(field(item)), strings.ToLower(value))
	}
}
