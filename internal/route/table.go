// Package route holds the page route table: the fixed, ordered mapping from
// navigable paths to the views rendered for them, the default redirect, and
// the scroll-reset policy applied on every navigation.
//
// Matching is exact. There are no wildcard or parameterized segments, and an
// unmatched path is reported explicitly through ErrNotFound.
package route

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Navigate when no entry matches the path.
var ErrNotFound = errors.New("route not found")

// View is an opaque reference to a renderable page. The app binds each View
// to a handler; the table never interprets it.
type View string

// Views bound by the default table.
const (
	ViewAdminFabrics     View = "admin/fabrics"
	ViewAdminProducts    View = "admin/products"
	ViewAdminOrders      View = "admin/orders"
	ViewFabricsClearance View = "storefront/clearance"
	ViewFabricsShow      View = "storefront/fabrics"
	ViewProductsShow     View = "storefront/products"
)

// Entry binds one path to either a view or a redirect target.
type Entry struct {
	Path     string
	View     View
	Redirect string
}

// IsDefaultRedirect reports whether the entry forwards to another path
// instead of rendering a view.
func (e Entry) IsDefaultRedirect() bool {
	return e.Redirect != ""
}

// ScrollPosition is a viewport scroll offset in CSS pixels.
type ScrollPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScrollTop is the position every navigation resets to, regardless of
// direction or of where the target view was previously scrolled.
var ScrollTop = ScrollPosition{X: 0, Y: 0}

// Navigation is the outcome of navigating to a path.
type Navigation struct {
	// Requested is the path that was asked for.
	Requested string
	// Path is the path that renders, after following a redirect.
	Path       string
	View       View
	Redirected bool
	Scroll     ScrollPosition
}

// Table is an immutable, validated route table.
type Table struct {
	entries  []Entry
	byPath   map[string]int
	redirect int
}

// New validates entries and builds a Table. Paths must be non-empty, start
// with '/', and be unique. Exactly one entry must redirect, and its target
// must be another path in the table that renders a view.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		entries:  make([]Entry, len(entries)),
		byPath:   make(map[string]int, len(entries)),
		redirect: -1,
	}
	copy(t.entries, entries)

	for i, e := range t.entries {
		if !strings.HasPrefix(e.Path, "/") {
			return nil, fmt.Errorf("route %d: path %q must start with '/'", i, e.Path)
		}
		if _, dup := t.byPath[e.Path]; dup {
			return nil, fmt.Errorf("route %d: duplicate path %q", i, e.Path)
		}
		t.byPath[e.Path] = i

		switch {
		case e.IsDefaultRedirect():
			if t.redirect >= 0 {
				return nil, fmt.Errorf("route %d: %q is a second redirect (already %q)", i, e.Path, t.entries[t.redirect].Path)
			}
			if e.View != "" {
				return nil, fmt.Errorf("route %d: %q has both a view and a redirect", i, e.Path)
			}
			t.redirect = i
		case e.View == "":
			return nil, fmt.Errorf("route %d: %q has neither a view nor a redirect", i, e.Path)
		}
	}

	if t.redirect < 0 {
		return nil, errors.New("route table has no default redirect")
	}
	src := t.entries[t.redirect]
	target, ok := t.byPath[src.Redirect]
	if !ok {
		return nil, fmt.Errorf("redirect %q targets unknown path %q", src.Path, src.Redirect)
	}
	if t.entries[target].IsDefaultRedirect() {
		return nil, fmt.Errorf("redirect %q targets another redirect %q", src.Path, src.Redirect)
	}

	return t, nil
}

// Default returns the application's route table.
func Default() *Table {
	t, err := New([]Entry{
		{Path: "/", Redirect: "/admin/fabrics"},
		{Path: "/admin/fabrics", View: ViewAdminFabrics},
		{Path: "/admin/products", View: ViewAdminProducts},
		{Path: "/admin/orders", View: ViewAdminOrders},
		{Path: "/fabrics/clearance", View: ViewFabricsClearance},
		{Path: "/fabrics/show", View: ViewFabricsShow},
		{Path: "/products/show", View: ViewProductsShow},
	})
	if err != nil {
		panic("route.Default: " + err.Error())
	}
	return t
}

// Entries returns a copy of the entries in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// DefaultRedirect returns the table's single redirect entry.
func (t *Table) DefaultRedirect() Entry {
	return t.entries[t.redirect]
}

// Lookup returns the entry whose path equals path exactly.
func (t *Table) Lookup(path string) (Entry, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Resolve returns the entry that renders for path, following the default
// redirect once. The second result is false when nothing matches.
func (t *Table) Resolve(path string) (Entry, bool) {
	e, ok := t.Lookup(path)
	if !ok {
		return Entry{}, false
	}
	if e.IsDefaultRedirect() {
		// Validated in New: the target exists and renders a view.
		return t.Lookup(e.Redirect)
	}
	return e, true
}

// Navigate resolves path and applies the scroll-reset policy.
func (t *Table) Navigate(path string) (Navigation, error) {
	e, ok := t.Resolve(path)
	if !ok {
		return Navigation{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return Navigation{
		Requested:  path,
		Path:       e.Path,
		View:       e.View,
		Redirected: e.Path != path,
		Scroll:     ScrollTop,
	}, nil
}
