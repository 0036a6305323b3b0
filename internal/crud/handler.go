// Package crud serves a listing.Screen as an htmx-driven admin page: the
// full page mounts a view, and every later interaction (filtering, paging,
// detail, assignment, delete) works against that view by id.
package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/listing"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/nfrund/vrcadmin/web/src/templates/pages"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
)

// Config describes one admin screen.
type Config[T any] struct {
	Screen *listing.Screen[T]
	Store  *listing.Store[T]
	// BasePath is where the screen's group is mounted, e.g. "/admin/services".
	BasePath string
	Title    string
	// PageSize of zero disables paging.
	PageSize int
	// Aside renders above the filters: create forms, toolbars.
	Aside func(c echo.Context, v *listing.View[T]) cmp.Node
	// Summary renders above the table for the currently filtered rows.
	Summary func(v *listing.View[T], rows []T) cmp.Node
	// Detail renders the body of the detail dialog. Nil lists every field.
	Detail func(row T) cmp.Node
	// DetailHref links rows to a full page instead of the dialog.
	DetailHref func(row T) string
	// DeletePrompt is the confirmation question shown before a delete.
	DeletePrompt string

	OnAssigned func(ctx context.Context, row T, opt listing.Option)
	OnDeleted  func(ctx context.Context, row T)
}

// Handler serves one screen.
type Handler[T any] struct {
	cfg   Config[T]
	title string
	noun  string
}

// New creates a handler for cfg.
func New[T any](cfg Config[T]) *Handler[T] {
	caser := cases.Title(language.English)
	title := cfg.Title
	if title == "" {
		title = caser.String(cfg.Screen.Schema.Entity) + "s"
	}
	if cfg.DeletePrompt == "" {
		cfg.DeletePrompt = fmt.Sprintf("Are you sure you want to delete this %s?", cfg.Screen.Schema.Entity)
	}
	return &Handler[T]{cfg: cfg, title: title, noun: cfg.Screen.Schema.Entity}
}

// Register mounts the screen's routes on g, which must be mounted at
// BasePath.
func (h *Handler[T]) Register(g *echo.Group) {
	g.GET("", h.Page)
	g.GET("/rows", h.Rows)
	g.POST("/refresh", h.Refresh)
	g.GET("/:id", h.Detail)
	g.PATCH("/:id/assign", h.Assign)
	g.DELETE("/:id", h.Delete)
}

// Title returns the screen heading.
func (h *Handler[T]) Title() string {
	return h.title
}

// Page mounts a fresh view and renders the full screen.
func (h *Handler[T]) Page(c echo.Context) error {
	ctx := c.Request().Context()
	v, err := h.cfg.Screen.Mount(ctx)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to load screen", "entity", h.noun, "error", err)
		return handlers.RenderPage(c, http.StatusOK, h.title,
			pageHeading(h.title),
			pages.ErrorPanel(backend.MessageOf(err, fmt.Sprintf("Failed to fetch %ss.", h.noun))),
		)
	}
	h.cfg.Store.Put(v)

	f := listing.FilterFromValues(h.cfg.Screen.Schema, c.QueryParams())
	page := pageParam(c.QueryParams())
	return handlers.RenderPage(c, http.StatusOK, h.title, h.screen(c, v, f, page))
}

// Rows re-renders the results for the current filter and page.
func (h *Handler[T]) Rows(c echo.Context) error {
	v, remounted, err := h.view(c, c.QueryParam("view"))
	if err != nil {
		return handlers.FailFragment(c, backend.MessageOf(err, fmt.Sprintf("Failed to fetch %ss.", h.noun)))
	}
	f := listing.FilterFromValues(h.cfg.Screen.Schema, c.QueryParams())
	return handlers.Fragment(c, http.StatusOK, h.results(v, f, pageParam(c.QueryParams()), remounted))
}

// Refresh refetches the collection into the existing view.
func (h *Handler[T]) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	v, remounted, err := h.view(c, c.FormValue("view"))
	if err == nil && !remounted {
		err = h.cfg.Screen.Refresh(ctx, v)
	}
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to refresh screen", "entity", h.noun, "error", err)
		return handlers.FailFragment(c, backend.MessageOf(err, fmt.Sprintf("Failed to fetch %ss.", h.noun)))
	}
	form, _ := c.FormParams()
	return handlers.Fragment(c, http.StatusOK, h.results(v, listing.FilterFromValues(h.cfg.Screen.Schema, form), 1, remounted))
}

// Detail renders the detail dialog for one row.
func (h *Handler[T]) Detail(c echo.Context) error {
	v, _, err := h.view(c, c.QueryParam("view"))
	if err != nil {
		return handlers.FailFragment(c, backend.MessageOf(err, fmt.Sprintf("Failed to fetch %ss.", h.noun)))
	}
	row, ok := v.Find(c.Param("id"))
	if !ok {
		return handlers.FailFragment(c, fmt.Sprintf("%s not found.", cases.Title(language.English).String(h.noun)))
	}
	return handlers.Fragment(c, http.StatusOK, h.detail(row))
}

// Assign applies the chosen option to one row with a single update.
func (h *Handler[T]) Assign(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	id := c.Param("id")
	v, ok := h.cfg.Store.Get(c.FormValue("view"))
	if !ok {
		return handlers.FailFragment(c, "This page is out of date. Reload and try again.")
	}
	value := c.FormValue("value")
	row, err := h.cfg.Screen.AssignOption(ctx, v, id, value)
	switch {
	case errors.Is(err, domain.ErrUnknownOption):
		return handlers.FailFragment(c, "Please select a valid option.")
	case errors.Is(err, domain.ErrNotFound):
		return handlers.FailFragment(c, fmt.Sprintf("%s not found.", cases.Title(language.English).String(h.noun)))
	case err != nil:
		logger.Error("Assignment failed", "entity", h.noun, "id", id, "error", err)
		return handlers.FailFragment(c, backend.MessageOf(err, "Failed to assign."))
	}

	opt, _ := v.Option(value)
	logger.Info("Assigned", "entity", h.noun, "id", id, "option", opt.Label)
	if h.cfg.OnAssigned != nil {
		h.cfg.OnAssigned(ctx, row, opt)
	}
	return handlers.Fragment(c, http.StatusOK,
		h.row(v, row),
		handlers.FlashOOB(view.FlashData{Success: []string{fmt.Sprintf("Assigned %s.", opt.Label)}}),
	)
}

// Delete removes one row. The request must carry confirmed=true.
func (h *Handler[T]) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	id := c.Param("id")
	v, ok := h.cfg.Store.Get(c.QueryParam("view"))
	if !ok {
		return handlers.FailFragment(c, "This page is out of date. Reload and try again.")
	}
	row, found := v.Find(id)
	if !found {
		return handlers.FailFragment(c, fmt.Sprintf("%s not found.", cases.Title(language.English).String(h.noun)))
	}

	confirmed, _ := strconv.ParseBool(c.QueryParam("confirmed"))
	err := h.cfg.Screen.Remove(ctx, v, id, confirmed)
	if errors.Is(err, domain.ErrNotConfirmed) {
		return echo.NewHTTPError(http.StatusBadRequest, "delete must be confirmed")
	}
	if err != nil {
		logger.Error("Delete failed", "entity", h.noun, "id", id, "error", err)
		return handlers.FailFragment(c, backend.MessageOf(err, fmt.Sprintf("Failed to delete %s.", h.noun)))
	}

	logger.Info("Deleted", "entity", h.noun, "id", id)
	if h.cfg.OnDeleted != nil {
		h.cfg.OnDeleted(ctx, row)
	}
	flash := handlers.FlashOOB(view.FlashData{Success: []string{fmt.Sprintf("%s deleted.", cases.Title(language.English).String(h.noun))}})
	if h.cfg.Screen.RefetchAfterDelete {
		f := listing.FilterFromValues(h.cfg.Screen.Schema, c.QueryParams())
		return handlers.Fragment(c, http.StatusOK, h.resultsWith(v, f, 1, false, hx.SwapOOB("true")), flash)
	}
	return handlers.Fragment(c, http.StatusOK, flash)
}

// view returns the stored view, mounting a new one if it was evicted.
func (h *Handler[T]) view(c echo.Context, id string) (*listing.View[T], bool, error) {
	if v, ok := h.cfg.Store.Get(id); ok {
		return v, false, nil
	}
	v, err := h.cfg.Screen.Mount(c.Request().Context())
	if err != nil {
		return nil, false, err
	}
	h.cfg.Store.Put(v)
	return v, true, nil
}

func pageParam(v url.Values) int {
	n, err := strconv.Atoi(v.Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
