// Package managers lists volunteer managers and registers new ones.
package managers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/crud"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/nfrund/vrcadmin/internal/handlers"
	"github.com/nfrund/vrcadmin/internal/listing"
	"github.com/nfrund/vrcadmin/internal/middleware"
	"github.com/nfrund/vrcadmin/internal/module"
	"github.com/nfrund/vrcadmin/internal/registry"
	"github.com/nfrund/vrcadmin/internal/storage"
	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/nfrund/vrcadmin/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const basePath = "/admin/managers"

// Dependencies holds what the managers module needs.
type Dependencies struct {
	Backend   *backend.Client
	Auth      echo.MiddlewareFunc
	CacheSize int
	// MaxUploadBytes caps the registration photo.
	MaxUploadBytes int64
	// Photos spools uploads until the backend has accepted them.
	Photos storage.Store
	Logger *slog.Logger
}

// Module serves /admin/managers.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the managers module.
func New(deps Dependencies) *Module {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 5 << 20
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Photos == nil {
		deps.Photos = storage.NewMemStore(deps.MaxUploadBytes)
	}
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "managers"
}

// Schema describes the managers table.
var Schema = listing.Schema[domain.Manager]{
	Entity: "manager",
	ID:     func(mg domain.Manager) string { return mg.ID },
	Fields: []listing.Field[domain.Manager]{
		{Name: "username", Label: "Username", Value: func(mg domain.Manager) string { return mg.Username }, Searchable: true},
		{Name: "phone", Label: "Phone", Value: func(mg domain.Manager) string { return mg.Phone }, Searchable: true},
		{Name: "serviceType", Label: "Service", Value: func(mg domain.Manager) string { return mg.ServiceType }, Enum: true},
	},
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, e *echo.Group, reg *registry.Registry) error {
	h := crud.New(crud.Config[domain.Manager]{
		Screen: &listing.Screen[domain.Manager]{
			Schema: Schema,
			Source: m.deps.Backend.ListManagers,
			Logger: m.deps.Logger,
		},
		Store:    listing.NewStore[domain.Manager](m.deps.CacheSize),
		BasePath: basePath,
		Title:    "Managers",
		Aside: func(c echo.Context, _ *listing.View[domain.Manager]) cmp.Node {
			return m.registerForm(c.Request().Context())
		},
	})

	grp := module.Group(e, basePath, m.deps.Auth)
	h.Register(grp)
	grp.POST("", m.register)
	return nil
}

type registerRequest struct {
	Username    string `form:"username" validate:"required"`
	Phone       string `form:"phone" validate:"required,numeric,min=10,max=15"`
	ServiceType string `form:"serviceType" validate:"required"`
}

var errPhotoTooLarge = errors.New("photo too large")

func (m *Module) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	req.Phone = domain.NormalizeWhatsApp(req.Phone)
	if err := c.Validate(&req); err != nil {
		for _, msg := range handlers.ValidationMessages(err) {
			view.SetFlashError(c, msg)
		}
		return c.Redirect(http.StatusSeeOther, basePath)
	}

	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	photo, closePhoto, err := m.photo(c)
	if err != nil {
		logger.Warn("Rejected manager photo", "username", req.Username, "error", err)
		if errors.Is(err, errPhotoTooLarge) {
			view.SetFlashError(c, "Photo must be smaller than "+sizeLabel(m.deps.MaxUploadBytes)+".")
		} else {
			view.SetFlashError(c, "Could not read the photo.")
		}
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	defer closePhoto()

	mg := domain.Manager{Username: req.Username, Phone: req.Phone, ServiceType: req.ServiceType}
	if err := m.deps.Backend.RegisterManager(ctx, mg, photo); err != nil {
		logger.Error("Failed to register manager", "username", req.Username, "error", err)
		view.SetFlashError(c, backend.MessageOf(err, "Registration failed."))
		return c.Redirect(http.StatusSeeOther, basePath)
	}
	view.SetFlashSuccess(c, "Manager registered successfully!")
	return c.Redirect(http.StatusSeeOther, basePath)
}

// photo spools the uploaded photo and returns a reader over the spooled
// copy, or nil when none was sent. The returned func releases the copy.
func (m *Module) photo(c echo.Context) (*backend.Photo, func(), error) {
	noop := func() {}
	hdr, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if hdr.Size == 0 {
		return nil, noop, nil
	}
	if hdr.Size > m.deps.MaxUploadBytes {
		return nil, noop, errPhotoTooLarge
	}

	upload, err := hdr.Open()
	if err != nil {
		return nil, noop, err
	}
	ctx := c.Request().Context()
	path := "photos/" + uuid.NewString() + filepath.Ext(hdr.Filename)
	_, err = m.deps.Photos.Save(ctx, path, upload)
	_ = upload.Close()
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, noop, errPhotoTooLarge
	}
	if err != nil {
		return nil, noop, err
	}

	f, err := m.deps.Photos.Open(ctx, path)
	if err != nil {
		_ = m.deps.Photos.Delete(ctx, path)
		return nil, noop, err
	}
	release := func() {
		_ = f.Close()
		if err := m.deps.Photos.Delete(context.WithoutCancel(ctx), path); err != nil {
			m.deps.Logger.Warn("Failed to delete spooled photo", "path", path, "error", err)
		}
	}

	contentType := hdr.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &backend.Photo{Filename: hdr.Filename, ContentType: contentType, Data: f}, release, nil
}

func sizeLabel(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%d MB", n>>20)
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

func (m *Module) registerForm(ctx context.Context) cmp.Node {
	service := components.Input("text", "serviceType", "", true)
	if services, err := m.deps.Backend.ListServices(ctx); err == nil && len(services) > 0 {
		names := make([]string, 0, len(services))
		for _, s := range services {
			names = append(names, s.Name)
		}
		service = components.Select("serviceType", "", "Select service", names, g.Required())
	}
	return components.Card("Register manager",
		g.Form(
			g.Method("post"), g.Action(basePath), g.EncType("multipart/form-data"),
			g.Class("grid grid-cols-1 md:grid-cols-4 gap-3 items-end"),
			components.Field("Username", components.Input("text", "username", "", true)),
			components.Field("Phone", components.Input("tel", "phone", "", true)),
			components.Field("Service", service),
			components.Field("Photo", components.Input("file", "photo", "", false,
				g.Accept("image/*"), cmp.Attr("capture", "environment"))),
			components.Submit("Register"),
		),
	)
}
