package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders either kind of component the app uses: templ components
// (the flash partial) and gomponents nodes (everything else).
type Renderer interface {
	// RenderComponent renders to bytes, for websocket pushes.
	RenderComponent(ctx context.Context, component interface{}) ([]byte, error)
}

// UniversalRenderer implements Renderer and echo.Renderer.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode is the structural shape of gomponents.Node.
type gomponentNode interface {
	Render(w io.Writer) error
}

func (tr *UniversalRenderer) render(ctx context.Context, component interface{}, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported component type: %T", component)
	}
}

// RenderComponent implements Renderer.
func (tr *UniversalRenderer) RenderComponent(ctx context.Context, component interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tr.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// Render implements echo.Renderer; the component travels in data and name
// is ignored.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return tr.render(c.Request().Context(), data, w)
}
