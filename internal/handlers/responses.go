package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/nfrund/vrcadmin/web/src/templates/layouts"
	"github.com/nfrund/vrcadmin/web/src/templates/partials"
	cmp "maragu.dev/gomponents"
)

// RenderPage renders content inside the base layout.
func RenderPage(c echo.Context, status int, title string, content ...cmp.Node) error {
	return c.Render(status, "", layouts.Base(layouts.PageFor(c, title), content...))
}

// Fragment renders an htmx partial.
func Fragment(c echo.Context, status int, nodes ...cmp.Node) error {
	return c.Render(status, "", cmp.Group(nodes))
}

// FlashOOB returns an out-of-band flash update for fragment responses.
func FlashOOB(data view.FlashData) cmp.Node {
	return view.AdaptTemplToGomponent(partials.FlashOOB(data))
}

// FailFragment reports an error to an htmx request without swapping its
// target: the response only updates the flash region.
func FailFragment(c echo.Context, msg string) error {
	c.Response().Header().Set("HX-Reswap", "none")
	return Fragment(c, http.StatusOK, FlashOOB(view.FlashData{Error: []string{msg}}))
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
