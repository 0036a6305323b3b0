package layouts

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/auth"
	"github.com/nfrund/vrcadmin/internal/view"
	"github.com/nfrund/vrcadmin/web/src/templates/partials"
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

// Page carries the per-request data every layout needs.
type Page struct {
	Title string
	Path  string
	Flash view.FlashData
	User  string
}

// PageFor builds the layout data for the current request, consuming any
// queued flash messages.
func PageFor(ctx echo.Context, title string) Page {
	p := Page{
		Title: title,
		Path:  ctx.Request().URL.Path,
		Flash: view.GetFlashData(ctx),
	}
	if s, ok := auth.FromContext(ctx.Request().Context()); ok {
		p.User = s.Username
		if p.User == "" {
			p.User = "admin"
		}
	}
	return p
}

// Base wraps page content in the document shell with the sidebar.
func Base(p Page, content ...cmp.Node) cmp.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(p.Title),
		Language: "en",
		Head: []cmp.Node{
			g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
			g.Script(g.Src("https://cdn.tailwindcss.com")),
			g.Script(g.Src("https://unpkg.com/htmx.org@2.0.4")),
			g.Script(g.Src("https://unpkg.com/htmx-ext-ws@2.0.2")),
			g.Script(g.Src("/static/app.js"), cmp.Attr("defer")),
		},
		Body: []cmp.Node{
			g.Class("bg-gray-100 min-h-screen"),
			g.Div(
				g.Class("flex"),
				sidebar(p),
				g.Main(
					g.Class("flex-1 p-6"),
					view.AdaptTemplToGomponent(partials.Flash(p.Flash)),
					cmp.Group(content),
				),
			),
			g.Div(g.ID("modal")),
		},
	})
}

func sidebar(p Page) cmp.Node {
	return g.Nav(
		g.Class("w-60 min-h-screen bg-teal-800 text-white p-4 space-y-1"),
		g.Div(g.Class("text-xl font-bold mb-6"), cmp.Text("VRC Admin")),
		cmp.If(p.User != "", cmp.Group{
			navLinks(AdminNav, p.Path),
			g.Div(g.Class("border-t border-teal-600 my-4")),
		}),
		navLinks(PublicNav, p.Path),
		cmp.If(p.User != "", g.Form(
			g.Method("post"), g.Action("/admin/logout"), g.Class("mt-6"),
			g.Button(g.Type("submit"), g.Class("w-full text-left px-3 py-2 rounded hover:bg-teal-700"), cmp.Text("Logout")),
		)),
		cmp.If(p.User == "", g.A(g.Href("/admin/login"), g.Class("block mt-6 px-3 py-2 rounded hover:bg-teal-700"), cmp.Text("Admin Login"))),
	)
}

func navLinks(items []NavItem, current string) cmp.Node {
	return cmp.Map(items, func(it NavItem) cmp.Node {
		active := current == it.Path || (it.Path != "/admin" && strings.HasPrefix(current, it.Path+"/"))
		return g.A(
			g.Href(it.Path),
			c.Classes{
				"block px-3 py-2 rounded hover:bg-teal-700": true,
				"bg-teal-900 font-semibold":                 active,
			},
			cmp.Text(it.Label),
		)
	})
}
