package scanner

import (
	"github.com/nfrund/vrcadmin/internal/scan"
	"github.com/nfrund/vrcadmin/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

const pageTitle = "Volunteer QR Attendance"

// scanner renders the camera panel for session id. A session that settled
// while opening shows its outcome straight away.
func scanner(id string, settled *scan.Outcome) cmp.Node {
	return g.Div(
		g.Class("max-w-md mx-auto mt-10"),
		components.Card(pageTitle,
			g.Div(
				g.ID("scan-panel"),
				cmp.Attr("data-session", id),
				cmp.Attr("data-frame-url", basePath+"/"+id+"/frame"),
				cmp.Attr("data-error-url", basePath+"/"+id+"/camera-error"),
				cmp.Attr("data-close-url", basePath+"/"+id+"/close"),
				cmp.Iff(settled != nil, func() cmp.Node { return result(*settled) }),
				cmp.If(settled == nil, cmp.Group{
					g.Video(g.ID("reader"), g.Class("w-full rounded bg-black"), cmp.Attr("playsinline"), cmp.Attr("muted")),
					g.P(g.Class("text-sm text-gray-500 text-center"), cmp.Text("Point the camera at a volunteer's QR code.")),
				}),
			),
		),
		cmp.If(settled == nil, g.Script(g.Src("/static/scan.js"), cmp.Attr("defer"))),
	)
}

// result shows a settled outcome with the way to scan again.
func result(o scan.Outcome) cmp.Node {
	mark := "❌ "
	if o.OK {
		mark = "✅ "
	}
	return g.Div(
		g.ID("scan-result"),
		g.Class("space-y-4"),
		g.Div(
			cmp.Attr("role", "alert"),
			c.Classes{
				"rounded p-3 border":                          true,
				"border-green-300 bg-green-50 text-green-800": o.OK,
				"border-red-300 bg-red-50 text-red-800":       !o.OK,
			},
			g.P(g.Class("font-semibold"), cmp.Text(o.Title())),
			g.P(cmp.Text(mark+o.Message)),
		),
		g.A(
			g.Href(basePath),
			g.Class("block text-center w-full bg-blue-600 hover:bg-blue-700 text-white px-4 py-2 rounded"),
			cmp.Text("Scan Another"),
		),
	)
}
