package home

import (
	"github.com/nfrund/vrcadmin/internal/activity"
	"github.com/nfrund/vrcadmin/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

func dashboard(stats []stat, recent []activity.Entry) cmp.Node {
	return g.Div(
		g.Class("space-y-6"),
		components.Heading("Dashboard"),
		g.Div(
			g.Class("grid grid-cols-2 md:grid-cols-4 gap-4"),
			cmp.Map(stats, tile),
		),
		activity.Panel(wsPath, recent),
	)
}

func tile(s stat) cmp.Node {
	value := cmp.Textf("%d", s.Count)
	if s.Failed {
		value = cmp.Text("—")
	}
	return g.A(
		g.Href(s.Href),
		g.Class("block bg-white rounded shadow p-4 hover:shadow-md"),
		g.Div(g.Class("text-sm text-gray-500"), cmp.Text(s.Label)),
		g.Div(g.Class("text-3xl font-bold text-teal-700 stat-value"), value),
	)
}
