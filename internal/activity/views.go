package activity

import (
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

const listID = "activity-list"

// Panel renders the live activity log. The htmx ws extension keeps it
// current through Push fragments.
func Panel(wsPath string, entries []Entry) cmp.Node {
	return g.Section(
		g.Class("bg-white rounded shadow p-4"),
		cmp.Attr("hx-ext", "ws"),
		cmp.Attr("ws-connect", wsPath),
		g.H2(g.Class("text-lg font-semibold mb-2"), cmp.Text("Recent activity")),
		g.Ul(
			g.ID(listID),
			g.Class("divide-y text-sm"),
			cmp.Map(entries, item),
			cmp.If(len(entries) == 0, g.Li(g.Class("py-1 text-gray-400 empty-note"), cmp.Text("Nothing yet."))),
		),
	)
}

// Push is the websocket fragment that prepends one entry to the panel.
func Push(e Entry) cmp.Node {
	return g.Ul(
		g.ID(listID),
		cmp.Attr("hx-swap-oob", "afterbegin"),
		item(e),
	)
}

func item(e Entry) cmp.Node {
	return g.Li(
		c.Classes{"py-1 flex gap-2": true, "text-red-700": !e.OK},
		g.Span(g.Class("text-gray-500 tabular-nums"), cmp.Text(e.At.Format("15:04:05"))),
		g.Span(cmp.Text(e.Text)),
	)
}
