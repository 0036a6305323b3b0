package pages

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// NotFound is shown for unknown routes and for records the backend does
// not know.
func NotFound(what string) cmp.Node {
	if what == "" {
		what = "page"
	}
	return g.Div(
		g.Class("text-center py-16 px-6"),
		g.H1(g.Class("text-6xl font-extrabold text-teal-600"), cmp.Text("404")),
		g.P(g.Class("text-lg mt-3 mb-2"), cmp.Textf("%s not found", cases.Title(language.English).String(what))),
		g.P(g.Class("text-gray-500 mb-6"), cmp.Textf("The %s you're looking for does not seem to exist.", what)),
		g.A(g.Href("/admin"), g.Class("inline-block bg-teal-600 text-white px-4 py-2 rounded"), cmp.Text("Go to Home")),
	)
}

// ErrorPanel is the inline message shown when a screen could not load.
func ErrorPanel(msg string) cmp.Node {
	return g.Div(
		cmp.Attr("role", "alert"),
		g.Class("border border-red-300 bg-red-50 text-red-800 rounded p-4"),
		cmp.Text(msg),
	)
}
