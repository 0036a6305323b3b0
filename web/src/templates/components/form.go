// Package components holds the small form building blocks shared by the
// admin screens and the public volunteer pages.
package components

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const inputClass = "border rounded px-3 py-2 w-full"

// Field wraps a control with its label.
func Field(label string, control cmp.Node) cmp.Node {
	return g.Label(
		g.Class("block space-y-1"),
		g.Span(g.Class("text-sm font-medium text-gray-700"), cmp.Text(label)),
		control,
	)
}

// Input renders a text-like input. Extra nodes add attributes.
func Input(typ, name, value string, required bool, attrs ...cmp.Node) cmp.Node {
	return g.Input(
		g.Type(typ),
		g.Name(name),
		g.Value(value),
		g.Class(inputClass),
		cmp.If(required, g.Required()),
		cmp.Group(attrs),
	)
}

// Select renders a dropdown with a leading placeholder option.
func Select(name, current, placeholder string, values []string, attrs ...cmp.Node) cmp.Node {
	return g.Select(
		g.Name(name),
		g.Class(inputClass),
		cmp.Group(attrs),
		g.Option(g.Value(""), cmp.Text(placeholder)),
		cmp.Map(values, func(v string) cmp.Node {
			return g.Option(g.Value(v), cmp.If(v == current, g.Selected()), cmp.Text(v))
		}),
	)
}

// Submit is the primary form button.
func Submit(label string) cmp.Node {
	return g.Button(
		g.Type("submit"),
		g.Class("bg-teal-600 hover:bg-teal-700 text-white px-4 py-2 rounded"),
		cmp.Text(label),
	)
}

// Card is the white panel most forms sit in.
func Card(title string, children ...cmp.Node) cmp.Node {
	return g.Div(
		g.Class("bg-white rounded shadow p-4 space-y-3"),
		cmp.If(title != "", g.H2(g.Class("text-lg font-semibold"), cmp.Text(title))),
		cmp.Group(children),
	)
}

// Alert shows an inline error list.
func Alert(msgs []string) cmp.Node {
	if len(msgs) == 0 {
		return nil
	}
	return g.Div(
		cmp.Attr("role", "alert"),
		g.Class("border border-red-300 bg-red-50 text-red-800 rounded p-3"),
		g.Ul(cmp.Map(msgs, func(m string) cmp.Node { return g.Li(cmp.Text(m)) })),
	)
}

// Heading is the page title.
func Heading(title string) cmp.Node {
	return g.H1(g.Class("text-2xl font-bold mb-4"), cmp.Text(title))
}
