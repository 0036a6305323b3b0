package crud

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/vrcadmin/internal/listing"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"
)

func pageHeading(title string) cmp.Node {
	return g.H1(g.Class("text-2xl font-bold mb-4"), cmp.Text(title))
}

func (h *Handler[T]) screen(ctx echo.Context, v *listing.View[T], f listing.Filter, page int) cmp.Node {
	var aside cmp.Node
	if h.cfg.Aside != nil {
		aside = h.cfg.Aside(ctx, v)
	}
	return g.Div(
		g.Class("space-y-4"),
		g.Div(
			g.Class("flex items-center justify-between"),
			pageHeading(h.title),
			g.Form(
				hx.Post(h.cfg.BasePath+"/refresh"),
				hx.Target("#results"),
				hx.Swap("outerHTML"),
				hx.Include("#filters"),
				g.Button(g.Type("submit"), g.Class("px-3 py-1 border rounded bg-white"), cmp.Text("Refresh")),
			),
		),
		aside,
		h.filters(v, f),
		h.results(v, f, page, false),
	)
}

func (h *Handler[T]) filters(v *listing.View[T], f listing.Filter) cmp.Node {
	schema := h.cfg.Screen.Schema
	return g.Form(
		g.ID("filters"),
		g.Class("flex flex-wrap gap-3 items-end bg-white p-3 rounded shadow"),
		hx.Get(h.cfg.BasePath+"/rows"),
		hx.Trigger("input, change"),
		hx.Target("#results"),
		hx.Swap("outerHTML"),
		viewInput(v.ID, false),
		cmp.If(schema.Searchable(), g.Input(
			g.Type("search"),
			g.Name("q"),
			g.Value(f.Query),
			g.Placeholder(searchPlaceholder(schema)),
			g.Class("border rounded px-3 py-1 flex-1 min-w-[12rem]"),
		)),
		cmp.Map(schema.EnumFields(), func(field listing.Field[T]) cmp.Node {
			current := f.Equals[field.Name]
			return g.Select(
				g.Name(field.Name),
				g.Class("border rounded px-3 py-1"),
				cmp.Attr("aria-label", label(field)),
				g.Option(g.Value(listing.AnyValue), cmp.Textf("All %s", label(field))),
				cmp.Map(v.Distinct(field.Name), func(val string) cmp.Node {
					return g.Option(g.Value(val), cmp.If(val == current, g.Selected()), cmp.Text(val))
				}),
			)
		}),
	)
}

func searchPlaceholder[T any](s listing.Schema[T]) string {
	var names []string
	for _, f := range s.Fields {
		if f.Searchable {
			names = append(names, label(f))
		}
	}
	switch len(names) {
	case 0:
		return "Search"
	case 1:
		return "Search by " + names[0]
	default:
		return "Search by " + names[0] + " or " + names[1]
	}
}

func label[T any](f listing.Field[T]) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func viewInput(id string, oob bool) cmp.Node {
	return g.Input(
		g.Type("hidden"),
		g.ID("view-id"),
		g.Name("view"),
		g.Value(id),
		cmp.If(oob, hx.SwapOOB("true")),
	)
}

func (h *Handler[T]) results(v *listing.View[T], f listing.Filter, page int, remounted bool) cmp.Node {
	return h.resultsWith(v, f, page, remounted)
}

func (h *Handler[T]) resultsWith(v *listing.View[T], f listing.Filter, page int, remounted bool, attrs ...cmp.Node) cmp.Node {
	rows := v.Filter(f)
	pageRows, pages := listing.Page(rows, page, h.cfg.PageSize)
	if page > pages {
		page = pages
	}

	var summary cmp.Node
	if h.cfg.Summary != nil {
		summary = h.cfg.Summary(v, rows)
	}

	return g.Div(
		g.ID("results"),
		cmp.Group(attrs),
		cmp.If(remounted, viewInput(v.ID, true)),
		g.P(g.Class("text-sm text-gray-600 mb-2"), cmp.Textf("Showing %d of %d %ss", len(rows), v.Len(), h.noun)),
		summary,
		g.Div(
			g.Class("overflow-x-auto bg-white rounded shadow"),
			g.Table(
				g.Class("min-w-full text-sm"),
				h.head(v),
				g.TBody(
					g.ID("rows"),
					cmp.Map(pageRows, func(r T) cmp.Node { return h.row(v, r) }),
				),
			),
		),
		cmp.If(len(rows) == 0, g.P(g.Class("text-center text-gray-500 py-6"), cmp.Textf("No %ss found.", h.noun))),
		cmp.If(pages > 1, h.pager(page, pages)),
	)
}

func (h *Handler[T]) head(v *listing.View[T]) cmp.Node {
	scr := h.cfg.Screen
	return g.THead(
		g.Class("bg-gray-50 text-left"),
		g.Tr(
			cmp.Map(scr.Schema.Columns(), func(f listing.Field[T]) cmp.Node {
				return g.Th(g.Class("px-3 py-2 font-semibold"), cmp.Text(label(f)))
			}),
			cmp.Iff(scr.Assign != nil, func() cmp.Node {
				return g.Th(g.Class("px-3 py-2 font-semibold"), cmp.Text(assignLabel(scr)))
			}),
			g.Th(g.Class("px-3 py-2 font-semibold"), cmp.Text("Actions")),
		),
	)
}

func assignLabel[T any](s *listing.Screen[T]) string {
	if f, ok := s.Schema.Field(s.Assign.Field); ok {
		return "Assign " + label(f)
	}
	return "Assign"
}

// rowID is the DOM id of a table row.
func rowID(id string) string {
	return "row-" + id
}

func (h *Handler[T]) row(v *listing.View[T], r T) cmp.Node {
	scr := h.cfg.Screen
	id := scr.Schema.ID(r)
	return g.Tr(
		g.ID(rowID(id)),
		g.Class("border-t hover:bg-gray-50"),
		cmp.Map(scr.Schema.Columns(), func(f listing.Field[T]) cmp.Node {
			return g.Td(g.Class("px-3 py-2"), cmp.Text(f.Value(r)))
		}),
		cmp.Iff(scr.Assign != nil, func() cmp.Node {
			return g.Td(g.Class("px-3 py-2"), h.assignControl(v, id, r))
		}),
		g.Td(
			g.Class("px-3 py-2 space-x-2 whitespace-nowrap"),
			h.detailLink(v, id, r),
			cmp.If(scr.Delete != nil, g.Button(
				g.Type("button"),
				g.Class("text-red-600 hover:underline"),
				hx.Delete(fmt.Sprintf("%s/%s?view=%s&confirmed=true", h.cfg.BasePath, id, v.ID)),
				hx.Confirm(h.cfg.DeletePrompt),
				hx.Include("#filters"),
				hx.Target("closest tr"),
				hx.Swap("outerHTML"),
				cmp.Text("Delete"),
			)),
		),
	)
}

func (h *Handler[T]) assignControl(v *listing.View[T], id string, r T) cmp.Node {
	a := h.cfg.Screen.Assign
	current := ""
	if a.Current != nil {
		current = a.Current(r)
	}
	return g.Select(
		g.Name("value"),
		g.Class("border rounded px-2 py-1"),
		hx.Patch(fmt.Sprintf("%s/%s/assign", h.cfg.BasePath, id)),
		hx.Trigger("change"),
		hx.Vals(fmt.Sprintf(`{"view": %s}`, strconv.Quote(v.ID))),
		hx.Target("closest tr"),
		hx.Swap("outerHTML"),
		g.Option(g.Value(""), cmp.If(current == "", g.Selected()), cmp.Text("Select")),
		cmp.Map(v.Options(), func(o listing.Option) cmp.Node {
			return g.Option(g.Value(o.Value), cmp.If(o.Value == current, g.Selected()), cmp.Text(o.Label))
		}),
	)
}

func (h *Handler[T]) detailLink(v *listing.View[T], id string, r T) cmp.Node {
	if h.cfg.DetailHref != nil {
		return g.A(g.Href(h.cfg.DetailHref(r)), g.Class("text-teal-700 hover:underline"), cmp.Text("View"))
	}
	return g.Button(
		g.Type("button"),
		g.Class("text-teal-700 hover:underline"),
		hx.Get(fmt.Sprintf("%s/%s?view=%s", h.cfg.BasePath, id, v.ID)),
		hx.Target("#modal"),
		cmp.Text("View"),
	)
}

func (h *Handler[T]) detail(r T) cmp.Node {
	var body cmp.Node
	if h.cfg.Detail != nil {
		body = h.cfg.Detail(r)
	} else {
		body = g.Dl(
			g.Class("grid grid-cols-3 gap-2"),
			cmp.Map(h.cfg.Screen.Schema.Fields, func(f listing.Field[T]) cmp.Node {
				return cmp.Group{
					g.Dt(g.Class("font-semibold"), cmp.Text(label(f))),
					g.Dd(g.Class("col-span-2"), cmp.Text(dash(f.Value(r)))),
				}
			}),
		)
	}
	return Modal(cases.Title(language.English).String(h.noun)+" details", body)
}

// Modal wraps content in a dismissable dialog rendered into #modal.
func Modal(title string, body cmp.Node) cmp.Node {
	return g.Div(
		g.Class("fixed inset-0 bg-black/40 flex items-center justify-center z-50"),
		g.Div(
			g.Class("bg-white rounded-lg shadow-xl p-6 max-w-2xl w-full max-h-[90vh] overflow-y-auto"),
			g.Div(
				g.Class("flex justify-between items-center mb-4"),
				g.H2(g.Class("text-xl font-bold"), cmp.Text(title)),
				g.Button(g.Type("button"), cmp.Attr("onclick", "document.getElementById('modal').innerHTML=''"), cmp.Text("Close")),
			),
			body,
		),
	)
}

func (h *Handler[T]) pager(page, pages int) cmp.Node {
	btn := func(label string, target int, enabled bool) cmp.Node {
		return g.Button(
			g.Type("button"),
			c.Classes{"px-3 py-1 border rounded bg-white": true, "opacity-50": !enabled},
			cmp.If(!enabled, g.Disabled()),
			hx.Get(fmt.Sprintf("%s/rows?page=%d", h.cfg.BasePath, target)),
			hx.Include("#filters"),
			hx.Target("#results"),
			hx.Swap("outerHTML"),
			cmp.Text(label),
		)
	}
	return g.Div(
		g.Class("flex justify-center items-center gap-3 mt-4"),
		btn("Previous", page-1, page > 1),
		g.Span(cmp.Textf("Page %d of %d", page, pages)),
		btn("Next", page+1, page < pages),
	)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
