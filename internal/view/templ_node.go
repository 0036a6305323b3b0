package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// templNode lets a templ component sit inside a gomponents tree.
type templNode struct {
	ctx       context.Context
	component templ.Component
}

func (n templNode) Render(w io.Writer) error {
	return n.component.Render(n.ctx, w)
}

// AdaptTemplToGomponent wraps component as a gomponents node rendered with a
// background context.
func AdaptTemplToGomponent(component templ.Component) gomponents.Node {
	return templNode{ctx: context.Background(), component: component}
}
