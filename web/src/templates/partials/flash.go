package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/vrcadmin/internal/view"
)

// Flash renders queued flash messages into the #flash region.
func Flash(data view.FlashData) templ.Component {
	return flash(data, false)
}

// FlashOOB renders the same region as an htmx out-of-band swap, for
// fragment responses that need to report a message.
func FlashOOB(data view.FlashData) templ.Component {
	return flash(data, true)
}

func flash(data view.FlashData, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := `<div id="flash" class="space-y-2 mb-4">`
		if oob {
			open = `<div id="flash" class="space-y-2 mb-4" hx-swap-oob="true">`
		}
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		for _, msg := range data.Success {
			if err := alert(w, "success", "bg-green-100 text-green-800 border-green-300", msg); err != nil {
				return err
			}
		}
		for _, msg := range data.Error {
			if err := alert(w, "error", "bg-red-100 text-red-800 border-red-300", msg); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func alert(w io.Writer, kind, classes, msg string) error {
	_, err := io.WriteString(w, `<div role="alert" data-flash="`+kind+`" class="border rounded px-4 py-2 `+classes+`">`+templ.EscapeString(msg)+`</div>`)
	return err
}
