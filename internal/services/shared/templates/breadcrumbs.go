package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// BreadcrumbItem represents one breadcrumb entry in a page trail.
type BreadcrumbItem struct {
	Label string
	// URL is empty for the current page.
	URL string
}

// Breadcrumbs renders a breadcrumb trail. Fewer than two items render
// nothing.
func Breadcrumbs(items []BreadcrumbItem) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(items) < 2 {
			return nil
		}
		if err := writef(w, `<nav class="breadcrumbs text-sm" aria-label="breadcrumb"><ul>`); err != nil {
			return err
		}
		for _, item := range items {
			var err error
			if item.URL == "" {
				err = writef(w, `<li>%s</li>`, text(item.Label))
			} else {
				err = writef(w, `<li><a href="%s">%s</a></li>`, attr(item.URL), text(item.Label))
			}
			if err != nil {
				return err
			}
		}
		return writef(w, `</ul></nav>`)
	})
}
