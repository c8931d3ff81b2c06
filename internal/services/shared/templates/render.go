package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

func attr(value string) string {
	return html.EscapeString(value)
}

func text(value string) string {
	return html.EscapeString(value)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func renderAll(ctx context.Context, w io.Writer, components ...templ.Component) error {
	for _, component := range components {
		if component == nil {
			continue
		}
		if err := component.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}
