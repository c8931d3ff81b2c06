package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/icons"
)

// ButtonVariant selects the button color scheme.
type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonDanger    ButtonVariant = "danger"
)

// ButtonOptions describes a form button. Name and Value are submitted with
// the enclosing form.
type ButtonOptions struct {
	Label    string
	Name     string
	Value    string
	Variant  ButtonVariant
	Icon     icons.Name
	Disabled bool
}

// Button renders a submit button.
func Button(opts ButtonOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		variant := opts.Variant
		if variant == "" {
			variant = ButtonPrimary
		}
		if err := writef(w, `<button type="submit" class="btn btn-%s"`, attr(string(variant))); err != nil {
			return err
		}
		if opts.Name != "" {
			if err := writef(w, ` name="%s" value="%s"`, attr(opts.Name), attr(opts.Value)); err != nil {
				return err
			}
		}
		if opts.Disabled {
			if err := writef(w, ` disabled`); err != nil {
				return err
			}
		}
		if err := writef(w, `>`); err != nil {
			return err
		}
		if opts.Icon != "" {
			if err := icons.Icon(opts.Icon, "size-4").Render(ctx, w); err != nil {
				return err
			}
		}
		return writef(w, `<span>%s</span></button>`, text(opts.Label))
	})
}

// PostForm wraps buttons in a POST form targeting action.
func PostForm(action string, buttons ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writef(w, `<form method="POST" action="%s" class="flex flex-wrap gap-2">`, attr(action)); err != nil {
			return err
		}
		if err := renderAll(ctx, w, buttons...); err != nil {
			return err
		}
		return writef(w, `</form>`)
	})
}

// Loading renders a spinner without a message.
func Loading() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writef(w, `<span class="loading" role="status">`); err != nil {
			return err
		}
		if err := icons.Icon(icons.Spinner, "animate-spin").Render(ctx, w); err != nil {
			return err
		}
		return writef(w, `</span>`)
	})
}

// Alert renders a status message box.
func Alert(success bool, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class, icon := "alert-error", icons.AlertCircle
		if success {
			class, icon = "alert-success", icons.CheckCircle
		}
		if err := writef(w, `<div class="alert %s" role="status">`, class); err != nil {
			return err
		}
		if err := icons.Icon(icon, "size-5").Render(ctx, w); err != nil {
			return err
		}
		return writef(w, `<span>%s</span></div>`, text(message))
	})
}
