package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/icons"
)

// NavLink is one entry of the header navigation.
type NavLink struct {
	Label  string
	Href   string
	Icon   icons.Name
	Active bool
}

// LayoutOptions configures the page chrome around a body component.
type LayoutOptions struct {
	// Title is the page title before the product suffix is applied.
	Title       string
	Description string
	// Lang is the html lang attribute, usually the active locale.
	Lang        string
	Stylesheets []string
	Nav         []NavLink
	Switcher    LocaleSwitcherOptions
	Footer      string
	Body        templ.Component
}

// Layout renders a full HTML document.
func Layout(opts LayoutOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := opts.Lang
		if lang == "" {
			lang = "en"
		}
		if err := writef(w,
			`<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title>`,
			attr(lang), text(ComposePageTitle(opts.Title)),
		); err != nil {
			return err
		}
		for _, href := range opts.Stylesheets {
			if err := writef(w, `<link rel="stylesheet" href="%s">`, attr(href)); err != nil {
				return err
			}
		}
		if opts.Description != "" {
			if err := writef(w, `<meta name="description" content="%s">`, attr(opts.Description)); err != nil {
				return err
			}
		}
		if err := writef(w, `</head><body><div class="mx-auto max-w-screen-md px-1 antialiased"><header class="border-b border-gray-300"><nav><ul class="flex flex-wrap gap-x-5">`); err != nil {
			return err
		}
		for _, link := range opts.Nav {
			if err := navItem(link).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := writef(w, `</ul>`); err != nil {
			return err
		}
		if len(opts.Switcher.Options) > 0 {
			if err := LocaleSwitcher(opts.Switcher).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := writef(w, `</nav></header><main class="py-5">`); err != nil {
			return err
		}
		if err := renderAll(ctx, w, opts.Body); err != nil {
			return err
		}
		if err := writef(w, `</main>`); err != nil {
			return err
		}
		if err := Footer(opts.Footer).Render(ctx, w); err != nil {
			return err
		}
		return writef(w, `</div></body></html>`)
	})
}

func navItem(link NavLink) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		current := ""
		if link.Active {
			current = ` aria-current="page"`
		}
		if err := writef(w, `<li><a class="border-none text-gray-700 hover:text-gray-900" href="%s"%s>`, attr(link.Href), current); err != nil {
			return err
		}
		if link.Icon != "" {
			if err := icons.Icon(link.Icon, "size-4").Render(ctx, w); err != nil {
				return err
			}
		}
		return writef(w, `%s</a></li>`, text(link.Label))
	})
}

// Footer renders the page footer. Empty text renders nothing.
func Footer(content string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if content == "" {
			return nil
		}
		return writef(w, `<footer class="border-t border-gray-300 py-3 text-center text-sm">%s</footer>`, text(content))
	})
}

// Heading renders a page heading.
func Heading(title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writef(w, `<h1 class="text-2xl font-bold">%s</h1>`, text(title))
	})
}

// Paragraph renders escaped text in a paragraph.
func Paragraph(content string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writef(w, `<p>%s</p>`, text(content))
	})
}

// Stack renders components in order.
func Stack(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return renderAll(ctx, w, components...)
	})
}
