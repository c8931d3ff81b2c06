package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/launchpad/internal/platform/i18nhttp"
)

// LocaleSwitcherOptions configures the language select form.
type LocaleSwitcherOptions struct {
	// Action is the form endpoint handled by i18nhttp.SwitchHandler.
	Action string
	// Path is the current unprefixed path the user returns to.
	Path        string
	Label       string
	SubmitLabel string
	Options     []i18nhttp.LanguageOption
}

// LocaleSwitcher renders a form posting the chosen locale. The select
// submits itself when scripts run; the button covers the no-script case.
func LocaleSwitcher(opts LocaleSwitcherOptions) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := writef(w,
			`<form method="POST" action="%s" class="locale-switcher"><input type="hidden" name="path" value="%s"><select name="%s" aria-label="lang-switcher" title="%s" onchange="this.form.submit()">`,
			attr(opts.Action), attr(opts.Path), i18nhttp.LocaleParam, attr(opts.Label),
		); err != nil {
			return err
		}
		for _, option := range opts.Options {
			selected := ""
			if option.Active {
				selected = " selected"
			}
			if err := writef(w, `<option value="%s"%s>%s</option>`, attr(option.Locale), selected, text(option.Label)); err != nil {
				return err
			}
		}
		submit := opts.SubmitLabel
		if submit == "" {
			submit = "OK"
		}
		return writef(w, `</select><noscript><button type="submit">%s</button></noscript></form>`, text(submit))
	})
}
