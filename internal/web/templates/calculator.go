// Package templates renders the calculator pages.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/louisbranch/reckon.space/internal/platform/branding"
	"github.com/louisbranch/reckon.space/internal/web/i18n"
)

// CalculatorView holds display state for the calculator page.
type CalculatorView struct {
	// Display is the current display register contents.
	Display string
	// Errored reports whether the calculator is in the error state.
	Errored bool
	// Lang is the BCP 47 tag for the page language.
	Lang string
	// Copy is the localized page copy.
	Copy i18n.Copy
}

// HistoryRow holds a formatted history entry for display.
type HistoryRow struct {
	// Expression is the evaluated expression, e.g. "5 + 3".
	Expression string
	// Result is the formatted result.
	Result string
	// When is the formatted completion time.
	When string
}

// HistoryView holds the history panel contents.
type HistoryView struct {
	Rows []HistoryRow
	Copy i18n.Copy
}

// keypad rows mirror the physical layout of a four-function calculator.
var keypadRows = [][]keypadButton{
	{{"AC", "key-action"}, {"CE", "key-action"}, {"÷", "key-op"}, {"×", "key-op"}},
	{{"7", "key-digit"}, {"8", "key-digit"}, {"9", "key-digit"}, {"-", "key-op"}},
	{{"4", "key-digit"}, {"5", "key-digit"}, {"6", "key-digit"}, {"+", "key-op"}},
	{{"1", "key-digit"}, {"2", "key-digit"}, {"3", "key-digit"}, {"=", "key-equals"}},
	{{"0", "key-digit key-wide"}, {".", "key-digit"}},
}

type keypadButton struct {
	label string
	class string
}

// Display renders the display register fragment.
func Display(view CalculatorView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		class := "display"
		if view.Errored {
			class = "display display-error"
		}
		if _, err := fmt.Fprintf(w, `<div id="display" class=%q><output class="display-value" aria-live="polite">%s</output>`,
			class, templ.EscapeString(view.Display)); err != nil {
			return err
		}
		if view.Errored {
			if _, err := fmt.Fprintf(w, `<p class="display-hint">%s</p>`,
				templ.EscapeString(view.Copy.ErrorHint)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// History renders the history panel fragment.
func History(view HistoryView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<section id="history"><h2>%s</h2>`,
			templ.EscapeString(view.Copy.HistoryTitle)); err != nil {
			return err
		}
		if len(view.Rows) == 0 {
			if _, err := fmt.Fprintf(w, `<p class="history-empty">%s</p>`,
				templ.EscapeString(view.Copy.HistoryEmpty)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<ul class="history-list">`); err != nil {
				return err
			}
			for _, row := range view.Rows {
				if _, err := fmt.Fprintf(w,
					`<li><span class="history-expr">%s =</span> <span class="history-result">%s</span> <time>%s</time></li>`,
					templ.EscapeString(row.Expression),
					templ.EscapeString(row.Result),
					templ.EscapeString(row.When)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w,
			`<button class="history-clear" hx-post="/history/clear" hx-target="#history" hx-swap="outerHTML">%s</button></section>`,
			templ.EscapeString(view.Copy.HistoryClear)); err != nil {
			return err
		}
		return nil
	})
}

// Keypad renders the button grid. Every key posts to /keys and swaps the
// display register in place.
func Keypad() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="keypad">`); err != nil {
			return err
		}
		for _, row := range keypadRows {
			for _, button := range row {
				if _, err := fmt.Fprintf(w,
					`<button class=%q hx-post="/keys" hx-vals='{"key":%q}' hx-target="#display" hx-swap="outerHTML">%s</button>`,
					button.class, button.label, templ.EscapeString(button.label)); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// Page renders the full calculator page.
func Page(calculator CalculatorView, history HistoryView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := calculator.Lang
		if lang == "" {
			lang = i18n.Default().String()
		}
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang=%q><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><meta name="description" content=%q><title>%s · %s</title><script src="https://unpkg.com/htmx.org@1.9.12"></script></head><body><main class="calculator">`,
			lang,
			calculator.Copy.MetaDescription,
			templ.EscapeString(calculator.Copy.Title),
			templ.EscapeString(branding.AppName)); err != nil {
			return err
		}
		if err := Display(calculator).Render(ctx, w); err != nil {
			return err
		}
		if err := Keypad().Render(ctx, w); err != nil {
			return err
		}
		if err := History(history).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
