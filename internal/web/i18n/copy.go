// Package i18n resolves UI copy for the calculator pages.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "reckon_lang"
)

var (
	english    = language.MustParse("en-US")
	portuguese = language.MustParse("pt-BR")

	supported = []language.Tag{english, portuguese}
	matcher   = language.NewMatcher(supported)
)

// Copy holds translatable copy for the calculator page.
type Copy struct {
	Title           string
	MetaDescription string
	HistoryTitle    string
	HistoryEmpty    string
	HistoryClear    string
	ErrorHint       string
}

// Supported returns the supported language tags.
func Supported() []language.Tag {
	return supported
}

// Default returns the default language tag.
func Default() language.Tag {
	return english
}

// ResolveTag determines the best language tag for the request: explicit query
// parameter, then cookie, then Accept-Language, then the default. The bool
// reports whether the choice should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return english, false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := parseTag(value); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			_, index, _ := matcher.Match(tags...)
			return supported[index], false
		}
	}
	return english, false
}

// For returns localized copy for the provided tag.
func For(tag language.Tag) Copy {
	if tag == portuguese {
		return Copy{
			Title:           "Calculadora",
			MetaDescription: "Uma calculadora aritmética com histórico persistente.",
			HistoryTitle:    "Histórico",
			HistoryEmpty:    "Nenhum cálculo ainda.",
			HistoryClear:    "Limpar histórico",
			ErrorHint:       "Pressione AC para recomeçar.",
		}
	}
	return Copy{
		Title:           "Calculator",
		MetaDescription: "An arithmetic calculator with persistent history.",
		HistoryTitle:    "History",
		HistoryEmpty:    "No calculations yet.",
		HistoryClear:    "Clear history",
		ErrorHint:       "Press AC to start over.",
	}
}

func parseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return language.Tag{}, false
	}
	return supported[index], true
}
