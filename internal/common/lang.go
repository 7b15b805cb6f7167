package common

import (
	"strings"

	"golang.org/x/text/language"
)

// Language selects the locale used for upstream requests and localized strings.
type Language string

const (
	LanguageEN Language = "en"
	LanguageZH Language = "zh"

	DefaultLanguage = LanguageZH
)

var langMatcher = language.NewMatcher([]language.Tag{
	language.Chinese,
	language.English,
})

// ParseLanguage maps a BCP-47 tag or Accept-Language header value onto a supported
// Language. Anything unrecognised yields DefaultLanguage.
func ParseLanguage(s string) Language {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	if idx == 1 {
		return LanguageEN
	}
	return LanguageZH
}

// IsZH is shorthand used by adapters that pick between two upstream locale spellings.
func (l Language) IsZH() bool {
	return l == LanguageZH
}

// Pick returns zh or en depending on the language.
func (l Language) Pick(zh, en string) string {
	if l.IsZH() {
		return zh
	}
	return en
}
