package i18n

import (
	"golang.org/x/text/language"
)

// Match picks the best loaded language for an Accept-Language header value.
// It returns the fallback language when nothing matches.
func (c *Catalog) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}

	supported := make([]language.Tag, len(c.order))
	for i, code := range c.order {
		supported[i] = language.Make(code)
	}

	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(c.order) {
		return c.fallback
	}
	return c.order[idx]
}
