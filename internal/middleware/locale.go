package middleware

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey stores the negotiated UI locale in the request context.
var LocaleKey = localeContextKey{}

// supportedLocales lists the languages user-visible messages exist in. The
// first entry is the fallback.
var supportedLocales = language.NewMatcher([]language.Tag{
	language.English,
	language.Japanese,
})

// Locale negotiates the response language from Accept-Language (or an
// explicit X-Locale override) against the supported set.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept := r.Header.Get("Accept-Language")
		if v := r.Header.Get("X-Locale"); v != "" {
			accept = v
		}
		tag, _ := language.MatchStrings(supportedLocales, accept)
		base, _ := tag.Base()
		ctx := context.WithValue(r.Context(), LocaleKey, base.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext returns the negotiated locale, defaulting to English.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok && v != "" {
		return v
	}
	return "en"
}
