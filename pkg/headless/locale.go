package headless

import (
	"context"
)

type localeKey struct{}

// WithLocale returns a context carrying the current locale for one request
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the locale set with WithLocale, or ""
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok {
		return v
	}
	return ""
}

// SetLocale validates lang against the locale service and scopes it to ctx.
// An empty lang leaves ctx untouched.
func SetLocale(ctx context.Context, locales LocaleService, lang string) (context.Context, error) {
	if lang == "" {
		return ctx, nil
	}
	if locales == nil {
		return ctx, newRequestError(ErrLocaleUnavailable, "lang", "Language settings are not set.")
	}
	available, err := locales.Locales(ctx)
	if err != nil {
		return ctx, err
	}
	for _, code := range available {
		if code == lang {
			return WithLocale(ctx, lang), nil
		}
	}
	return ctx, newRequestError(ErrLocaleUnavailable, "lang", "Language '%s' not found.", lang)
}
