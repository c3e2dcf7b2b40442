package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goodsign/monday"
)

// DefaultDateLayout matches the long date/time form used in stream items.
const DefaultDateLayout = "January 2, 2006 at 15:04:05"

var baseLanguageLocales = map[string]monday.Locale{
	"en": monday.LocaleEnUS,
	"de": monday.LocaleDeDE,
	"fr": monday.LocaleFrFR,
	"es": monday.LocaleEsES,
	"it": monday.LocaleItIT,
	"pt": monday.LocalePtPT,
	"nl": monday.LocaleNlNL,
	"ru": monday.LocaleRuRU,
	"ja": monday.LocaleJaJP,
}

// LocalizedDateTimeFormatter renders absolute dates in the viewer's locale
// and relative dates ("3 minutes ago") against the injected clock.
type LocalizedDateTimeFormatter struct {
	Locale   string
	Layout   string
	Location *time.Location
	Now      func() time.Time
}

// NewLocalizedDateTimeFormatter builds a formatter with the provided fallback locale.
func NewLocalizedDateTimeFormatter(locale string) *LocalizedDateTimeFormatter {
	return &LocalizedDateTimeFormatter{
		Locale:   locale,
		Layout:   DefaultDateLayout,
		Location: time.Local,
		Now:      time.Now,
	}
}

// FormatAbsolute renders ts using the viewer locale from ctx when present.
func (f *LocalizedDateTimeFormatter) FormatAbsolute(ctx context.Context, ts time.Time) string {
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	if f.Location != nil {
		ts = ts.In(f.Location)
	}
	return monday.Format(ts, layout, f.localeFor(ctx))
}

// FormatRelative renders ts relative to the formatter clock.
func (f *LocalizedDateTimeFormatter) FormatRelative(_ context.Context, ts time.Time) string {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return humanize.RelTime(ts, now(), "ago", "from now")
}

func (f *LocalizedDateTimeFormatter) localeFor(ctx context.Context) monday.Locale {
	if viewer, ok := ViewerFromContext(ctx); ok && viewer.Locale != "" {
		return ResolveLocale(viewer.Locale)
	}
	return ResolveLocale(f.Locale)
}

// ResolveLocale maps "es-mx", "de" or "fr_FR" style tags to a monday locale.
// Region tags monday does not know fall back to their base language, and
// unknown languages fall back to en_US.
func ResolveLocale(tag string) monday.Locale {
	tag = normalizeLocale(tag)
	if tag == "" {
		return monday.LocaleEnUS
	}
	lang, region, _ := strings.Cut(tag, "_")
	if region != "" {
		candidate := monday.Locale(lang + "_" + strings.ToUpper(region))
		if _, ok := supportedLocales()[candidate]; ok {
			return candidate
		}
	}
	if locale, ok := baseLanguageLocales[lang]; ok {
		return locale
	}
	return monday.LocaleEnUS
}

var (
	supportedLocalesOnce sync.Once
	supportedLocaleSet   map[monday.Locale]struct{}
)

func supportedLocales() map[monday.Locale]struct{} {
	supportedLocalesOnce.Do(func() {
		locales := monday.ListLocales()
		supportedLocaleSet = make(map[monday.Locale]struct{}, len(locales))
		for _, locale := range locales {
			supportedLocaleSet[locale] = struct{}{}
		}
	})
	return supportedLocaleSet
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(strings.ToLower(locale))
	return strings.ReplaceAll(locale, "-", "_")
}
