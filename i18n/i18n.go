// Package i18n localizes seedtr's own user-facing strings.
//
// Catalogs are gettext .po files embedded in the binary under
// locales/{lang}/LC_MESSAGES/seedtr.po and read with gotext. Strings
// without a translation pass through unchanged.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "seedtr"

var (
	po   *gotext.Locale
	lang = "en"
)

// Init loads the catalog for language. When language is empty it is taken
// from LANGUAGE, LC_ALL, LC_MESSAGES or LANG, in that order. It returns the
// language that was selected.
func Init(language string) string {
	if language == "" {
		language = langFromEnv(os.Getenv)
	}
	lang = language

	po = gotext.NewLocaleFSWithPath(language, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
	return lang
}

// Lang returns the language selected by Init, "en" before Init.
func Lang() string {
	return lang
}

// T translates msgid and formats it with args.
func T(msgid string, args ...any) string {
	if po == nil {
		return sprintf(msgid, args)
	}
	return po.Get(msgid, args...)
}

// N translates a message with plural forms and formats it with args.
func N(singular, plural string, n int, args ...any) string {
	if po == nil {
		if n == 1 {
			return sprintf(singular, args)
		}
		return sprintf(plural, args)
	}
	return po.GetN(singular, plural, n, args...)
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// langFromEnv follows the GNU gettext variable priority. "C" and "POSIX"
// mean untranslated and are skipped.
func langFromEnv(getenv func(string) string) string {
	for _, name := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := getenv(name)
		if name == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		val, _, _ = strings.Cut(val, "@")
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
