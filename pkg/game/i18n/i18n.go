// Package i18n resolves user-facing message keys. Translations ship
// embedded in the binary; a locale directory on disk can override them.
package i18n

import (
	"embed"
	"path"

	"github.com/leonelquinteros/gotext"
)

const (
	// DefaultLanguage is used when the requested language has no catalogue
	DefaultLanguage = "en_GB"
	domain          = "default"
)

//go:embed locales/*/default.po
var catalogues embed.FS

var (
	current  *gotext.Po
	external bool
)

func init() {
	Init("", DefaultLanguage)
}

// Init selects the language. With a non-empty localeDir, catalogues are
// read from localeDir/<lang>/default.po via gotext; otherwise the embedded
// catalogue for lang (or DefaultLanguage) is used.
func Init(localeDir, lang string) {
	if localeDir != "" {
		gotext.Configure(localeDir, lang, domain)
		external = true
		return
	}
	external = false

	data, err := catalogues.ReadFile(path.Join("locales", lang, domain+".po"))
	if err != nil {
		data, _ = catalogues.ReadFile(path.Join("locales", DefaultLanguage, domain+".po"))
	}
	po := gotext.NewPo()
	po.Parse(data)
	current = po
}

// Get returns the translation for key formatted with vars. Unknown keys
// come back as the key itself.
func Get(key string, vars ...any) string {
	if external {
		return gotext.Get(key, vars...)
	}
	return current.Get(key, vars...)
}
