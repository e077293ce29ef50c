// Package locale loads the site's translation files and picks one per request.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

const (
	// DefaultCode is used when nothing in the request selects a language
	DefaultCode = "en"
	// LangParam is the query parameter used to select a language
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference
	LangCookieName = "lang"
)

//go:embed locales/*.json
var embedded embed.FS

// Site codes that are not BCP 47 tags for the intended language
var codeTags = map[string]language.Tag{
	"ch": language.Chinese,
}

// Locale is one translation file
type Locale struct {
	Code string
	Tag  language.Tag

	raw      []byte
	fallback *Locale
}

// T returns the string at a dotted key such as "nav.login".
// Missing keys fall back to the default locale and then to the key itself.
func (l *Locale) T(key string) string {
	if res := gjson.GetBytes(l.raw, key); res.Exists() {
		return res.String()
	}
	if l.fallback != nil && l.fallback != l {
		return l.fallback.T(key)
	}
	return key
}

// Catalog holds every loaded locale. It is immutable after loading.
type Catalog struct {
	locales  map[string]*Locale
	codes    []string
	matcher  language.Matcher
	byIndex  []*Locale
	fallback *Locale
}

// Load reads *.json files from dir, or the built-in translations when dir is empty
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "locales")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded locales: %w", err)
		}
		return LoadFS(sub)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads *.json files from the root of fsys. The file name without extension is the locale code.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(files)

	c := &Catalog{locales: make(map[string]*Locale, len(files))}
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
		}
		if !gjson.ValidBytes(raw) {
			return nil, fmt.Errorf("locale %s is not valid JSON", name)
		}

		code := strings.TrimSuffix(path.Base(name), ".json")
		c.locales[code] = &Locale{Code: code, Tag: tagForCode(code), raw: raw}
		c.codes = append(c.codes, code)
	}

	fallback, ok := c.locales[DefaultCode]
	if !ok {
		return nil, fmt.Errorf("default locale %q is missing", DefaultCode)
	}
	c.fallback = fallback

	// The default goes first so the matcher falls back to it
	tags := []language.Tag{fallback.Tag}
	c.byIndex = []*Locale{fallback}
	for _, code := range c.codes {
		l := c.locales[code]
		l.fallback = fallback
		if l == fallback {
			continue
		}
		tags = append(tags, l.Tag)
		c.byIndex = append(c.byIndex, l)
	}
	c.matcher = language.NewMatcher(tags)

	return c, nil
}

func tagForCode(code string) language.Tag {
	if tag, ok := codeTags[code]; ok {
		return tag
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und
	}
	return tag
}

// Codes lists the available locale codes in sorted order
func (c *Catalog) Codes() []string {
	return append([]string(nil), c.codes...)
}

// Get returns the locale with the given code
func (c *Catalog) Get(code string) (*Locale, bool) {
	l, ok := c.locales[code]
	return l, ok
}

// Default returns the fallback locale
func (c *Catalog) Default() *Locale {
	return c.fallback
}

// Resolve picks the locale for a request: the lang query parameter, then the lang
// cookie, then Accept-Language. The bool reports whether the choice came from the
// query and should be persisted with SetCookie.
func (c *Catalog) Resolve(r *http.Request) (*Locale, bool) {
	if code := strings.TrimSpace(r.URL.Query().Get(LangParam)); code != "" {
		if l, ok := c.locales[code]; ok {
			return l, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if l, ok := c.locales[cookie.Value]; ok {
			return l, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := c.matcher.Match(tags...)
			if confidence != language.No && index < len(c.byIndex) {
				return c.byIndex[index], false
			}
		}
	}

	return c.fallback, false
}

// SetCookie persists the selected locale on the response
func SetCookie(w http.ResponseWriter, l *Locale) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    l.Code,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
