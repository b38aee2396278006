// Package i18n holds the UI string tables. Tables are embedded YAML files,
// one per language, validated at load time so that a missing key fails at
// startup instead of surfacing as blank text in the page.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when a requested language is unknown.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var locales embed.FS

// Example is a canned content template shown in the quick examples list.
type Example struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Example     string `yaml:"example" json:"example"`
}

// Language is one immutable string table.
type Language struct {
	Code     string             `yaml:"code" json:"code"`
	Name     string             `yaml:"name" json:"name"`
	Flag     string             `yaml:"flag" json:"flag"`
	Strings  map[string]string  `yaml:"strings" json:"-"`
	Examples map[string]Example `yaml:"examples" json:"-"`
}

// Summary is the selector entry for a language.
type Summary struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// ExampleKeys lists the quick examples in display order.
var ExampleKeys = []string{"website", "email", "phone", "sms", "wifi"}

// RequiredKeys lists every string key the page and the notifications use.
var RequiredKeys = []string{
	"title", "subtitle", "subtitleMobile",
	"content", "design", "logo",
	"customizeTitle", "contentSettings", "designSettings", "logoSettings",
	"preview", "quickExamples",
	"contentLabel", "contentPlaceholder", "charactersCount",
	"website", "email", "phone", "wifi",
	"qrCodeSize", "darkColor", "lightColor",
	"logoOptions", "uploadLogo", "logoFileInfo", "logoSize", "logoOpacity",
	"logoStyle", "circular", "square", "removeLogo",
	"downloadQRCode",
	"enterContent", "enterContentDesc", "enterContentDescMobile",
	"qrCodeDetails", "detailsContent", "detailsSize", "detailsLogo",
	"detailsCharacters", "yes", "no",
	"logoUploadSuccess", "logoRemoved", "qrDownloadSuccess",
	"errorGeneratingQR", "errorDownloadingQR", "errorLoadingLogo",
	"errorReadingLogo", "logoTooLarge", "invalidImageFile",
	"selectLanguage",
}

// Catalog is the set of loaded languages. It is read-only after Load and
// safe for concurrent use.
type Catalog struct {
	langs    map[string]*Language
	order    []string
	fallback string
}

// MissingKeysError lists the keys each language failed to define.
type MissingKeysError struct {
	Missing map[string][]string
}

func (e *MissingKeysError) Error() string {
	codes := make([]string, 0, len(e.Missing))
	for code := range e.Missing {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString("incomplete string tables:")
	for _, code := range codes {
		fmt.Fprintf(&b, " %s missing [%s];", code, strings.Join(e.Missing[code], ", "))
	}
	return strings.TrimSuffix(b.String(), ";")
}

// Load reads and validates the embedded tables.
func Load() (*Catalog, error) {
	return LoadFS(locales, "locales", DefaultLanguage)
}

// LoadFS reads every *.yaml table in dir of fsys. fallback must be one of
// the loaded languages.
func LoadFS(fsys fs.FS, dir, fallback string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	c := &Catalog{langs: make(map[string]*Language), fallback: fallback}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var lang Language
		if err := yaml.Unmarshal(data, &lang); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		if lang.Code == "" {
			lang.Code = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		if _, dup := c.langs[lang.Code]; dup {
			return nil, fmt.Errorf("duplicate language %q in %s", lang.Code, entry.Name())
		}
		c.langs[lang.Code] = &lang
	}

	if _, ok := c.langs[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q not loaded", fallback)
	}

	c.order = append(c.order, fallback)
	var rest []string
	for code := range c.langs {
		if code != fallback {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	c.order = append(c.order, rest...)

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	missing := make(map[string][]string)
	for code, lang := range c.langs {
		for _, key := range RequiredKeys {
			if strings.TrimSpace(lang.Strings[key]) == "" {
				missing[code] = append(missing[code], key)
			}
		}
		for _, key := range ExampleKeys {
			ex, ok := lang.Examples[key]
			if !ok || strings.TrimSpace(ex.Example) == "" {
				missing[code] = append(missing[code], "examples."+key)
			}
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Missing: missing}
	}
	return nil
}

// Has reports whether code names a loaded language.
func (c *Catalog) Has(code string) bool {
	_, ok := c.langs[code]
	return ok
}

// Fallback returns the default language code.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// Languages returns the selector entries, fallback language first.
func (c *Catalog) Languages() []Summary {
	out := make([]Summary, 0, len(c.order))
	for _, code := range c.order {
		l := c.langs[code]
		out = append(out, Summary{Code: l.Code, Name: l.Name, Flag: l.Flag})
	}
	return out
}

// Text returns the string for key in code, falling back to the default
// language and finally to the key itself.
func (c *Catalog) Text(code, key string) string {
	if l, ok := c.langs[code]; ok {
		if s, ok := l.Strings[key]; ok {
			return s
		}
	}
	if s, ok := c.langs[c.fallback].Strings[key]; ok {
		return s
	}
	return key
}

// Strings returns a copy of the full table for code.
func (c *Catalog) Strings(code string) map[string]string {
	l, ok := c.langs[code]
	if !ok {
		l = c.langs[c.fallback]
	}
	out := make(map[string]string, len(l.Strings))
	for k, v := range l.Strings {
		out[k] = v
	}
	return out
}

// Example returns the quick example named key in code.
func (c *Catalog) Example(code, key string) (Example, bool) {
	l, ok := c.langs[code]
	if !ok {
		l = c.langs[c.fallback]
	}
	ex, ok := l.Examples[key]
	return ex, ok
}

// Examples returns the quick examples for code in display order.
func (c *Catalog) Examples(code string) []NamedExample {
	out := make([]NamedExample, 0, len(ExampleKeys))
	for _, key := range ExampleKeys {
		if ex, ok := c.Example(code, key); ok {
			out = append(out, NamedExample{Key: key, Example: ex})
		}
	}
	return out
}

// NamedExample pairs an example with its selection key.
type NamedExample struct {
	Key string `json:"key"`
	Example
}
