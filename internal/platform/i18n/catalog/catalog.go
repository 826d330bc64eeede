// Package catalog loads the embedded locale message catalogs and registers
// them with golang.org/x/text/message.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadAndRegister()

// Bundle holds messages per locale, grouped by namespace.
type Bundle struct {
	locales map[string]map[string]map[string]string
}

// Default returns the process-wide embedded bundle. Its messages are
// registered with the x/text default catalog.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/<locale>/<namespace>.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	bundle := &Bundle{locales: map[string]map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		file, err := parseFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

type catalogFile struct {
	locale    string
	namespace string
	messages  map[string]string
}

func (b *Bundle) add(p string, file catalogFile) error {
	wantLocale := path.Base(path.Dir(p))
	wantNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if file.locale != wantLocale {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, file.locale, wantLocale)
	}
	if file.namespace != wantNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, file.namespace, wantNamespace)
	}

	namespaces, ok := b.locales[file.locale]
	if !ok {
		namespaces = map[string]map[string]string{}
		b.locales[file.locale] = namespaces
	}
	for namespace, messages := range namespaces {
		for key := range file.messages {
			if _, dup := messages[key]; dup {
				return fmt.Errorf("catalog %s: key %q already defined in namespace %q", p, key, namespace)
			}
		}
	}
	namespaces[file.namespace] = file.messages
	return nil
}

// Register adds every message to the x/text default catalog, under both the
// full locale tag and its base language.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, msg := range b.LocaleMessages(locale) {
			for _, t := range tags {
				if err := message.SetString(t, key, msg); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether the bundle defines locale.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the sorted locale identifiers.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.locales))
}

// LocaleMessages returns a copy of every message defined for locale.
func (b *Bundle) LocaleMessages(locale string) map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	for _, messages := range b.locales[strings.TrimSpace(locale)] {
		maps.Copy(out, messages)
	}
	return out
}

// NamespaceMessages returns the messages of one namespace, falling back to
// the base locale, and the locale that satisfied the lookup.
func (b *Bundle) NamespaceMessages(locale, namespace string) (string, map[string]string) {
	locale = strings.TrimSpace(locale)
	if b != nil {
		if messages, ok := b.locales[locale][namespace]; ok {
			return locale, maps.Clone(messages)
		}
		if messages, ok := b.locales[BaseLocale][namespace]; ok {
			return BaseLocale, maps.Clone(messages)
		}
	}
	return BaseLocale, map[string]string{}
}

func mustLoadAndRegister() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}

func parseFile(data []byte) (catalogFile, error) {
	var raw struct {
		Locale    string            `yaml:"locale"`
		Namespace string            `yaml:"namespace"`
		Messages  map[string]string `yaml:"messages"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return catalogFile{}, err
	}
	file := catalogFile{
		locale:    strings.TrimSpace(raw.Locale),
		namespace: strings.TrimSpace(raw.Namespace),
		messages:  make(map[string]string, len(raw.Messages)),
	}
	switch {
	case file.locale == "":
		return catalogFile{}, fmt.Errorf("missing locale")
	case file.namespace == "":
		return catalogFile{}, fmt.Errorf("missing namespace")
	case len(raw.Messages) == 0:
		return catalogFile{}, fmt.Errorf("missing messages")
	}
	for key, value := range raw.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return catalogFile{}, fmt.Errorf("message key cannot be blank")
		}
		file.messages[key] = value
	}
	return file, nil
}
