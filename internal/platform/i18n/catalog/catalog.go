// Package catalog loads the embedded UI and error messages and registers them
// with golang.org/x/text/message so printers resolve them by key.
//
// Files live at locales/<locale>/<namespace>.yaml. Keys are unique per locale
// across namespaces, and "core." keys belong to the core namespace.
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

// BaseLocale supplies every key and backs missing translations.
const BaseLocale = "es-CL"

const coreNamespace = "core"

//go:embed locales/*/*.yaml
var embedded embed.FS

var defaultBundle = mustRegister(LoadEmbedded())

// file is the YAML shape of one namespace file.
type file struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// locale groups one locale's messages by namespace and flattened by key.
type locale struct {
	namespaces map[string]map[string]string
	keys       map[string]string
}

// Bundle is a validated set of locale catalogs.
type Bundle struct {
	locales map[string]*locale
}

// Default returns the embedded bundle, already registered with x/text.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embedded)
}

// LoadFromFS loads and validates every locales/*/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	b := &Bundle{locales: map[string]*locale{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var f file
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, f); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
	}
	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) add(p string, f file) error {
	wantLocale := path.Base(path.Dir(p))
	wantNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	name := strings.TrimSpace(f.Locale)
	namespace := strings.TrimSpace(f.Namespace)

	switch {
	case name == "":
		return fmt.Errorf("locale is required")
	case name != wantLocale:
		return fmt.Errorf("locale %q must match path locale %q", name, wantLocale)
	case namespace == "":
		return fmt.Errorf("namespace is required")
	case namespace != wantNamespace:
		return fmt.Errorf("namespace %q must match filename namespace %q", namespace, wantNamespace)
	case len(f.Messages) == 0:
		return fmt.Errorf("messages map is required")
	}

	loc := b.locales[name]
	if loc == nil {
		loc = &locale{namespaces: map[string]map[string]string{}, keys: map[string]string{}}
		b.locales[name] = loc
	}
	if _, ok := loc.namespaces[namespace]; ok {
		return fmt.Errorf("namespace %q already defined for locale %q", namespace, name)
	}

	messages := make(map[string]string, len(f.Messages))
	for raw, text := range f.Messages {
		key := strings.TrimSpace(raw)
		if key == "" {
			return fmt.Errorf("message key cannot be blank")
		}
		if strings.HasPrefix(key, coreNamespace+".") && namespace != coreNamespace {
			return fmt.Errorf("key %q must be defined in core namespace", key)
		}
		if _, ok := loc.keys[key]; ok {
			return fmt.Errorf("duplicate key %q in locale %q", key, name)
		}
		loc.keys[key] = text
		messages[key] = text
	}
	loc.namespaces[namespace] = messages
	return nil
}

// Register installs every message with x/text/message under the locale tag
// and its bare language, so "es" resolves to es-CL text.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, name := range b.Locales() {
		tag, err := language.Parse(name)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", name, err)
		}
		tags := []language.Tag{tag}
		if base, confidence := tag.Base(); confidence != language.No {
			if bare := language.Make(base.String()); bare != tag && bare != language.Und {
				tags = append(tags, bare)
			}
		}
		keys := b.locales[name].keys
		for _, key := range slices.Sorted(maps.Keys(keys)) {
			for _, t := range tags {
				if err := message.SetString(t, key, keys[key]); err != nil {
					return fmt.Errorf("register %s/%s: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether name was loaded.
func (b *Bundle) HasLocale(name string) bool {
	return b.lookup(name) != nil
}

// Locales returns the loaded locale identifiers in order.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.locales))
}

// LocaleMessages returns a copy of every message of name.
func (b *Bundle) LocaleMessages(name string) map[string]string {
	if loc := b.lookup(name); loc != nil {
		return maps.Clone(loc.keys)
	}
	return map[string]string{}
}

// NamespaceMessages returns a copy of one namespace of name.
func (b *Bundle) NamespaceMessages(name, namespace string) map[string]string {
	if loc := b.lookup(name); loc != nil {
		if messages, ok := loc.namespaces[strings.TrimSpace(namespace)]; ok {
			return maps.Clone(messages)
		}
	}
	return map[string]string{}
}

// NamespaceMessagesWithFallback returns one namespace of name, or of
// BaseLocale when name has none, with the locale that served it.
func (b *Bundle) NamespaceMessagesWithFallback(name, namespace string) (string, map[string]string) {
	name = strings.TrimSpace(name)
	if messages := b.NamespaceMessages(name, namespace); len(messages) > 0 {
		return name, messages
	}
	return BaseLocale, b.NamespaceMessages(BaseLocale, namespace)
}

// Message returns one message of name, falling back to BaseLocale.
func (b *Bundle) Message(name, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	for _, candidate := range []string{name, BaseLocale} {
		if loc := b.lookup(candidate); loc != nil {
			if text, ok := loc.keys[key]; ok {
				return text, true
			}
		}
	}
	return "", false
}

func (b *Bundle) lookup(name string) *locale {
	if b == nil {
		return nil
	}
	return b.locales[strings.TrimSpace(name)]
}

func mustRegister(b *Bundle, err error) *Bundle {
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}
