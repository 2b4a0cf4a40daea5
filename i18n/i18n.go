// Package i18n holds the UI strings for every supported locale.
//
// Locale files are YAML maps under locales/<lang>/; nested keys are
// flattened with dots, so
//
//	header:
//	  title: HMC Information Portal
//
// is looked up as "header.title".
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Fallback is used when a key is missing in the requested locale.
const Fallback = "en"

//go:embed locales
var localeFS embed.FS

// Bundle maps lang -> dotted key -> message.
type Bundle struct {
	messages map[string]map[string]string
	matcher  language.Matcher
	langs    []string
}

var defaultBundle = sync.OnceValues(func() (*Bundle, error) {
	sub, err := fs.Sub(localeFS, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub)
})

// Default returns the bundle built from the embedded locale files.
func Default() *Bundle {
	b, err := defaultBundle()
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded locales: %v", err))
	}
	return b
}

// Load reads <lang>/*.yaml from fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	b := &Bundle{messages: map[string]map[string]string{}}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := path.Ext(p); ext != ".yaml" && ext != ".yml" {
			return nil
		}
		lang, _, ok := strings.Cut(p, "/")
		if !ok {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("i18n: parse %s: %w", p, err)
		}
		if b.messages[lang] == nil {
			b.messages[lang] = map[string]string{}
		}
		flatten("", doc, b.messages[lang])
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(b.messages) == 0 {
		return nil, fmt.Errorf("i18n: no locale files found")
	}

	for lang := range b.messages {
		b.langs = append(b.langs, lang)
	}
	sort.Strings(b.langs)
	// The fallback goes first so the matcher prefers it on a tie.
	tags := []language.Tag{language.Make(Fallback)}
	for _, lang := range b.langs {
		if lang != Fallback {
			tags = append(tags, language.Make(lang))
		}
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Languages lists the loaded locale codes.
func (b *Bundle) Languages() []string {
	return append([]string(nil), b.langs...)
}

// Has reports whether lang defines key.
func (b *Bundle) Has(lang, key string) bool {
	_, ok := b.messages[lang][key]
	return ok
}

// T returns the message for key in lang, formatted with args. Missing keys
// fall back to the English message and then to the key itself.
func (b *Bundle) T(lang, key string, args ...any) string {
	msg, ok := b.messages[lang][key]
	if !ok {
		msg, ok = b.messages[Fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Match picks the best supported locale for the given preferences. Each
// preference may be a BCP 47 tag, an Accept-Language list or a POSIX locale
// such as de_DE.UTF-8. Unparseable or unsupported preferences yield the
// fallback.
func (b *Bundle) Match(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		p = normalizePOSIX(p)
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Fallback
	}

	tag, _, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return Fallback
	}
	base, _ := tag.Base()
	if _, ok := b.messages[base.String()]; ok {
		return base.String()
	}
	return Fallback
}

// Detect picks a locale from the configured value, then LC_ALL,
// LC_MESSAGES and LANG.
func (b *Bundle) Detect(configured string) string {
	prefs := []string{configured}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		prefs = append(prefs, os.Getenv(env))
	}
	for _, p := range prefs {
		if normalizePOSIX(p) == "" {
			continue
		}
		return b.Match(p)
	}
	return Fallback
}

// normalizePOSIX turns "de_DE.UTF-8@euro" into "de-DE". The C and POSIX
// locales carry no language and become "".
func normalizePOSIX(s string) string {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, ",;") {
		return s
	}
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
