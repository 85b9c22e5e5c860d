// Package catalog loads existing translations and applies them to the
// cliques of a build. Translations are keyed by the real source text of a
// message plus its meaning, the same way gettext keys msgid and msgctxt, so
// a PO file exported by grist can be translated and read back unchanged.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leonelquinteros/gotext"

	"github.com/minios-linux/grist/clique"
)

// Lookup finds the translated text for a source string. The translated
// text uses the same placeholder originals as the source.
type Lookup interface {
	Lookup(source, meaning string) (string, bool)
}

// ---------------------------------------------------------------------------
// In-memory mapping
// ---------------------------------------------------------------------------

// Key identifies a source string.
type Key struct {
	Source  string
	Meaning string
}

// Mapping is a Lookup backed by a map.
type Mapping map[Key]string

// Lookup implements Lookup. Empty translations count as missing.
func (m Mapping) Lookup(source, meaning string) (string, bool) {
	s, ok := m[Key{Source: source, Meaning: meaning}]
	return s, ok && s != ""
}

// ---------------------------------------------------------------------------
// PO catalogs
// ---------------------------------------------------------------------------

// POCatalog is a Lookup over a parsed PO file.
type POCatalog struct {
	po   *gotext.Po
	path string
}

// ParsePO parses PO data held in memory.
func ParsePO(data []byte) *POCatalog {
	po := gotext.NewPo()
	po.Parse(data)
	return &POCatalog{po: po}
}

// LoadPOFile reads and parses a PO file.
func LoadPOFile(path string) (*POCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c := ParsePO(data)
	c.path = path
	return c, nil
}

// Path returns the file the catalog was loaded from, if any.
func (c *POCatalog) Path() string { return c.path }

// Lookup implements Lookup. A meaning is matched against msgctxt.
func (c *POCatalog) Lookup(source, meaning string) (string, bool) {
	if meaning != "" {
		if !c.po.IsTranslatedC(source, meaning) {
			return "", false
		}
		return c.po.GetC(source, meaning), true
	}
	if !c.po.IsTranslated(source) {
		return "", false
	}
	return c.po.Get(source), true
}

// LoadDir loads {dir}/{lang}.po for every language. Languages without a
// file are left out of the result.
func LoadDir(dir string, langs []string) (map[string]Lookup, error) {
	out := make(map[string]Lookup, len(langs))
	for _, lang := range langs {
		path := filepath.Join(dir, lang+".po")
		c, err := LoadPOFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		out[lang] = c
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Applying translations
// ---------------------------------------------------------------------------

// Result summarizes an Apply call.
type Result struct {
	// Applied is the number of translations added to cliques.
	Applied int
	// Missing is the number of translateable cliques the lookup had no
	// text for.
	Missing int
	// Rejected holds the translations that failed placeholder validation.
	Rejected []error
}

// Apply adds the translations for lang found in lookup to every
// translateable clique of u. Translations whose placeholders do not match
// the source are rejected and reported; they never reach the clique.
func Apply(u *clique.UberClique, lang string, lookup Lookup) Result {
	var res Result
	if lang == u.Policy().SourceLanguage {
		return res
	}
	for c := range u.AllCliques() {
		if !c.Translateable() {
			continue
		}
		msg := c.Message()
		text, ok := lookup.Lookup(msg.RealContent(), msg.Meaning())
		if !ok {
			res.Missing++
			continue
		}
		if err := c.AddTranslationText(lang, text); err != nil {
			res.Rejected = append(res.Rejected, fmt.Errorf("clique %s: %w", c.ID(), err))
			continue
		}
		res.Applied++
	}
	return res
}
