// Package config loads .grist.yaml, the project file that declares which
// source documents grist gathers, which languages it builds and where the
// translations and outputs live. Every source must be declared; nothing is
// auto-detected except the language list.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/langmeta"
)

// FileName is the default config file name.
const FileName = ".grist.yaml"

// ErrNoConfig is returned by Load when the project has no config file.
var ErrNoConfig = errors.New("config: no " + FileName + " found")

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// Config is the top-level .grist.yaml structure.
type Config struct {
	// Project fills the headers of exported PO files.
	Project Project `yaml:"project,omitempty"`
	// SourceLang is the language of the source documents (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Languages are the translated languages to build. When empty they are
	// detected from the PO files in TranslationsDir.
	Languages []string `yaml:"languages,omitempty"`
	// FallbackToEnglish lets untranslated messages resolve to the source
	// text (default true).
	FallbackToEnglish *bool `yaml:"fallback_to_english,omitempty"`
	// PseudoLocales are generated rather than translated (default en-XA and ar-XB).
	PseudoLocales []string `yaml:"pseudo_locales,omitempty"`
	// DescriptionMap overrides the descriptions given to RC statements.
	DescriptionMap map[string]string `yaml:"description_map,omitempty"`
	// TranslationsDir holds {lang}.po files (default "translations").
	TranslationsDir string `yaml:"translations_dir,omitempty"`
	// OutputDir receives generated files (default "out").
	OutputDir string `yaml:"output_dir,omitempty"`
	// Lock enables grist.lock (default true).
	Lock *bool `yaml:"lock,omitempty"`
	// Workers bounds parallel gathering (default 4).
	Workers int `yaml:"workers,omitempty"`
	// Sources are the documents to gather.
	Sources []Source `yaml:"sources"`

	root string
}

// Project identifies the translated package.
type Project struct {
	Name        string `yaml:"name,omitempty"`
	Version     string `yaml:"version,omitempty"`
	BugsAddress string `yaml:"bugs_address,omitempty"`
}

// Source is one document to gather.
type Source struct {
	// Name is a label used in logs, the lock file and output names.
	Name string `yaml:"name"`
	// Type is one of the SourceType constants.
	Type string `yaml:"type"`
	// Path is relative to the config file.
	Path string `yaml:"path"`
	// ID is the resource id of a txt source (default derived from Path).
	ID string `yaml:"id,omitempty"`
	// Description is attached to the message of a txt source.
	Description string `yaml:"description,omitempty"`
	// Outputs lists the artifacts generated per language (default "source").
	Outputs []string `yaml:"outputs,omitempty"`
}

// Source types.
const (
	SourceTypeRC           = "rc"
	SourceTypeTxt          = "txt"
	SourceTypeMessagesJSON = "messages_json"
)

// Output kinds.
const (
	// OutputSource regenerates the source document in each language.
	OutputSource = "source"
	// OutputSwitch writes a C switch statement per language.
	OutputSwitch = "switch"
	// OutputMessagesJSON writes a JSON message bundle per language.
	OutputMessagesJSON = "messages_json"
	// OutputAndroidXML writes Android string resources per language.
	OutputAndroidXML = "android_xml"
	// OutputProperties writes a Java resource bundle per language.
	OutputProperties = "properties"
)

var (
	sourceTypes = []string{SourceTypeRC, SourceTypeTxt, SourceTypeMessagesJSON}
	outputKinds = []string{OutputSource, OutputSwitch, OutputMessagesJSON, OutputAndroidXML, OutputProperties}
)

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads .grist.yaml from rootDir, applies .env and GRIST_* overrides,
// fills defaults and validates the result.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(rootDir, data)
}

// Parse decodes config data for a project rooted at rootDir.
func Parse(rootDir string, data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	c.root = abs

	if err := applyEnv(&c, rootDir); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}
	return &c, nil
}

func (c *Config) setDefaults() {
	if c.SourceLang == "" {
		c.SourceLang = "en"
	}
	c.SourceLang = langmeta.Canonicalize(c.SourceLang)
	if c.FallbackToEnglish == nil {
		c.FallbackToEnglish = ptr(true)
	}
	if c.PseudoLocales == nil {
		c.PseudoLocales = []string{"en-XA", "ar-XB"}
	}
	if c.TranslationsDir == "" {
		c.TranslationsDir = "translations"
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.Lock == nil {
		c.Lock = ptr(true)
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	for i := range c.Languages {
		c.Languages[i] = langmeta.Canonicalize(c.Languages[i])
	}
	for i := range c.PseudoLocales {
		c.PseudoLocales[i] = langmeta.Canonicalize(c.PseudoLocales[i])
	}
	for i := range c.Sources {
		if len(c.Sources[i].Outputs) == 0 {
			c.Sources[i].Outputs = []string{OutputSource}
		}
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source #%d has no name", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
		if s.Path == "" {
			return fmt.Errorf("source %q has no path", s.Name)
		}
		if !slices.Contains(sourceTypes, s.Type) {
			return fmt.Errorf("source %q has unknown type %q (valid: rc, txt, messages_json)", s.Name, s.Type)
		}
		for _, out := range s.Outputs {
			if !slices.Contains(outputKinds, out) {
				return fmt.Errorf("source %q has unknown output %q (valid: source, switch, messages_json)", s.Name, out)
			}
		}
	}
	for _, lang := range c.Languages {
		if lang == c.SourceLang {
			return fmt.Errorf("language %q is the source language", lang)
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// ---------------------------------------------------------------------------
// Resolved values
// ---------------------------------------------------------------------------

// Root returns the absolute project directory.
func (c *Config) Root() string { return c.root }

// SourcePath returns the absolute path of a source document.
func (c *Config) SourcePath(s Source) string { return c.abs(s.Path) }

// TranslationsPath returns the absolute translations directory.
func (c *Config) TranslationsPath() string { return c.abs(c.TranslationsDir) }

// OutputPath returns the absolute output directory.
func (c *Config) OutputPath() string { return c.abs(c.OutputDir) }

func (c *Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// TranslatedLanguages returns the configured languages, or the languages
// of the PO files found in the translations directory.
func (c *Config) TranslatedLanguages() []string {
	if len(c.Languages) > 0 {
		return c.Languages
	}
	var langs []string
	for _, lang := range detectLanguages(c.TranslationsPath()) {
		if lang != c.SourceLang && !slices.Contains(c.PseudoLocales, lang) {
			langs = append(langs, lang)
		}
	}
	return langs
}

// OutputLanguages returns every language an output is built for: the
// source language, the translated languages and the pseudo-locales,
// sorted and without duplicates.
func (c *Config) OutputLanguages() []string {
	set := map[string]bool{c.SourceLang: true}
	for _, l := range c.TranslatedLanguages() {
		set[l] = true
	}
	for _, l := range c.PseudoLocales {
		set[l] = true
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Policy returns the translation fallback policy of the project.
func (c *Config) Policy() clique.Policy {
	p := clique.Policy{
		SourceLanguage:    c.SourceLang,
		FallbackToEnglish: *c.FallbackToEnglish,
		PseudoLocales:     make(map[string]bool, len(c.PseudoLocales)),
	}
	for _, l := range c.PseudoLocales {
		p.PseudoLocales[l] = true
	}
	return p
}

// LockEnabled reports whether grist.lock is maintained.
func (c *Config) LockEnabled() bool { return *c.Lock }
