// Package pipeline runs a complete grist build: gather every configured
// document, load translations, synthesize pseudo-locales, check keyboard
// shortcuts and write the outputs for every language.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/minios-linux/grist/android"
	"github.com/minios-linux/grist/catalog"
	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/config"
	"github.com/minios-linux/grist/extract"
	"github.com/minios-linux/grist/format"
	"github.com/minios-linux/grist/gather"
	"github.com/minios-linux/grist/lockfile"
	"github.com/minios-linux/grist/merge"
	"github.com/minios-linux/grist/pofile"
	"github.com/minios-linux/grist/propfile"
	"github.com/minios-linux/grist/pseudo"
	"github.com/minios-linux/grist/shortcuts"
)

// Options tunes a run.
type Options struct {
	// Logger receives progress and diagnostics. The zero value uses the
	// global zerolog logger.
	Logger *zerolog.Logger
	// DryRun skips writing outputs and the lock file.
	DryRun bool
	// Now stamps exported PO headers. The zero value uses time.Now.
	Now func() time.Time
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return log.Logger
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// ---------------------------------------------------------------------------
// Gathering
// ---------------------------------------------------------------------------

// Project is a gathered project: the shared registry and every document.
type Project struct {
	Config    *config.Config
	Uber      *clique.UberClique
	Documents []extract.Result
}

// Gather parses every configured source into a new registry governed by
// the project's fallback policy.
func Gather(ctx context.Context, cfg *config.Config, opts Options) *Project {
	logger := opts.logger()
	u := clique.New(clique.WithPolicy(cfg.Policy()), clique.WithLogger(logger))
	docs := extract.GatherAll(ctx, u, cfg, cfg.Workers)
	logger.Info().Int("documents", len(docs)).Int("cliques", u.Len()).Msg("Gathered sources")
	return &Project{Config: cfg, Uber: u, Documents: docs}
}

// Failed returns the gathering error of every document that failed.
func (p *Project) Failed() map[string]error {
	failed := make(map[string]error)
	for _, d := range p.Documents {
		if d.Err != nil {
			failed[d.Source.Name] = d.Err
		}
	}
	return failed
}

// LoadTranslations applies the PO catalogs of every translated language.
func (p *Project) LoadTranslations(logger zerolog.Logger) (map[string]catalog.Result, error) {
	langs := p.Config.TranslatedLanguages()
	lookups, err := catalog.LoadDir(p.Config.TranslationsPath(), langs)
	if err != nil {
		return nil, err
	}
	results := make(map[string]catalog.Result, len(langs))
	for _, lang := range langs {
		lookup, ok := lookups[lang]
		if !ok {
			logger.Warn().Str("lang", lang).Msg("No translations found")
			continue
		}
		res := catalog.Apply(p.Uber, lang, lookup)
		for _, err := range res.Rejected {
			logger.Warn().Err(err).Str("lang", lang).Msg("Translation rejected")
		}
		logger.Info().Str("lang", lang).Int("applied", res.Applied).Int("missing", res.Missing).Msg("Loaded translations")
		results[lang] = res
	}
	return results, nil
}

// Pseudo populates every configured pseudo-locale and returns the number
// of translations added per locale.
func (p *Project) Pseudo() map[string]int {
	added := make(map[string]int)
	for _, lang := range p.Config.PseudoLocales {
		added[lang] = pseudo.Populate(p.Uber, lang, pseudo.KindFor(lang))
	}
	return added
}

// ShortcutWarnings checks every shortcut group.
func (p *Project) ShortcutWarnings() []string {
	return shortcuts.GenerateDuplicateShortcutsWarnings(p.Uber.AllCliques())
}

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

// Report describes a finished build.
type Report struct {
	Failed       map[string]error
	Translations map[string]catalog.Result
	Pseudo       map[string]int
	Warnings     []string
	Written      []string
	// OutputErrors are outputs that could not be produced, usually for
	// lack of a translation that may not fall back.
	OutputErrors []error
	Changes      map[string]lockfile.Changes
}

// Run executes a full build. Documents that fail to gather and outputs
// that cannot be produced are reported; the rest of the build continues
// and the returned error joins every failure.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	logger := opts.logger()
	p := Gather(ctx, cfg, opts)
	rep := &Report{Failed: p.Failed()}
	for name, err := range rep.Failed {
		logger.Error().Err(err).Str("source", name).Msg("Source skipped")
	}

	var err error
	rep.Translations, err = p.LoadTranslations(logger)
	if err != nil {
		return rep, fmt.Errorf("loading translations: %w", err)
	}
	rep.Pseudo = p.Pseudo()

	rep.Warnings = p.ShortcutWarnings()
	for _, w := range rep.Warnings {
		logger.Warn().Msg(w)
	}

	if err := ctx.Err(); err != nil {
		return rep, err
	}
	rep.Written, rep.OutputErrors = p.writeOutputs(opts.DryRun)
	for _, err := range rep.OutputErrors {
		logger.Error().Err(err).Msg("Output failed")
	}

	if cfg.LockEnabled() {
		changes, err := p.updateLock(opts.DryRun)
		if err != nil {
			return rep, err
		}
		rep.Changes = changes
	}

	errs := append([]error(nil), rep.OutputErrors...)
	for name, err := range rep.Failed {
		errs = append(errs, fmt.Errorf("source %s: %w", name, err))
	}
	return rep, errors.Join(errs...)
}

func (p *Project) writeOutputs(dryRun bool) (written []string, errs []error) {
	out := p.Config.OutputPath()
	for _, doc := range p.Documents {
		if doc.Err != nil {
			continue
		}
		for _, lang := range p.Config.OutputLanguages() {
			for _, kind := range doc.Source.Outputs {
				path, content, err := Render(doc, kind, lang, p.Config.SourceLang)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s %s (%s): %w", doc.Source.Name, kind, lang, err))
					continue
				}
				path = filepath.Join(out, lang, path)
				if !dryRun {
					if err := writeFile(path, content); err != nil {
						errs = append(errs, err)
						continue
					}
				}
				written = append(written, path)
			}
		}
	}
	return written, errs
}

// Render produces one output of a gathered document for lang. The path is
// relative to the language's output directory. sourceLang names the
// unsuffixed Java bundle.
func Render(doc extract.Result, kind, lang, sourceLang string) (path, content string, err error) {
	g := doc.Gatherer
	if kind == config.OutputSource {
		content, err = g.Translate(lang)
		return filepath.Base(doc.Source.Path), content, err
	}

	items, err := g.Items()
	if err != nil {
		return "", "", err
	}
	switch kind {
	case config.OutputSwitch:
		content, err = format.SwitchStatement(items, lang)
		return doc.Source.Name + "_strings.h", content, err
	case config.OutputMessagesJSON:
		content, err = format.MessagesJSON(items, lang)
		return doc.Source.Name + ".messages.json", content, err
	case config.OutputAndroidXML:
		content, err = android.StringsXML(items, lang)
		return filepath.Join(android.ValuesDir(lang), doc.Source.Name+".xml"), content, err
	case config.OutputProperties:
		content, err = propfile.Bundle(items, lang)
		return propfile.BundleName(doc.Source.Name, lang, sourceLang), content, err
	}
	return "", "", fmt.Errorf("unknown output %q", kind)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Fingerprints maps every textual id of a document to the id of its
// clique. The first occurrence of an id wins.
func Fingerprints(g gather.Gatherer) map[string]string {
	items, err := g.Items()
	if err != nil {
		return nil
	}
	m := make(map[string]string, len(items))
	for _, it := range items {
		if _, ok := m[it.ID]; !ok {
			m[it.ID] = it.Clique.ID()
		}
	}
	return m
}

func (p *Project) updateLock(dryRun bool) (map[string]lockfile.Changes, error) {
	lf, err := lockfile.Load(p.Config.Root())
	if err != nil {
		return nil, err
	}
	changes := make(map[string]lockfile.Changes)
	var names []string
	for _, doc := range p.Documents {
		names = append(names, doc.Source.Name)
		if doc.Err != nil {
			continue
		}
		fps := Fingerprints(doc.Gatherer)
		changes[doc.Source.Name] = lf.Diff(doc.Source.Name, fps)
		lf.Record(doc.Source.Name, fps)
	}
	lf.Prune(names)
	if dryRun {
		return changes, nil
	}
	return changes, lf.Save()
}

// ---------------------------------------------------------------------------
// Translator exchange
// ---------------------------------------------------------------------------

// TemplateName is the exported template file in the translations directory.
const TemplateName = "messages.pot"

// Export writes the message template to the translations directory and
// merges it into the catalog of every translated language. It returns the
// paths written.
func Export(ctx context.Context, cfg *config.Config, opts Options) ([]string, error) {
	p := Gather(ctx, cfg, opts)
	if failed := p.Failed(); len(failed) > 0 {
		var errs []error
		for name, err := range failed {
			errs = append(errs, fmt.Errorf("source %s: %w", name, err))
		}
		return nil, errors.Join(errs...)
	}

	dir := cfg.TranslationsPath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	project := pofile.Project{
		Name:        cfg.Project.Name,
		Version:     cfg.Project.Version,
		BugsAddress: cfg.Project.BugsAddress,
	}
	now := opts.now()
	tmpl := pofile.Template(p.Uber.AllCliques(), pofile.MakeHeader(project, "", now))
	tmplPath := filepath.Join(dir, TemplateName)
	if err := tmpl.WriteFile(tmplPath); err != nil {
		return nil, err
	}
	written := []string{tmplPath}

	for _, lang := range cfg.TranslatedLanguages() {
		path := filepath.Join(dir, lang+".po")
		merged, err := merge.File(path, tmpl, pofile.MakeHeader(project, lang, now))
		if err != nil {
			return written, fmt.Errorf("merging %s: %w", lang, err)
		}
		total, translated, fuzzy, _ := merged.Stats()
		opts.logger().Info().Str("lang", lang).Int("total", total).Int("translated", translated).Int("fuzzy", fuzzy).Msg("Updated catalog")
		written = append(written, path)
	}
	return written, nil
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// LangStatus is the translation coverage of one language.
type LangStatus struct {
	Lang       string
	Total      int
	Translated int
	Pseudo     bool
}

// Percent returns the translated share in percent.
func (s LangStatus) Percent() int {
	if s.Total == 0 {
		return 100
	}
	return s.Translated * 100 / s.Total
}

// Coverage counts, for every output language but the source, how many
// translateable cliques carry a translation.
func (p *Project) Coverage() []LangStatus {
	var total int
	for c := range p.Uber.AllCliques() {
		if c.Translateable() {
			total++
		}
	}
	var out []LangStatus
	for _, lang := range p.Config.OutputLanguages() {
		if lang == p.Config.SourceLang {
			continue
		}
		s := LangStatus{Lang: lang, Total: total, Pseudo: p.Config.Policy().IsPseudoLocale(lang)}
		for c := range p.Uber.AllCliques() {
			if c.Translateable() && c.HasTranslation(lang) {
				s.Translated++
			}
		}
		out = append(out, s)
	}
	return out
}
