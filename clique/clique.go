// Package clique deduplicates messages across a build. A Clique is the one
// identity for a distinct (content, meaning) pair and holds its translations
// in every language; an UberClique is the build-scoped registry of cliques
// keyed by fingerprint.
package clique

import (
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/minios-linux/grist/fingerprint"
	"github.com/minios-linux/grist/message"
)

// ---------------------------------------------------------------------------
// Policy
// ---------------------------------------------------------------------------

// Policy controls how missing translations resolve.
type Policy struct {
	// SourceLanguage is the language of the source messages.
	SourceLanguage string
	// FallbackToEnglish allows a missing translation to resolve to the
	// source content. Individual cliques may override it.
	FallbackToEnglish bool
	// PseudoLocales never fall back; they must carry explicit translations.
	PseudoLocales map[string]bool
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		SourceLanguage:    "en",
		FallbackToEnglish: true,
		PseudoLocales:     map[string]bool{"en-XA": true, "ar-XB": true},
	}
}

// IsPseudoLocale reports whether lang is configured as a pseudo-locale.
func (p Policy) IsPseudoLocale(lang string) bool { return p.PseudoLocales[lang] }

// ---------------------------------------------------------------------------
// UberClique
// ---------------------------------------------------------------------------

// UberClique maps fingerprints to cliques. It is safe for concurrent use.
type UberClique struct {
	mu      sync.Mutex
	cliques map[int64]*Clique
	order   []*Clique
	policy  Policy
	logger  zerolog.Logger
}

// Option configures an UberClique.
type Option func(*UberClique)

// WithPolicy sets the fallback policy shared by all cliques.
func WithPolicy(p Policy) Option {
	return func(u *UberClique) {
		if p.SourceLanguage == "" {
			p.SourceLanguage = "en"
		}
		u.policy = p
	}
}

// WithLogger sets the logger used for consistency errors.
func WithLogger(l zerolog.Logger) Option {
	return func(u *UberClique) { u.logger = l }
}

// New returns an empty registry.
func New(opts ...Option) *UberClique {
	u := &UberClique{
		cliques: make(map[int64]*Clique),
		policy:  DefaultPolicy(),
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Policy returns the registry's fallback policy.
func (u *UberClique) Policy() Policy { return u.policy }

// MakeClique returns the clique for msg, creating and registering it if no
// clique with the same fingerprint exists yet. A translateable flag that
// disagrees with the existing clique is logged and the clique stays
// non-translateable.
func (u *UberClique) MakeClique(msg *message.Message, translateable bool) *Clique {
	fp := msg.Fingerprint()

	u.mu.Lock()
	defer u.mu.Unlock()

	if c, ok := u.cliques[fp]; ok {
		c.mu.Lock()
		if c.translateable != translateable {
			u.logger.Error().
				Str("id", c.ID()).
				Str("content", msg.Content()).
				Bool("existing", c.translateable).
				Bool("requested", translateable).
				Msg("Conflicting translateable flag for the same message")
			c.translateable = false
		}
		c.mu.Unlock()
		return c
	}

	c := &Clique{
		msg:           msg,
		fp:            fp,
		translateable: translateable,
		policy:        &u.policy,
		groups:        make(map[string]bool),
		translations:  make(map[string]*message.Translation),
	}
	u.cliques[fp] = c
	u.order = append(u.order, c)
	return c
}

// Lookup returns the clique registered under fp.
func (u *UberClique) Lookup(fp int64) (*Clique, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	c, ok := u.cliques[fp]
	return c, ok
}

// Len returns the number of registered cliques.
func (u *UberClique) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.cliques)
}

// AllCliques yields every registered clique. The set is snapshotted when
// iteration starts.
func (u *UberClique) AllCliques() iter.Seq[*Clique] {
	return func(yield func(*Clique) bool) {
		u.mu.Lock()
		snapshot := make([]*Clique, len(u.order))
		copy(snapshot, u.order)
		u.mu.Unlock()
		for _, c := range snapshot {
			if !yield(c) {
				return
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Clique
// ---------------------------------------------------------------------------

// Clique owns one source message and its translations.
type Clique struct {
	mu            sync.RWMutex
	msg           *message.Message
	fp            int64
	translateable bool
	policy        *Policy
	fallback      *bool
	groups        map[string]bool
	textualIDs    []string
	translations  map[string]*message.Translation
}

// Message returns the source message.
func (c *Clique) Message() *message.Message { return c.msg }

// Fingerprint returns the clique's identity key.
func (c *Clique) Fingerprint() int64 { return c.fp }

// ID returns the stable decimal id of the clique.
func (c *Clique) ID() string { return fingerprint.String(c.fp) }

// Policy returns the policy the clique resolves with.
func (c *Clique) Policy() Policy { return *c.policy }

// Translateable reports whether the clique's content may be translated.
func (c *Clique) Translateable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.translateable
}

// AddToShortcutGroup adds the clique to the named shortcut group.
func (c *Clique) AddToShortcutGroup(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups[name] = true
}

// ShortcutGroups returns the names of the groups the clique belongs to,
// sorted.
func (c *Clique) ShortcutGroups() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddTextualID records a source identifier (e.g. IDS_OK) that refers to the
// clique. Ids are kept for diagnostics and export only.
func (c *Clique) AddTextualID(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, have := range c.textualIDs {
		if have == id {
			return
		}
	}
	c.textualIDs = append(c.textualIDs, id)
}

// TextualIDs returns the recorded source identifiers in registration order.
func (c *Clique) TextualIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.textualIDs...)
}

// SetFallbackToEnglish overrides the registry policy for this clique.
func (c *Clique) SetFallbackToEnglish(allow bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = &allow
}

// ShouldFallbackToEnglish reports whether a missing translation resolves to
// the source content.
func (c *Clique) ShouldFallbackToEnglish() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fallback != nil {
		return *c.fallback
	}
	return c.policy.FallbackToEnglish
}

// AddTranslation validates t against the source message and stores it,
// replacing any earlier translation for the same language.
func (c *Clique) AddTranslation(t *message.Translation) error {
	if err := message.Validate(c.msg, t.Language(), t.Parts()); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translations[t.Language()] = t
	return nil
}

// AddTranslationText parses raw translated text, in which placeholders
// appear in their original form, and stores it for lang.
func (c *Clique) AddTranslationText(lang, text string) error {
	t, err := message.ParseTranslation(c.msg, lang, text)
	if err != nil {
		return fmt.Errorf("adding %s translation: %w", lang, err)
	}
	return c.AddTranslation(t)
}

// HasTranslation reports whether an explicit translation exists for lang.
// The source language always has one.
func (c *Clique) HasTranslation(lang string) bool {
	if lang == c.policy.SourceLanguage {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.translations[lang]
	return ok
}

// Languages returns the source language plus every translated language,
// sorted.
func (c *Clique) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	langs := []string{c.policy.SourceLanguage}
	for lang := range c.translations {
		if lang != c.policy.SourceLanguage {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// Resolve returns the parts to emit for lang.
//
// Non-translateable cliques and the source language yield the source parts.
// Otherwise the stored translation is used; when there is none the source
// parts are returned only if fallback is allowed and lang is not a
// pseudo-locale.
func (c *Clique) Resolve(lang string) ([]message.Part, error) {
	c.mu.RLock()
	translateable := c.translateable
	t, ok := c.translations[lang]
	c.mu.RUnlock()

	switch {
	case !translateable, lang == c.policy.SourceLanguage:
		return c.msg.Parts(), nil
	case ok:
		return t.Parts(), nil
	case c.ShouldFallbackToEnglish() && !c.policy.IsPseudoLocale(lang):
		return c.msg.Parts(), nil
	}
	return nil, &NoTranslationError{Fingerprint: c.fp, ID: c.ID(), Language: lang}
}

// Translate returns the real content to emit for lang. See Resolve.
func (c *Clique) Translate(lang string) (string, error) {
	parts, err := c.Resolve(lang)
	if err != nil {
		return "", err
	}
	return message.RealContent(parts), nil
}

// Translation returns the stored translation for lang, if any.
func (c *Clique) Translation(lang string) (*message.Translation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.translations[lang]
	return t, ok
}
