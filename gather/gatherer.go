package gather

import (
	"errors"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/message"
)

// Gatherer wraps one source document. Parse must be called before any
// other method; it is idempotent. The implementations are
// *StructuralGatherer and *SingleMessageGatherer.
type Gatherer interface {
	// Name identifies the document in errors and logs.
	Name() string
	Parse() error
	Skeleton() (Skeleton, error)
	// Cliques returns the distinct cliques of the document.
	Cliques() ([]*clique.Clique, error)
	// Items returns the clique references that carry a textual id.
	Items() ([]CliqueRef, error)
	// Translate rebuilds the document for lang.
	Translate(lang string) (string, error)

	gatherer()
}

// state is shared by both gatherer variants.
type state struct {
	name     string
	text     string
	u        *clique.UberClique
	opts     Options
	parsed   bool
	err      error
	skeleton Skeleton
}

func (s *state) ready(op string) error {
	if !s.parsed {
		return &NotReadyError{Document: s.name, Operation: op}
	}
	return s.err
}

func (s *state) Name() string { return s.name }

func (s *state) Skeleton() (Skeleton, error) {
	if err := s.ready("Skeleton"); err != nil {
		return nil, err
	}
	return s.skeleton, nil
}

func (s *state) Cliques() ([]*clique.Clique, error) {
	if err := s.ready("Cliques"); err != nil {
		return nil, err
	}
	return s.skeleton.Cliques(), nil
}

func (s *state) Items() ([]CliqueRef, error) {
	if err := s.ready("Items"); err != nil {
		return nil, err
	}
	var items []CliqueRef
	for _, ref := range s.skeleton.Refs() {
		if ref.ID != "" {
			items = append(items, ref)
		}
	}
	return items, nil
}

func (s *state) Translate(lang string) (string, error) {
	if err := s.ready("Translate"); err != nil {
		return "", err
	}
	return Unparse(s.skeleton, lang, s.opts.Escaper)
}

// ---------------------------------------------------------------------------
// Structural gatherer
// ---------------------------------------------------------------------------

// Section is a region of a document. Regions without a pattern are kept
// as literal text.
type Section struct {
	Text    string
	Pattern *Pattern
	// ShortcutGroup is joined by every clique found in the section.
	ShortcutGroup string
}

// SplitFunc divides a document into sections. It reports a violated
// structural precondition with a *MalformedSourceError.
type SplitFunc func(text string) ([]Section, error)

// StructuralGatherer extracts any number of messages from a document by
// running RegexpParse over its sections.
type StructuralGatherer struct {
	state
	split SplitFunc
}

// NewStructural returns a gatherer that runs p over the whole text.
func NewStructural(name, text string, u *clique.UberClique, p *Pattern, opts Options) *StructuralGatherer {
	return NewSplit(name, text, u, func(text string) ([]Section, error) {
		return []Section{{Text: text, Pattern: p, ShortcutGroup: opts.ShortcutGroup}}, nil
	}, opts)
}

// NewSplit returns a gatherer that divides the text with split first.
func NewSplit(name, text string, u *clique.UberClique, split SplitFunc, opts Options) *StructuralGatherer {
	return &StructuralGatherer{
		state: state{name: name, text: text, u: u, opts: opts},
		split: split,
	}
}

// Parse extracts the document. Later calls return the first result.
func (g *StructuralGatherer) Parse() error {
	if g.parsed {
		return g.err
	}
	g.parsed = true

	sections, err := g.split(g.text)
	if err != nil {
		var mse *MalformedSourceError
		if errors.As(err, &mse) && mse.Document == "" {
			mse.Document = g.name
		}
		g.err = err
		return err
	}

	var sk Skeleton
	for _, sec := range sections {
		if sec.Pattern == nil {
			if sec.Text != "" {
				sk = append(sk, Chunk{Literal: sec.Text})
			}
			continue
		}
		opts := g.opts
		opts.ShortcutGroup = sec.ShortcutGroup
		sk = append(sk, RegexpParse(g.u, sec.Pattern, sec.Text, opts)...)
	}
	g.skeleton = sk
	return nil
}

func (*StructuralGatherer) gatherer() {}

// ---------------------------------------------------------------------------
// Single-message gatherer
// ---------------------------------------------------------------------------

// SingleMessageGatherer treats the whole document as one message. The
// description comes from Options.Description.
type SingleMessageGatherer struct {
	state
	id string
}

// NewSingleMessage returns a gatherer for a document that is one message.
// id, if set, becomes the textual id of the message.
func NewSingleMessage(name, id, text string, u *clique.UberClique, opts Options) *SingleMessageGatherer {
	return &SingleMessageGatherer{
		state: state{name: name, text: text, u: u, opts: opts},
		id:    id,
	}
}

// Parse extracts the message. Later calls are no-ops.
func (g *SingleMessageGatherer) Parse() error {
	if g.parsed {
		return g.err
	}
	g.parsed = true

	content := g.opts.Escaper.unescape(g.text)
	leading, body, trailing := message.SplitWhitespace(content)
	if body == "" {
		if g.text != "" {
			g.skeleton = Skeleton{{Literal: g.text}}
		}
		return nil
	}

	msg, err := message.New(content,
		message.WithTrimmedSpace(),
		message.WithDescription(g.opts.Description),
		message.WithScanner(g.opts.Scanner))
	if err != nil {
		g.err = err
		return err
	}
	c := g.u.MakeClique(msg, true)
	c.AddTextualID(g.id)
	if g.opts.ShortcutGroup != "" {
		c.AddToShortcutGroup(g.opts.ShortcutGroup)
	}
	g.skeleton = Skeleton{{Ref: &CliqueRef{Clique: c, ID: g.id, Leading: leading, Trailing: trailing}}}
	return nil
}

func (*SingleMessageGatherer) gatherer() {}
