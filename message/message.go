// Package message implements the immutable value types of the pipeline:
// a Message is an ordered list of text runs and Placeholders, and a
// Translation is the same list realized for one language.
//
// Messages are assembled with a Builder (or New, which scans raw text for
// placeholders) and are never modified afterwards.
package message

import (
	"fmt"
	"strings"

	"github.com/minios-linux/grist/fingerprint"
)

// ---------------------------------------------------------------------------
// Placeholder
// ---------------------------------------------------------------------------

// Placeholder is a named span of a message that must not be translated.
type Placeholder struct {
	// Original is the verbatim source text of the span, e.g. "%s".
	Original string
	// Presentation is the token shown to translators, e.g. "USERNAME".
	// It is unique within one message.
	Presentation string
	// Example is a sample value for documentation only.
	Example string
}

// Part is one element of a message: a text run or a placeholder.
type Part struct {
	Text        string
	Placeholder *Placeholder
}

// TextPart returns a text run part.
func TextPart(s string) Part { return Part{Text: s} }

// PlaceholderPart returns a placeholder part.
func PlaceholderPart(ph Placeholder) Part { return Part{Placeholder: &ph} }

// IsPlaceholder reports whether p is a placeholder.
func (p Part) IsPlaceholder() bool { return p.Placeholder != nil }

// ---------------------------------------------------------------------------
// Message
// ---------------------------------------------------------------------------

// Message is a translatable string with its translator-facing metadata.
type Message struct {
	parts       []Part
	description string
	meaning     string
	leading     string
	trailing    string
	fp          int64
}

// Parts returns a copy of the message parts.
func (m *Message) Parts() []Part { return copyParts(m.parts) }

// Placeholders returns the placeholders in document order.
func (m *Message) Placeholders() []Placeholder {
	var phs []Placeholder
	for _, p := range m.parts {
		if p.Placeholder != nil {
			phs = append(phs, *p.Placeholder)
		}
	}
	return phs
}

// Content returns the presentable content: placeholders are shown by
// their presentation names.
func (m *Message) Content() string { return PresentableContent(m.parts) }

// RealContent returns the content with placeholders expanded to their
// original source text.
func (m *Message) RealContent() string { return RealContent(m.parts) }

// Description returns the translator-facing context string.
func (m *Message) Description() string { return m.description }

// Meaning returns the disambiguation key.
func (m *Message) Meaning() string { return m.meaning }

// LeadingWhitespace returns the whitespace stripped from the start of the
// source text.
func (m *Message) LeadingWhitespace() string { return m.leading }

// TrailingWhitespace returns the whitespace stripped from the end of the
// source text.
func (m *Message) TrailingWhitespace() string { return m.trailing }

// Fingerprint returns the identity key of the message.
func (m *Message) Fingerprint() int64 { return m.fp }

// ID returns the stable message id (decimal fingerprint).
func (m *Message) ID() string { return fingerprint.String(m.fp) }

// String implements fmt.Stringer for diagnostics.
func (m *Message) String() string {
	return fmt.Sprintf("message %s %q", m.ID(), m.Content())
}

// PresentableContent renders parts with placeholder presentation names.
func PresentableContent(parts []Part) string {
	var sb strings.Builder
	for _, p := range parts {
		if p.Placeholder != nil {
			sb.WriteString(p.Placeholder.Presentation)
		} else {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// RealContent renders parts with placeholder originals.
func RealContent(parts []Part) string {
	var sb strings.Builder
	for _, p := range parts {
		if p.Placeholder != nil {
			sb.WriteString(p.Placeholder.Original)
		} else {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func copyParts(parts []Part) []Part {
	out := make([]Part, len(parts))
	for i, p := range parts {
		if p.Placeholder != nil {
			ph := *p.Placeholder
			p.Placeholder = &ph
		}
		out[i] = p
	}
	return out
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

// Builder assembles a Message. The zero value is ready to use.
type Builder struct {
	parts       []Part
	names       map[string]bool
	description string
	meaning     string
	leading     string
	trailing    string
	err         error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// SetDescription sets the translator-facing description.
func (b *Builder) SetDescription(d string) *Builder {
	b.description = d
	return b
}

// SetMeaning sets the disambiguation key.
func (b *Builder) SetMeaning(m string) *Builder {
	b.meaning = m
	return b
}

// SetWhitespace records the trivia stripped around the source text.
func (b *Builder) SetWhitespace(leading, trailing string) *Builder {
	b.leading = leading
	b.trailing = trailing
	return b
}

// AppendText appends a text run, merging it with a preceding run.
func (b *Builder) AppendText(s string) *Builder {
	if s == "" {
		return b
	}
	if n := len(b.parts); n > 0 && b.parts[n-1].Placeholder == nil {
		b.parts[n-1].Text += s
		return b
	}
	b.parts = append(b.parts, Part{Text: s})
	return b
}

// AppendPlaceholder appends a placeholder. A presentation name already used
// in this message makes Build fail.
func (b *Builder) AppendPlaceholder(ph Placeholder) *Builder {
	if b.names == nil {
		b.names = make(map[string]bool)
	}
	if b.names[ph.Presentation] && b.err == nil {
		b.err = fmt.Errorf("duplicate placeholder presentation %q", ph.Presentation)
	}
	b.names[ph.Presentation] = true
	b.parts = append(b.parts, Part{Placeholder: &ph})
	return b
}

// Build returns the finished Message.
func (b *Builder) Build() (*Message, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := &Message{
		parts:       copyParts(b.parts),
		description: b.description,
		meaning:     b.meaning,
		leading:     b.leading,
		trailing:    b.trailing,
	}
	m.fp = fingerprint.Of(fingerprintInput(m.parts), m.meaning)
	return m, nil
}

// Framing bytes of fingerprintInput. A literal phRef inside text is doubled.
const (
	phRef   = '\x01'
	phOpen  = '\x02'
	phClose = '\x03'
)

// fingerprintInput renders parts so that a placeholder never hashes like
// text spelling its presentation name: "Hello PH_S" and "Hello %s" differ.
// Parts without placeholders render as their text, unchanged.
func fingerprintInput(parts []Part) string {
	var sb strings.Builder
	writeEscaped := func(s string) {
		for i := 0; i < len(s); i++ {
			if s[i] == phRef {
				sb.WriteByte(phRef)
			}
			sb.WriteByte(s[i])
		}
	}
	for _, p := range parts {
		if p.Placeholder == nil {
			writeEscaped(p.Text)
			continue
		}
		sb.WriteByte(phRef)
		sb.WriteByte(phOpen)
		writeEscaped(p.Placeholder.Presentation)
		sb.WriteByte(phRef)
		sb.WriteByte(phClose)
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Construction from raw text
// ---------------------------------------------------------------------------

// Option configures New.
type Option func(*Builder, *newConfig)

type newConfig struct {
	scan      ScanFunc
	trimSpace bool
}

// WithDescription sets the message description.
func WithDescription(d string) Option {
	return func(b *Builder, _ *newConfig) { b.SetDescription(d) }
}

// WithMeaning sets the message meaning.
func WithMeaning(m string) Option {
	return func(b *Builder, _ *newConfig) { b.SetMeaning(m) }
}

// WithScanner splits the text into text runs and placeholders with scan.
func WithScanner(scan ScanFunc) Option {
	return func(_ *Builder, c *newConfig) { c.scan = scan }
}

// WithTrimmedSpace strips leading and trailing whitespace from the text
// and records it on the message.
func WithTrimmedSpace() Option {
	return func(_ *Builder, c *newConfig) { c.trimSpace = true }
}

// New builds a Message from raw source text.
func New(text string, opts ...Option) (*Message, error) {
	b := NewBuilder()
	var cfg newConfig
	for _, opt := range opts {
		opt(b, &cfg)
	}
	if cfg.trimSpace {
		var leading, trailing string
		leading, text, trailing = SplitWhitespace(text)
		b.SetWhitespace(leading, trailing)
	}
	if cfg.scan == nil {
		b.AppendText(text)
		return b.Build()
	}
	for _, p := range cfg.scan(text) {
		if p.Placeholder != nil {
			b.AppendPlaceholder(*p.Placeholder)
		} else {
			b.AppendText(p.Text)
		}
	}
	return b.Build()
}

// SplitWhitespace splits s into leading whitespace, body and trailing
// whitespace.
func SplitWhitespace(s string) (leading, body, trailing string) {
	body = strings.TrimLeft(s, " \t\r\n")
	leading = s[:len(s)-len(body)]
	trimmed := strings.TrimRight(body, " \t\r\n")
	trailing = body[len(trimmed):]
	return leading, trimmed, trailing
}
