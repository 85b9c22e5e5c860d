package message

import (
	"sort"
	"strings"
)

// Translation is the content of a Message realized for one language. It
// carries exactly the placeholders of its source message.
type Translation struct {
	language string
	parts    []Part
}

// NewTranslation validates parts against src and returns the translation.
// Placeholders are matched by presentation name and replaced with the
// source placeholder so originals are carried over unchanged.
func NewTranslation(src *Message, language string, parts []Part) (*Translation, error) {
	if err := Validate(src, language, parts); err != nil {
		return nil, err
	}
	byName := make(map[string]Placeholder)
	for _, ph := range src.Placeholders() {
		byName[ph.Presentation] = ph
	}
	out := make([]Part, 0, len(parts))
	for _, p := range parts {
		if p.Placeholder != nil {
			ph := byName[p.Placeholder.Presentation]
			out = append(out, Part{Placeholder: &ph})
			continue
		}
		if p.Text == "" {
			continue
		}
		out = appendText(out, p.Text)
	}
	return &Translation{language: language, parts: out}, nil
}

// ParseTranslation builds a translation from raw translated text in which
// placeholders appear in their original form. When several placeholders
// share the same original they are assigned in source order.
func ParseTranslation(src *Message, language, text string) (*Translation, error) {
	queues := make(map[string][]Placeholder)
	var originals []string
	for _, ph := range src.Placeholders() {
		if ph.Original == "" {
			continue
		}
		if _, ok := queues[ph.Original]; !ok {
			originals = append(originals, ph.Original)
		}
		queues[ph.Original] = append(queues[ph.Original], ph)
	}
	// Longest original wins at a given position.
	sort.SliceStable(originals, func(i, j int) bool { return len(originals[i]) > len(originals[j]) })

	var parts []Part
	used := make(map[string]Placeholder)
	var textStart int
	for i := 0; i < len(text); {
		matched := ""
		for _, orig := range originals {
			if strings.HasPrefix(text[i:], orig) {
				matched = orig
				break
			}
		}
		if matched == "" {
			i++
			continue
		}
		if i > textStart {
			parts = appendText(parts, text[textStart:i])
		}
		var ph Placeholder
		if q := queues[matched]; len(q) > 0 {
			ph = q[0]
			queues[matched] = q[1:]
			used[matched] = ph
		} else {
			// Surplus occurrence: repeat the last placeholder so that
			// validation reports it as duplicated.
			ph = used[matched]
		}
		parts = append(parts, PlaceholderPart(ph))
		i += len(matched)
		textStart = i
	}
	if textStart < len(text) {
		parts = appendText(parts, text[textStart:])
	}
	return NewTranslation(src, language, parts)
}

// Validate checks that parts use every placeholder of src exactly once and
// no other placeholder.
func Validate(src *Message, language string, parts []Part) error {
	want := make(map[string]bool)
	for _, ph := range src.Placeholders() {
		want[ph.Presentation] = true
	}
	seen := make(map[string]int)
	var unknown []string
	for _, p := range parts {
		if p.Placeholder == nil {
			continue
		}
		name := p.Placeholder.Presentation
		if !want[name] {
			unknown = append(unknown, name)
			continue
		}
		seen[name]++
	}
	var missing, duplicated []string
	for name := range want {
		switch n := seen[name]; {
		case n == 0:
			missing = append(missing, name)
		case n > 1:
			duplicated = append(duplicated, name)
		}
	}
	if len(missing) == 0 && len(duplicated) == 0 && len(unknown) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(duplicated)
	sort.Strings(unknown)
	return &PlaceholderMismatchError{
		MessageID:  src.ID(),
		Language:   language,
		Missing:    missing,
		Duplicated: duplicated,
		Unknown:    unknown,
	}
}

// Language returns the language code of the translation.
func (t *Translation) Language() string { return t.language }

// Parts returns a copy of the translated parts.
func (t *Translation) Parts() []Part { return copyParts(t.parts) }

// Content returns the translation with placeholder presentation names.
func (t *Translation) Content() string { return PresentableContent(t.parts) }

// RealContent returns the translation with placeholder originals.
func (t *Translation) RealContent() string { return RealContent(t.parts) }
