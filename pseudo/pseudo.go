// Package pseudo synthesizes pseudo-translations for localizability
// testing: an accented variant that lengthens and marks every string, and
// a right-to-left variant that wraps words in directional overrides.
// Placeholders are never altered.
package pseudo

import (
	"regexp"
	"strings"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/langmeta"
	"github.com/minios-linux/grist/message"
)

// Kind selects a generator.
type Kind int

const (
	Accented Kind = iota
	RTL
)

func (k Kind) String() string {
	if k == RTL {
		return "rtl"
	}
	return "accented"
}

// ---------------------------------------------------------------------------
// Accented
// ---------------------------------------------------------------------------

var accents = map[rune]rune{
	'a': 'å', 'e': 'é', 'i': 'î', 'o': 'ö', 'u': 'û', 'y': 'ý',
	'A': 'Å', 'E': 'É', 'I': 'Î', 'O': 'Ö', 'U': 'Û', 'Y': 'Ý',
	'c': 'ç', 'C': 'Ç', 'n': 'ñ', 'N': 'Ñ',
}

// PseudoString returns the accented pseudo-translation of s. Of the
// characters found in the accent table, the first half (rounded up) keep
// the original letter followed by its accented form; the rest are
// replaced by the accented form. Backslash escapes, including a whole
// \uXXXX, are copied unchanged and not counted.
func PseudoString(s string) string {
	runes := []rune(s)

	matched := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' {
			i += escapeLen(runes[i:]) - 1
			continue
		}
		if _, ok := accents[runes[i]]; ok {
			matched++
		}
	}
	expand := (matched + 1) / 2

	var sb strings.Builder
	seen := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' {
			n := escapeLen(runes[i:])
			sb.WriteString(string(runes[i : i+n]))
			i += n - 1
			continue
		}
		acc, ok := accents[r]
		if !ok {
			sb.WriteRune(r)
			continue
		}
		if seen < expand {
			sb.WriteRune(r)
		}
		sb.WriteRune(acc)
		seen++
	}
	return sb.String()
}

// escapeLen returns the length of the backslash escape at the start of
// runes: six for \uXXXX, otherwise the backslash and the rune after it.
func escapeLen(runes []rune) int {
	if len(runes) >= 6 && runes[1] == 'u' && isHex(runes[2:6]) {
		return 6
	}
	return min(len(runes), 2)
}

func isHex(runes []rune) bool {
	for _, r := range runes {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F') {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// RTL
// ---------------------------------------------------------------------------

const (
	rlo = "\u202e" // right-to-left override
	pdf = "\u202c" // pop directional formatting
)

// opaque matches HTML tags, character entities and backslash escapes.
const opaque = `</?[a-zA-Z][^<>]*>` +
	`|&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);` +
	`|\\(?:u[0-9a-fA-F]{4}|(?s:.))`

var (
	tokenRe  = regexp.MustCompile(`^(?:[^<&\\]+|` + opaque + `|(?s:.))`)
	opaqueRe = regexp.MustCompile(`^(?:` + opaque + `)$`)
	wordRe   = regexp.MustCompile(`\p{L}+`)
)

// PseudoRTLString wraps every run of letters in s with a right-to-left
// override. HTML tags, character entities and backslash escapes are copied
// unchanged.
func PseudoRTLString(s string) string {
	var sb strings.Builder
	for len(s) > 0 {
		tok := tokenRe.FindString(s)
		s = s[len(tok):]
		if opaqueRe.MatchString(tok) {
			sb.WriteString(tok)
			continue
		}
		sb.WriteString(wordRe.ReplaceAllString(tok, rlo+"$0"+pdf))
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// Func returns the generator for k.
func Func(k Kind) func(string) string {
	if k == RTL {
		return PseudoRTLString
	}
	return PseudoString
}

// Parts applies fn to every text run and keeps placeholders as they are.
func Parts(parts []message.Part, fn func(string) string) []message.Part {
	out := make([]message.Part, len(parts))
	for i, p := range parts {
		if p.Placeholder != nil {
			out[i] = p
			continue
		}
		out[i] = message.TextPart(fn(p.Text))
	}
	return out
}

// KindFor returns RTL for right-to-left languages and Accented otherwise.
func KindFor(lang string) Kind {
	if langmeta.IsRTL(lang) {
		return RTL
	}
	return Accented
}

// Populate adds a pseudo-translation for lang to every translateable
// clique of u that does not have one yet. It returns the number added.
func Populate(u *clique.UberClique, lang string, k Kind) int {
	fn := Func(k)
	n := 0
	for c := range u.AllCliques() {
		if !c.Translateable() || c.HasTranslation(lang) {
			continue
		}
		src := c.Message()
		t, err := message.NewTranslation(src, lang, Parts(src.Parts(), fn))
		if err != nil {
			continue
		}
		if err := c.AddTranslation(t); err == nil {
			n++
		}
	}
	return n
}
