package gather

import (
	"fmt"
	"strings"

	"github.com/minios-linux/grist/clique"
)

// Chunk is one element of a skeleton: a literal or a clique reference.
type Chunk struct {
	Literal string
	Ref     *CliqueRef
}

// CliqueRef is one occurrence of a clique in a document. The whitespace
// stripped from this occurrence and its textual id are kept here because
// the same clique may be shared by occurrences that differ in both.
type CliqueRef struct {
	Clique   *clique.Clique
	ID       string
	Leading  string
	Trailing string
}

// Skeleton is the ordered chunk list a document is rebuilt from.
type Skeleton []Chunk

// Refs returns the clique references in document order.
func (sk Skeleton) Refs() []CliqueRef {
	var refs []CliqueRef
	for _, ch := range sk {
		if ch.Ref != nil {
			refs = append(refs, *ch.Ref)
		}
	}
	return refs
}

// Cliques returns the distinct cliques in order of first occurrence.
func (sk Skeleton) Cliques() []*clique.Clique {
	seen := make(map[*clique.Clique]bool)
	var out []*clique.Clique
	for _, ch := range sk {
		if ch.Ref == nil || seen[ch.Ref.Clique] {
			continue
		}
		seen[ch.Ref.Clique] = true
		out = append(out, ch.Ref.Clique)
	}
	return out
}

// Unparse rebuilds the document for lang. Literals are copied verbatim;
// each clique reference is replaced by its translation, wrapped in the
// occurrence whitespace and escaped with esc.
func Unparse(sk Skeleton, lang string, esc Escaper) (string, error) {
	var sb strings.Builder
	for _, ch := range sk {
		if ch.Ref == nil {
			sb.WriteString(ch.Literal)
			continue
		}
		s, err := ch.Ref.Clique.Translate(lang)
		if err != nil {
			if ch.Ref.ID != "" {
				return "", fmt.Errorf("%s: %w", ch.Ref.ID, err)
			}
			return "", err
		}
		sb.WriteString(esc.escape(ch.Ref.Leading + s + ch.Ref.Trailing))
	}
	return sb.String(), nil
}
