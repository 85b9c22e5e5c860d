// Package shortcuts finds keyboard accelerators that collide within a
// shortcut group. Findings are advisory warnings and never fail a build.
package shortcuts

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/minios-linux/grist/clique"
)

// Group accumulates the accelerator keys of the cliques in one shortcut
// group, per language.
type Group struct {
	Name string

	members []*clique.Clique
	seen    map[string]bool
	// keys maps language to key to occurrence count.
	keys map[string]map[rune]int
}

// NewGroup returns an empty group.
func NewGroup(name string) *Group {
	return &Group{
		Name: name,
		seen: make(map[string]bool),
		keys: make(map[string]map[rune]int),
	}
}

// AddClique counts the accelerator keys of c in every language it has
// text for. A clique that is already a member is ignored.
func (g *Group) AddClique(c *clique.Clique) {
	if g.seen[c.ID()] {
		return
	}
	g.seen[c.ID()] = true
	g.members = append(g.members, c)

	for _, lang := range c.Languages() {
		text, err := c.Translate(lang)
		if err != nil {
			continue
		}
		for _, key := range Keys(text) {
			if g.keys[lang] == nil {
				g.keys[lang] = make(map[rune]int)
			}
			g.keys[lang][key]++
		}
	}
}

// Members returns the member cliques in the order they were added.
func (g *Group) Members() []*clique.Clique { return g.members }

// Warnings returns one line per language that has a key used more than
// once, in language order.
func (g *Group) Warnings() []string {
	langs := make([]string, 0, len(g.keys))
	for lang := range g.keys {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var out []string
	for _, lang := range langs {
		var dups []string
		for key, n := range g.keys[lang] {
			if n > 1 {
				dups = append(dups, string(key))
			}
		}
		if len(dups) == 0 {
			continue
		}
		sort.Strings(dups)
		out = append(out, fmt.Sprintf("Duplicate keyboard shortcut(s) %s in group %q for language %s",
			strings.Join(dups, ", "), g.Name, lang))
	}
	return out
}

// Keys returns the upper-cased accelerator letters in text. An accelerator
// is "&" followed by a Latin letter, where the "&" does not itself follow
// another "&" ("&&" is an escaped ampersand).
func Keys(text string) []rune {
	var keys []rune
	for i := 0; i+1 < len(text); i++ {
		if text[i] != '&' || (i > 0 && text[i-1] == '&') {
			continue
		}
		if isLatinLetter(text[i+1]) {
			keys = append(keys, rune(upper(text[i+1])))
		}
	}
	return keys
}

func isLatinLetter(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// GenerateDuplicateShortcutsWarnings builds one group per shortcut group
// name found on cliques and returns all their warnings, ordered by group
// name.
func GenerateDuplicateShortcutsWarnings(cliques iter.Seq[*clique.Clique]) []string {
	groups := make(map[string]*Group)
	for c := range cliques {
		for _, name := range c.ShortcutGroups() {
			g, ok := groups[name]
			if !ok {
				g = NewGroup(name)
				groups[name] = g
			}
			g.AddClique(c)
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		out = append(out, groups[name].Warnings()...)
	}
	return out
}
