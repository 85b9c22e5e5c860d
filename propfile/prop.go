// Package propfile renders gathered documents as Java .properties resource
// bundles.
//
// Bundles follow the ResourceBundle naming convention: the source language
// is written to <base>.properties and every other language to
// <base>_<lang>.properties with the region joined by an underscore
// (Messages_pt_BR.properties). Values are written in ISO 8859-1 with
// \uXXXX escapes so every Java version can load them.
package propfile

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/minios-linux/grist/gather"
)

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Bundle renders the key=value lines of a document for lang. Every id is
// written once, at its first occurrence, preceded by its description as a
// comment.
func Bundle(items []gather.CliqueRef, lang string) (string, error) {
	var b strings.Builder
	b.WriteString("# This file is generated by grist. Do not edit.\n")
	fmt.Fprintf(&b, "# Language: %s\n", lang)

	seen := make(map[string]bool)
	for _, it := range items {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		seen[it.ID] = true

		text, err := it.Clique.Translate(lang)
		if err != nil {
			return "", fmt.Errorf("%s: %w", it.ID, err)
		}
		b.WriteByte('\n')
		if desc := it.Clique.Message().Description(); desc != "" {
			for _, line := range strings.Split(desc, "\n") {
				fmt.Fprintf(&b, "# %s\n", line)
			}
		}
		b.WriteString(escape(it.ID, true))
		b.WriteByte('=')
		b.WriteString(escape(it.Leading+text+it.Trailing, false))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// BundleName returns the file name of the bundle for lang.
func BundleName(base, lang, sourceLang string) string {
	if lang == sourceLang {
		return base + ".properties"
	}
	return base + "_" + strings.ReplaceAll(lang, "-", "_") + ".properties"
}

// escape encodes s as a key or value. Keys also escape the separators and
// every space; values only their leading spaces.
func escape(s string, key bool) string {
	var b strings.Builder
	leading := true
	for _, r := range s {
		if r != ' ' {
			leading = false
		}
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case ' ':
			if key || leading {
				b.WriteByte('\\')
			}
			b.WriteByte(' ')
		case '=', ':', '#', '!':
			if key {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		default:
			if r < 0x20 || r > 0x7e {
				for _, u := range utf16.Encode([]rune{r}) {
					fmt.Fprintf(&b, `\u%04X`, u)
				}
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
