// Package android renders gathered documents as Android string resources
// (values/strings.xml).
//
// Ids become resource names: an IDS_ or IDR_ prefix is dropped and the rest
// is lower-cased, so IDS_SAVE_AS becomes save_as. Messages that must not be
// translated are marked translatable="false".
package android

import (
	"fmt"
	"strings"

	"github.com/minios-linux/grist/gather"
)

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// StringsXML renders the resources file of a document for lang. Every id
// is written once, at its first occurrence.
func StringsXML(items []gather.CliqueRef, lang string) (string, error) {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	b.WriteString("<!-- This file is generated by grist. Do not edit. -->\n")
	b.WriteString("<resources>\n")

	seen := make(map[string]bool)
	for _, it := range items {
		name := ResourceName(it.ID)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		text, err := it.Clique.Translate(lang)
		if err != nil {
			return "", fmt.Errorf("%s: %w", it.ID, err)
		}
		if desc := it.Clique.Message().Description(); desc != "" {
			fmt.Fprintf(&b, "    <!-- %s -->\n", commentEscape(desc))
		}
		attrs := fmt.Sprintf(`name="%s"`, name)
		if !it.Clique.Translateable() {
			attrs += ` translatable="false"`
		}
		fmt.Fprintf(&b, "    <string %s>%s</string>\n", attrs, EscapeValue(it.Leading+text+it.Trailing))
	}

	b.WriteString("</resources>\n")
	return b.String(), nil
}

// ResourceName converts a textual id to a resource name.
func ResourceName(id string) string {
	for _, prefix := range []string{"IDS_", "IDR_"} {
		if strings.HasPrefix(id, prefix) {
			id = id[len(prefix):]
			break
		}
	}
	return strings.ToLower(id)
}

// EscapeValue escapes s for the body of a <string> element. Apostrophes,
// quotes and backslashes are escaped per AAPT rules, markup characters per
// XML, and a value with leading or trailing spaces is quoted so the spaces
// survive.
func EscapeValue(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '@', '?':
			// A leading @ or ? would be read as a resource reference.
			if i == 0 {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if s != strings.TrimSpace(s) {
		return `"` + out + `"`
	}
	return out
}

// commentEscape keeps s from closing an XML comment.
func commentEscape(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}

// ---------------------------------------------------------------------------
// Locale directories
// ---------------------------------------------------------------------------

// ValuesDir returns the resource directory for lang, e.g. "values-fr" or
// "values-pt-rBR".
func ValuesDir(lang string) string {
	return "values-" + standardToAndroidLocale(lang)
}

// standardToAndroidLocale converts standard BCP-47 to Android locale format.
// e.g., "pt-BR" -> "pt-rBR", "zh-CN" -> "zh-rCN", "ru" -> "ru"
func standardToAndroidLocale(lang string) string {
	parts := strings.SplitN(lang, "-", 2)
	if len(parts) == 2 && len(parts[1]) > 0 {
		return parts[0] + "-r" + parts[1]
	}
	return lang
}
