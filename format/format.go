// Package format renders resolved translations into target artifacts: a
// C switch statement returning string literals, and an extension-style
// JSON message bundle.
//
// Both formatters take the clique references of a gathered document, in
// document order, and render the first occurrence of every id.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/minios-linux/grist/gather"
)

// ---------------------------------------------------------------------------
// Switch statement
// ---------------------------------------------------------------------------

// SwitchStatement renders a C function that maps each id to its string in
// lang.
func SwitchStatement(items []gather.CliqueRef, lang string) (string, error) {
	var sb strings.Builder
	sb.WriteString("// This file is generated by grist. Do not edit.\n")
	fmt.Fprintf(&sb, "// Language: %s\n\n", lang)
	sb.WriteString("const char* GetString(int id) {\n")
	sb.WriteString("  switch (id) {\n")

	for _, it := range unique(items) {
		text, err := it.Clique.Translate(lang)
		if err != nil {
			return "", fmt.Errorf("%s: %w", it.ID, err)
		}
		fmt.Fprintf(&sb, "    case %s:\n", it.ID)
		fmt.Fprintf(&sb, "      return \"%s\";\n", EscapeCString(it.Leading+text+it.Trailing))
	}

	sb.WriteString("    default:\n")
	sb.WriteString("      return 0;\n")
	sb.WriteString("  }\n")
	sb.WriteString("}\n")
	return sb.String(), nil
}

// EscapeCString escapes s for use inside a C string literal. Bytes outside
// printable ASCII are written as three-digit octal escapes so the literal
// decodes to the same UTF-8 bytes.
func EscapeCString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch b := s[i]; b {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if b < 0x20 || b >= 0x7f {
				fmt.Fprintf(&sb, `\%03o`, b)
			} else {
				sb.WriteByte(b)
			}
		}
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// JSON message bundle
// ---------------------------------------------------------------------------

// MessagesJSON renders a message bundle for lang. Ids lose an IDS_ or IDR_
// prefix. Placeholders are written as $1$, $2$, ... numbered by their
// position in the source message, and listed under "placeholders".
//
// Entries without a translation that may fall back are left out, since
// the runtime falls back by itself; pseudo-locales are always written.
func MessagesJSON(items []gather.CliqueRef, lang string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	n := 0
	for _, it := range unique(items) {
		c := it.Clique
		policy := c.Policy()
		if !c.HasTranslation(lang) && c.ShouldFallbackToEnglish() && !policy.IsPseudoLocale(lang) {
			continue
		}
		parts, err := c.Resolve(lang)
		if err != nil {
			return "", fmt.Errorf("%s: %w", it.ID, err)
		}

		numbers := make(map[string]int)
		for i, ph := range c.Message().Placeholders() {
			numbers[ph.Presentation] = i + 1
		}

		var text strings.Builder
		for _, p := range parts {
			if p.Placeholder != nil {
				fmt.Fprintf(&text, "$%d$", numbers[p.Placeholder.Presentation])
				continue
			}
			text.WriteString(p.Text)
		}

		if n > 0 {
			buf.WriteString(",")
		}
		n++
		buf.WriteString("\n  ")
		buf.WriteString(jsonString(messageKey(it.ID)))
		buf.WriteString(": {\n    \"message\": ")
		buf.WriteString(jsonString(it.Leading + text.String() + it.Trailing))
		if len(numbers) > 0 {
			buf.WriteString(",\n    \"placeholders\": {")
			for i := 1; i <= len(numbers); i++ {
				if i > 1 {
					buf.WriteString(",")
				}
				fmt.Fprintf(&buf, "\n      %s: {\n        \"content\": %s\n      }",
					jsonString(strconv.Itoa(i)), jsonString("$"+strconv.Itoa(i)))
			}
			buf.WriteString("\n    }")
		}
		buf.WriteString("\n  }")
	}
	if n > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.String(), nil
}

func messageKey(id string) string {
	for _, prefix := range []string{"IDS_", "IDR_"} {
		if strings.HasPrefix(id, prefix) {
			return id[len(prefix):]
		}
	}
	return id
}

// jsonString encodes s as a JSON string without HTML escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// unique drops references without an id and repeated ids, keeping the
// first occurrence.
func unique(items []gather.CliqueRef) []gather.CliqueRef {
	seen := make(map[string]bool)
	var out []gather.CliqueRef
	for _, it := range items {
		if it.ID == "" || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}
