// Package langmeta provides a shared language metadata registry (display
// names and text direction) used by the pseudo-locale generators, the
// output formats and the CLI status report.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
)

// Meta describes language display metadata.
type Meta struct {
	Name string
	RTL  bool
}

// Registry contains canonical language metadata.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"af":    {Name: "Afrikaans"},
	"ar":    {Name: "Arabic", RTL: true},
	"ar-XB": {Name: "Pseudo RTL", RTL: true},
	"bg":    {Name: "Bulgarian"},
	"ca":    {Name: "Catalan"},
	"cs":    {Name: "Czech"},
	"da":    {Name: "Danish"},
	"de":    {Name: "German"},
	"el":    {Name: "Greek"},
	"en":    {Name: "English"},
	"en-GB": {Name: "English (UK)"},
	"en-XA": {Name: "Pseudo Accented"},
	"es":    {Name: "Spanish"},
	"fa":    {Name: "Persian", RTL: true},
	"fi":    {Name: "Finnish"},
	"fr":    {Name: "French"},
	"he":    {Name: "Hebrew", RTL: true},
	"hi":    {Name: "Hindi"},
	"hu":    {Name: "Hungarian"},
	"id":    {Name: "Indonesian"},
	"it":    {Name: "Italian"},
	"ja":    {Name: "Japanese"},
	"ko":    {Name: "Korean"},
	"nl":    {Name: "Dutch"},
	"nb":    {Name: "Norwegian Bokmal"},
	"pl":    {Name: "Polish"},
	"pt":    {Name: "Portuguese"},
	"pt-BR": {Name: "Portuguese (Brazil)"},
	"ro":    {Name: "Romanian"},
	"ru":    {Name: "Russian"},
	"sk":    {Name: "Slovak"},
	"sv":    {Name: "Swedish"},
	"th":    {Name: "Thai"},
	"tr":    {Name: "Turkish"},
	"uk":    {Name: "Ukrainian"},
	"ur":    {Name: "Urdu", RTL: true},
	"vi":    {Name: "Vietnamese"},
	"yi":    {Name: "Yiddish", RTL: true},
	"zh-CN": {Name: "Chinese (Simplified)"},
	"zh-TW": {Name: "Chinese (Traditional)"},
}

// rtlScripts are the scripts written right to left.
var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Thaa": true,
	"Syrc": true,
	"Nkoo": true,
	"Adlm": true,
}

// Canonicalize returns the BCP 47 form of lang ("pt_br" is "pt-BR").
// Codes that do not parse are normalized by case and separator only.
func Canonicalize(lang string) string {
	trimmed := strings.TrimSpace(lang)
	if trimmed == "" {
		return ""
	}
	if tag, err := language.Parse(trimmed); err == nil {
		return tag.String()
	}
	parts := strings.Split(strings.ReplaceAll(trimmed, "_", "-"), "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like pt_BR, pt-BR, and locale fallbacks. Unknown
// languages get their code as name and a direction derived from their
// likely script.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := Canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, RTL: scriptIsRTL(normalized)}
}

// IsRTL reports whether lang is written right to left.
func IsRTL(lang string) bool { return Resolve(lang).RTL }

func scriptIsRTL(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	script, conf := tag.Script()
	return conf != language.No && rtlScripts[script.String()]
}
