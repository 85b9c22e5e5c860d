package config

import (
	"os"
	"sort"
	"strings"
)

// isLangCode checks if a string looks like a language code (en, ru,
// pt_BR, zh-TW, en-XA).
func isLangCode(s string) bool {
	lower := func(b byte) bool { return b >= 'a' && b <= 'z' }
	upper := func(b byte) bool { return b >= 'A' && b <= 'Z' }
	switch {
	case len(s) == 2:
		return lower(s[0]) && lower(s[1])
	case len(s) == 5 && (s[2] == '_' || s[2] == '-'):
		return lower(s[0]) && lower(s[1]) && upper(s[3]) && upper(s[4])
	}
	return false
}

// detectLanguages finds language codes from {lang}.po files in dir.
func detectLanguages(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".po") {
			continue
		}
		if lang := strings.TrimSuffix(name, ".po"); isLangCode(lang) {
			langs = append(langs, strings.ReplaceAll(lang, "_", "-"))
		}
	}
	sort.Strings(langs)
	return langs
}
