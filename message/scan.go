package message

import (
	"fmt"
	"regexp"
	"strings"
)

// ScanFunc splits raw source text into text runs and placeholders.
// Concatenating the real content of the returned parts must give back text.
type ScanFunc func(text string) []Part

// printfRe matches C printf conversions and positional "$1" substitutions.
// A doubled percent sign is matched first so it is never taken as the start
// of a conversion; it stays literal text.
var printfRe = regexp.MustCompile(
	`%%` +
		`|%(?:[1-9][0-9]*\$)?[-+ #0']*(?:[0-9]+|\*)?(?:\.(?:[0-9]+|\*))?(?:hh|h|ll|l|L|q|j|z|t)?[diouxXeEfFgGaAcsSpn@]` +
		`|\$[1-9]`)

// PrintfScanner recognizes printf conversions ("%s", "%1$d", "%.2f") and
// positional "$1".."$9" markers.
func PrintfScanner(text string) []Part {
	return RegexpScanner(printfRe, func(match string) bool { return match != "%%" })(text)
}

// RegexpScanner returns a ScanFunc that turns every match of re accepted
// by keep into a placeholder. A nil keep accepts every match.
//
// Presentation names are derived from the original ("%s" is PH_S, "%1$d"
// is PH_1_D) so messages that differ only in their placeholders keep
// distinct fingerprints. Repeated originals get a numeric suffix (PH_S_2).
func RegexpScanner(re *regexp.Regexp, keep func(match string) bool) ScanFunc {
	return func(text string) []Part {
		var parts []Part
		used := make(map[string]bool)
		last := 0
		for _, loc := range re.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			if keep != nil && !keep(match) {
				continue
			}
			if loc[0] > last {
				parts = appendText(parts, text[last:loc[0]])
			}
			parts = append(parts, PlaceholderPart(Placeholder{
				Original:     match,
				Presentation: presentationName(match, used),
			}))
			last = loc[1]
		}
		if last < len(text) {
			parts = appendText(parts, text[last:])
		}
		return parts
	}
}

func presentationName(original string, used map[string]bool) string {
	fields := strings.FieldsFunc(strings.ToUpper(original), func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	name := "PH"
	if len(fields) > 0 {
		name += "_" + strings.Join(fields, "_")
	}
	if used[name] {
		for n := 2; ; n++ {
			if cand := fmt.Sprintf("%s_%d", name, n); !used[cand] {
				name = cand
				break
			}
		}
	}
	used[name] = true
	return name
}

func appendText(parts []Part, s string) []Part {
	if n := len(parts); n > 0 && parts[n-1].Placeholder == nil {
		parts[n-1].Text += s
		return parts
	}
	return append(parts, TextPart(s))
}
