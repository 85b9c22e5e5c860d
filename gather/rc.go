package gather

import (
	"fmt"
	"maps"
	"regexp"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/message"
)

// DefaultDescriptions maps resource-script control keywords to the
// descriptions shown to translators.
var DefaultDescriptions = map[string]string{
	"CAPTION":         "This is the caption of a dialog",
	"LTEXT":           "This is the text for a label",
	"RTEXT":           "This is the text for a label",
	"CTEXT":           "This is the text for a label",
	"PUSHBUTTON":      "This is the text for a button",
	"DEFPUSHBUTTON":   "This is the text for a button",
	"GROUPBOX":        "This is the caption of a group box",
	"CHECKBOX":        "This is the text for a checkbox",
	"AUTOCHECKBOX":    "This is the text for a checkbox",
	"STATE3":          "This is the text for a checkbox",
	"AUTO3STATE":      "This is the text for a checkbox",
	"RADIOBUTTON":     "This is the text for a radio button",
	"AUTORADIOBUTTON": "This is the text for a radio button",
	"CONTROL":         "This is the text for a control",
	"POPUP":           "This is the name of a menu",
	"MENUITEM":        "This is the text for a menu item",
}

var (
	rcHeaderRe = regexp.MustCompile(
		`(?m)^[ \t]*(?:([A-Za-z_][A-Za-z0-9_]*)[ \t]+(DIALOGEX|DIALOG|MENUEX|MENU)\b|(STRINGTABLE)\b)`)

	// rcTokenRe finds block delimiters. Strings and comments are matched
	// so delimiters inside them are skipped.
	rcTokenRe = regexp.MustCompile(`"(?:[^"\r\n]|"")*"|//[^\n]*|\b(?:BEGIN|END)\b|[{}]`)

	rcDialogPattern = MustCompile(
		`(?m)^[ \t]*(?:`+
			`(?P<type1>CAPTION)[ \t]+"(?P<text1>(?:[^"\r\n]|"")*)"`+
			`|(?P<type2>LTEXT|RTEXT|CTEXT|DEFPUSHBUTTON|PUSHBUTTON|GROUPBOX|AUTOCHECKBOX|CHECKBOX|AUTORADIOBUTTON|RADIOBUTTON|AUTO3STATE|STATE3|CONTROL)`+
			`[ \t]+"(?P<text2>(?:[^"\r\n]|"")*)"[ \t]*,[ \t]*(?P<id2>[A-Za-z0-9_]+))`,
		Group{Name: "id2", Role: RoleIdentifier},
		Group{Name: "text1", Role: RoleText},
		Group{Name: "text2", Role: RoleText},
		Group{Name: "type1", Role: RoleDescription},
		Group{Name: "type2", Role: RoleDescription},
	)

	rcMenuPattern = MustCompile(
		`(?m)^[ \t]*(?:`+
			`(?P<type1>POPUP)[ \t]+"(?P<text1>(?:[^"\r\n]|"")*)"`+
			`|(?P<type2>MENUITEM)[ \t]+"(?P<text2>(?:[^"\r\n]|"")*)"[ \t]*,[ \t]*(?P<id2>[A-Za-z0-9_]+))`,
		Group{Name: "id2", Role: RoleIdentifier},
		Group{Name: "text1", Role: RoleText},
		Group{Name: "text2", Role: RoleText},
		Group{Name: "type1", Role: RoleDescription},
		Group{Name: "type2", Role: RoleDescription},
	)

	rcStringTablePattern = MustCompile(
		`(?m)^[ \t]*(?P<id>[A-Za-z_][A-Za-z0-9_]*)[ \t]*,?[ \t]*"(?P<text>(?:[^"\r\n]|"")*)"`,
		Group{Name: "id", Role: RoleIdentifier},
		Group{Name: "text", Role: RoleText},
	)
)

// NewRCFile returns a gatherer for a Windows resource script. Strings are
// extracted from DIALOG, DIALOGEX, MENU, MENUEX and STRINGTABLE sections;
// everything else is kept verbatim. The cliques of each dialog and menu
// join a shortcut group named after the resource id. Printf conversions
// in strings become placeholders.
//
// descriptions extends DefaultDescriptions and may be nil.
func NewRCFile(name, text string, u *clique.UberClique, descriptions map[string]string) *StructuralGatherer {
	dm := maps.Clone(DefaultDescriptions)
	maps.Copy(dm, descriptions)
	return NewSplit(name, text, u, splitRC, Options{
		Escaper:        RCString,
		DescriptionMap: dm,
		Scanner:        message.PrintfScanner,
	})
}

func splitRC(text string) ([]Section, error) {
	var sections []Section
	last := 0
	headers := rcHeaderRe.FindAllStringSubmatchIndex(text, -1)
	for i, h := range headers {
		if h[0] < last {
			// Header text inside a section that was already consumed.
			continue
		}
		var (
			id      string
			kind    string
			pattern *Pattern
		)
		switch {
		case h[6] >= 0:
			kind = "STRINGTABLE"
			pattern = rcStringTablePattern
		default:
			id, kind = text[h[2]:h[3]], text[h[4]:h[5]]
			pattern = rcDialogPattern
			if kind == "MENU" || kind == "MENUEX" {
				pattern = rcMenuPattern
			}
		}

		limit := len(text)
		if i+1 < len(headers) {
			limit = headers[i+1][0]
		}
		end, err := blockEnd(text, h[1], limit)
		if err != nil {
			err.Reason = fmt.Sprintf("%s %s: %s", kind, id, err.Reason)
			return nil, err
		}
		if h[0] > last {
			sections = append(sections, Section{Text: text[last:h[0]]})
		}
		sections = append(sections, Section{Text: text[h[0]:end], Pattern: pattern, ShortcutGroup: id})
		last = end
	}
	if last < len(text) {
		sections = append(sections, Section{Text: text[last:]})
	}
	return sections, nil
}

// blockEnd returns the offset just past the END that closes the first
// BEGIN after from. The opening BEGIN must come before limit.
func blockEnd(text string, from, limit int) (int, *MalformedSourceError) {
	depth := 0
	for _, loc := range rcTokenRe.FindAllStringIndex(text[from:], -1) {
		tok := text[from+loc[0] : from+loc[1]]
		switch tok {
		case "BEGIN", "{":
			if depth == 0 && from+loc[0] >= limit {
				return 0, &MalformedSourceError{Offset: from, Reason: "missing BEGIN"}
			}
			depth++
		case "END", "}":
			if depth == 0 {
				return 0, &MalformedSourceError{Offset: from + loc[0], Reason: "END without BEGIN"}
			}
			depth--
			if depth == 0 {
				return from + loc[1], nil
			}
		}
	}
	if depth == 0 {
		return 0, &MalformedSourceError{Offset: from, Reason: "missing BEGIN"}
	}
	return 0, &MalformedSourceError{Offset: len(text), Reason: "unbalanced BEGIN/END"}
}
