package gather

import (
	"regexp"
	"strings"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/message"
)

var (
	jsonEntryPattern = MustCompile(
		`"(?P<name>[^"\\]+)"\s*:\s*\{\s*`+
			`(?:"description"\s*:\s*"(?P<lead_description>(?:[^"\\]|\\.)*)"\s*,\s*)?`+
			`"message"\s*:\s*"(?P<message>(?:[^"\\]|\\.)*)"`+
			`(?:\s*,\s*"description"\s*:\s*"(?P<description>(?:[^"\\]|\\.)*)")?`,
		Group{Name: "name", Role: RoleIdentifier},
		Group{Name: "message", Role: RoleText},
		Group{Name: "lead_description", Role: RoleDescription},
		Group{Name: "description", Role: RoleDescription},
	)

	// jsonPlaceholderRe matches "$1".."$9" and named "$USER$" references.
	jsonPlaceholderRe = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*\$|\$[1-9]`)
)

// NewMessagesJSON returns a gatherer for an extension-style JSON message
// bundle:
//
//	{
//	  "greeting": {"message": "Hello $1", "description": "Shown on start"}
//	}
//
// The document must be a JSON object. Entry names become textual ids. A
// description written directly before or after the message becomes its
// description.
func NewMessagesJSON(name, text string, u *clique.UberClique) *StructuralGatherer {
	split := func(text string) ([]Section, error) {
		trimmed := strings.TrimLeft(text, " \t\r\n\ufeff")
		if !strings.HasPrefix(trimmed, "{") {
			return nil, &MalformedSourceError{
				Offset: len(text) - len(trimmed),
				Reason: "message bundle must be a JSON object",
			}
		}
		return []Section{{Text: text, Pattern: jsonEntryPattern}}, nil
	}
	return NewSplit(name, text, u, split, Options{
		Escaper: JSONString,
		Scanner: message.RegexpScanner(jsonPlaceholderRe, nil),
	})
}
