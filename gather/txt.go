package gather

import (
	"path/filepath"
	"strings"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/message"
)

// NewTxtFile returns a gatherer for a plain text template whose whole
// content is one message. The textual id is the upper-cased file base name
// prefixed with IDR_ (help.txt is IDR_HELP). Printf-style placeholders are
// recognized.
func NewTxtFile(name, text string, u *clique.UberClique, description string) *SingleMessageGatherer {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	id := "IDR_" + strings.ToUpper(strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, base))
	return NewSingleMessage(name, id, text, u, Options{
		Description: description,
		Scanner:     message.PrintfScanner,
	})
}
