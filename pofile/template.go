package pofile

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/minios-linux/grist/clique"
)

// Project describes the package named in generated headers.
type Project struct {
	Name    string
	Version string
	// BugsAddress becomes Report-Msgid-Bugs-To.
	BugsAddress string
}

// MakeHeader returns the header entry of a template (lang == "") or of a
// catalog for lang.
func MakeHeader(p Project, lang string, now time.Time) *Entry {
	stamp := now.UTC().Format("2006-01-02 15:04+0000")
	revision := stamp
	if lang == "" {
		revision = "YEAR-MO-DA HO:MI+ZONE"
	}
	fields := []string{
		"Project-Id-Version: " + strings.TrimSpace(p.Name+" "+p.Version),
		"Report-Msgid-Bugs-To: " + p.BugsAddress,
		"POT-Creation-Date: " + stamp,
		"PO-Revision-Date: " + revision,
		"Language: " + lang,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Transfer-Encoding: 8bit",
		"X-Generator: grist",
	}
	return &Entry{
		TranslatorComments: []string{fmt.Sprintf("Translations for %s.", p.Name)},
		MsgStr:             strings.Join(fields, "\n") + "\n",
	}
}

// Template builds a POT file with one entry per translateable clique, in
// registration order.
func Template(cliques iter.Seq[*clique.Clique], header *Entry) *File {
	f := &File{Header: header}
	if f.Header == nil {
		f.Header = &Entry{}
	}
	for c := range cliques {
		if e := entryFor(c); e != nil {
			f.Entries = append(f.Entries, e)
		}
	}
	return f
}

// Catalog builds the PO file for lang from the translations held by the
// cliques. Messages without a translation get an empty msgstr.
func Catalog(cliques iter.Seq[*clique.Clique], lang string, header *Entry) *File {
	f := &File{Header: header}
	if f.Header == nil {
		f.Header = &Entry{}
	}
	for c := range cliques {
		e := entryFor(c)
		if e == nil {
			continue
		}
		if t, ok := c.Translation(lang); ok {
			e.MsgStr = t.RealContent()
		}
		f.Entries = append(f.Entries, e)
	}
	return f
}

func entryFor(c *clique.Clique) *Entry {
	if !c.Translateable() {
		return nil
	}
	msg := c.Message()
	e := &Entry{
		MsgCtxt:    msg.Meaning(),
		MsgID:      msg.RealContent(),
		References: c.TextualIDs(),
	}
	if d := msg.Description(); d != "" {
		e.ExtractedComments = append(e.ExtractedComments, d)
	}
	e.ExtractedComments = append(e.ExtractedComments, "id: "+c.ID())
	for _, ph := range msg.Placeholders() {
		if strings.HasPrefix(ph.Original, "%") {
			e.Flags = []string{"c-format"}
			break
		}
	}
	return e
}
