package pofile

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/message"
)

func TestParseWriteRoundTrip(t *testing.T) {
	input := `# Translations for grist.
msgid ""
msgstr ""
"Project-Id-Version: grist 1.0\n"
"Language: fr\n"

# checked by Anne
#. This is the text for a button
#: IDS_OK IDS_OK_2
#, c-format
msgid "OK %s"
msgstr "D'accord %s"

msgctxt "verb"
msgid "Open"
msgstr "Ouvrir"

#, fuzzy
#| msgid "Old line"
msgid ""
"First line\n"
"Second line"
msgstr ""
"Première ligne\n"
"Deuxième ligne"

#~ msgid "Gone"
#~ msgstr "Parti"
`
	f, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.HeaderField("language"); got != "fr" {
		t.Fatalf("HeaderField(language) = %q, want fr", got)
	}
	if len(f.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(f.Entries))
	}

	ok := f.Find("", "OK %s")
	if ok == nil {
		t.Fatal("OK entry not found")
	}
	want := &Entry{
		TranslatorComments: []string{"checked by Anne"},
		ExtractedComments:  []string{"This is the text for a button"},
		References:         []string{"IDS_OK", "IDS_OK_2"},
		Flags:              []string{"c-format"},
		MsgID:              "OK %s",
		MsgStr:             "D'accord %s",
	}
	if diff := cmp.Diff(want, ok); diff != "" {
		t.Fatalf("OK entry (-want +got):\n%s", diff)
	}

	if e := f.Find("verb", "Open"); e == nil || e.MsgStr != "Ouvrir" {
		t.Fatalf("context entry = %#v", e)
	}
	multi := f.Find("", "First line\nSecond line")
	if multi == nil || !multi.IsFuzzy() || multi.PreviousMsgID != "Old line" {
		t.Fatalf("multi-line entry = %#v", multi)
	}
	if !f.Entries[3].Obsolete || f.Find("", "Gone") != nil {
		t.Fatal("obsolete entry should be kept but not found")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if diff := cmp.Diff(input, buf.String()); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plural", input: "msgid \"a\"\nmsgid_plural \"as\"\n", want: "line 2: plural entries are not supported"},
		{name: "keyword", input: "msgfoo \"a\"\n", want: `line 1: unknown keyword "msgfoo"`},
		{name: "continuation", input: "\"dangling\"\n", want: "line 1: continuation string outside a field"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			if err == nil || err.Error() != tc.want {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestSetHeaderField(t *testing.T) {
	f := NewFile()
	f.SetHeaderField("Language", "de")
	f.SetHeaderField("X-Generator", "grist")
	f.SetHeaderField("language", "fr")
	if f.Header.MsgStr != "language: fr\nX-Generator: grist\n" {
		t.Fatalf("header = %q", f.Header.MsgStr)
	}
}

func TestStats(t *testing.T) {
	f := NewFile()
	f.Entries = []*Entry{
		{MsgID: "a", MsgStr: "x"},
		{MsgID: "b", MsgStr: "y", Flags: []string{"fuzzy"}},
		{MsgID: "c"},
		{MsgID: "d", MsgStr: "z", Obsolete: true},
	}
	total, translated, fuzzy, untranslated := f.Stats()
	if total != 3 || translated != 1 || fuzzy != 1 || untranslated != 1 {
		t.Fatalf("Stats = %d %d %d %d", total, translated, fuzzy, untranslated)
	}
}

func TestTemplateAndCatalog(t *testing.T) {
	u := clique.New()
	mk := func(text string, translateable bool, opts ...message.Option) *clique.Clique {
		opts = append(opts, message.WithScanner(message.PrintfScanner))
		m, err := message.New(text, opts...)
		if err != nil {
			t.Fatal(err)
		}
		return u.MakeClique(m, translateable)
	}
	hello := mk("Hello %s\nfriend", true, message.WithDescription("Greeting"))
	hello.AddTextualID("IDS_HELLO")
	open := mk("Open", true, message.WithMeaning("verb"))
	mk("Chromium", false)
	if err := hello.AddTranslationText("fr", "Bonjour %s\nami"); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	tmpl := Template(u.AllCliques(), MakeHeader(Project{Name: "app", Version: "1.0"}, "", now))
	if len(tmpl.Entries) != 2 {
		t.Fatalf("template entries = %d, want 2", len(tmpl.Entries))
	}
	want := []*Entry{
		{
			ExtractedComments: []string{"Greeting", "id: " + hello.ID()},
			References:        []string{"IDS_HELLO"},
			Flags:             []string{"c-format"},
			MsgID:             "Hello %s\nfriend",
		},
		{
			ExtractedComments: []string{"id: " + open.ID()},
			MsgCtxt:           "verb",
			MsgID:             "Open",
		},
	}
	if diff := cmp.Diff(want, tmpl.Entries); diff != "" {
		t.Fatalf("template (-want +got):\n%s", diff)
	}
	if got := tmpl.HeaderField("POT-Creation-Date"); got != "2026-01-02 03:04+0000" {
		t.Fatalf("POT-Creation-Date = %q", got)
	}
	if got := tmpl.HeaderField("Project-Id-Version"); got != "app 1.0" {
		t.Fatalf("Project-Id-Version = %q", got)
	}

	fr := Catalog(u.AllCliques(), "fr", MakeHeader(Project{Name: "app"}, "fr", now))
	if fr.HeaderField("Language") != "fr" {
		t.Fatalf("Language = %q", fr.HeaderField("Language"))
	}
	if got := fr.Find("", "Hello %s\nfriend"); got == nil || got.MsgStr != "Bonjour %s\nami" {
		t.Fatalf("fr hello = %#v", got)
	}
	if got := fr.Find("verb", "Open"); got == nil || got.MsgStr != "" {
		t.Fatalf("fr open = %#v", got)
	}
}
