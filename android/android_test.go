package android

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/gather"
	"github.com/minios-linux/grist/message"
)

func TestStringsXML(t *testing.T) {
	u := clique.New()
	mk := func(id, text string, translateable bool, opts ...message.Option) gather.CliqueRef {
		t.Helper()
		opts = append(opts, message.WithScanner(message.PrintfScanner))
		m, err := message.New(text, opts...)
		if err != nil {
			t.Fatal(err)
		}
		return gather.CliqueRef{Clique: u.MakeClique(m, translateable), ID: id}
	}

	hello := mk("IDS_HELLO", "Hello %1$s", true, message.WithDescription("Greeting -- shown once"))
	if err := hello.Clique.AddTranslationText("fr", "Bonjour l'ami %1$s"); err != nil {
		t.Fatal(err)
	}
	brand := mk("IDS_BRAND", "Grist", false)
	padded := mk("IDC_SAVE_AS", "Save as", true)
	padded.Leading = " "
	items := []gather.CliqueRef{hello, brand, padded, mk("IDS_HELLO", "Duplicate", true), {Clique: brand.Clique}}

	got, err := StringsXML(items, "fr")
	if err != nil {
		t.Fatalf("StringsXML: %v", err)
	}
	want := `<?xml version="1.0" encoding="utf-8"?>
<!-- This file is generated by grist. Do not edit. -->
<resources>
    <!-- Greeting - - shown once -->
    <string name="hello">Bonjour l\'ami %1$s</string>
    <string name="brand" translatable="false">Grist</string>
    <string name="idc_save_as">" Save as"</string>
</resources>
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

func TestStringsXMLNoTranslation(t *testing.T) {
	u := clique.New()
	m, err := message.New("Strict")
	if err != nil {
		t.Fatal(err)
	}
	c := u.MakeClique(m, true)
	c.SetFallbackToEnglish(false)
	_, err = StringsXML([]gather.CliqueRef{{Clique: c, ID: "IDS_STRICT"}}, "de")
	if !errors.Is(err, clique.ErrNoTranslation) {
		t.Fatalf("err = %v, want ErrNoTranslation", err)
	}
}

func TestEscapeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: `Say "hi"`, want: `Say \"hi\"`},
		{in: "it's", want: `it\'s`},
		{in: "a\\b", want: `a\\b`},
		{in: "one\ntwo\tthree", want: `one\ntwo\tthree`},
		{in: "<b>&</b>", want: "&lt;b&gt;&amp;&lt;/b&gt;"},
		{in: "@home", want: `\@home`},
		{in: "what?", want: "what?"},
		{in: "trailing ", want: `"trailing "`},
	}
	for _, tc := range tests {
		if got := EscapeValue(tc.in); got != tc.want {
			t.Errorf("EscapeValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValuesDirAndResourceName(t *testing.T) {
	t.Parallel()

	for lang, want := range map[string]string{
		"fr":    "values-fr",
		"pt-BR": "values-pt-rBR",
		"en-XA": "values-en-rXA",
	} {
		if got := ValuesDir(lang); got != want {
			t.Errorf("ValuesDir(%q) = %q, want %q", lang, got, want)
		}
	}
	for id, want := range map[string]string{
		"IDS_SAVE_AS": "save_as",
		"IDR_HELP":    "help",
		"IDC_OK":      "idc_ok",
		"":            "",
	} {
		if got := ResourceName(id); got != want {
			t.Errorf("ResourceName(%q) = %q, want %q", id, got, want)
		}
	}
}
