package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/config"
	"github.com/minios-linux/grist/lockfile"
	"github.com/minios-linux/grist/pofile"
)

const appRC = `IDD_MAIN DIALOGEX 0, 0, 100, 50
CAPTION "Main"
BEGIN
    PUSHBUTTON      "&Save", IDC_SAVE, 0, 0, 10, 10
    PUSHBUTTON      "&Search", IDC_SEARCH, 0, 0, 10, 10
END

STRINGTABLE
BEGIN
    IDS_HELLO "Hello %s"
END
`

const frPO = `msgid ""
msgstr "Language: fr\n"

msgid "&Save"
msgstr "&Enregistrer"

msgid "&Search"
msgstr "&Chercher"

msgid "Hello %s"
msgstr "Bonjour %s"
`

func setup(t *testing.T, yaml string) *config.Config {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		config.FileName:      yaml,
		"res/app.rc":         appRC,
		"translations/fr.po": frPO,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := config.Load(root)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func quiet() Options {
	l := zerolog.Nop()
	return Options{Logger: &l}
}

const buildYAML = `
languages: [fr]
sources:
  - name: app
    type: rc
    path: res/app.rc
    outputs: [source, switch]
`

func TestRun(t *testing.T) {
	cfg := setup(t, buildYAML)

	rep, err := Run(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Written) != 8 {
		t.Fatalf("written %d files, want 8: %v", len(rep.Written), rep.Written)
	}
	if got := rep.Translations["fr"].Applied; got != 3 {
		t.Errorf("fr applied = %d, want 3", got)
	}
	if rep.Pseudo["en-XA"] != 4 || rep.Pseudo["ar-XB"] != 4 {
		t.Errorf("pseudo = %v", rep.Pseudo)
	}

	want := `Duplicate keyboard shortcut(s) S in group "IDD_MAIN" for language en`
	found := false
	for _, w := range rep.Warnings {
		if w == want {
			found = true
		}
		if strings.HasSuffix(w, "language fr") {
			t.Errorf("unexpected French warning %q", w)
		}
	}
	if !found {
		t.Errorf("warnings %v do not contain %q", rep.Warnings, want)
	}

	out := cfg.OutputPath()
	read := func(rel string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(out, rel))
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	if got := read("en/app.rc"); got != appRC {
		t.Errorf("en/app.rc differs from the source:\n%s", cmp.Diff(appRC, got))
	}
	fr := read("fr/app.rc")
	for _, s := range []string{`"&Enregistrer"`, `"&Chercher"`, `CAPTION "Main"`, `IDS_HELLO "Bonjour %s"`} {
		if !strings.Contains(fr, s) {
			t.Errorf("fr/app.rc lacks %s:\n%s", s, fr)
		}
	}
	if h := read("fr/app_strings.h"); !strings.Contains(h, "    case IDS_HELLO:\n      return \"Bonjour %s\";\n") {
		t.Errorf("fr/app_strings.h:\n%s", h)
	}
	if got := read("en-XA/app.rc"); !strings.Contains(got, `"Heéllö %s"`) {
		t.Errorf("en-XA/app.rc is not pseudo-translated:\n%s", got)
	}

	wantChanges := lockfile.Changes{Added: []string{"IDC_SAVE", "IDC_SEARCH", "IDS_HELLO"}}
	if diff := cmp.Diff(wantChanges, rep.Changes["app"]); diff != "" {
		t.Errorf("first run changes (-want +got):\n%s", diff)
	}

	rep, err = Run(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if c := rep.Changes["app"]; !c.Empty() {
		t.Errorf("second run reported changes %v", c)
	}
}

func TestRunReportsFailures(t *testing.T) {
	cfg := setup(t, `
languages: [fr]
fallback_to_english: false
lock: false
sources:
  - {name: app, type: rc, path: res/app.rc, outputs: [switch, source]}
  - {name: help, type: txt, path: docs/help.txt}
`)

	rep, err := Run(context.Background(), cfg, quiet())
	if err == nil {
		t.Fatal("Run should report the missing source")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want it to wrap ErrNotExist", err)
	}
	if _, ok := rep.Failed["help"]; !ok {
		t.Errorf("Failed = %v, want help", rep.Failed)
	}
	// The caption has no French translation and may not fall back, so
	// only the French source output fails. It has no id, so the switch
	// output never needs it.
	if len(rep.OutputErrors) != 1 || !errors.Is(rep.OutputErrors[0], clique.ErrNoTranslation) {
		t.Errorf("OutputErrors = %v, want one missing translation", rep.OutputErrors)
	}
	if !errors.Is(err, clique.ErrNoTranslation) {
		t.Errorf("err = %v, want it to wrap ErrNoTranslation", err)
	}
	if len(rep.Written) != 7 {
		t.Errorf("written = %v", rep.Written)
	}
	if _, err := os.Stat(filepath.Join(cfg.Root(), lockfile.LockFileName)); !os.IsNotExist(err) {
		t.Error("lock file written although disabled")
	}
}

func TestRunDryRun(t *testing.T) {
	cfg := setup(t, buildYAML)
	opts := quiet()
	opts.DryRun = true

	rep, err := Run(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Written) == 0 {
		t.Fatal("dry run should still list the outputs")
	}
	if _, err := os.Stat(cfg.OutputPath()); !os.IsNotExist(err) {
		t.Error("dry run created the output directory")
	}
	if _, err := os.Stat(filepath.Join(cfg.Root(), lockfile.LockFileName)); !os.IsNotExist(err) {
		t.Error("dry run wrote the lock file")
	}
}

func TestExport(t *testing.T) {
	cfg := setup(t, buildYAML)
	opts := quiet()
	opts.Now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	written, err := Export(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	dir := cfg.TranslationsPath()
	want := []string{filepath.Join(dir, TemplateName), filepath.Join(dir, "fr.po")}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Fatalf("written (-want +got):\n%s", diff)
	}

	tmpl, err := pofile.ParseFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(tmpl.Entries) != 4 {
		t.Fatalf("template entries = %d, want 4", len(tmpl.Entries))
	}
	if got := tmpl.HeaderField("POT-Creation-Date"); got != "2026-03-01 12:00+0000" {
		t.Errorf("POT-Creation-Date = %q", got)
	}
	save := tmpl.Find("", "&Save")
	if save == nil || save.ExtractedComments[0] != "This is the text for a button" {
		t.Fatalf("&Save entry = %#v", save)
	}
	if diff := cmp.Diff([]string{"IDC_SAVE"}, save.References); diff != "" {
		t.Errorf("references (-want +got):\n%s", diff)
	}

	fr, err := pofile.ParseFile(want[1])
	if err != nil {
		t.Fatal(err)
	}
	total, translated, _, untranslated := fr.Stats()
	if total != 4 || translated != 3 || untranslated != 1 {
		t.Errorf("fr stats = %d/%d/%d", total, translated, untranslated)
	}
	if e := fr.Find("", "Hello %s"); e == nil || e.MsgStr != "Bonjour %s" || !e.HasFlag("c-format") {
		t.Errorf("Hello entry = %#v", e)
	}
}

func TestCoverage(t *testing.T) {
	cfg := setup(t, buildYAML)
	logger := zerolog.Nop()
	p := Gather(context.Background(), cfg, quiet())
	if _, err := p.LoadTranslations(logger); err != nil {
		t.Fatal(err)
	}
	p.Pseudo()

	got := p.Coverage()
	want := []LangStatus{
		{Lang: "ar-XB", Total: 4, Translated: 4, Pseudo: true},
		{Lang: "en-XA", Total: 4, Translated: 4, Pseudo: true},
		{Lang: "fr", Total: 4, Translated: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Coverage (-want +got):\n%s", diff)
	}
	if got[2].Percent() != 75 {
		t.Errorf("Percent = %d, want 75", got[2].Percent())
	}
}

func TestRenderResourceOutputs(t *testing.T) {
	cfg := setup(t, `
languages: [fr]
sources:
  - {name: app, type: rc, path: res/app.rc, outputs: [android_xml, properties]}
`)
	p := Gather(context.Background(), cfg, quiet())
	if _, err := p.LoadTranslations(zerolog.Nop()); err != nil {
		t.Fatal(err)
	}
	doc := p.Documents[0]

	path, content, err := Render(doc, config.OutputAndroidXML, "fr", "en")
	if err != nil {
		t.Fatalf("Render android: %v", err)
	}
	if path != filepath.Join("values-fr", "app.xml") {
		t.Errorf("android path = %q", path)
	}
	for _, s := range []string{
		`<string name="idc_save">&amp;Enregistrer</string>`,
		`<string name="hello">Bonjour %s</string>`,
	} {
		if !strings.Contains(content, s) {
			t.Errorf("android output lacks %s:\n%s", s, content)
		}
	}

	path, content, err = Render(doc, config.OutputProperties, "en", "en")
	if err != nil {
		t.Fatalf("Render properties: %v", err)
	}
	if path != "app.properties" {
		t.Errorf("properties path = %q", path)
	}
	if !strings.Contains(content, "\nIDS_HELLO=Hello %s\n") {
		t.Errorf("properties output:\n%s", content)
	}
	if path, _, _ := Render(doc, config.OutputProperties, "fr", "en"); path != "app_fr.properties" {
		t.Errorf("fr properties path = %q", path)
	}
}
