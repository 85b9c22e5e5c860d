package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GRIST_OUTPUT_DIR", "GRIST_TRANSLATIONS_DIR", "GRIST_FALLBACK_TO_ENGLISH",
		"GRIST_PSEUDO_LOCALES", "GRIST_LANGUAGES", "GRIST_WORKERS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
languages: [fr, pt_br]
sources:
  - name: app
    type: rc
    path: res/app.rc
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.SourceLang != "en" {
		t.Errorf("SourceLang = %q, want en", c.SourceLang)
	}
	if diff := cmp.Diff([]string{"fr", "pt-BR"}, c.Languages); diff != "" {
		t.Errorf("Languages (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"en-XA", "ar-XB"}, c.PseudoLocales); diff != "" {
		t.Errorf("PseudoLocales (-want +got):\n%s", diff)
	}
	if !*c.FallbackToEnglish || !c.LockEnabled() || c.Workers != 4 {
		t.Errorf("defaults not applied: fallback=%v lock=%v workers=%d", *c.FallbackToEnglish, c.LockEnabled(), c.Workers)
	}
	if diff := cmp.Diff([]string{OutputSource}, c.Sources[0].Outputs); diff != "" {
		t.Errorf("Outputs (-want +got):\n%s", diff)
	}

	abs, _ := filepath.Abs(dir)
	if got := c.SourcePath(c.Sources[0]); got != filepath.Join(abs, "res", "app.rc") {
		t.Errorf("SourcePath = %q", got)
	}
	if got := c.OutputPath(); got != filepath.Join(abs, "out") {
		t.Errorf("OutputPath = %q", got)
	}
	if got := c.TranslationsPath(); got != filepath.Join(abs, "translations") {
		t.Errorf("TranslationsPath = %q", got)
	}

	want := []string{"ar-XB", "en", "en-XA", "fr", "pt-BR"}
	if diff := cmp.Diff(want, c.OutputLanguages()); diff != "" {
		t.Errorf("OutputLanguages (-want +got):\n%s", diff)
	}

	p := c.Policy()
	if p.SourceLanguage != "en" || !p.FallbackToEnglish || !p.IsPseudoLocale("ar-XB") || p.IsPseudoLocale("fr") {
		t.Errorf("Policy = %+v", p)
	}
}

func TestLoadMissing(t *testing.T) {
	clearEnv(t)
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("err = %v, want ErrNoConfig", err)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "sources:\n  - type: rc\n    path: a.rc\n",
			want:    "source #1 has no name",
		},
		{
			name:    "unknown type",
			content: "sources:\n  - name: a\n    type: xml\n    path: a.xml\n",
			want:    `source "a" has unknown type "xml"`,
		},
		{
			name:    "unknown output",
			content: "sources:\n  - name: a\n    type: rc\n    path: a.rc\n    outputs: [pdf]\n",
			want:    `source "a" has unknown output "pdf"`,
		},
		{
			name:    "duplicate",
			content: "sources:\n  - {name: a, type: rc, path: a.rc}\n  - {name: a, type: txt, path: a.txt}\n",
			want:    `duplicate source name "a"`,
		},
		{
			name:    "missing path",
			content: "sources:\n  - {name: a, type: rc}\n",
			want:    `source "a" has no path`,
		},
		{
			name:    "source language translated",
			content: "languages: [en, fr]\nsources: []\n",
			want:    `language "en" is the source language`,
		},
		{
			name:    "bad yaml",
			content: "sources: [\n",
			want:    "parsing .grist.yaml",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeConfig(t, dir, tc.content)
			_, err := Load(dir)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
output_dir: build
fallback_to_english: true
sources: []
`)
	t.Setenv("GRIST_OUTPUT_DIR", "dist")
	t.Setenv("GRIST_FALLBACK_TO_ENGLISH", "false")
	t.Setenv("GRIST_PSEUDO_LOCALES", "")
	t.Setenv("GRIST_LANGUAGES", "de, ja")
	t.Setenv("GRIST_WORKERS", "9")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputDir != "dist" {
		t.Errorf("OutputDir = %q, want dist", c.OutputDir)
	}
	if *c.FallbackToEnglish {
		t.Error("FallbackToEnglish should be overridden to false")
	}
	if len(c.PseudoLocales) != 0 {
		t.Errorf("PseudoLocales = %v, want none", c.PseudoLocales)
	}
	if diff := cmp.Diff([]string{"de", "ja"}, c.Languages); diff != "" {
		t.Errorf("Languages (-want +got):\n%s", diff)
	}
	if c.Workers != 9 {
		t.Errorf("Workers = %d, want 9", c.Workers)
	}

	t.Setenv("GRIST_FALLBACK_TO_ENGLISH", "maybe")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected an error for an invalid boolean")
	}
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	t.Cleanup(func() { os.Unsetenv("GRIST_TRANSLATIONS_DIR") })

	dir := t.TempDir()
	writeConfig(t, dir, "sources: []\n")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GRIST_TRANSLATIONS_DIR=po\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TranslationsDir != "po" {
		t.Fatalf("TranslationsDir = %q, want po from .env", c.TranslationsDir)
	}
}

func TestTranslatedLanguagesDetected(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "sources: []\n")
	trans := filepath.Join(dir, "translations")
	if err := os.MkdirAll(trans, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"fr.po", "pt_BR.po", "en.po", "en-XA.po", "notes.txt", "template.pot", "README.po"} {
		if err := os.WriteFile(filepath.Join(trans, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"fr", "pt-BR"}, c.TranslatedLanguages()); diff != "" {
		t.Fatalf("TranslatedLanguages (-want +got):\n%s", diff)
	}
}
