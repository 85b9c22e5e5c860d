package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/minios-linux/grist/config"
	"github.com/minios-linux/grist/lockfile"
	"github.com/minios-linux/grist/pseudo"
)

func TestProgressBar(t *testing.T) {
	defer func(v bool) { color.NoColor = v }(color.NoColor)
	color.NoColor = true

	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{name: "clamps below zero", percent: -10, width: 4, want: "░░░░   0%"},
		{name: "mid range", percent: 50, width: 4, want: "██░░  50%"},
		{name: "clamps above hundred", percent: 120, width: 4, want: "████ 100%"},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestProgressBarColors(t *testing.T) {
	defer func(v bool) { color.NoColor = v }(color.NoColor)
	color.NoColor = false

	if got, want := progressBar(100, 2), color.New(color.FgGreen).Sprint("██")+" 100%"; got != want {
		t.Fatalf("progressBar(100) = %q, want %q", got, want)
	}
	if got, want := progressBar(10, 2), color.New(color.FgRed).Sprint("░░")+"  10%"; got != want {
		t.Fatalf("progressBar(10) = %q, want %q", got, want)
	}
}

func TestPseudoText(t *testing.T) {
	got, err := pseudoText("Hello %s", pseudo.Accented)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Heéllö %s" {
		t.Fatalf("pseudoText = %q", got)
	}

	rtl, err := pseudoText("Hello %s", pseudo.RTL)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(rtl, " %s") || rtl == "Hello %s" {
		t.Fatalf("rtl pseudoText = %q", rtl)
	}
}

func TestCommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	want := []string{"build", "extract", "init", "pseudo", "shortcuts", "status", "version"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("commands (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// End to end
// ---------------------------------------------------------------------------

const testRC = `IDD_ABOUT DIALOGEX 0, 0, 100, 50
CAPTION "About"
BEGIN
    PUSHBUTTON      "&Close", IDC_CLOSE, 0, 0, 10, 10
    PUSHBUTTON      "&Copy", IDC_COPY, 0, 0, 10, 10
END
`

// run executes the root command with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stderr bytes.Buffer
	saved := logOut
	logOut = &stderr
	t.Cleanup(func() { logOut = saved })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestInitExtractBuild(t *testing.T) {
	for _, key := range []string{
		"GRIST_OUTPUT_DIR", "GRIST_TRANSLATIONS_DIR", "GRIST_FALLBACK_TO_ENGLISH",
		"GRIST_PSEUDO_LOCALES", "GRIST_LANGUAGES", "GRIST_WORKERS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	defer func(v bool) { color.NoColor = v }(color.NoColor)
	color.NoColor = true

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "res", "about.rc"), testRC)

	if _, err := run(t, "--root", dir, "-q", "init", "--lang", "de"); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load after init: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Path != "res/about.rc" || cfg.Sources[0].Type != config.SourceTypeRC {
		t.Fatalf("sources = %+v", cfg.Sources)
	}
	if _, err := run(t, "--root", dir, "init"); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}

	if _, err := run(t, "--root", dir, "-q", "extract"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, name := range []string{"messages.pot", "de.po"} {
		if _, err := os.Stat(filepath.Join(dir, "translations", name)); err != nil {
			t.Fatalf("extract did not write %s: %v", name, err)
		}
	}

	out, err := run(t, "--root", dir, "-q", "build")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(out, "Wrote 4 files") {
		t.Fatalf("build output:\n%s", out)
	}
	if !strings.Contains(out, "about: 2 added, 0 changed, 0 removed") {
		t.Fatalf("build output lacks lock changes:\n%s", out)
	}
	// German is untranslated and falls back to the source text.
	data, err := os.ReadFile(filepath.Join(dir, "out", "de", "about.rc"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testRC {
		t.Fatalf("de output = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, lockfile.LockFileName)); err != nil {
		t.Fatalf("lock file not written: %v", err)
	}

	status, err := run(t, "--root", dir, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"1 rc", "1 sources, 2 ids", "de         German", "en-XA*     Pseudo Accented"} {
		if !strings.Contains(status, want) {
			t.Errorf("status output lacks %q:\n%s", want, status)
		}
	}

	if out, err := run(t, "--root", dir, "shortcuts", "--strict"); err == nil {
		t.Fatalf("shortcuts --strict should fail on the C conflict:\n%s", out)
	} else if !strings.Contains(out, `Duplicate keyboard shortcut(s) C in group "IDD_ABOUT"`) {
		t.Fatalf("shortcuts output:\n%s", out)
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "--root", t.TempDir(), "build")
	if err == nil || !strings.Contains(err.Error(), "grist init") {
		t.Fatalf("err = %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "grist version dev\n") {
		t.Fatalf("version output = %q", out)
	}
}
