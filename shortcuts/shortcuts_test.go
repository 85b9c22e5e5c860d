package shortcuts

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/message"
)

func addClique(t *testing.T, u *clique.UberClique, text string, groups ...string) *clique.Clique {
	t.Helper()
	m, err := message.New(text)
	if err != nil {
		t.Fatal(err)
	}
	c := u.MakeClique(m, true)
	for _, g := range groups {
		c.AddToShortcutGroup(g)
	}
	return c
}

func TestKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []rune
	}{
		{text: "Hello &there", want: []rune{'T'}},
		{text: "S&&T are the &letters S and T", want: []rune{'L'}},
		{text: "&&&x", want: nil},
		{text: "Save &as…", want: []rune{'A'}},
		{text: "&1 and &é", want: nil},
		{text: "trailing &", want: nil},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, Keys(tc.text)); diff != "" {
			t.Errorf("Keys(%q) (-want +got):\n%s", tc.text, diff)
		}
	}
}

func TestGroupScenario(t *testing.T) {
	t.Parallel()

	u := clique.New()
	g := NewGroup("G")
	g.AddClique(addClique(t, u, "Hello &there"))
	g.AddClique(addClique(t, u, "Howdie &there partner"))

	warnings := g.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	want := `Duplicate keyboard shortcut(s) T in group "G" for language en`
	if warnings[0] != want {
		t.Fatalf("warning = %q, want %q", warnings[0], want)
	}

	third := addClique(t, u, "S&&T are the &letters S and T")
	g.AddClique(third)
	if got := g.keys["en"]['T']; got != 2 {
		t.Fatalf("count for T = %d, want 2", got)
	}
	if got := g.keys["en"]['L']; got != 1 {
		t.Fatalf("count for L = %d, want 1", got)
	}

	// The same clique reached twice is counted once.
	g.AddClique(third)
	if got := g.keys["en"]['L']; got != 1 {
		t.Fatalf("count for L after re-adding = %d, want 1", got)
	}
	if n := len(g.Members()); n != 3 {
		t.Fatalf("members = %d, want 3", n)
	}
}

func TestGroupTranslations(t *testing.T) {
	t.Parallel()

	u := clique.New()
	open := addClique(t, u, "&Open")
	options := addClique(t, u, "&Options")
	if err := open.AddTranslationText("de", "Ö&ffnen"); err != nil {
		t.Fatal(err)
	}
	if err := options.AddTranslationText("de", "&Optionen"); err != nil {
		t.Fatal(err)
	}

	g := NewGroup("IDD_MAIN")
	g.AddClique(open)
	g.AddClique(options)

	want := []string{`Duplicate keyboard shortcut(s) O in group "IDD_MAIN" for language en`}
	if diff := cmp.Diff(want, g.Warnings()); diff != "" {
		t.Fatalf("warnings (-want +got):\n%s", diff)
	}
}

func TestGenerateDuplicateShortcutsWarnings(t *testing.T) {
	t.Parallel()

	u := clique.New()
	addClique(t, u, "&File", "IDR_MENU")
	addClique(t, u, "&Format", "IDR_MENU", "IDD_FORMAT")
	addClique(t, u, "&Font", "IDD_FORMAT")
	addClique(t, u, "&Help", "IDR_MENU")
	addClique(t, u, "&Forgotten")

	got := GenerateDuplicateShortcutsWarnings(u.AllCliques())
	want := []string{
		`Duplicate keyboard shortcut(s) F in group "IDD_FORMAT" for language en`,
		`Duplicate keyboard shortcut(s) F in group "IDR_MENU" for language en`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("warnings (-want +got):\n%s", diff)
	}
}
