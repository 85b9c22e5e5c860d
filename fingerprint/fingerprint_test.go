package fingerprint

import "testing"

func TestOfKnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		meaning string
		want    int64
	}{
		{text: "", want: -3162216497309240828},
		{text: "a", want: 919145239626757800},
		{text: "hello", want: 6719722671305337462},
		{text: "Hello", want: -8423251567987060074},
		{text: "Hello", meaning: "greeting", want: -4748780044928346357},
		{text: "Hello %s how are you", want: -1468838481261718874},
	}

	for _, tc := range tests {
		if got := Of(tc.text, tc.meaning); got != tc.want {
			t.Fatalf("Of(%q, %q) = %d, want %d", tc.text, tc.meaning, got, tc.want)
		}
	}
}

func TestOfDeterministic(t *testing.T) {
	t.Parallel()

	if Of("Cancel", "button") != Of("Cancel", "button") {
		t.Fatal("Of is not deterministic")
	}
}

func TestOfMeaningSensitivity(t *testing.T) {
	t.Parallel()

	plain := Of("Open", "")
	verb := Of("Open", "verb")
	adjective := Of("Open", "adjective")
	if plain == verb || verb == adjective || plain == adjective {
		t.Fatalf("meanings collided: %d %d %d", plain, verb, adjective)
	}
	if Of("ab", "") == Of("a", "b") {
		t.Fatal("text/meaning boundary is ambiguous")
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	fp := Of("round trip", "")
	got, err := Parse(String(fp))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != fp {
		t.Fatalf("Parse(String(%d)) = %d", fp, got)
	}
}
