package tts

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Grandma, it's me! (sobs) Please help.", "Grandma, it's me! Please help."},
		{"*crying* I need the money *sniffles* today.", "I need the money today."},
		{"[long pause] Thank you for holding.", "Thank you for holding."},
		{"(sobs) *crying* [pause]", ""},
		{"  plain   text  with   spaces ", "plain text with spaces"},
		{"", ""},
		{"Mixed (one) and *two* and [three] cues.", "Mixed and and cues."},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
