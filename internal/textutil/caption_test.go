package textutil

import "testing"

func TestSanitizeCaptionKeepsBMPText(t *testing.T) {
	cases := []string{
		"Daily Motivation #3 #fyp",
		"Ünïcödé stays",
		"نشر يومي",
	}
	for _, input := range cases {
		got, changed := SanitizeCaption(input)
		if changed {
			t.Fatalf("unexpected change for %q", input)
		}
		if got != input {
			t.Fatalf("caption changed: got %q want %q", got, input)
		}
	}
}

func TestSanitizeCaptionReportsNormalizationChange(t *testing.T) {
	// Decomposed e + combining acute; NFC composes it to a single rune.
	got, changed := SanitizeCaption("café")
	if !changed {
		t.Fatal("expected normalization change to be reported")
	}
	if got != "café" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestSanitizeCaptionStripsSupplementaryPlane(t *testing.T) {
	got, changed := SanitizeCaption("Go get it \U0001F680\U0001F525 today")
	if !changed {
		t.Fatal("expected removal to be reported")
	}
	if got != "Go get it  today" {
		t.Fatalf("unexpected result %q", got)
	}
	for _, r := range got {
		if r > maxBMP {
			t.Fatalf("supplementary-plane rune %q survived", r)
		}
	}
}

func TestSanitizeCaptionEmpty(t *testing.T) {
	got, changed := SanitizeCaption("")
	if changed || got != "" {
		t.Fatalf("unexpected result %q changed=%v", got, changed)
	}
}
