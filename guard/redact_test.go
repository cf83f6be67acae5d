package guard

import (
	"strings"
	"testing"
)

func TestRedactCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := NewRedactor([]string{"hunter2", "Project Phoenix"})
	got, changed := r.RedactString("password is HUNTER2, repeat hunter2; project phoenix ships soon")
	if !changed {
		t.Fatalf("RedactString() changed = false, want true")
	}
	if strings.Contains(strings.ToLower(got), "hunter2") {
		t.Fatalf("raw secret survived: %q", got)
	}
	if strings.Count(got, RedactionMarker) != 3 {
		t.Fatalf("marker count = %d, want 3: %q", strings.Count(got, RedactionMarker), got)
	}
}

func TestRedactNoTerms(t *testing.T) {
	t.Parallel()

	r := NewRedactor(nil)
	got, changed := r.RedactString("anything goes")
	if changed || got != "anything goes" {
		t.Fatalf("RedactString() = %q, %v", got, changed)
	}
}

func TestRedactQuotesMetaCharacters(t *testing.T) {
	t.Parallel()

	r := NewRedactor([]string{"a.b(c)"})
	got, changed := r.RedactString("token a.b(c) here, but not aXb(c)")
	if !changed {
		t.Fatalf("RedactString() changed = false, want true")
	}
	if got != "token "+RedactionMarker+" here, but not aXb(c)" {
		t.Fatalf("RedactString() = %q", got)
	}
}
