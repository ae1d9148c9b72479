package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Harbor loft", "Harbor loft"},
		{"surrounding whitespace", "  Harbor loft  ", "Harbor loft"},
		{"collapsed runs", "Harbor \t\n  loft", "Harbor loft"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeCity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tel Aviv", "telaviv"},
		{"  HAIFA ", "haifa"},
		{"New-York", "newyork"},
		{"São Paulo", "sãopaulo"},
		{"123", ""},
	}

	for _, tt := range tests {
		if got := SanitizeCity(tt.input); got != tt.want {
			t.Errorf("SanitizeCity(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeUserIDs(t *testing.T) {
	in := []string{" user-1 ", "user-2", "", "user-1", "  "}
	want := []string{"user-1", "user-2"}

	if got := SanitizeUserIDs(in); !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeUserIDs(%v) = %v, want %v", in, got, want)
	}
}

func TestSanitizeLeaseTerms(t *testing.T) {
	in := []int{12, 0, 6, -3, 12, 6}
	want := []int{12, 6}

	if got := SanitizeLeaseTerms(in); !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeLeaseTerms(%v) = %v, want %v", in, got, want)
	}
}

func TestPipeline_OrderMatters(t *testing.T) {
	upper := Pipeline{TrimAndNormalize, func(s string) string { return s + "!" }}
	if got := upper.Apply("  hi  "); got != "hi!" {
		t.Errorf("Pipeline.Apply = %q, want %q", got, "hi!")
	}
}
