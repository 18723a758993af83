package substitute

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"

	"codeberg.org/snonux/gradualbook/internal/vocab"
)

// mapLookup is a fixed vocabulary keyed by canonical word.
type mapLookup map[string]string

func (m mapLookup) Lookup(canonical string) (string, bool) {
	tr, ok := m[canonical]
	return tr, ok
}

func TestApplyCaseRestoration(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"light": "ljós"}

	got := s.Apply("Light the light. LIGHT!", v)
	want := "Ljós the ljós. LJÓS!"
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestApplyTranslationCasingIsNormalized(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"iceland": "ÍSLAND", "post": "Pósthús stöð"}

	tests := []struct {
		text string
		want string
	}{
		{"iceland", "ísland"},
		{"Iceland", "Ísland"},
		{"ICELAND", "ÍSLAND"},
		{"Post", "Pósthús stöð"},
		{"post", "pósthús stöð"},
	}
	for _, tt := range tests {
		if got := s.Apply(tt.text, v); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestApplySpecialCasing(t *testing.T) {
	tests := []struct {
		name        string
		word        string
		translation string
		text        string
		want        string
	}{
		{
			name:        "greek final sigma",
			word:        "καιρος",
			translation: "weather",
			text:        "καιρος, ΚΑΙΡΟΣ! Καιρος.",
			want:        "weather, WEATHER! Weather.",
		},
		{
			name:        "german sharp s",
			word:        "straße",
			translation: "street",
			text:        "STRASSE Straße strasse",
			want:        "STREET Street street",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vocab.New(10)
			if err := v.Add(tt.word, tt.translation, 0); err != nil {
				t.Fatalf("Add() failed: %v", err)
			}

			if got := New(language.English).Apply(tt.text, v); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestApplyPunctuation(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"house": "hús"}

	tests := []struct {
		text string
		want string
	}{
		{"(house),", "(hús),"},
		{`"House!"`, `"Hús!"`},
		{"«house»", "«hús»"},
		{"house-", "hús-"},
		{"...house...", "...hús..."},
	}
	for _, tt := range tests {
		if got := s.Apply(tt.text, v); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestApplyWholeWordOnly(t *testing.T) {
	s := New(language.English)
	v := mapLookup{"don": "X", "cat": "köttur", "house": "hús"}

	tests := []struct {
		text string
		want string
	}{
		{"don't", "don't"},
		{"don", "x"},
		{"cats concatenate", "cats concatenate"},
		{"cat's", "cat's"},
		{"house-boat", "house-boat"},
		{"a cat_house", "a köttur_hús"},
	}
	for _, tt := range tests {
		if got := s.Apply(tt.text, v); got != tt.want {
			t.Errorf("Apply(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestApplyLeavesUnknownWordsAlone(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"light": "ljós"}

	text := "McDonald's iPhone NASA"
	if got := s.Apply(text, v); got != text {
		t.Errorf("Apply() = %q, want unchanged %q", got, text)
	}
}

func TestApplyIdempotent(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"light": "ljós", "house": "hús", "the": "það"}

	texts := []string{
		"Light the Light. LIGHT!",
		"(house), the house's light",
		"",
		"Nothing to see here.",
	}
	for _, text := range texts {
		once := s.Apply(text, v)
		twice := s.Apply(once, v)
		if once != twice {
			t.Errorf("Apply not idempotent for %q: %q then %q", text, once, twice)
		}
	}
}

func TestApplyFrom(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"cat": "köttur"}

	segments := []string{"cat one", "cat two", "Cat three", "cat four"}
	s.ApplyFrom(segments, 2, v)

	want := []string{"cat one", "cat two", "Köttur three", "köttur four"}
	if !reflect.DeepEqual(segments, want) {
		t.Errorf("ApplyFrom() = %v, want %v", segments, want)
	}
}

func TestApplyRangeClamps(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"cat": "köttur"}

	segments := []string{"cat", "cat", "cat"}
	s.ApplyRange(segments, -5, 1, v)
	s.ApplyRange(segments, 2, 99, v)

	want := []string{"köttur", "cat", "köttur"}
	if !reflect.DeepEqual(segments, want) {
		t.Errorf("ApplyRange() = %v, want %v", segments, want)
	}
}

func TestApplyDeterministic(t *testing.T) {
	s := New(language.Icelandic)
	v := mapLookup{"light": "ljós"}

	first := s.Apply("Light, light and LIGHT", v)
	for i := 0; i < 5; i++ {
		if got := s.Apply("Light, light and LIGHT", v); got != first {
			t.Fatalf("Apply() result changed: %q vs %q", got, first)
		}
	}
}
