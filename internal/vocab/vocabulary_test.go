package vocab

import (
	"errors"
	"reflect"
	"testing"
)

func TestVocabularyAdd(t *testing.T) {
	v := New(10)

	if err := v.Add("Light", "ljós", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	translation, ok := v.Lookup("light")
	if !ok || translation != "ljós" {
		t.Errorf("Lookup(light) = %q, %v; want ljós, true", translation, ok)
	}

	if _, ok := v.Lookup("Light"); ok {
		t.Error("Lookup must only match canonical keys")
	}

	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
}

func TestVocabularyCaseFolding(t *testing.T) {
	tests := []struct {
		learned string
		variant string
	}{
		{"καιρος", "ΚΑΙΡΟΣ"},
		{"straße", "STRASSE"},
	}

	for _, tt := range tests {
		t.Run(tt.learned, func(t *testing.T) {
			v := New(10)
			if err := v.Add(tt.learned, "x", 0); err != nil {
				t.Fatalf("Add() error = %v", err)
			}

			if _, ok := v.Lookup(Canonical(tt.variant)); !ok {
				t.Errorf("Lookup(Canonical(%q)) found nothing", tt.variant)
			}
			if err := v.Add(tt.variant, "y", 1); !errors.Is(err, ErrDuplicate) {
				t.Errorf("Add(%q) error = %v, want ErrDuplicate", tt.variant, err)
			}
			if !v.Seen().Contains(Canonical(tt.variant)) {
				t.Errorf("Seen().Contains(%q) = false", Canonical(tt.variant))
			}
		})
	}
}

func TestVocabularySeenInvariant(t *testing.T) {
	v := New(10)
	if err := v.Add("house", "Hús", 3); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	for _, form := range []string{"house", "House", "Hús", "hús"} {
		if !v.Seen().Contains(form) {
			t.Errorf("seen set missing %q", form)
		}
	}
}

func TestVocabularyBudget(t *testing.T) {
	v := New(2)
	words := []struct{ word, translation string }{
		{"cat", "köttur"},
		{"dog", "hundur"},
		{"bird", "fugl"},
	}

	var lastErr error
	for _, w := range words {
		lastErr = v.Add(w.word, w.translation, 0)
	}

	if !errors.Is(lastErr, ErrBudgetExhausted) {
		t.Errorf("third Add() error = %v, want ErrBudgetExhausted", lastErr)
	}
	if v.Len() != 2 {
		t.Errorf("Len() = %d, want 2", v.Len())
	}
	if !v.Full() {
		t.Error("Full() = false, want true")
	}
}

func TestVocabularyRejects(t *testing.T) {
	tests := []struct {
		name        string
		setup       [][2]string
		word        string
		translation string
		wantErr     error
	}{
		{"empty word", nil, "...", "x", ErrEmpty},
		{"blank translation", nil, "cat", "  ", ErrEmpty},
		{"duplicate", [][2]string{{"cat", "köttur"}}, "Cat", "kisa", ErrDuplicate},
		{"translation repeats source", nil, "light", "light bulb", ErrCollision},
		{"translation contains key", [][2]string{{"post", "póstur"}}, "mail", "post office", ErrCollision},
		{"key inside earlier translation", [][2]string{{"mail", "post office"}}, "office", "skrifstofa", ErrCollision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(10)
			for _, s := range tt.setup {
				if err := v.Add(s[0], s[1], 0); err != nil {
					t.Fatalf("setup Add(%q) error = %v", s[0], err)
				}
			}
			before := v.Len()

			err := v.Add(tt.word, tt.translation, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add(%q, %q) error = %v, want %v", tt.word, tt.translation, err, tt.wantErr)
			}
			if v.Len() != before {
				t.Errorf("rejected Add changed Len from %d to %d", before, v.Len())
			}
		})
	}
}

func TestVocabularyIdentityTranslation(t *testing.T) {
	v := New(10)
	if err := v.Add("OK", "ok", 0); err != nil {
		t.Errorf("identity translation rejected: %v", err)
	}
}

func TestVocabularyEntries(t *testing.T) {
	v := New(10)
	v.Add("cat", "köttur", 0)
	v.Add("dog", "hundur", 3)

	want := []Entry{
		{Word: "cat", Translation: "köttur", Segment: 0},
		{Word: "dog", Translation: "hundur", Segment: 3},
	}
	got := v.Entries()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	// Modifying the returned slice must not affect the vocabulary
	got[0].Translation = "modified"
	if tr, _ := v.Lookup("cat"); tr != "köttur" {
		t.Error("vocabulary was modified through Entries()")
	}
}
