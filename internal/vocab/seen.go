package vocab

// SeenSet holds word forms that must not be selected for translation again:
// learned source words, their translations and words given up on.
type SeenSet struct {
	forms map[string]struct{}
}

// NewSeenSet creates an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{forms: make(map[string]struct{})}
}

// Add records a form together with its first-letter case flip.
func (s *SeenSet) Add(form string) {
	if form == "" {
		return
	}
	s.forms[form] = struct{}{}
	s.forms[FlipFirst(form)] = struct{}{}
}

// AddWord records a word or phrase as typed, its canonical form and every
// word it contains, so that none of them becomes a candidate later.
func (s *SeenSet) AddWord(word string) {
	s.Add(word)
	s.Add(Canonical(word))
	for _, w := range Words(word) {
		s.Add(w)
	}
}

// Contains reports whether form has been seen.
func (s *SeenSet) Contains(form string) bool {
	_, ok := s.forms[form]
	return ok
}

// Len returns the number of stored forms.
func (s *SeenSet) Len() int {
	return len(s.forms)
}
