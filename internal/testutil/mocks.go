package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MockOracle mocks the translation service
type MockOracle struct {
	Translations map[string]string
	Errors       map[string]error

	// Language is returned by DetectLanguage unless DetectErr is set.
	Language  string
	DetectErr error

	mu    sync.Mutex
	calls []string
}

// Translate mocks translating one word
func (m *MockOracle) Translate(ctx context.Context, word, fromLang, toLang string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, word)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err, ok := m.Errors[word]; ok {
		return "", err
	}

	if translation, ok := m.Translations[word]; ok {
		return translation, nil
	}

	// Default mock translation, a single token that never occurs in fixtures
	return "x" + word + "x", nil
}

// DetectLanguage mocks language detection
func (m *MockOracle) DetectLanguage(ctx context.Context, sample string) (string, error) {
	if m.DetectErr != nil {
		return "", m.DetectErr
	}
	if m.Language == "" {
		return "", fmt.Errorf("mock: no language configured")
	}
	return m.Language, nil
}

// Calls returns the looked up words in call order.
func (m *MockOracle) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how often word was looked up.
func (m *MockOracle) CallCount(word string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == word {
			n++
		}
	}
	return n
}
