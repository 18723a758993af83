// Package translation provides the word translation oracles used by a
// gradual translation run: OpenAI and Gemini chat models, a static
// dictionary, and decorators adding retries and a circuit breaker.
// Failures surface as TranslationError values through Lookup.
package translation
