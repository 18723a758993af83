// Package models lists the OpenAI models that can serve as the translation
// oracle, so users can pick one for --model with their API key.
package models
