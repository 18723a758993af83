// Package processor contains the application logic for translating books.
// It reads an EPUB, builds the translation oracle from the command-line
// configuration, runs the gradual translation, writes the new book and
// exports the learned vocabulary. Batch mode runs several books as isolated
// translations. This package is the coordinator between all other components.
package processor
