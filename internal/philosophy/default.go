package philosophy

import (
	_ "embed"
	"fmt"
)

// genealogyJSON is the built-in document, derived from Nietzsche's
// On the Genealogy of Morality.
//
//go:embed genealogy.json
var genealogyJSON []byte

// Default returns the built-in Genealogy of Morality document. The embedded
// artifact is validated on every call; a freshly parsed copy is returned so
// callers can never alias each other's document.
func Default() *Document {
	doc, err := Parse(genealogyJSON)
	if err != nil {
		// The embedded document is validated by tests; reaching this means
		// the binary itself is broken.
		panic(fmt.Sprintf("embedded philosophy document invalid: %v", err))
	}
	return doc
}
