// Package diff compares two philosophy documents so edits can be reviewed
// before adoption.
package diff

import (
	"encoding/json"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/aryanagarwal/guide/internal/philosophy"
)

// canonical renders a document in a stable form: indented JSON with map keys
// sorted, so two semantically equal documents diff to nothing.
func canonical(doc *philosophy.Document) (string, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("canonicalizing document: %w", err)
	}
	return string(b) + "\n", nil
}

// Documents returns the patch text between two documents in diff-match-patch
// format, or "" when they are semantically identical.
func Documents(a, b *philosophy.Document) (string, error) {
	ca, err := canonical(a)
	if err != nil {
		return "", err
	}
	cb, err := canonical(b)
	if err != nil {
		return "", err
	}
	if ca == cb {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(ca, cb, false)
	patches := dmp.PatchMake(ca, diffs)
	return dmp.PatchToText(patches), nil
}

// Pretty returns a human-readable colored diff between two documents, or ""
// when they are identical. Intended for terminal output.
func Pretty(a, b *philosophy.Document) (string, error) {
	ca, err := canonical(a)
	if err != nil {
		return "", err
	}
	cb, err := canonical(b)
	if err != nil {
		return "", err
	}
	if ca == cb {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(ca, cb, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs), nil
}
