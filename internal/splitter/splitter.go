// Package splitter divides a raw content file into its bundled sub-documents.
package splitter

import "strings"

// DefaultMarker is the separator line between bundled sub-documents.
const DefaultMarker = "%%%"

// Splitter splits file content on a separator marker line.
type Splitter struct {
	marker string
}

// New creates a Splitter for the given marker line. An empty marker selects
// DefaultMarker.
func New(marker string) *Splitter {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Splitter{marker: marker}
}

// Split returns the sub-documents of content, in file order. Every line
// consisting solely of the marker (ignoring a trailing CR) starts a new
// fragment. When no marker is present the whole input is returned as a
// single fragment. Empty fragments produced by a marker at the very start
// or end of the file are discarded. Split never fails.
func (s *Splitter) Split(content string) []string {
	lines := strings.Split(content, "\n")

	var frags []string
	var cur []string
	for _, line := range lines {
		if strings.TrimRight(line, "\r") == s.marker {
			frags = append(frags, strings.Join(cur, "\n"))
			cur = nil
			continue
		}
		cur = append(cur, line)
	}
	frags = append(frags, strings.Join(cur, "\n"))

	if len(frags) > 0 && strings.TrimSpace(frags[0]) == "" {
		frags = frags[1:]
	}
	if len(frags) > 0 && strings.TrimSpace(frags[len(frags)-1]) == "" {
		frags = frags[:len(frags)-1]
	}
	return frags
}
